package threeds

// Chunk identifiers for the subset of the Autodesk 3DS format this decoder
// understands. 3DS uses a fixed 2-byte id + 4-byte length header (the
// length includes the 6 header bytes) instead of EBML's variable-length
// integers, but the nested tagged-chunk walk is the same idiom as
// other_examples' Matroska/EBML reader.
const (
	chunkMain          uint16 = 0x4D4D
	chunkEditor        uint16 = 0x3D3D // EDIT3DS
	chunkObjectBlock   uint16 = 0x4000 // EDIT_OBJECT
	chunkTriMesh       uint16 = 0x4100 // OBJ_TRIMESH
	chunkVertexList    uint16 = 0x4110 // TRI_VERTEXL
	chunkFaceList      uint16 = 0x4120 // TRI_FACEL1
	chunkFaceMaterial  uint16 = 0x4130 // TRI_MATERIAL, nested under FaceList
	chunkMappingCoords uint16 = 0x4140 // TRI_MAPPINGCOORS
	chunkLocalCoords   uint16 = 0x4160 // TRI_LOCAL
	chunkSmoothGroup   uint16 = 0x4150 // TRI_SMOOTH

	chunkMaterialBlock  uint16 = 0xAFFF // MAT_ENTRY
	chunkMatName        uint16 = 0xA000
	chunkMatAmbient     uint16 = 0xA010
	chunkMatDiffuse     uint16 = 0xA020
	chunkMatSpecular    uint16 = 0xA030
	chunkMatShininess   uint16 = 0xA040
	chunkMatTransparent uint16 = 0xA050
	chunkMatTexmap      uint16 = 0xA200 // MAT_TEXMAP
	chunkMatMapname     uint16 = 0xA300

	chunkColor24     uint16 = 0x0011
	chunkLinColor24  uint16 = 0x0012
	chunkColorFloat  uint16 = 0x0010
	chunkLinColorF   uint16 = 0x0013
	chunkIntPercent  uint16 = 0x0030
	chunkFloatPerc   uint16 = 0x0031
	chunkKeyframer   uint16 = 0xB000 // KFDATA, skipped entirely: no geometry
)
