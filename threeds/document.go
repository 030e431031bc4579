package threeds

import (
	"github.com/go-mesh/meshio/internal/ioreader"
	"github.com/go-mesh/meshio/loader"
	"github.com/go-mesh/meshio/mesh"
)

// faceRec is one TRI_FACEL1 triangle: its three vertex indices into the
// owning object's vertex list, the material name assigned via a nested
// MSH_MAT_GROUP sub-chunk (empty if none), and its smoothing group bitmask
// from a nested SMOOTH_GROUP sub-chunk (0 means unsmoothed/flat).
type faceRec struct {
	indices     [3]uint16
	matName     string
	smoothGroup uint32
}

// object is one EDIT_OBJECT / OBJ_TRIMESH's parsed geometry.
type object struct {
	name      string
	vertices  [][3]float32
	texcoords [][2]float32
	faces     []faceRec
}

// localFrame is a TRI_LOCAL (0x4160) chunk: the object's local coordinate
// system as three basis vectors plus an origin, all in world space.
type localFrame struct {
	x, y, z, origin [3]float32
}

// apply maps a vertex given in the object's local coordinates into world
// space: v's components become coefficients along the frame's basis
// vectors, offset by the frame's origin.
func (f *localFrame) apply(v [3]float32) [3]float32 {
	return [3]float32{
		f.origin[0] + v[0]*f.x[0] + v[1]*f.y[0] + v[2]*f.z[0],
		f.origin[1] + v[0]*f.x[1] + v[1]*f.y[1] + v[2]*f.z[1],
		f.origin[2] + v[0]*f.x[2] + v[1]*f.y[2] + v[2]*f.z[2],
	}
}

// document is the fully parsed 3DS scene: every object's mesh data plus
// the material library collected from the editor chunk's MAT_ENTRY blocks.
type document struct {
	objects   []*object
	materials map[string]*mesh.Material
}

// parse3DS walks the MAIN3DS root chunk and everything beneath it.
func parse3DS(r ioreader.Reader, size int64) (*document, error) {
	root, err := readChunkHeader(r)
	if err != nil {
		return nil, err
	}
	if root.id != chunkMain {
		return nil, loader.New(loader.Malformed, "not a 3ds file: missing MAIN3DS chunk")
	}
	if root.end > size {
		root.end = size
	}

	doc := &document{materials: make(map[string]*mesh.Material)}
	nextMatID := 0

	err = walkChunks(r, root.end, func(h chunkHeader) error {
		if h.id != chunkEditor {
			return nil
		}
		return walkChunks(r, h.end, func(eh chunkHeader) error {
			switch eh.id {
			case chunkMaterialBlock:
				mat, err := parseMaterialBlock(r, eh.end, nextMatID)
				if err != nil {
					return err
				}
				nextMatID++
				doc.materials[mat.Name] = mat
			case chunkObjectBlock:
				obj, err := parseObjectBlock(r, eh.end)
				if err != nil {
					return err
				}
				if obj != nil {
					doc.objects = append(doc.objects, obj)
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// parseObjectBlock reads an EDIT_OBJECT chunk: a NUL-terminated name
// followed by nested chunks, of which only OBJ_TRIMESH carries geometry
// (camera/light/spotlight object blocks are skipped by returning nil).
func parseObjectBlock(r ioreader.Reader, end int64) (*object, error) {
	name, err := readCString(r, end)
	if err != nil {
		return nil, err
	}

	var obj *object
	err = walkChunks(r, end, func(h chunkHeader) error {
		if h.id != chunkTriMesh {
			return nil
		}
		o, err := parseTriMesh(r, h.end)
		if err != nil {
			return err
		}
		o.name = name
		obj = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// parseTriMesh reads an OBJ_TRIMESH chunk's VERTEXL/FACEL1/MAPPINGCOORS
// children and, if present, TRI_LOCAL (the object's local coordinate
// frame), which is applied to every vertex once the whole chunk has been
// read — chunk order across writers isn't guaranteed, so the frame may
// arrive before or after VERTEXLIST. Face/vertex normals are derived later
// from these same (already-transformed) vertex positions, so the frame's
// linear part reaches them automatically without a separate rotation step.
func parseTriMesh(r ioreader.Reader, end int64) (*object, error) {
	obj := &object{}
	var frame *localFrame
	err := walkChunks(r, end, func(h chunkHeader) error {
		switch h.id {
		case chunkVertexList:
			return readVertexList(r, obj)
		case chunkFaceList:
			return readFaceList(r, obj, h.end)
		case chunkMappingCoords:
			return readMappingCoords(r, obj)
		case chunkLocalCoords:
			f, err := readLocalFrame(r)
			if err != nil {
				return err
			}
			frame = f
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if frame != nil {
		for i, v := range obj.vertices {
			obj.vertices[i] = frame.apply(v)
		}
	}
	return obj, nil
}

// readLocalFrame reads a TRI_LOCAL chunk's body: X axis, Y axis, Z axis and
// origin, each 3 float32, in that order.
func readLocalFrame(r ioreader.Reader) (*localFrame, error) {
	read3 := func() ([3]float32, error) {
		var v [3]float32
		for i := range v {
			f, err := r.ReadFloat32()
			if err != nil {
				return v, wrapIO(err)
			}
			v[i] = f
		}
		return v, nil
	}
	x, err := read3()
	if err != nil {
		return nil, err
	}
	y, err := read3()
	if err != nil {
		return nil, err
	}
	z, err := read3()
	if err != nil {
		return nil, err
	}
	origin, err := read3()
	if err != nil {
		return nil, err
	}
	return &localFrame{x: x, y: y, z: z, origin: origin}, nil
}

func readVertexList(r ioreader.Reader, obj *object) error {
	count, err := r.ReadUint16()
	if err != nil {
		return wrapIO(err)
	}
	obj.vertices = make([][3]float32, count)
	for i := range obj.vertices {
		x, err := r.ReadFloat32()
		if err != nil {
			return wrapIO(err)
		}
		y, err := r.ReadFloat32()
		if err != nil {
			return wrapIO(err)
		}
		z, err := r.ReadFloat32()
		if err != nil {
			return wrapIO(err)
		}
		obj.vertices[i] = [3]float32{x, y, z}
	}
	return nil
}

func readMappingCoords(r ioreader.Reader, obj *object) error {
	count, err := r.ReadUint16()
	if err != nil {
		return wrapIO(err)
	}
	obj.texcoords = make([][2]float32, count)
	for i := range obj.texcoords {
		u, err := r.ReadFloat32()
		if err != nil {
			return wrapIO(err)
		}
		v, err := r.ReadFloat32()
		if err != nil {
			return wrapIO(err)
		}
		obj.texcoords[i] = [2]float32{u, v}
	}
	return nil
}

func readFaceList(r ioreader.Reader, obj *object, end int64) error {
	count, err := r.ReadUint16()
	if err != nil {
		return wrapIO(err)
	}
	obj.faces = make([]faceRec, count)
	for i := range obj.faces {
		var idx [3]uint16
		for k := 0; k < 3; k++ {
			v, err := r.ReadUint16()
			if err != nil {
				return wrapIO(err)
			}
			idx[k] = uint16(v)
		}
		// Edge-visibility flag: not modeled (no wireframe concept here).
		if _, err := r.ReadUint16(); err != nil {
			return wrapIO(err)
		}
		obj.faces[i].indices = idx
	}

	// Remaining bytes up to end are nested MSH_MAT_GROUP/SMOOTH_GROUP
	// sub-chunks describing the same face list just read.
	return walkChunks(r, end, func(h chunkHeader) error {
		switch h.id {
		case chunkFaceMaterial:
			return applyFaceMaterial(r, obj, h.end)
		case chunkSmoothGroup:
			return applySmoothGroups(r, obj)
		}
		return nil
	})
}

func applyFaceMaterial(r ioreader.Reader, obj *object, end int64) error {
	name, err := readCString(r, end)
	if err != nil {
		return err
	}
	count, err := r.ReadUint16()
	if err != nil {
		return wrapIO(err)
	}
	for i := 0; i < int(count); i++ {
		idx, err := r.ReadUint16()
		if err != nil {
			return wrapIO(err)
		}
		if int(idx) < len(obj.faces) {
			obj.faces[int(idx)].matName = name
		}
	}
	return nil
}

func applySmoothGroups(r ioreader.Reader, obj *object) error {
	for i := range obj.faces {
		g, err := r.ReadUint32()
		if err != nil {
			return wrapIO(err)
		}
		obj.faces[i].smoothGroup = uint32(g)
	}
	return nil
}
