// Package codec implements this module's internal binary mesh format: a
// Writer that serializes any Loader's chunk stream, and a Loader that reads
// it back. Grounded on the index-then-payload container idiom in
// google-wuffs/lib/rac/chunk_writer.go (an explicit io.Writer field, a
// sticky first-error field, little-endian primitive helpers, one Close()
// that finalizes the stream) adapted to this format's simpler
// chunk-per-record layout (no page alignment, no hierarchical index: each
// chunk is self-contained and chunks are read back in file order).
package codec

const (
	magic   = "MESH_WRITER_BIN"
	version = 2
)

const (
	flagVertices uint16 = 1 << iota
	flagNormals
	flagTextureCoordinates
	flagColors
	flagIndices
	flagMaterial
)
