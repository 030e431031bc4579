package mesh

import "math"

// DataChunk is a bounded, self-contained unit of decoded mesh geometry.
// Every format decoder in this module (ply, obj, threeds, stl, gltf, codec)
// emits a stream of these; indices inside a chunk never reference vertices
// outside it.
type DataChunk struct {
	// Vertices holds (x,y,z) triples; len(Vertices) is always divisible by 3.
	Vertices []float32
	// Normals, when present, has the same length as Vertices.
	Normals []float32
	// TextureCoordinates holds (u,v) pairs; len is 2/3 of len(Vertices).
	TextureCoordinates []float32
	// Colors holds ColorComponents-wide unsigned 8-bit tuples, one per
	// vertex. ColorComponents is 3 (RGB) or 4 (RGBA).
	Colors          []uint8
	ColorComponents int
	// Indices holds triangle vertex references, each < VertexCount().
	Indices []int32

	// Material is an optional reference into the owning Loader's material
	// list. Chunks borrow, not own, materials — see Material.
	Material *Material

	bboxMin Point3
	bboxMax Point3
	empty   bool
}

// NewChunk returns an empty chunk with the bbox sentinel from §4.4: min at
// +Inf, max at -Inf, componentwise.
func NewChunk() *DataChunk {
	inf := float32(math.Inf(1))
	ninf := float32(math.Inf(-1))
	return &DataChunk{
		ColorComponents: 3,
		bboxMin:         Point3{inf, inf, inf},
		bboxMax:         Point3{ninf, ninf, ninf},
		empty:           true,
	}
}

// VertexCount returns the number of vertices currently held.
func (c *DataChunk) VertexCount() int { return len(c.Vertices) / 3 }

// AppendVertex appends one (x,y,z) position, updates the bounding box, and
// returns the new vertex's chunk-local index.
func (c *DataChunk) AppendVertex(x, y, z float32) int {
	idx := c.VertexCount()
	c.Vertices = append(c.Vertices, x, y, z)
	p := Point3{x, y, z}
	if c.empty {
		c.bboxMin, c.bboxMax = p, p
		c.empty = false
	} else {
		c.bboxMin = c.bboxMin.min(p)
		c.bboxMax = c.bboxMax.max(p)
	}
	return idx
}

// AppendNormal appends one (x,y,z) normal. Callers are responsible for
// keeping Normals aligned with Vertices one-for-one.
func (c *DataChunk) AppendNormal(x, y, z float32) {
	c.Normals = append(c.Normals, x, y, z)
}

// AppendTexCoord appends one (u,v) texture coordinate.
func (c *DataChunk) AppendTexCoord(u, v float32) {
	c.TextureCoordinates = append(c.TextureCoordinates, u, v)
}

// AppendColor appends one color tuple of ColorComponents bytes.
func (c *DataChunk) AppendColor(comps ...uint8) {
	c.Colors = append(c.Colors, comps...)
}

// AppendTriangle appends one triangle's three chunk-local vertex indices.
func (c *DataChunk) AppendTriangle(a, b, v int32) {
	c.Indices = append(c.Indices, a, b, v)
}

// Bounds returns the chunk's axis-aligned bounding box. isAvailable is a
// single flag that reports false when the chunk has no vertices, in which
// case min and max hold the sentinel +Inf/-Inf values.
func (c *DataChunk) Bounds() (min, max Point3, isAvailable bool) {
	return c.bboxMin, c.bboxMax, !c.empty
}

// IsEmpty reports whether the chunk has received any vertices yet.
func (c *DataChunk) IsEmpty() bool { return c.empty }

// VertexSource is a minimal read-only view of per-vertex attributes: a
// consumer that only needs to walk vertices does not need to import the
// rest of this package's surface.
type VertexSource interface {
	VertexCount() int
	VertexAt(i int) (x, y, z float32)
}

// BoundsSource is a minimal read-only view of a bounding box.
type BoundsSource interface {
	Bounds() (min, max Point3, isAvailable bool)
}

// VertexAt returns the position of vertex i. Implements VertexSource.
func (c *DataChunk) VertexAt(i int) (x, y, z float32) {
	return c.Vertices[i*3], c.Vertices[i*3+1], c.Vertices[i*3+2]
}

var (
	_ VertexSource = (*DataChunk)(nil)
	_ BoundsSource = (*DataChunk)(nil)
)
