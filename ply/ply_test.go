package ply

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-mesh/meshio/internal/ioreader"
)

func TestHeaderStringifyReparseRoundTrip(t *testing.T) {
	h := &Header{
		Mode:    BinaryLittleEndian,
		Version: "1.0",
		Elements: []Element{
			{
				Name:  "vertex",
				Count: 8,
				Properties: []Property{
					{Name: "x", Type: Float32},
					{Name: "y", Type: Float32},
					{Name: "z", Type: Float32},
					{Name: "red", Type: Uint8},
					{Name: "green", Type: Uint8},
					{Name: "blue", Type: Uint8},
				},
			},
			{
				Name:  "face",
				Count: 6,
				Properties: []Property{
					{Name: "vertex_indices", IsList: true, CountType: Uint8, Type: Int32},
				},
			},
		},
	}

	text := h.String()
	reparsed, err := ParseHeader(ioreader.NewMemory([]byte(text)))
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if reparsed.Mode != h.Mode {
		t.Errorf("Mode = %v, want %v", reparsed.Mode, h.Mode)
	}
	if len(reparsed.Elements) != len(h.Elements) {
		t.Fatalf("Elements count = %d, want %d", len(reparsed.Elements), len(h.Elements))
	}
	for i, e := range h.Elements {
		got := reparsed.Elements[i]
		if got.Name != e.Name || got.Count != e.Count {
			t.Errorf("element %d = %+v, want %+v", i, got, e)
		}
		if len(got.Properties) != len(e.Properties) {
			t.Fatalf("element %d properties = %d, want %d", i, len(got.Properties), len(e.Properties))
		}
		for j, p := range e.Properties {
			gp := got.Properties[j]
			if gp.Name != p.Name || gp.Type != p.Type || gp.IsList != p.IsList || gp.CountType != p.CountType {
				t.Errorf("element %d property %d = %+v, want %+v", i, j, gp, p)
			}
		}
	}
}

func TestASCIISmoke(t *testing.T) {
	src := `ply
format ascii 1.0
element vertex 3
property float x
property float y
property float z
element face 1
property list uchar int vertex_indices
end_header
0 0 0
1 0 0
0 1 0
3 0 1 2
`
	path := filepath.Join(t.TempDir(), "smoke.ply")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	l, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := l.SetFile(path); err != nil {
		t.Fatalf("SetFile: %v", err)
	}
	it, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !it.HasNext() {
		t.Fatal("expected at least one chunk")
	}
	c, err := it.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if it.HasNext() {
		t.Error("expected exactly one chunk")
	}
	if c.VertexCount() != 3 {
		t.Errorf("VertexCount = %d, want 3", c.VertexCount())
	}
	if len(c.Indices) != 3 {
		t.Errorf("len(Indices) = %d, want 3", len(c.Indices))
	}
	min, max, avail := c.Bounds()
	if !avail {
		t.Fatal("bounds unavailable")
	}
	if min.X != 0 || min.Y != 0 || min.Z != 0 {
		t.Errorf("min = %+v, want {0,0,0}", min)
	}
	if max.X != 1 || max.Y != 1 || max.Z != 0 {
		t.Errorf("max = %+v, want {1,1,0}", max)
	}
}

// buildBinaryPLY writes a minimal binary PLY (3 vertices with integer-valued
// positions and RGB colors, 1 triangular face) in the requested byte order.
func buildBinaryPLY(t *testing.T, order binary.ByteOrder, formatName string) string {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("ply\n")
	buf.WriteString("format " + formatName + " 1.0\n")
	buf.WriteString("element vertex 3\n")
	buf.WriteString("property float x\nproperty float y\nproperty float z\n")
	buf.WriteString("property uchar red\nproperty uchar green\nproperty uchar blue\n")
	buf.WriteString("element face 1\n")
	buf.WriteString("property list uchar int vertex_indices\n")
	buf.WriteString("end_header\n")

	type vtx struct {
		x, y, z float32
		r, g, b uint8
	}
	verts := []vtx{
		{0, 0, 0, 255, 0, 0},
		{2, 0, 0, 0, 255, 0},
		{0, 2, 0, 0, 0, 255},
	}
	for _, v := range verts {
		binary.Write(&buf, order, v.x)
		binary.Write(&buf, order, v.y)
		binary.Write(&buf, order, v.z)
		buf.WriteByte(v.r)
		buf.WriteByte(v.g)
		buf.WriteByte(v.b)
	}
	buf.WriteByte(3)
	binary.Write(&buf, order, int32(0))
	binary.Write(&buf, order, int32(1))
	binary.Write(&buf, order, int32(2))

	path := filepath.Join(t.TempDir(), "binary-"+formatName+".ply")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestBinaryCrossEndianEquivalence(t *testing.T) {
	littlePath := buildBinaryPLY(t, binary.LittleEndian, "binary_little_endian")
	bigPath := buildBinaryPLY(t, binary.BigEndian, "binary_big_endian")

	little := loadSingleChunkVertices(t, littlePath)
	big := loadSingleChunkVertices(t, bigPath)

	if len(little.vertices) != len(big.vertices) {
		t.Fatalf("vertex count mismatch: %d vs %d", len(little.vertices), len(big.vertices))
	}
	for i := range little.vertices {
		if little.vertices[i] != big.vertices[i] {
			t.Errorf("vertex[%d] = %v, want bit-equal %v", i, little.vertices[i], big.vertices[i])
		}
	}
	if len(little.colors) != len(big.colors) {
		t.Fatalf("color count mismatch: %d vs %d", len(little.colors), len(big.colors))
	}
	for i := range little.colors {
		if little.colors[i] != big.colors[i] {
			t.Errorf("color[%d] = %v, want %v", i, little.colors[i], big.colors[i])
		}
	}
	if len(little.indices) != len(big.indices) {
		t.Fatalf("index count mismatch")
	}
	for i := range little.indices {
		if little.indices[i] != big.indices[i] {
			t.Errorf("index[%d] = %v, want %v", i, little.indices[i], big.indices[i])
		}
	}
}

type vertexSlices struct {
	vertices []float32
	colors   []uint8
	indices  []int32
}

func loadSingleChunkVertices(t *testing.T, path string) vertexSlices {
	t.Helper()
	l, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := l.SetFile(path); err != nil {
		t.Fatalf("SetFile: %v", err)
	}
	it, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c, err := it.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	return vertexSlices{vertices: c.Vertices, colors: c.Colors, indices: c.Indices}
}
