package stl

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-mesh/meshio/loader"
)

func writeTempFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.stl")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestASCIITwoTriangles(t *testing.T) {
	asciiSTL := `solid cube
  facet normal 0 0 -1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 1 1 0
    endloop
  endfacet
  facet normal 0 0 -1
    outer loop
      vertex 0 0 0
      vertex 1 1 0
      vertex 0 1 0
    endloop
  endfacet
endsolid cube`

	path := writeTempFile(t, []byte(asciiSTL))
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

	var totalTris, totalVerts int
	for it.HasNext() {
		c, err := it.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		totalTris += len(c.Indices) / 3
		totalVerts += c.VertexCount()
	}

	if totalTris != 2 {
		t.Errorf("triangles = %d, want 2", totalTris)
	}
	// Spec: STL produces fresh, undeduplicated vertices per triangle.
	if totalVerts != 6 {
		t.Errorf("vertices = %d, want 6 (no dedup)", totalVerts)
	}
	if l.Name() != "cube" {
		t.Errorf("Name = %q, want %q", l.Name(), "cube")
	}
}

func TestBinaryOneTriangle(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(make([]byte, 80))
	binary.Write(&buf, binary.LittleEndian, uint32(1))
	binary.Write(&buf, binary.LittleEndian, [3]float32{0, 0, 1})
	binary.Write(&buf, binary.LittleEndian, [3]float32{0, 0, 0})
	binary.Write(&buf, binary.LittleEndian, [3]float32{1, 0, 0})
	binary.Write(&buf, binary.LittleEndian, [3]float32{0, 1, 0})
	binary.Write(&buf, binary.LittleEndian, uint16(0))

	path := writeTempFile(t, buf.Bytes())
	l, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := l.SetFile(path); err != nil {
		t.Fatalf("SetFile: %v", err)
	}
	if !l.IsValidFile() {
		t.Fatalf("IsValidFile = false for binary STL")
	}
	it, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c, err := it.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if c.VertexCount() != 3 {
		t.Errorf("VertexCount = %d, want 3", c.VertexCount())
	}
	min, max, avail := c.Bounds()
	if !avail {
		t.Fatal("bounds not available on populated chunk")
	}
	if min.X != 0 || max.X != 1 {
		t.Errorf("bbox X = [%v,%v], want [0,1]", min.X, max.X)
	}
	if it.HasNext() {
		t.Error("expected exactly one chunk")
	}
}

func TestMaxVerticesInChunkSplitsTriangles(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(make([]byte, 80))
	binary.Write(&buf, binary.LittleEndian, uint32(4))
	for i := 0; i < 4; i++ {
		binary.Write(&buf, binary.LittleEndian, [3]float32{0, 0, 1})
		binary.Write(&buf, binary.LittleEndian, [3]float32{0, 0, 0})
		binary.Write(&buf, binary.LittleEndian, [3]float32{1, 0, 0})
		binary.Write(&buf, binary.LittleEndian, [3]float32{0, 1, 0})
		binary.Write(&buf, binary.LittleEndian, uint16(0))
	}

	path := writeTempFile(t, buf.Bytes())
	// 6 vertices per chunk == 2 triangles per chunk, so 4 triangles -> 2 chunks.
	l, err := New(loader.WithMaxVerticesInChunk(6))
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

	chunks := 0
	for it.HasNext() {
		c, err := it.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if c.VertexCount() > 6 {
			t.Errorf("chunk vertex count %d exceeds max 6", c.VertexCount())
		}
		chunks++
	}
	if chunks != 2 {
		t.Errorf("chunks = %d, want 2", chunks)
	}
}
