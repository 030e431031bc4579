package threeds

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// chunkBuilder assembles a nested 3DS chunk bottom-up: child chunks are
// built first (their total length already known) and appended to the
// parent's body before the parent's own 6-byte header is finalized.
type chunkBuilder struct {
	id   uint16
	body bytes.Buffer
}

func newChunk(id uint16) *chunkBuilder { return &chunkBuilder{id: id} }

func (c *chunkBuilder) u16(v uint16) *chunkBuilder {
	binary.Write(&c.body, binary.LittleEndian, v)
	return c
}

func (c *chunkBuilder) u32(v uint32) *chunkBuilder {
	binary.Write(&c.body, binary.LittleEndian, v)
	return c
}

func (c *chunkBuilder) f32(v float32) *chunkBuilder {
	binary.Write(&c.body, binary.LittleEndian, v)
	return c
}

func (c *chunkBuilder) u8(v uint8) *chunkBuilder {
	c.body.WriteByte(v)
	return c
}

func (c *chunkBuilder) cstring(s string) *chunkBuilder {
	c.body.WriteString(s)
	c.body.WriteByte(0)
	return c
}

func (c *chunkBuilder) child(child *chunkBuilder) *chunkBuilder {
	c.body.Write(child.bytes())
	return c
}

func (c *chunkBuilder) bytes() []byte {
	var out bytes.Buffer
	binary.Write(&out, binary.LittleEndian, c.id)
	binary.Write(&out, binary.LittleEndian, uint32(6+c.body.Len()))
	out.Write(c.body.Bytes())
	return out.Bytes()
}

func buildTestScene(t *testing.T) string {
	t.Helper()

	diffuse := newChunk(chunkColor24).u8(255).u8(0).u8(0)
	matDiffuse := newChunk(chunkMatDiffuse).child(diffuse)
	matName := newChunk(chunkMatName)
	matName.cstring("red")
	matEntry := newChunk(chunkMaterialBlock).child(matName).child(matDiffuse)

	vertexList := newChunk(chunkVertexList).
		u16(3).
		f32(0).f32(0).f32(0).
		f32(1).f32(0).f32(0).
		f32(0).f32(1).f32(0)

	matGroup := newChunk(chunkFaceMaterial)
	matGroup.cstring("red")
	matGroup.u16(1).u16(0)

	smoothGroup := newChunk(chunkSmoothGroup).u32(1)

	faceList := newChunk(chunkFaceList).
		u16(1).
		u16(0).u16(1).u16(2).u16(0). // face 0: verts 0,1,2, edge flag 0
		child(matGroup).
		child(smoothGroup)

	triMesh := newChunk(chunkTriMesh).child(vertexList).child(faceList)

	objBlock := newChunk(chunkObjectBlock)
	objBlock.cstring("Box")
	objBlock.child(triMesh)

	editor := newChunk(chunkEditor).child(matEntry).child(objBlock)
	main := newChunk(chunkMain).child(editor)

	path := filepath.Join(t.TempDir(), "scene.3ds")
	if err := os.WriteFile(path, main.bytes(), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestSingleTriangleSmoke(t *testing.T) {
	path := buildTestScene(t)

	l, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := l.SetFile(path); err != nil {
		t.Fatalf("SetFile: %v", err)
	}
	if !l.IsValidFile() {
		t.Fatal("IsValidFile = false, want true")
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
	if c.Material == nil || c.Material.Name != "red" {
		t.Errorf("Material = %+v, want red", c.Material)
	}
	if c.Material.Diffuse.R != 255 || c.Material.Diffuse.G != 0 {
		t.Errorf("Diffuse = %+v, want {255 0 0}", c.Material.Diffuse)
	}
	if len(c.Normals) != len(c.Vertices) {
		t.Fatalf("len(Normals) = %d, want %d", len(c.Normals), len(c.Vertices))
	}
	// All three corners share smoothing group 1, so their normals must be
	// identical (the averaged, smoothed normal — here equal to the single
	// face's own flat normal since there is nothing else to average with).
	nx, ny, nz := c.Normals[0], c.Normals[1], c.Normals[2]
	for i := 3; i < len(c.Normals); i += 3 {
		if c.Normals[i] != nx || c.Normals[i+1] != ny || c.Normals[i+2] != nz {
			t.Errorf("corner normals differ within one smoothing group: %v", c.Normals)
		}
	}
	length := math.Sqrt(float64(nx*nx + ny*ny + nz*nz))
	if math.Abs(length-1) > 1e-4 {
		t.Errorf("normal not unit length: %v (len=%f)", []float32{nx, ny, nz}, length)
	}
}

func TestFlatShadingFallback(t *testing.T) {
	vertexList := newChunk(chunkVertexList).
		u16(4).
		f32(0).f32(0).f32(0).
		f32(1).f32(0).f32(0).
		f32(1).f32(1).f32(0).
		f32(0).f32(1).f32(0)

	// Two faces, smoothing group 0 on both: each must get its own flat
	// normal even though they share two vertices, since group 0 means "no
	// smoothing" per the decided Open Question.
	faceList := newChunk(chunkFaceList).
		u16(2).
		u16(0).u16(1).u16(2).u16(0).
		u16(0).u16(2).u16(3).u16(0)

	triMesh := newChunk(chunkTriMesh).child(vertexList).child(faceList)
	objBlock := newChunk(chunkObjectBlock)
	objBlock.cstring("Quad")
	objBlock.child(triMesh)
	editor := newChunk(chunkEditor).child(objBlock)
	main := newChunk(chunkMain).child(editor)

	path := filepath.Join(t.TempDir(), "quad.3ds")
	if err := os.WriteFile(path, main.bytes(), 0o644); err != nil {
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
	c, err := it.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if c.VertexCount() != 6 {
		t.Fatalf("VertexCount = %d, want 6 (no chunk-local reuse across flat faces)", c.VertexCount())
	}
}
