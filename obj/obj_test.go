package obj

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-mesh/meshio/loader"
	"github.com/go-mesh/meshio/mesh"
)

func TestTriangleSmoke(t *testing.T) {
	src := `# a triangle
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1
`
	path := filepath.Join(t.TempDir(), "tri.obj")
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
	if c.Indices[0] != 0 || c.Indices[1] != 1 || c.Indices[2] != 2 {
		t.Errorf("Indices = %v, want [0 1 2] (plain fan winding, no reversal)", c.Indices)
	}
	if len(c.Normals) != len(c.Vertices) {
		t.Errorf("len(Normals) = %d, want %d", len(c.Normals), len(c.Vertices))
	}
}

func TestQuadFanTriangulation(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`
	path := filepath.Join(t.TempDir(), "quad.obj")
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
	c, err := it.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if c.VertexCount() != 4 {
		t.Errorf("VertexCount = %d, want 4", c.VertexCount())
	}
	want := []int32{0, 1, 2, 0, 2, 3}
	if len(c.Indices) != len(want) {
		t.Fatalf("len(Indices) = %d, want %d", len(c.Indices), len(want))
	}
	for i, v := range want {
		if c.Indices[i] != v {
			t.Errorf("Indices[%d] = %d, want %d", i, c.Indices[i], v)
		}
	}
}

// materialListener implements loader.MaterialLoaderRequester and
// loader.TextureValidator for TestMaterialBoundaryFlush.
type materialListener struct {
	loader.NopListener
	dir string
}

func (m *materialListener) OnMaterialLoaderRequested(l loader.Loader, mtlPath string) (loader.MaterialLoader, error) {
	return NewMaterialLoader(mtlPath, m, l), nil
}

func (m *materialListener) OnValidateTexture(l loader.Loader, tex *mesh.Texture) bool {
	return true
}

func TestMaterialBoundaryFlush(t *testing.T) {
	dir := t.TempDir()
	mtlSrc := `newmtl red
Kd 1 0 0
Ns 10
map_Kd red.png

newmtl green
Kd 0 1 0
d 0.5
`
	if err := os.WriteFile(filepath.Join(dir, "materials.mtl"), []byte(mtlSrc), 0o644); err != nil {
		t.Fatalf("write mtl: %v", err)
	}
	objSrc := `mtllib materials.mtl
v 0 0 0
v 1 0 0
v 0 1 0
v 1 1 0
usemtl red
f 1 2 3
usemtl green
f 2 4 3
`
	objPath := filepath.Join(dir, "scene.obj")
	if err := os.WriteFile(objPath, []byte(objSrc), 0o644); err != nil {
		t.Fatalf("write obj: %v", err)
	}

	l, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.SetListener(&materialListener{dir: dir})
	if err := l.SetFile(objPath); err != nil {
		t.Fatalf("SetFile: %v", err)
	}
	it, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var chunks []*mesh.DataChunk
	for it.HasNext() {
		c, err := it.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		chunks = append(chunks, c)
	}
	if len(chunks) != 2 {
		t.Fatalf("len(chunks) = %d, want 2 (one per material)", len(chunks))
	}
	if chunks[0].Material == nil || chunks[0].Material.Name != "red" {
		t.Errorf("chunks[0].Material = %+v, want red", chunks[0].Material)
	}
	if chunks[0].Material.Diffuse.R != 255 || chunks[0].Material.Diffuse.G != 0 {
		t.Errorf("red diffuse = %+v, want {255 0 0}", chunks[0].Material.Diffuse)
	}
	if chunks[0].Material.TextureDiffuse == nil || chunks[0].Material.TextureDiffuse.Path != "red.png" {
		t.Errorf("red TextureDiffuse = %+v, want path red.png", chunks[0].Material.TextureDiffuse)
	}
	if !chunks[0].Material.TextureDiffuse.Valid {
		t.Error("red TextureDiffuse.Valid = false, want true")
	}
	if chunks[1].Material == nil || chunks[1].Material.Name != "green" {
		t.Errorf("chunks[1].Material = %+v, want green", chunks[1].Material)
	}
	if chunks[1].Material.Transparency != 127 {
		t.Errorf("green Transparency = %d, want 127 (0.5 scaled to 0-255)", chunks[1].Material.Transparency)
	}
}

func TestNegativeFaceIndices(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`
	path := filepath.Join(t.TempDir(), "neg.obj")
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
	c, err := it.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if c.VertexCount() != 3 {
		t.Errorf("VertexCount = %d, want 3", c.VertexCount())
	}
}
