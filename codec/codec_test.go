package codec

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-mesh/meshio/loader"
	"github.com/go-mesh/meshio/mesh"
)

// fakeLoader replays a fixed slice of chunks, just enough of loader.Loader
// to drive Writer.Encode in tests without needing a real format decoder.
type fakeLoader struct {
	chunks []*mesh.DataChunk
	idx    int
}

func (f *fakeLoader) MeshFormat() loader.Format    { return loader.FormatUnknown }
func (f *fakeLoader) HasFile() bool                { return true }
func (f *fakeLoader) IsReady() bool                { return true }
func (f *fakeLoader) IsLocked() bool                { return false }
func (f *fakeLoader) SetFile(string) error          { return nil }
func (f *fakeLoader) SetListener(loader.Listener)   {}
func (f *fakeLoader) IsValidFile() bool             { return true }
func (f *fakeLoader) Close() error                  { return nil }
func (f *fakeLoader) Load() (loader.Iterator, error) {
	return &fakeIterator{l: f}, nil
}

type fakeIterator struct{ l *fakeLoader }

func (it *fakeIterator) HasNext() bool { return it.l.idx < len(it.l.chunks) }
func (it *fakeIterator) Next() (*mesh.DataChunk, error) {
	c := it.l.chunks[it.l.idx]
	it.l.idx++
	return c, nil
}

var _ loader.Loader = (*fakeLoader)(nil)

func buildTriangleChunk(withMaterial bool) *mesh.DataChunk {
	c := mesh.NewChunk()
	c.AppendVertex(0, 0, 0)
	c.AppendVertex(1, 0, 0)
	c.AppendVertex(0, 1, 0)
	c.AppendNormal(0, 0, 1)
	c.AppendNormal(0, 0, 1)
	c.AppendNormal(0, 0, 1)
	c.AppendTexCoord(0, 0)
	c.AppendTexCoord(1, 0)
	c.AppendTexCoord(0, 1)
	c.AppendColor(255, 0, 0)
	c.AppendColor(0, 255, 0)
	c.AppendColor(0, 0, 255)
	c.AppendTriangle(0, 1, 2)
	if withMaterial {
		m := mesh.NewMaterial(7)
		m.Name = "red"
		m.Diffuse = mesh.Color3{R: 255, G: 10, B: 10}
		m.HasSpecularCoefficient = true
		m.SpecularCoefficient = 96
		m.Transparency = 200
		tex := mesh.NewTexture(0, "ignored.png")
		tex.Valid = true
		m.TextureDiffuse = tex
		c.Material = m
	}
	return c
}

type textureCapturingListener struct {
	received []string
}

func (l *textureCapturingListener) OnWriteStart(*Writer)                   {}
func (l *textureCapturingListener) OnWriteEnd(*Writer)                     {}
func (l *textureCapturingListener) OnWriteProgressChange(*Writer, float64) {}
func (l *textureCapturingListener) OnTextureReceived(w *Writer, id, width, height int) (io.Writer, string, error) {
	l.received = append(l.received, "tex")
	return nil, "tex.bin", nil
}

func TestRoundTripGeometryAndMaterial(t *testing.T) {
	src := &fakeLoader{chunks: []*mesh.DataChunk{
		buildTriangleChunk(true),
		buildTriangleChunk(false),
	}}

	path := filepath.Join(t.TempDir(), "out.bin")
	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	w.SetListener(&textureCapturingListener{})
	if err := w.Encode(src); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Writer.Close: %v", err)
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

	var got []*mesh.DataChunk
	for it.HasNext() {
		c, err := it.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, c)
	}
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}

	want := src.chunks[0]
	c := got[0]
	if c.VertexCount() != want.VertexCount() {
		t.Errorf("VertexCount = %d, want %d", c.VertexCount(), want.VertexCount())
	}
	for i := range want.Vertices {
		if c.Vertices[i] != want.Vertices[i] {
			t.Errorf("Vertices[%d] = %v, want %v", i, c.Vertices[i], want.Vertices[i])
		}
	}
	for i := range want.Normals {
		if c.Normals[i] != want.Normals[i] {
			t.Errorf("Normals[%d] = %v, want %v", i, c.Normals[i], want.Normals[i])
		}
	}
	for i := range want.Indices {
		if c.Indices[i] != want.Indices[i] {
			t.Errorf("Indices[%d] = %v, want %v", i, c.Indices[i], want.Indices[i])
		}
	}
	for i := range want.Colors {
		if c.Colors[i] != want.Colors[i] {
			t.Errorf("Colors[%d] = %v, want %v", i, c.Colors[i], want.Colors[i])
		}
	}
	wantMin, wantMax, _ := want.Bounds()
	gotMin, gotMax, _ := c.Bounds()
	if gotMin != wantMin || gotMax != wantMax {
		t.Errorf("Bounds = (%v,%v), want (%v,%v)", gotMin, gotMax, wantMin, wantMax)
	}

	if c.Material == nil {
		t.Fatal("Material = nil, want non-nil")
	}
	if c.Material.Name != "red" || c.Material.Diffuse != want.Material.Diffuse {
		t.Errorf("Material = %+v, want name=red diffuse=%+v", c.Material, want.Material.Diffuse)
	}
	if c.Material.TextureDiffuse == nil || !c.Material.TextureDiffuse.Valid {
		t.Errorf("TextureDiffuse = %+v, want a valid texture", c.Material.TextureDiffuse)
	}

	if got[1].Material != nil {
		t.Errorf("second chunk Material = %+v, want nil", got[1].Material)
	}
}

func TestIsValidFileRejectsForeignContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notbinary.bin")
	if err := os.WriteFile(path, []byte("not a meshio file at all"), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	l, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := l.SetFile(path); err != nil {
		t.Fatalf("SetFile: %v", err)
	}
	if l.IsValidFile() {
		t.Error("IsValidFile = true, want false")
	}
}
