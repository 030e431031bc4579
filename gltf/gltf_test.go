package gltf

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	qgltf "github.com/qmuntal/gltf"

	"github.com/go-mesh/meshio/mesh"
)

func u32(v uint32) *uint32 { return &v }

// buildTriangleGLB assembles a single-triangle, single-material glTF
// document entirely through qmuntal/gltf's own types, then writes it out
// as a binary .glb with the library's own SaveBinary — the fixture is
// built the same way a real exporter would, not hand-assembled bytes.
func buildTriangleGLB(t *testing.T, path string) {
	t.Helper()

	positions := []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}
	posBytes := make([]byte, len(positions)*4)
	for i, v := range positions {
		bits := math.Float32bits(v)
		posBytes[i*4+0] = byte(bits)
		posBytes[i*4+1] = byte(bits >> 8)
		posBytes[i*4+2] = byte(bits >> 16)
		posBytes[i*4+3] = byte(bits >> 24)
	}
	indices := []uint16{0, 1, 2}
	idxBytes := make([]byte, len(indices)*2)
	for i, v := range indices {
		idxBytes[i*2+0] = byte(v)
		idxBytes[i*2+1] = byte(v >> 8)
	}
	bufData := append(append([]byte{}, posBytes...), idxBytes...)

	doc := &qgltf.Document{
		Asset: qgltf.Asset{Version: "2.0"},
		Buffers: []*qgltf.Buffer{
			{ByteLength: uint32(len(bufData)), Data: bufData},
		},
		BufferViews: []*qgltf.BufferView{
			{Buffer: 0, ByteOffset: 0, ByteLength: uint32(len(posBytes))},
			{Buffer: 0, ByteOffset: uint32(len(posBytes)), ByteLength: uint32(len(idxBytes))},
		},
		Accessors: []*qgltf.Accessor{
			{BufferView: u32(0), ComponentType: qgltf.ComponentFloat, Type: qgltf.AccessorVec3, Count: uint32(len(positions) / 3)},
			{BufferView: u32(1), ComponentType: qgltf.ComponentUshort, Type: qgltf.AccessorScalar, Count: uint32(len(indices))},
		},
		Materials: []*qgltf.Material{
			{
				Name: "red",
				PBRMetallicRoughness: &qgltf.PBRMetallicRoughness{
					BaseColorFactor: &[4]float32{1, 0, 0, 1},
				},
			},
		},
		Meshes: []*qgltf.Mesh{
			{
				Primitives: []*qgltf.Primitive{
					{
						Attributes: map[string]uint32{qgltf.POSITION: 0},
						Indices:    u32(1),
						Material:   u32(0),
						Mode:       qgltf.PrimitiveTriangles,
					},
				},
			},
		},
		Nodes:  []*qgltf.Node{{Mesh: u32(0)}},
		Scenes: []*qgltf.Scene{{Nodes: []uint32{0}}},
		Scene:  u32(0),
	}

	if err := qgltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}
}

func TestDecodeTriangleGLB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triangle.glb")
	buildTriangleGLB(t, path)

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

	var chunks []*mesh.DataChunk
	for it.HasNext() {
		c, err := it.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		chunks = append(chunks, c)
	}
	if len(chunks) != 1 {
		t.Fatalf("len(chunks) = %d, want 1", len(chunks))
	}

	c := chunks[0]
	if c.VertexCount() != 3 {
		t.Errorf("VertexCount = %d, want 3", c.VertexCount())
	}
	if len(c.Indices) != 3 {
		t.Errorf("len(Indices) = %d, want 3", len(c.Indices))
	}
	if c.Indices[0] != 0 || c.Indices[1] != 1 || c.Indices[2] != 2 {
		t.Errorf("Indices = %v, want [0 1 2] (winding preserved as authored)", c.Indices)
	}
	if c.Material == nil {
		t.Fatal("Material = nil, want non-nil")
	}
	if c.Material.Name != "red" {
		t.Errorf("Material.Name = %q, want red", c.Material.Name)
	}
	if c.Material.Diffuse != (mesh.Color3{R: 255, G: 0, B: 0}) {
		t.Errorf("Material.Diffuse = %+v, want {255 0 0}", c.Material.Diffuse)
	}
	if !c.Material.HasPBR {
		t.Error("Material.HasPBR = false, want true")
	}
}

func TestIsValidFileRejectsForeignContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notglb.bin")
	if err := os.WriteFile(path, []byte("definitely not a glTF file"), 0o644); err != nil {
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
