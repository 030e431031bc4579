// Package gltf decodes glTF (.gltf JSON) and GLB (binary) files into
// mesh.DataChunk streams, implementing the same loader.Loader/Iterator
// contract as ply/obj/threeds/stl.
//
// Two things worth calling out:
//   - No transform is applied while walking the node hierarchy. This
//     module's DataChunk has no transform concept (every other decoder
//     emits vertices in the coordinate space the file itself states), so
//     node traversal exists only to visit every mesh instance the scene
//     graph references, not to place it in world space.
//   - Winding is preserved exactly as authored; no index-swapping or
//     Y-flip convention is applied — those belong to a specific renderer's
//     screen-space assumptions, with no equivalent here.
package gltf

import (
	qgltf "github.com/qmuntal/gltf"

	"github.com/go-mesh/meshio/loader"
	"github.com/go-mesh/meshio/mesh"
)

// primRecord is one glTF primitive's decoded geometry, flattened out of
// the node hierarchy it was reached through.
type primRecord struct {
	positions [][3]float32
	normals   [][3]float32
	uvs       [][2]float32
	// indices is nil for a non-indexed primitive.
	indices     []int
	fan         bool // TRIANGLE_FAN: indices/positions name a fan, not literal triangles
	materialIdx int  // -1 when the primitive has no material
}

// document is the whole file flattened into the shape the iterator wants:
// an ordered primitive list plus the material table referenced by index.
type document struct {
	prims     []primRecord
	materials []*mesh.Material
}

// parseDocument opens path with qmuntal/gltf (which handles both .gltf
// JSON and .glb transparently) and flattens it into a document.
func parseDocument(path string, listener loader.Listener, self loader.Loader) (*document, error) {
	doc, err := qgltf.Open(path)
	if err != nil {
		return nil, loader.Wrap(loader.Malformed, "open gltf/glb", err)
	}

	d := &document{materials: buildMaterials(doc, path, listener, self)}

	walk := func(nodeIdx int) { walkNode(doc, nodeIdx, path, d) }

	if len(doc.Scenes) > 0 {
		sceneIdx := 0
		if doc.Scene != nil {
			sceneIdx = int(*doc.Scene)
		}
		for _, nodeIdx := range doc.Scenes[sceneIdx].Nodes {
			walk(int(nodeIdx))
		}
	} else {
		isChild := make(map[int]bool)
		for _, n := range doc.Nodes {
			for _, c := range n.Children {
				isChild[int(c)] = true
			}
		}
		for i := range doc.Nodes {
			if !isChild[i] {
				walk(i)
			}
		}
	}

	return d, nil
}

// walkNode recursively visits a node and its children, collecting every
// mesh instance reachable from it — no transform is accumulated or
// applied, per the package doc comment.
func walkNode(doc *qgltf.Document, nodeIdx int, basePath string, d *document) {
	if nodeIdx < 0 || nodeIdx >= len(doc.Nodes) {
		return
	}
	node := doc.Nodes[nodeIdx]

	if node.Mesh != nil {
		meshIdx := int(*node.Mesh)
		if meshIdx >= 0 && meshIdx < len(doc.Meshes) {
			appendMeshPrimitives(doc, doc.Meshes[meshIdx], basePath, d)
		}
	}

	for _, childIdx := range node.Children {
		walkNode(doc, int(childIdx), basePath, d)
	}
}

// appendMeshPrimitives decodes every triangle-producing primitive of m
// into the document's flat primitive list.
func appendMeshPrimitives(doc *qgltf.Document, m *qgltf.Mesh, basePath string, d *document) {
	for _, prim := range m.Primitives {
		fan := prim.Mode == qgltf.PrimitiveTriangleFan
		if !fan && prim.Mode != qgltf.PrimitiveTriangles && prim.Mode != 0 {
			// Lines, points, strips: no equivalent in this module's
			// triangle-only DataChunk model, so skipped.
			continue
		}

		posIdx, ok := prim.Attributes[qgltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readVec3Accessor(doc, int(posIdx), basePath)
		if err != nil {
			continue
		}

		rec := primRecord{positions: positions, fan: fan, materialIdx: -1}

		if normIdx, ok := prim.Attributes[qgltf.NORMAL]; ok {
			if normals, err := readVec3Accessor(doc, int(normIdx), basePath); err == nil {
				rec.normals = normals
			}
		}
		if uvIdx, ok := prim.Attributes[qgltf.TEXCOORD_0]; ok {
			if uvs, err := readVec2Accessor(doc, int(uvIdx), basePath); err == nil {
				rec.uvs = uvs
			}
		}
		if prim.Material != nil {
			rec.materialIdx = int(*prim.Material)
		}
		if prim.Indices != nil {
			indices, err := readIndices(doc, int(*prim.Indices), basePath)
			if err != nil {
				continue
			}
			rec.indices = indices
		}

		d.prims = append(d.prims, rec)
	}
}
