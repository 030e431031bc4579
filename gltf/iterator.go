package gltf

import (
	"github.com/go-mesh/meshio/loader"
	"github.com/go-mesh/meshio/mesh"
)

// iterator turns document.prims into a DataChunk stream, flushing at
// both the configured vertex cap and every change of material between
// consecutive primitives (primitives sharing a material are merged into
// one chunk) — the same two-trigger flush rule obj's iterator uses for its face
// list, generalized here to glTF's one-index-per-attribute-set model
// (no separate pos/normal/uv index triple to dedup on: a primitive's
// local vertex index already names one complete attribute bundle).
type iterator struct {
	l   *Loader
	doc *document
	cfg loader.Config

	primIdx int // index of the next not-yet-started primitive
	curPrim int // primitive the in-progress triBuf belongs to

	triBuf [][3]int32
	triPos int

	chunkLocal map[int32]int32
	curMat     *mesh.Material
	matSet     bool

	done bool
}

func (it *iterator) HasNext() bool {
	if it.done {
		return false
	}
	return it.triPos < len(it.triBuf) || it.primIdx < len(it.doc.prims)
}

func (it *iterator) Next() (*mesh.DataChunk, error) {
	if !it.HasNext() {
		return nil, loader.New(loader.NotAvailable, "no more gltf chunks")
	}

	chunk := mesh.NewChunk()
	// matSet mirrors whether this chunk already has a material assigned:
	// true from the start when resuming mid-primitive after a previous
	// chunk hit the vertex cap (the continuing primitive's material
	// already applies), false for a chunk that hasn't consumed any
	// primitive yet.
	it.matSet = it.triPos < len(it.triBuf)
	// Chunk-local vertex reuse never spans chunks, so every Next() call
	// starts from an empty dedup map even when it resumes mid-primitive.
	it.chunkLocal = make(map[int32]int32)
	max := it.cfg.MaxVerticesInChunk

	for chunk.VertexCount() < max {
		if it.triPos >= len(it.triBuf) {
			if it.primIdx >= len(it.doc.prims) {
				break
			}
			prim := it.doc.prims[it.primIdx]
			nextMat := it.materialFor(prim.materialIdx)
			if it.matSet && nextMat != it.curMat {
				// Material boundary: flush this chunk before starting the
				// next primitive.
				break
			}
			it.curPrim = it.primIdx
			it.primIdx++
			it.curMat = nextMat
			it.matSet = true
			it.triBuf = triangulatePrimitive(prim)
			it.triPos = 0
			continue
		}

		if chunk.VertexCount() > 0 && chunk.VertexCount()+3 > max {
			// The next triangle could add three vertices and pass the cap.
			break
		}
		tri := it.triBuf[it.triPos]
		it.triPos++
		prim := it.doc.prims[it.curPrim]

		var out [3]int32
		for k, localIdx := range tri {
			if !it.cfg.AllowDuplicateVerticesInChunk {
				if v, ok := it.chunkLocal[localIdx]; ok {
					out[k] = v
					continue
				}
			}
			p := prim.positions[localIdx]
			idx := int32(chunk.AppendVertex(p[0], p[1], p[2]))
			if len(prim.normals) > 0 {
				n := prim.normals[localIdx]
				chunk.AppendNormal(n[0], n[1], n[2])
			}
			if len(prim.uvs) > 0 {
				uv := prim.uvs[localIdx]
				chunk.AppendTexCoord(uv[0], uv[1])
			}
			out[k] = idx
			if !it.cfg.AllowDuplicateVerticesInChunk {
				it.chunkLocal[localIdx] = idx
			}
		}
		chunk.AppendTriangle(out[0], out[1], out[2])
	}

	chunk.Material = it.curMat
	it.reportProgress()
	if !it.HasNext() {
		it.finish()
	}
	return chunk, nil
}

func (it *iterator) materialFor(idx int) *mesh.Material {
	if idx < 0 || idx >= len(it.doc.materials) {
		return nil
	}
	return it.doc.materials[idx]
}

// triangulatePrimitive turns one primitive's indices (or lack of them)
// into local-vertex-index triangles. TRIANGLE_FAN primitives are run
// through the shared mesh.FanTriangulate the same way obj/ply triangulate
// a polygonal face; plain TRIANGLES primitives are already flat triangle
// lists (indexed or not) and are grouped in literal threes instead, since
// running a 3-vertex group through FanTriangulate would just reproduce it.
func triangulatePrimitive(p primRecord) [][3]int32 {
	if p.indices != nil {
		local := make([]int32, len(p.indices))
		for i, idx := range p.indices {
			local[i] = int32(idx)
		}
		if p.fan {
			return mesh.FanTriangulate(local)
		}
		return groupTriples(local)
	}

	local := make([]int32, len(p.positions))
	for i := range local {
		local[i] = int32(i)
	}
	if p.fan {
		return mesh.FanTriangulate(local)
	}
	return groupTriples(local)
}

func groupTriples(indices []int32) [][3]int32 {
	tris := make([][3]int32, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		tris = append(tris, [3]int32{indices[i], indices[i+1], indices[i+2]})
	}
	return tris
}

func (it *iterator) reportProgress() {
	if it.l == nil || len(it.doc.prims) == 0 {
		return
	}
	it.l.ReportProgress(it.l, float64(it.primIdx)/float64(len(it.doc.prims)))
}

func (it *iterator) finish() {
	if it.done {
		return
	}
	it.done = true
	if it.l != nil {
		it.l.ReportEnd(it.l)
	}
}
