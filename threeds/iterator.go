package threeds

import (
	"github.com/go-mesh/meshio/loader"
	"github.com/go-mesh/meshio/mesh"
)

// dedupKey is the chunk-local vertex reuse key. Faces in the same
// smoothing group share a normal at a given vertex (computeVertexNormals
// guarantees this), so they can share a chunk-local vertex too; flat
// (group 0) faces never share one, since each carries its own unaveraged
// normal — faceTag disambiguates those by the face they came from.
type dedupKey struct {
	vertex  uint16
	group   uint32
	faceTag int
}

type iterator struct {
	l   *Loader
	doc *document
	cfg loader.Config

	objIdx  int
	faceIdx int
	normals [][3][3]float32 // recomputed per-object, parallel to doc.objects[objIdx].faces

	curMat *mesh.Material
	matSet bool

	chunkLocal map[dedupKey]int32
	done       bool
}

func (it *iterator) HasNext() bool {
	if it.done {
		return false
	}
	for i := it.objIdx; i < len(it.doc.objects); i++ {
		faceIdx := 0
		if i == it.objIdx {
			faceIdx = it.faceIdx
		}
		if faceIdx < len(it.doc.objects[i].faces) {
			return true
		}
	}
	return false
}

func (it *iterator) Next() (*mesh.DataChunk, error) {
	if !it.HasNext() {
		return nil, loader.New(loader.NotAvailable, "no more 3ds chunks")
	}
	// Skip past any exhausted objects.
	for it.objIdx < len(it.doc.objects) && it.faceIdx >= len(it.doc.objects[it.objIdx].faces) {
		it.objIdx++
		it.faceIdx = 0
		it.normals = nil
	}
	obj := it.doc.objects[it.objIdx]
	if it.normals == nil {
		it.normals = computeVertexNormals(obj)
	}

	chunk := mesh.NewChunk()
	it.chunkLocal = make(map[dedupKey]int32)
	max := it.cfg.MaxVerticesInChunk
	hasTexCoords := len(obj.texcoords) > 0
	it.matSet = false

	for chunk.VertexCount() < max && it.faceIdx < len(obj.faces) {
		if chunk.VertexCount() > 0 && chunk.VertexCount()+3 > max {
			// The next face could add three vertices and pass the cap.
			break
		}
		face := obj.faces[it.faceIdx]
		mat := it.doc.materials[face.matName]
		if it.matSet && mat != it.curMat {
			break
		}
		it.curMat = mat
		it.matSet = true

		var out [3]int32
		for c, v := range face.indices {
			faceTag := -1
			if face.smoothGroup == 0 {
				faceTag = it.faceIdx
			}
			key := dedupKey{vertex: v, group: face.smoothGroup, faceTag: faceTag}
			if !it.cfg.AllowDuplicateVerticesInChunk {
				if existing, ok := it.chunkLocal[key]; ok {
					out[c] = existing
					continue
				}
			}
			p := obj.vertices[v]
			idx := chunk.AppendVertex(p[0], p[1], p[2])
			n := it.normals[it.faceIdx][c]
			chunk.AppendNormal(n[0], n[1], n[2])
			if hasTexCoords {
				if int(v) < len(obj.texcoords) {
					uv := obj.texcoords[v]
					chunk.AppendTexCoord(uv[0], uv[1])
				} else {
					chunk.AppendTexCoord(0, 0)
				}
			}
			out[c] = int32(idx)
			if !it.cfg.AllowDuplicateVerticesInChunk {
				it.chunkLocal[key] = int32(idx)
			}
		}
		chunk.AppendTriangle(out[0], out[1], out[2])
		it.faceIdx++
	}

	chunk.Material = it.curMat
	it.reportProgress()
	if !it.HasNext() {
		it.finish()
	}
	return chunk, nil
}

func (it *iterator) reportProgress() {
	if it.l == nil {
		return
	}
	total, done := 0, 0
	for i, o := range it.doc.objects {
		total += len(o.faces)
		if i < it.objIdx {
			done += len(o.faces)
		} else if i == it.objIdx {
			done += it.faceIdx
		}
	}
	var progress float64
	if total > 0 {
		progress = float64(done) / float64(total)
	}
	it.l.ReportProgress(it.l, progress)
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
