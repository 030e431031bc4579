package obj

import (
	"github.com/go-mesh/meshio/loader"
	"github.com/go-mesh/meshio/mesh"
)

// vertexKey is the chunk-local dedup key for one face-vertex reference,
// generalized from OBJLoader's vertex-key map (keyed globally across the
// whole mesh there) to this module's per-chunk reuse rule.
type vertexKey struct {
	pos, tex, normal int
}

type iterator struct {
	l   *Loader
	doc *document
	cfg loader.Config

	faceIdx int
	triBuf  [][3]int32
	triPos  int

	curRefs []faceVertexRef
	curMat  *mesh.Material
	matSet  bool

	chunkLocal map[vertexKey]int32
	done       bool
}

func (it *iterator) HasNext() bool {
	if it.done {
		return false
	}
	return it.triPos < len(it.triBuf) || it.faceIdx < len(it.doc.faces)
}

func (it *iterator) Next() (*mesh.DataChunk, error) {
	if !it.HasNext() {
		return nil, loader.New(loader.NotAvailable, "no more obj chunks")
	}
	chunk := mesh.NewChunk()
	it.chunkLocal = make(map[vertexKey]int32)
	max := it.cfg.MaxVerticesInChunk
	hasNormals := len(it.doc.normals) > 0
	hasTexCoords := len(it.doc.texcoords) > 0
	// A chunk resuming mid-face already carries that face's material.
	it.matSet = it.triPos < len(it.triBuf)

	for chunk.VertexCount() < max {
		if it.triPos >= len(it.triBuf) {
			if it.faceIdx >= len(it.doc.faces) {
				break
			}
			face := it.doc.faces[it.faceIdx]
			if it.matSet && face.mat != it.curMat {
				// Material boundary: flush this chunk before consuming the
				// next face.
				break
			}
			it.faceIdx++
			it.curMat = face.mat
			it.matSet = true
			it.curRefs = face.refs

			local := make([]int32, len(face.refs))
			for i := range local {
				local[i] = int32(i)
			}
			it.triBuf = mesh.FanTriangulate(local)
			it.triPos = 0
			continue
		}
		if chunk.VertexCount() > 0 && chunk.VertexCount()+3 > max {
			// The next triangle could add three vertices and pass the cap.
			break
		}
		tri := it.triBuf[it.triPos]
		it.triPos++

		var out [3]int32
		for k, localIdx := range tri {
			ref := it.curRefs[localIdx]
			key := vertexKey{ref.pos, ref.tex, ref.normal}
			if !it.cfg.AllowDuplicateVerticesInChunk {
				if v, ok := it.chunkLocal[key]; ok {
					out[k] = v
					continue
				}
			}
			p := it.doc.positions[ref.pos]
			idx := chunk.AppendVertex(p[0], p[1], p[2])
			if hasNormals {
				if ref.normal >= 0 {
					n := it.doc.normals[ref.normal]
					chunk.AppendNormal(n[0], n[1], n[2])
				} else {
					chunk.AppendNormal(0, 0, 0)
				}
			}
			if hasTexCoords {
				if ref.tex >= 0 {
					uv := it.doc.texcoords[ref.tex]
					chunk.AppendTexCoord(uv[0], uv[1])
				} else {
					chunk.AppendTexCoord(0, 0)
				}
			}
			out[k] = int32(idx)
			if !it.cfg.AllowDuplicateVerticesInChunk {
				it.chunkLocal[key] = int32(idx)
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

func (it *iterator) reportProgress() {
	if it.l == nil || len(it.doc.faces) == 0 {
		return
	}
	progress := float64(it.faceIdx) / float64(len(it.doc.faces))
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
