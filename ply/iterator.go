package ply

import (
	"github.com/go-mesh/meshio/internal/ioreader"
	"github.com/go-mesh/meshio/loader"
	"github.com/go-mesh/meshio/mesh"
)

// iterator assembles DataChunks from the pre-read face index list (or, for
// a vertex-only file, straight from the vertex element), resolving vertex
// attributes on demand through vr and bounding each chunk at
// maxVerticesInChunk per the module's chunk-assembly algorithm.
type iterator struct {
	l    *Loader
	body ioreader.Reader
	vr   ioreader.Reader
	mode StorageMode

	access  *vertexAccess
	layout  *vertexLayout
	vtxElem *Element

	faces   []faceRecord
	faceIdx int
	triBuf  [][3]int32 // pending triangles from the current face, fan-triangulated
	triPos  int

	pointCloud bool
	totalVerts int
	nextVertex int

	cfg loader.Config

	chunkLocal map[int64]int32
	done       bool
	closed     bool
}

func (it *iterator) HasNext() bool {
	if it.done {
		return false
	}
	if it.pointCloud {
		return it.nextVertex < it.totalVerts
	}
	return it.triPos < len(it.triBuf) || it.faceIdx < len(it.faces)
}

func (it *iterator) Next() (*mesh.DataChunk, error) {
	if !it.HasNext() {
		return nil, loader.New(loader.NotAvailable, "no more ply chunks")
	}
	if it.pointCloud {
		return it.nextPointCloudChunk()
	}
	return it.nextFaceChunk()
}

func (it *iterator) nextPointCloudChunk() (*mesh.DataChunk, error) {
	chunk := mesh.NewChunk()
	if it.layout != nil {
		chunk.ColorComponents = it.layout.colorComponents
	}
	max := it.cfg.MaxVerticesInChunk
	for it.nextVertex < it.totalVerts && chunk.VertexCount() < max {
		rec, err := it.readVertex(it.nextVertex)
		if err != nil {
			return nil, err
		}
		it.appendRecord(chunk, rec)
		it.nextVertex++
	}
	it.reportProgress()
	if it.nextVertex >= it.totalVerts {
		it.finish()
	}
	return chunk, nil
}

func (it *iterator) nextFaceChunk() (*mesh.DataChunk, error) {
	chunk := mesh.NewChunk()
	if it.layout != nil {
		chunk.ColorComponents = it.layout.colorComponents
	}
	it.chunkLocal = make(map[int64]int32)
	max := it.cfg.MaxVerticesInChunk

	for chunk.VertexCount() < max {
		if it.triPos >= len(it.triBuf) {
			if !it.advanceFace() {
				break
			}
			continue
		}
		if chunk.VertexCount() > 0 && chunk.VertexCount()+3 > max {
			// The next triangle could add three vertices and pass the cap.
			break
		}
		tri := it.triBuf[it.triPos]
		it.triPos++

		var local [3]int32
		for k, global := range tri {
			if !it.cfg.AllowDuplicateVerticesInChunk {
				if v, ok := it.chunkLocal[int64(global)]; ok {
					local[k] = v
					continue
				}
			}
			rec, err := it.readVertex(int(global))
			if err != nil {
				return nil, err
			}
			idx := it.appendRecord(chunk, rec)
			local[k] = int32(idx)
			if !it.cfg.AllowDuplicateVerticesInChunk {
				it.chunkLocal[int64(global)] = int32(idx)
			}
		}
		chunk.AppendTriangle(local[0], local[1], local[2])
	}

	it.reportProgress()
	if !it.HasNext() {
		it.finish()
	}
	return chunk, nil
}

// advanceFace loads the next face's fan-triangulated triangle buffer.
// Returns false once every face has been consumed.
func (it *iterator) advanceFace() bool {
	for it.faceIdx < len(it.faces) {
		f := it.faces[it.faceIdx]
		it.faceIdx++
		tris := mesh.FanTriangulate(f.indices)
		if len(tris) == 0 {
			continue
		}
		it.triBuf = tris
		it.triPos = 0
		return true
	}
	return false
}

func (it *iterator) readVertex(instance int) (vertexRecord, error) {
	off, err := it.access.Offset(instance)
	if err != nil {
		return vertexRecord{}, err
	}
	if err := it.vr.Seek(off); err != nil {
		return vertexRecord{}, loader.Wrap(loader.IOFailure, "seek ply vertex", err)
	}
	src := newScalarSource(it.vr, it.mode)
	return readVertexInstance(src, it.vtxElem, it.layout)
}

func (it *iterator) appendRecord(chunk *mesh.DataChunk, rec vertexRecord) int {
	idx := chunk.AppendVertex(rec.x, rec.y, rec.z)
	if it.layout != nil && it.layout.hasNormal {
		chunk.AppendNormal(rec.nx, rec.ny, rec.nz)
	}
	if it.layout != nil && it.layout.hasTexCoord {
		chunk.AppendTexCoord(rec.u, rec.v)
	}
	if it.layout != nil && it.layout.hasColor {
		if it.layout.colorComponents == 4 {
			chunk.AppendColor(rec.r, rec.g, rec.b, rec.a)
		} else {
			chunk.AppendColor(rec.r, rec.g, rec.b)
		}
	}
	return idx
}

func (it *iterator) reportProgress() {
	if it.l == nil {
		return
	}
	var progress float64
	if it.pointCloud {
		if it.totalVerts > 0 {
			progress = float64(it.nextVertex) / float64(it.totalVerts)
		}
	} else if len(it.faces) > 0 {
		progress = float64(it.faceIdx) / float64(len(it.faces))
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
	it.closeReaders()
}

func (it *iterator) closeReaders() {
	if it.closed {
		return
	}
	it.closed = true
	it.body.Close()
	it.vr.Close()
}
