package ply

import (
	"strings"

	"github.com/go-mesh/meshio/internal/ioreader"
	"github.com/go-mesh/meshio/loader"
)

// vertexAccess answers "what byte offset does vertex instance i start at"
// for the element the main body walk has already passed. Binary elements
// with no list properties are a direct formula; ASCII elements rely on the
// bounded positionCache built while the main walk skipped past the element,
// with a forward-rescan fallback on a cache miss.
type vertexAccess struct {
	element *Element

	fixed        bool
	fixedBase    int64
	fixedSize    int64
	elementStart int64
	count        int

	cache *positionCache
	body  ioreader.Reader // used only for the ASCII cache-miss rescan path
	mode  StorageMode
}

func (a *vertexAccess) Offset(instance int) (int64, error) {
	if a.fixed {
		return a.fixedBase + int64(instance)*a.fixedSize, nil
	}
	if off, ok := a.cache.Get(instance); ok {
		return off, nil
	}
	return a.rescan(instance)
}

// rescan restarts from the nearest cached instance at or below the target
// (or the element's first instance, if nothing smaller survived eviction)
// and reads forward line by line until reaching it, repopulating the cache
// along the way.
func (a *vertexAccess) rescan(target int) (int64, error) {
	fromIdx, fromOff := 0, a.elementStart
	for idx, off := range a.cache.offsets {
		if idx <= target && idx >= fromIdx {
			fromIdx, fromOff = idx, off
		}
	}

	if err := a.body.Seek(fromOff); err != nil {
		return 0, loader.Wrap(loader.IOFailure, "seek ply vertex rescan", err)
	}
	for idx := fromIdx; idx <= target; idx++ {
		pos, err := a.body.Position()
		if err != nil {
			return 0, err
		}
		a.cache.Put(idx, pos)
		if idx == target {
			return pos, nil
		}
		if _, err := a.body.ReadLine(); err != nil {
			return 0, loader.Wrap(loader.IOFailure, "rescan ply vertex line", err)
		}
	}
	return 0, loader.New(loader.Malformed, "vertex index out of range")
}

// buildVertexAccess consumes e's body from body's current position (leaving
// body positioned just past the element, ready for the next element) and
// returns the access descriptor used later for random lookups.
func buildVertexAccess(body ioreader.Reader, mode StorageMode, e *Element, maxPositions int) (*vertexAccess, error) {
	start, err := body.Position()
	if err != nil {
		return nil, err
	}

	if mode != ASCII {
		size, fixed := e.FixedInstanceSize()
		if fixed {
			if err := body.Skip(int64(size) * int64(e.Count)); err != nil {
				return nil, loader.Wrap(loader.IOFailure, "skip ply vertex element", err)
			}
			return &vertexAccess{element: e, fixed: true, fixedBase: start, fixedSize: int64(size), count: e.Count, mode: mode}, nil
		}
		src := newBinarySource(body, mode)
		for i := 0; i < e.Count; i++ {
			if err := skipElementInstance(src, e); err != nil {
				return nil, loader.Wrap(loader.IOFailure, "skip ply vertex element", err)
			}
		}
		// Variable-size binary vertex elements (a list property among
		// x/y/z) are outside this format's recognized vertex attribute set
		// and are rejected as Malformed; there is no rescan-based fallback
		// for them as there is for ASCII.
		return nil, loader.New(loader.Malformed, "vertex element with list properties is not supported")
	}

	cache := newPositionCache(maxPositions)
	for i := 0; i < e.Count; i++ {
		pos, err := body.Position()
		if err != nil {
			return nil, err
		}
		cache.Put(i, pos)
		if _, err := body.ReadLine(); err != nil {
			return nil, loader.Wrap(loader.IOFailure, "read ply ascii vertex line", err)
		}
	}
	return &vertexAccess{element: e, fixed: false, elementStart: start, count: e.Count, cache: cache, body: body, mode: mode}, nil
}

// skipElement advances body past one non-vertex, non-face element's body.
func skipElement(body ioreader.Reader, mode StorageMode, e *Element) error {
	if mode == ASCII {
		for i := 0; i < e.Count; i++ {
			if _, err := body.ReadLine(); err != nil {
				return loader.Wrap(loader.IOFailure, "skip ply ascii element "+e.Name, err)
			}
		}
		return nil
	}
	if size, fixed := e.FixedInstanceSize(); fixed {
		return body.Skip(int64(size) * int64(e.Count))
	}
	src := newBinarySource(body, mode)
	for i := 0; i < e.Count; i++ {
		if err := skipElementInstance(src, e); err != nil {
			return loader.Wrap(loader.IOFailure, "skip ply binary element "+e.Name, err)
		}
	}
	return nil
}

// faceRecord is one face's (possibly >3-gon) vertex index list.
type faceRecord struct {
	indices []int32
}

// readFaces reads every instance of the face element, recognizing the
// "vertex_indices" list property (synonym "vertex_index") and discarding
// any other declared property.
func readFaces(body ioreader.Reader, mode StorageMode, e *Element) ([]faceRecord, error) {
	src := newScalarSource(body, mode)
	faces := make([]faceRecord, 0, e.Count)
	for i := 0; i < e.Count; i++ {
		var rec faceRecord
		for _, p := range e.Properties {
			name := strings.ToLower(p.Name)
			if p.IsList && (name == "vertex_indices" || name == "vertex_index") {
				n, err := src.ReadInt(p.CountType)
				if err != nil {
					return nil, loader.Wrap(loader.IOFailure, "read ply face vertex count", err)
				}
				rec.indices = make([]int32, 0, n)
				for j := int64(0); j < n; j++ {
					v, err := src.ReadInt(p.Type)
					if err != nil {
						return nil, loader.Wrap(loader.IOFailure, "read ply face index", err)
					}
					rec.indices = append(rec.indices, int32(v))
				}
			} else if err := skipProperty(src, p); err != nil {
				return nil, loader.Wrap(loader.IOFailure, "skip ply face property "+p.Name, err)
			}
		}
		faces = append(faces, rec)
	}
	return faces, nil
}
