// Package obj decodes Wavefront OBJ files (with a companion MTL material
// library) into the module's DataChunk stream. Grounded on
// pkg/models/obj.go's OBJLoader: line-by-line tokenizing (here through
// ioreader's ReadLine and strings.Fields), v/vt/vn/f directive dispatch, face-vertex triple parsing and fan
// triangulation, generalized to resolve materials through a listener
// callback instead of ignoring mtllib/usemtl, and to flush chunks at
// material boundaries and the configured vertex cap.
package obj

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-mesh/meshio/loader"
)

// faceVertexRef is one `f` directive token's (position, texcoord, normal)
// triple, each either a resolved 0-based index or -1 when absent.
type faceVertexRef struct {
	pos, tex, normal int
}

// parseFaceVertex parses one face-vertex token: "v", "v/vt", "v//vn" or
// "v/vt/vn", where each index is 1-based and a negative value counts back
// from the end of its respective array.
func parseFaceVertex(tok string, posCount, texCount, normCount int) (faceVertexRef, error) {
	parts := strings.Split(tok, "/")

	pos, err := strconv.Atoi(parts[0])
	if err != nil {
		return faceVertexRef{}, fmt.Errorf("invalid vertex index %q: %w", parts[0], err)
	}
	ref := faceVertexRef{pos: resolveIndex(pos, posCount), tex: -1, normal: -1}

	if len(parts) > 1 && parts[1] != "" {
		tex, err := strconv.Atoi(parts[1])
		if err != nil {
			return faceVertexRef{}, fmt.Errorf("invalid texcoord index %q: %w", parts[1], err)
		}
		ref.tex = resolveIndex(tex, texCount)
	}
	if len(parts) > 2 && parts[2] != "" {
		norm, err := strconv.Atoi(parts[2])
		if err != nil {
			return faceVertexRef{}, fmt.Errorf("invalid normal index %q: %w", parts[2], err)
		}
		ref.normal = resolveIndex(norm, normCount)
	}
	return ref, nil
}

// resolveIndex converts a 1-based (or negative, counting from the end)
// OBJ index to a 0-based one. 0 is returned as -1 (absent).
func resolveIndex(idx, count int) int {
	if idx == 0 {
		return -1
	}
	if idx < 0 {
		return count + idx
	}
	return idx - 1
}

// checkBounds fails with loader.Malformed if ref.pos is out of range.
func checkBounds(ref faceVertexRef, posCount int) error {
	if ref.pos < 0 || ref.pos >= posCount {
		return loader.New(loader.Malformed, fmt.Sprintf("position index %d out of range", ref.pos))
	}
	return nil
}
