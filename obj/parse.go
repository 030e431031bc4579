package obj

import (
	"strconv"
	"strings"

	"github.com/go-mesh/meshio/internal/ioreader"
	"github.com/go-mesh/meshio/loader"
	"github.com/go-mesh/meshio/mesh"
)

// faceRecord is one `f` directive: its fan-triangulatable vertex refs and
// the material active when it was read.
type faceRecord struct {
	refs []faceVertexRef
	mat  *mesh.Material
}

// document is the fully parsed geometry and face list of one OBJ file,
// read eagerly (positions/normals/texcoords are cheap; only the later
// per-triangle chunk assembly is pulled lazily by the iterator, same
// division of labor as the ply package's face-list/vertex-attribute
// split).
type document struct {
	positions [][3]float32
	normals   [][3]float32
	texcoords [][2]float32
	faces     []faceRecord
}

// parseOBJ tokenizes r line by line, dispatching v/vn/vt/f/usemtl/mtllib
// and silently skipping every other directive (s, g, o, and anything
// unrecognized), matching pkg/models/obj.go's OBJLoader directive switch.
func parseOBJ(r ioreader.Reader, resolveMTL func(path string) (map[string]*mesh.Material, error)) (*document, error) {
	doc := &document{}
	materials := make(map[string]*mesh.Material)
	var current *mesh.Material

	for {
		line, err := r.ReadLine()
		if err != nil {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		directive := fields[0]
		rest := fields[1:]

		switch directive {
		case "v":
			p, err := parseFloat3(rest)
			if err != nil {
				return nil, loader.Wrap(loader.Malformed, "parse v directive", err)
			}
			doc.positions = append(doc.positions, p)
		case "vn":
			n, err := parseFloat3(rest)
			if err != nil {
				return nil, loader.Wrap(loader.Malformed, "parse vn directive", err)
			}
			doc.normals = append(doc.normals, n)
		case "vt":
			t, err := parseFloat2(rest)
			if err != nil {
				return nil, loader.Wrap(loader.Malformed, "parse vt directive", err)
			}
			doc.texcoords = append(doc.texcoords, t)
		case "f":
			if len(rest) < 3 {
				return nil, loader.New(loader.Malformed, "face directive needs at least 3 vertices")
			}
			refs := make([]faceVertexRef, 0, len(rest))
			for _, tok := range rest {
				ref, err := parseFaceVertex(tok, len(doc.positions), len(doc.texcoords), len(doc.normals))
				if err != nil {
					return nil, loader.Wrap(loader.Malformed, "parse f directive", err)
				}
				if err := checkBounds(ref, len(doc.positions)); err != nil {
					return nil, err
				}
				refs = append(refs, ref)
			}
			doc.faces = append(doc.faces, faceRecord{refs: refs, mat: current})
		case "usemtl":
			if len(rest) == 0 {
				return nil, loader.New(loader.Malformed, "usemtl directive missing material name")
			}
			name := rest[0]
			current = materials[name]
		case "mtllib":
			if resolveMTL == nil {
				continue
			}
			for _, path := range rest {
				resolved, err := resolveMTL(path)
				if err != nil {
					return nil, err
				}
				for name, mat := range resolved {
					materials[name] = mat
				}
			}
		default:
			// s, g, o and anything unrecognized are silently skipped.
		}
	}
	return doc, nil
}

func parseFloat3(fields []string) ([3]float32, error) {
	var out [3]float32
	if len(fields) < 3 {
		return out, strconv.ErrSyntax
	}
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return out, err
		}
		out[i] = float32(v)
	}
	return out, nil
}

func parseFloat2(fields []string) ([2]float32, error) {
	var out [2]float32
	if len(fields) < 2 {
		return out, strconv.ErrSyntax
	}
	for i := 0; i < 2; i++ {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return out, err
		}
		out[i] = float32(v)
	}
	return out, nil
}
