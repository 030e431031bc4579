// Package stl decodes STL (stereolithography) files, both the ASCII and
// binary variants, into the module's DataChunk stream. Grounded directly on
// pkg/models/stl.go's STLLoader: the same binary-sniff heuristic (trailing
// triangle-count-implied length match) and the same ASCII
// facet/outer-loop/vertex/endloop/endfacet state machine, generalized to
// emit fresh (undeduplicated) vertices and to bound chunk size.
package stl

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-mesh/meshio/internal/endian"
	"github.com/go-mesh/meshio/loader"
	"github.com/go-mesh/meshio/mesh"
)

// triangle is one parsed facet: three vertex positions, a face normal, and
// an optional decoded color.
type triangle struct {
	normal   [3]float32
	verts    [3][3]float32
	hasColor bool
	color    [3]uint8
}

// Loader decodes STL files.
type Loader struct {
	*loader.Base
	name string
}

// New constructs an STL Loader with the given configuration overrides.
func New(opts ...loader.Option) (*Loader, error) {
	cfg, err := loader.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Loader{Base: loader.NewBase(loader.FormatSTL, cfg)}, nil
}

// IsValidFile sniffs the bound file without consuming it.
func (l *Loader) IsValidFile() bool {
	if !l.HasFile() {
		return false
	}
	data, err := os.ReadFile(l.Path())
	if err != nil {
		return false
	}
	return isBinary(data) || looksLikeASCII(data)
}

func looksLikeASCII(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return bytes.HasPrefix(trimmed, []byte("solid"))
}

// isBinary reports whether data holds binary STL. A file of at least 84
// bytes that does not start with "solid" is taken as binary whatever its
// length; one that does start with "solid" is binary only when its
// declared triangle count implies a file length of exactly 84 + 50*count.
func isBinary(data []byte) bool {
	if len(data) < 84 {
		return false
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if bytes.HasPrefix(trimmed, []byte("solid")) {
		triCount := endian.Uint32(data[80:84], endian.Little)
		return int64(84)+int64(triCount)*50 == int64(len(data))
	}
	return true
}

// Load parses the whole file into an in-memory triangle list (the STL
// header carries no information that would let us size chunks before
// reading the body, so there is nothing to gain from a byte-at-a-time
// state machine here) and returns an Iterator that buffers that list into
// MaxVerticesInChunk-bounded chunks on demand.
func (l *Loader) Load() (loader.Iterator, error) {
	if err := l.RequireReady(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(l.Path())
	if err != nil {
		return nil, loader.Wrap(loader.IOFailure, "read STL file", err)
	}

	var tris []triangle
	var name string
	if isBinary(data) {
		tris, name, err = parseBinary(data)
	} else {
		tris, name, err = parseASCII(data)
	}
	if err != nil {
		return nil, err
	}
	l.name = name

	l.Lock(l)
	it := &iterator{l: l, tris: tris, trisPerChunk: maxTrisPerChunk(l.Config().MaxVerticesInChunk)}
	if !it.HasNext() {
		// An empty STL (zero triangles) never calls Next(), so nothing
		// would otherwise fire OnLoadEnd or clear the lock.
		l.ReportEnd(l)
	}
	return it, nil
}

func maxTrisPerChunk(maxVertices int) int {
	n := maxVertices / 3
	if n < 1 {
		n = 1
	}
	return n
}

func parseBinary(data []byte) ([]triangle, string, error) {
	if len(data) < 84 {
		return nil, "", loader.New(loader.Malformed, "binary STL shorter than header")
	}
	triCount := endian.Uint32(data[80:84], endian.Little)
	want := int64(84) + int64(triCount)*50
	if int64(len(data)) < want {
		return nil, "", loader.New(loader.IOFailure, "binary STL truncated")
	}

	hasColorExt := bytes.Contains(data[:80], []byte("COLOR="))

	tris := make([]triangle, 0, triCount)
	off := 84
	for i := uint32(0); i < triCount; i++ {
		var t triangle
		t.normal = [3]float32{
			endian.Float32(data[off:], endian.Little),
			endian.Float32(data[off+4:], endian.Little),
			endian.Float32(data[off+8:], endian.Little),
		}
		off += 12
		for v := 0; v < 3; v++ {
			t.verts[v] = [3]float32{
				endian.Float32(data[off:], endian.Little),
				endian.Float32(data[off+4:], endian.Little),
				endian.Float32(data[off+8:], endian.Little),
			}
			off += 12
		}
		attr := endian.Uint16(data[off:], endian.Little)
		off += 2
		if hasColorExt && attr&0x8000 != 0 {
			t.hasColor = true
			t.color = [3]uint8{
				uint8((attr>>10)&0x1F) << 3,
				uint8((attr>>5)&0x1F) << 3,
				uint8(attr&0x1F) << 3,
			}
		}
		tris = append(tris, t)
	}
	return tris, "", nil
}

func parseASCII(data []byte) ([]triangle, string, error) {
	var tris []triangle
	var name string
	var cur triangle
	var vertsSeen int
	inFacet, inLoop := false, false

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		switch strings.ToLower(fields[0]) {
		case "solid":
			if len(fields) > 1 {
				name = fields[1]
			}
		case "facet":
			if len(fields) >= 5 && strings.ToLower(fields[1]) == "normal" {
				n, err := parseFloat3(fields[2], fields[3], fields[4])
				if err != nil {
					return nil, "", loader.Wrap(loader.Malformed, fmt.Sprintf("line %d: facet normal", lineNum), err)
				}
				cur = triangle{normal: n}
			}
			inFacet = true
			vertsSeen = 0
		case "outer":
			inLoop = true
		case "vertex":
			if !inFacet || !inLoop {
				return nil, "", loader.New(loader.Malformed, fmt.Sprintf("line %d: vertex outside facet/loop", lineNum))
			}
			if len(fields) < 4 {
				return nil, "", loader.New(loader.Malformed, fmt.Sprintf("line %d: vertex needs x y z", lineNum))
			}
			p, err := parseFloat3(fields[1], fields[2], fields[3])
			if err != nil {
				return nil, "", loader.Wrap(loader.Malformed, fmt.Sprintf("line %d: vertex", lineNum), err)
			}
			if vertsSeen < 3 {
				cur.verts[vertsSeen] = p
			}
			vertsSeen++
		case "endloop":
			inLoop = false
		case "endfacet":
			if vertsSeen != 3 {
				return nil, "", loader.New(loader.Malformed, fmt.Sprintf("line %d: facet did not have exactly 3 vertices", lineNum))
			}
			tris = append(tris, cur)
			inFacet = false
		case "endsolid":
		default:
			// unrecognized directives are ignored
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, "", loader.Wrap(loader.IOFailure, "scan ASCII STL", err)
	}
	return tris, name, nil
}

func parseFloat3(xs, ys, zs string) ([3]float32, error) {
	x, err := strconv.ParseFloat(xs, 32)
	if err != nil {
		return [3]float32{}, err
	}
	y, err := strconv.ParseFloat(ys, 32)
	if err != nil {
		return [3]float32{}, err
	}
	z, err := strconv.ParseFloat(zs, 32)
	if err != nil {
		return [3]float32{}, err
	}
	return [3]float32{float32(x), float32(y), float32(z)}, nil
}

// iterator hands out MaxVerticesInChunk-bounded chunks of the pre-parsed
// triangle list.
type iterator struct {
	l            *Loader
	tris         []triangle
	trisPerChunk int
	pos          int
}

func (it *iterator) HasNext() bool { return it.pos < len(it.tris) }

func (it *iterator) Next() (*mesh.DataChunk, error) {
	if !it.HasNext() {
		return nil, loader.New(loader.NotAvailable, "no more chunks")
	}

	chunk := mesh.NewChunk()
	end := it.pos + it.trisPerChunk
	if end > len(it.tris) {
		end = len(it.tris)
	}

	anyColor := false
	for _, t := range it.tris[it.pos:end] {
		if t.hasColor {
			anyColor = true
			break
		}
	}

	for _, t := range it.tris[it.pos:end] {
		var idx [3]int32
		for v := 0; v < 3; v++ {
			i := chunk.AppendVertex(t.verts[v][0], t.verts[v][1], t.verts[v][2])
			chunk.AppendNormal(t.normal[0], t.normal[1], t.normal[2])
			if anyColor {
				c := t.color
				chunk.AppendColor(c[0], c[1], c[2])
			}
			idx[v] = int32(i)
		}
		chunk.AppendTriangle(idx[0], idx[1], idx[2])
	}

	it.pos = end

	if it.l != nil {
		progress := float64(it.pos) / float64(max1(len(it.tris)))
		it.l.ReportProgress(it.l, progress)
		if !it.HasNext() {
			it.l.ReportEnd(it.l)
		}
	}

	return chunk, nil
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// Name returns the solid name declared by the most recently loaded file,
// if any.
func (l *Loader) Name() string { return l.name }

var _ loader.Loader = (*Loader)(nil)
