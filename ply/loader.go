package ply

import (
	"os"
	"strings"

	"github.com/go-mesh/meshio/internal/ioreader"
	"github.com/go-mesh/meshio/loader"
)

// Loader decodes PLY files (ascii, binary_little_endian, binary_big_endian)
// into the module's DataChunk stream.
type Loader struct {
	*loader.Base
	header *Header
	// resolvedFormat overrides Base's constructor-time format once the
	// header reveals the actual storage mode (ascii vs little- vs
	// big-endian binary); zero until the first successful Load.
	resolvedFormat loader.Format

	active *iterator
}

// MeshFormat reports the storage-mode-specific format once Load has parsed
// the header, falling back to the constructor default beforehand.
func (l *Loader) MeshFormat() loader.Format {
	if l.resolvedFormat != loader.FormatUnknown {
		return l.resolvedFormat
	}
	return l.Base.MeshFormat()
}

// New constructs a PLY Loader with the given configuration overrides.
func New(opts ...loader.Option) (*Loader, error) {
	cfg, err := loader.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Loader{Base: loader.NewBase(loader.FormatPLYAscii, cfg)}, nil
}

// IsValidFile sniffs the "ply" magic and a well-formed "format" line without
// consuming the bound file for Load.
func (l *Loader) IsValidFile() bool {
	if !l.HasFile() {
		return false
	}
	r, err := ioreader.NewStream(l.Path())
	if err != nil {
		return false
	}
	defer r.Close()
	h, err := ParseHeader(r)
	return err == nil && h != nil
}

// Load parses the header, then returns a lazily-pulling Iterator. The face
// index list (lightweight: integers only) is read eagerly since it drives
// chunk assembly order; the far larger per-vertex attribute data is fetched
// on demand, one triangle at a time, through a dedicated positioned reader
// kept independent of the header/body cursor — the "indexed random-access
// over vertices" the format calls for. A file no larger than
// FileSizeLimitToKeepInMemory is first read into memory whole and both
// readers work over that copy; a larger file is read from disk on demand.
func (l *Loader) Load() (loader.Iterator, error) {
	if err := l.RequireReady(); err != nil {
		return nil, err
	}

	info, err := os.Stat(l.Path())
	if err != nil {
		return nil, loader.Wrap(loader.IOFailure, "stat ply file", err)
	}
	slurp := info.Size() <= l.Config().FileSizeLimitToKeepInMemory

	var body, vr ioreader.Reader
	if slurp {
		data, err := os.ReadFile(l.Path())
		if err != nil {
			return nil, loader.Wrap(loader.IOFailure, "read ply file", err)
		}
		body = ioreader.NewMemory(data)
		vr = ioreader.NewMemory(data)
	} else {
		body, err = ioreader.NewStream(l.Path())
		if err != nil {
			return nil, loader.Wrap(loader.IOFailure, "open ply file", err)
		}
		vr, err = ioreader.NewStream(l.Path())
		if err != nil {
			body.Close()
			return nil, loader.Wrap(loader.IOFailure, "open ply file", err)
		}
	}

	header, err := ParseHeader(body)
	if err != nil {
		body.Close()
		vr.Close()
		return nil, err
	}
	l.header = header
	switch header.Mode {
	case BinaryLittleEndian:
		l.resolvedFormat = loader.FormatPLYBinaryLittleEndian
	case BinaryBigEndian:
		l.resolvedFormat = loader.FormatPLYBinaryBigEndian
	default:
		l.resolvedFormat = loader.FormatPLYAscii
	}

	var access *vertexAccess
	var layout *vertexLayout
	var vertexElement *Element
	var faces []faceRecord
	var faceElementSeen bool

	for i := range header.Elements {
		e := &header.Elements[i]
		switch strings.ToLower(e.Name) {
		case "vertex":
			vertexElement = e
			layout = newVertexLayout(e)
			access, err = buildVertexAccess(body, header.Mode, e, l.Config().MaxStreamPositions)
			if err != nil {
				body.Close()
				vr.Close()
				return nil, err
			}
		case "face":
			faceElementSeen = true
			if vertexElement == nil {
				body.Close()
				vr.Close()
				return nil, loader.New(loader.Malformed, "face element precedes vertex element")
			}
			faces, err = readFaces(body, header.Mode, e)
			if err != nil {
				body.Close()
				vr.Close()
				return nil, err
			}
		default:
			if err := skipElement(body, header.Mode, e); err != nil {
				body.Close()
				vr.Close()
				return nil, err
			}
		}
	}

	l.Lock(l)
	it := &iterator{
		l:       l,
		vr:      vr,
		body:    body,
		mode:    header.Mode,
		access:  access,
		layout:  layout,
		vtxElem: vertexElement,
		faces:   faces,
		cfg:     l.Config(),
	}
	if !faceElementSeen && vertexElement != nil {
		it.pointCloud = true
		it.totalVerts = vertexElement.Count
	}
	l.active = it
	if !it.HasNext() {
		// An empty element (no faces/vertices) never calls Next(), so
		// nothing would otherwise fire OnLoadEnd or clear the lock.
		it.finish()
	}
	return it, nil
}

// Close releases any file handles opened by the most recent Load and clears
// the lock, in addition to Base.Close's unlock-only behavior.
func (l *Loader) Close() error {
	if l.active != nil {
		l.active.closeReaders()
		l.active = nil
	}
	return l.Base.Close()
}

var _ loader.Loader = (*Loader)(nil)
