package gltf

import (
	"bufio"
	"encoding/binary"
	"os"
	"strings"
	"unicode"

	"github.com/go-mesh/meshio/loader"
)

const glbMagic = 0x46546C67 // "glTF", little-endian, loader.Sniff's own check

// Loader decodes glTF (.gltf JSON) and GLB (binary) files via
// github.com/qmuntal/gltf, which transparently handles both containers
// through the same Open call.
type Loader struct {
	*loader.Base
	active *iterator
}

// New constructs a glTF/GLB Loader with the given configuration overrides.
func New(opts ...loader.Option) (*Loader, error) {
	cfg, err := loader.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Loader{Base: loader.NewBase(loader.FormatGLTF, cfg)}, nil
}

// IsValidFile recognizes a bound file as glTF/GLB by either the 4-byte
// binary magic loader.Sniff already checks for, or — since that magic
// only ever appears in the .glb container — a leading '{' for the plain
// JSON .gltf form, confirmed by a cheap scan for a top-level "asset" key
// rather than a full JSON parse.
func (l *Loader) IsValidFile() bool {
	if !l.HasFile() {
		return false
	}
	f, err := os.Open(l.Path())
	if err != nil {
		return false
	}
	defer f.Close()

	var header [4]byte
	if _, err := f.Read(header[:]); err != nil {
		return false
	}
	if binary.LittleEndian.Uint32(header[:]) == glbMagic {
		return true
	}

	if _, err := f.Seek(0, 0); err != nil {
		return false
	}
	return looksLikeGLTFJSON(f)
}

// looksLikeGLTFJSON scans the first few KB of r for a top-level "asset"
// key, the one field every valid glTF JSON document must carry, without
// pulling in a full JSON decode just to sniff the file.
func looksLikeGLTFJSON(f *os.File) bool {
	br := bufio.NewReaderSize(f, 4096)
	first, err := br.Peek(1)
	if err != nil {
		return false
	}
	if r := rune(first[0]); !unicode.IsSpace(r) && r != '{' {
		return false
	}
	buf := make([]byte, 0, 4096)
	chunk := make([]byte, 4096)
	n, _ := br.Read(chunk)
	buf = append(buf, chunk[:n]...)
	return strings.Contains(string(buf), `"asset"`)
}

// Load opens the bound file with qmuntal/gltf, flattens its node
// hierarchy and primitives into a document eagerly (the whole file is
// already in memory once opened, the same way threeds and obj parse
// their input up front), then returns an Iterator that lazily turns each
// primitive into one or more DataChunks.
func (l *Loader) Load() (loader.Iterator, error) {
	if err := l.RequireReady(); err != nil {
		return nil, err
	}

	doc, err := parseDocument(l.Path(), l.Listener(), l)
	if err != nil {
		return nil, err
	}

	l.Lock(l)
	it := &iterator{l: l, doc: doc, cfg: l.Config()}
	l.active = it
	if !it.HasNext() {
		// An empty document (no primitives) never calls Next(), so nothing
		// would otherwise fire OnLoadEnd or clear the lock.
		it.finish()
	}
	return it, nil
}

// Close implements Loader.Close; gltf holds no open file handle between
// calls (Load reads the whole file up front via qmuntal/gltf.Open), so
// this only clears the lock.
func (l *Loader) Close() error {
	l.active = nil
	return l.Base.Close()
}

var _ loader.Loader = (*Loader)(nil)
