package threeds

import (
	"os"

	"github.com/go-mesh/meshio/internal/ioreader"
	"github.com/go-mesh/meshio/loader"
)

// Loader decodes Autodesk 3DS files into the module's DataChunk stream.
type Loader struct {
	*loader.Base
	active *iterator
}

// New constructs a 3DS Loader with the given configuration overrides.
func New(opts ...loader.Option) (*Loader, error) {
	cfg, err := loader.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Loader{Base: loader.NewBase(loader.Format3DS, cfg)}, nil
}

// IsValidFile sniffs the MAIN3DS chunk id (0x4D4D) at the start of the
// file.
func (l *Loader) IsValidFile() bool {
	if !l.HasFile() {
		return false
	}
	r, err := ioreader.NewStream(l.Path())
	if err != nil {
		return false
	}
	defer r.Close()
	id, err := r.ReadUint16()
	return err == nil && uint16(id) == chunkMain
}

// Load parses the whole 3DS file eagerly (the format's nested-chunk
// structure interleaves geometry and materials in a way that does not
// lend itself to the lazy vertex-fetch split the ply package uses — 3DS
// files in practice are small enough that this is not a streaming
// concern) and returns an Iterator that assembles DataChunks per object,
// per material, lazily deriving normals only as each chunk is produced.
func (l *Loader) Load() (loader.Iterator, error) {
	if err := l.RequireReady(); err != nil {
		return nil, err
	}

	info, err := os.Stat(l.Path())
	if err != nil {
		return nil, loader.Wrap(loader.IOFailure, "stat 3ds file", err)
	}

	r, err := ioreader.NewStream(l.Path())
	if err != nil {
		return nil, loader.Wrap(loader.IOFailure, "open 3ds file", err)
	}
	defer r.Close()

	doc, err := parse3DS(r, info.Size())
	if err != nil {
		return nil, err
	}

	l.Lock(l)
	it := &iterator{l: l, doc: doc, cfg: l.Config()}
	l.active = it
	if !it.HasNext() {
		// An empty document (no objects/faces) never calls Next(), so
		// nothing would otherwise fire OnLoadEnd or clear the lock.
		it.finish()
	}
	return it, nil
}

// Close implements Loader.Close; like obj, 3DS holds no open file handle
// between calls.
func (l *Loader) Close() error {
	l.active = nil
	return l.Base.Close()
}

var _ loader.Loader = (*Loader)(nil)
