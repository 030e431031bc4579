package codec

import (
	"github.com/go-mesh/meshio/internal/ioreader"
	"github.com/go-mesh/meshio/loader"
)

// textureRecord is one entry from the binary format's texture table: the
// side-file name a material's texture slot resolves to by id.
type textureRecord struct {
	width, height int
	path          string
}

// Loader decodes this module's own internal binary format back into a
// DataChunk stream. Unlike Writer.Encode, which must buffer every chunk in
// memory, Load only has to read the texture table and chunk count eagerly;
// each chunk is then read lazily, one per Next() call, directly off the
// open Stream — the format's chunk-per-record layout makes it a natural
// streaming reader even though producing it required buffering the source.
type Loader struct {
	*loader.Base
	active *iterator
}

// New constructs a binary-format Loader.
func New(opts ...loader.Option) (*Loader, error) {
	cfg, err := loader.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Loader{Base: loader.NewBase(loader.FormatBinary, cfg)}, nil
}

// IsValidFile sniffs the "MESH_WRITER_BIN" magic.
func (l *Loader) IsValidFile() bool {
	if !l.HasFile() {
		return false
	}
	r, err := ioreader.NewStream(l.Path())
	if err != nil {
		return false
	}
	defer r.Close()
	got, err := r.ReadUTF()
	return err == nil && got == magic
}

// Load reads the magic, version, texture table and chunk count, then
// returns an Iterator that reads chunk records lazily from the same open
// Stream.
func (l *Loader) Load() (loader.Iterator, error) {
	if err := l.RequireReady(); err != nil {
		return nil, err
	}

	r, err := ioreader.NewStream(l.Path())
	if err != nil {
		return nil, loader.Wrap(loader.IOFailure, "open binary file", err)
	}

	got, err := r.ReadUTF()
	if err != nil {
		r.Close()
		return nil, loader.Wrap(loader.IOFailure, "read magic", err)
	}
	if got != magic {
		r.Close()
		return nil, loader.New(loader.Malformed, "not a meshio binary file: bad magic")
	}
	v, err := r.ReadUint8()
	if err != nil {
		r.Close()
		return nil, loader.Wrap(loader.IOFailure, "read version", err)
	}
	if v != version {
		r.Close()
		return nil, loader.New(loader.Malformed, "unsupported meshio binary version")
	}

	textures, err := readTextureTable(r)
	if err != nil {
		r.Close()
		return nil, err
	}

	count, err := r.ReadUint32()
	if err != nil {
		r.Close()
		return nil, loader.Wrap(loader.IOFailure, "read chunk count", err)
	}

	l.Lock(l)
	it := &iterator{l: l, r: r, textures: textures, remaining: int(count), total: int(count)}
	l.active = it
	if !it.HasNext() {
		// An empty codec file (zero chunks) never calls Next(), so nothing
		// would otherwise fire OnLoadEnd or clear the lock.
		it.finish()
	}
	return it, nil
}

func readTextureTable(r ioreader.Reader) (map[int]textureRecord, error) {
	count, err := r.ReadUint32()
	if err != nil {
		return nil, loader.Wrap(loader.IOFailure, "read texture count", err)
	}
	out := make(map[int]textureRecord, count)
	for i := int64(0); i < count; i++ {
		id, err := r.ReadUint32()
		if err != nil {
			return nil, loader.Wrap(loader.IOFailure, "read texture id", err)
		}
		width, err := r.ReadUint32()
		if err != nil {
			return nil, loader.Wrap(loader.IOFailure, "read texture width", err)
		}
		height, err := r.ReadUint32()
		if err != nil {
			return nil, loader.Wrap(loader.IOFailure, "read texture height", err)
		}
		name, err := r.ReadUTF()
		if err != nil {
			return nil, loader.Wrap(loader.IOFailure, "read texture side file name", err)
		}
		out[int(id)] = textureRecord{width: int(width), height: int(height), path: name}
	}
	return out, nil
}

// Close releases the open stream, if any.
func (l *Loader) Close() error {
	if l.active != nil {
		l.active.r.Close()
		l.active = nil
	}
	return l.Base.Close()
}

var _ loader.Loader = (*Loader)(nil)
