// Package loader defines the shared contract every format decoder in this
// module (ply, obj, threeds, stl, codec, gltf) implements: the Loader and
// Iterator interfaces, the listener/progress/locking protocol, the shared
// configuration knobs, and format sniffing by magic bytes.
package loader

import (
	"github.com/go-mesh/meshio/mesh"
)

// Format identifies the on-disk representation a Loader decodes.
type Format int

const (
	FormatUnknown Format = iota
	FormatPLYAscii
	FormatPLYBinaryLittleEndian
	FormatPLYBinaryBigEndian
	FormatOBJ
	Format3DS
	FormatSTL
	FormatBinary // this module's own internal encoded format
	FormatGLTF
)

func (f Format) String() string {
	switch f {
	case FormatPLYAscii:
		return "PLY (ascii)"
	case FormatPLYBinaryLittleEndian:
		return "PLY (binary, little-endian)"
	case FormatPLYBinaryBigEndian:
		return "PLY (binary, big-endian)"
	case FormatOBJ:
		return "OBJ"
	case Format3DS:
		return "3DS"
	case FormatSTL:
		return "STL"
	case FormatBinary:
		return "meshio binary"
	case FormatGLTF:
		return "glTF"
	default:
		return "unknown"
	}
}

// Loader is the contract every format decoder satisfies. A Loader is
// constructed unready, becomes ready once a file is bound, and becomes
// locked for the duration of a Load() call's returned Iterator.
type Loader interface {
	// MeshFormat reports the format this Loader decodes.
	MeshFormat() Format
	// HasFile reports whether a file has been bound via SetFile.
	HasFile() bool
	// IsReady reports whether the Loader can currently Load().
	IsReady() bool
	// IsLocked reports whether a load is in flight.
	IsLocked() bool
	// SetFile binds path as the file this Loader will decode. Fails with
	// Locked if a load is in flight.
	SetFile(path string) error
	// SetListener installs the callback sink for load lifecycle events.
	// While a load is in flight the call has no effect and no Locked
	// error is reported.
	SetListener(l Listener)
	// IsValidFile sniffs the bound file's magic bytes without consuming
	// the Loader's read position.
	IsValidFile() bool
	// Load transitions the Loader to locked and returns an Iterator that
	// pulls DataChunks one at a time.
	Load() (Iterator, error)
	// Close releases the bound file, clearing the lock if one is held.
	Close() error
}

// Iterator pulls DataChunks from a locked Loader.
type Iterator interface {
	// HasNext reports whether another chunk remains.
	HasNext() bool
	// Next produces the next chunk. The caller owns the returned chunk.
	Next() (*mesh.DataChunk, error)
}

// Listener receives the three lifecycle events every Loader fires exactly
// once (start, end) or monotonically (progress) over the course of one
// load.
type Listener interface {
	OnLoadStart(l Loader)
	OnLoadEnd(l Loader)
	OnLoadProgressChange(l Loader, progress float64)
}

// MaterialLoaderRequester is implemented by listeners that want to resolve
// OBJ `mtllib` directives to an actual MaterialLoader (usually by opening a
// file relative to the OBJ's directory).
type MaterialLoaderRequester interface {
	OnMaterialLoaderRequested(l Loader, mtlPath string) (MaterialLoader, error)
}

// MaterialLoader parses a material library (MTL) and resolves material
// names to *mesh.Material, used by the obj package.
type MaterialLoader interface {
	Load() (map[string]*mesh.Material, error)
}

// TextureValidator is implemented by listeners that confirm or reject a
// referenced texture, setting mesh.Texture.Valid.
type TextureValidator interface {
	OnValidateTexture(l Loader, tex *mesh.Texture) bool
}

// NopListener implements Listener (and, trivially, TextureValidator) by
// doing nothing; Loaders default to it when SetListener is never called so
// nil checks don't have to be sprinkled through every decoder.
type NopListener struct{}

func (NopListener) OnLoadStart(Loader)                        {}
func (NopListener) OnLoadEnd(Loader)                           {}
func (NopListener) OnLoadProgressChange(Loader, float64)       {}
func (NopListener) OnValidateTexture(Loader, *mesh.Texture) bool { return true }

var _ Listener = NopListener{}
var _ TextureValidator = NopListener{}
