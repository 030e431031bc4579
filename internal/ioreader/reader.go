// Package ioreader implements the positioned, endian-aware byte reader and
// writer substrate every format decoder in this module is built on.
//
// Two implementations share the same Reader/Writer contract: a stream-backed
// one (any *os.File, read through io.ReaderAt) and a memory-mapped one
// (golang.org/x/exp/mmap). Both must produce byte-identical results for the
// same file and the same sequence of calls.
package ioreader

import (
	"errors"
	"io"

	"github.com/go-mesh/meshio/internal/endian"
)

// ErrEOF is an alias of io.EOF, the error sequential primitive reads
// return at end of data. ReadWord does not return it: it reports the end
// of its tokens with ok=false and a nil error.
var ErrEOF = io.EOF

// Reader is the read half of the positioned byte reader capability set
// described by the module's streaming decoders.
type Reader interface {
	io.Closer

	// Seek moves the logical read cursor to an absolute byte position.
	Seek(pos int64) error
	// Position reports the current logical read cursor.
	Position() (int64, error)
	// Skip advances the read cursor by n bytes without reading them.
	Skip(n int64) error
	// Size reports the total length of the underlying file.
	Size() (int64, error)

	// ReadByte reads the next raw byte and advances the cursor.
	ReadByte() (byte, error)
	// ReadBytes reads n bytes and advances the cursor.
	ReadBytes(n int) ([]byte, error)
	// ReadFull fills buf entirely, like io.ReadFull, advancing the cursor.
	ReadFull(buf []byte) error
	// ReadRange reads n bytes at an absolute offset without disturbing the
	// logical read cursor used by the sequential Read* methods.
	ReadRange(offset int64, n int) ([]byte, error)

	DefaultOrder() endian.Order
	SetDefaultOrder(endian.Order)

	ReadBool() (bool, error)
	ReadInt8() (int8, error)
	ReadUint8() (int16, error) // unsigned 8-bit widened to int16, per spec

	ReadInt16() (int16, error)
	ReadUint16() (int32, error)
	ReadInt32() (int32, error)
	ReadUint32() (int64, error)
	ReadInt64() (int64, error)
	ReadFloat32() (float32, error)
	ReadFloat64() (float64, error)

	ReadInt16E(o endian.Order) (int16, error)
	ReadUint16E(o endian.Order) (int32, error)
	ReadInt32E(o endian.Order) (int32, error)
	ReadUint32E(o endian.Order) (int64, error)
	ReadInt64E(o endian.Order) (int64, error)
	ReadFloat32E(o endian.Order) (float32, error)
	ReadFloat64E(o endian.Order) (float64, error)

	// ReadLine reads up to the next CR, LF or CRLF terminator, not including
	// it. Returns io.EOF when the cursor is already at end of file.
	ReadLine() (string, error)
	// ReadWord reads the next whitespace-delimited token (space, tab, CR,
	// LF act as separators), skipping leading whitespace. ok is false at
	// EOF.
	ReadWord() (word string, ok bool, err error)
	// ReadUTF reads a big-endian uint16 length prefix followed by that many
	// UTF-8 bytes.
	ReadUTF() (string, error)
}

// Writer is the write half of the positioned byte reader/writer capability
// set. Not every Reader implementation supports writing (the memory-mapped
// reader in this module is read-only, matching golang.org/x/exp/mmap's
// actual capability).
type Writer interface {
	io.Closer

	Seek(pos int64) error
	Position() (int64, error)

	WriteByte(b byte) error
	WriteBytes(b []byte) error

	DefaultOrder() endian.Order
	SetDefaultOrder(endian.Order)

	WriteBool(v bool) error
	WriteInt8(v int8) error
	WriteUint8(v uint8) error

	WriteInt16(v int16) error
	WriteUint16(v uint16) error
	WriteInt32(v int32) error
	WriteUint32(v uint32) error
	WriteInt64(v int64) error
	WriteUint64(v uint64) error
	WriteFloat32(v float32) error
	WriteFloat64(v float64) error

	WriteInt16E(v int16, o endian.Order) error
	WriteUint16E(v uint16, o endian.Order) error
	WriteInt32E(v int32, o endian.Order) error
	WriteUint32E(v uint32, o endian.Order) error
	WriteInt64E(v int64, o endian.Order) error
	WriteUint64E(v uint64, o endian.Order) error
	WriteFloat32E(v float32, o endian.Order) error
	WriteFloat64E(v float64, o endian.Order) error

	// WriteASCII writes the raw 7-bit code points of s, with no NUL
	// terminator and no length prefix.
	WriteASCII(s string) error
	// WriteUTF writes a big-endian uint16 length prefix followed by s's
	// UTF-8 bytes.
	WriteUTF(s string) error
}

// ErrNotWritable is returned by Writer methods on a read-only implementation
// (the memory-mapped reader).
var ErrNotWritable = errors.New("ioreader: underlying reader does not support writes")
