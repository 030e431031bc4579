package ioreader

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-mesh/meshio/internal/endian"
)

// readerAtBase implements the Reader contract on top of any io.ReaderAt,
// so the stream-backed and memory-mapped variants can share one
// implementation of every primitive, text and seek operation and only
// differ in how raw bytes reach them.
type readerAtBase struct {
	ra    io.ReaderAt
	size  int64
	pos   int64
	order endian.Order
}

func newReaderAtBase(ra io.ReaderAt, size int64) *readerAtBase {
	return &readerAtBase{ra: ra, size: size, order: endian.Little}
}

func (r *readerAtBase) Size() (int64, error) { return r.size, nil }

func (r *readerAtBase) Position() (int64, error) { return r.pos, nil }

func (r *readerAtBase) Seek(pos int64) error {
	if pos < 0 || pos > r.size {
		return fmt.Errorf("ioreader: seek %d out of range [0,%d]", pos, r.size)
	}
	r.pos = pos
	return nil
}

func (r *readerAtBase) Skip(n int64) error { return r.Seek(r.pos + n) }

func (r *readerAtBase) DefaultOrder() endian.Order      { return r.order }
func (r *readerAtBase) SetDefaultOrder(o endian.Order)  { r.order = o }

// ReadRange performs a positioned read that never moves the sequential
// cursor used by ReadByte/ReadBytes/ReadFull and friends.
func (r *readerAtBase) ReadRange(offset int64, n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	read, err := r.ra.ReadAt(buf, offset)
	if err != nil && !(err == io.EOF && read == n) {
		return nil, err
	}
	return buf, nil
}

func (r *readerAtBase) ReadBytes(n int) ([]byte, error) {
	b, err := r.ReadRange(r.pos, n)
	if err != nil {
		return nil, err
	}
	r.pos += int64(n)
	return b, nil
}

func (r *readerAtBase) ReadByte() (byte, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *readerAtBase) ReadFull(buf []byte) error {
	b, err := r.ReadBytes(len(buf))
	if err != nil {
		return err
	}
	copy(buf, b)
	return nil
}

func (r *readerAtBase) ReadBool() (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

func (r *readerAtBase) ReadInt8() (int8, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	return int8(b), nil
}

func (r *readerAtBase) ReadUint8() (int16, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	return int16(b), nil
}

func (r *readerAtBase) ReadInt16E(o endian.Order) (int16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return endian.Int16(b, o), nil
}

func (r *readerAtBase) ReadUint16E(o endian.Order) (int32, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return int32(endian.Uint16(b, o)), nil
}

func (r *readerAtBase) ReadInt32E(o endian.Order) (int32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return endian.Int32(b, o), nil
}

func (r *readerAtBase) ReadUint32E(o endian.Order) (int64, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return int64(endian.Uint32(b, o)), nil
}

func (r *readerAtBase) ReadInt64E(o endian.Order) (int64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return endian.Int64(b, o), nil
}

func (r *readerAtBase) ReadFloat32E(o endian.Order) (float32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return endian.Float32(b, o), nil
}

func (r *readerAtBase) ReadFloat64E(o endian.Order) (float64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return endian.Float64(b, o), nil
}

func (r *readerAtBase) ReadInt16() (int16, error)     { return r.ReadInt16E(r.order) }
func (r *readerAtBase) ReadUint16() (int32, error)    { return r.ReadUint16E(r.order) }
func (r *readerAtBase) ReadInt32() (int32, error)     { return r.ReadInt32E(r.order) }
func (r *readerAtBase) ReadUint32() (int64, error)    { return r.ReadUint32E(r.order) }
func (r *readerAtBase) ReadInt64() (int64, error)     { return r.ReadInt64E(r.order) }
func (r *readerAtBase) ReadFloat32() (float32, error) { return r.ReadFloat32E(r.order) }
func (r *readerAtBase) ReadFloat64() (float64, error) { return r.ReadFloat64E(r.order) }

// ReadLine reads up to the next CR, LF or CRLF terminator, excluding it.
func (r *readerAtBase) ReadLine() (string, error) {
	if r.pos >= r.size {
		return "", io.EOF
	}
	var out []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				break
			}
			return "", err
		}
		if b == '\n' {
			break
		}
		if b == '\r' {
			// Peek for an optional following '\n' to collapse CRLF.
			if r.pos < r.size {
				next, err := r.ReadRange(r.pos, 1)
				if err == nil && len(next) == 1 && next[0] == '\n' {
					r.pos++
				}
			}
			break
		}
		out = append(out, b)
	}
	return string(out), nil
}

func isWordSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// ReadWord reads the next whitespace-delimited token, skipping leading
// whitespace. ok is false once no non-whitespace bytes remain.
func (r *readerAtBase) ReadWord() (string, bool, error) {
	for r.pos < r.size {
		b, err := r.ReadRange(r.pos, 1)
		if err != nil {
			return "", false, err
		}
		if !isWordSpace(b[0]) {
			break
		}
		r.pos++
	}
	if r.pos >= r.size {
		return "", false, nil
	}

	var out []byte
	for r.pos < r.size {
		b, err := r.ReadRange(r.pos, 1)
		if err != nil {
			return "", false, err
		}
		if isWordSpace(b[0]) {
			break
		}
		out = append(out, b[0])
		r.pos++
	}
	return string(out), true, nil
}

func (r *readerAtBase) ReadUTF() (string, error) {
	n, err := r.ReadUint16E(endian.Big)
	if err != nil {
		return "", err
	}
	b, err := r.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// readLineFromBuffer splits the first LF-terminated line off an in-memory
// buffer, dropping a trailing CR, and returns it with the remaining bytes.
// Nothing in this module calls it; the ASCII decoders read lines through
// a Reader.
func readLineFromBuffer(b []byte) (line []byte, rest []byte) {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		line = b[:i]
		line = bytes.TrimSuffix(line, []byte{'\r'})
		return line, b[i+1:]
	}
	return b, nil
}
