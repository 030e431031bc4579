// Package endian converts primitive values between host representation and
// an explicit big- or little-endian byte order.
//
// Every format decoder in this module (ply, stl, threeds, codec) reads
// values in a byte order chosen by the file itself rather than the host
// machine, so all multi-byte access goes through this package instead of
// ad-hoc encoding/binary calls.
package endian

import (
	"encoding/binary"
	"math"
)

// Order identifies the byte order a value is encoded in.
type Order int

const (
	Big Order = iota
	Little
)

func (o Order) byteOrder() binary.ByteOrder {
	if o == Big {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Uint16 decodes an unsigned 16-bit value in the given order.
func Uint16(b []byte, o Order) uint16 { return o.byteOrder().Uint16(b) }

// Uint32 decodes an unsigned 32-bit value in the given order.
func Uint32(b []byte, o Order) uint32 { return o.byteOrder().Uint32(b) }

// Uint64 decodes an unsigned 64-bit value in the given order.
func Uint64(b []byte, o Order) uint64 { return o.byteOrder().Uint64(b) }

// Int16 decodes a signed 16-bit value in the given order.
func Int16(b []byte, o Order) int16 { return int16(Uint16(b, o)) }

// Int32 decodes a signed 32-bit value in the given order.
func Int32(b []byte, o Order) int32 { return int32(Uint32(b, o)) }

// Int64 decodes a signed 64-bit value in the given order.
func Int64(b []byte, o Order) int64 { return int64(Uint64(b, o)) }

// Float32 decodes an IEEE-754 single-precision value in the given order.
func Float32(b []byte, o Order) float32 {
	return math.Float32frombits(Uint32(b, o))
}

// Float64 decodes an IEEE-754 double-precision value in the given order.
func Float64(b []byte, o Order) float64 {
	return math.Float64frombits(Uint64(b, o))
}

// PutUint16 encodes v into b in the given order. b must have length >= 2.
func PutUint16(b []byte, v uint16, o Order) { o.byteOrder().PutUint16(b, v) }

// PutUint32 encodes v into b in the given order. b must have length >= 4.
func PutUint32(b []byte, v uint32, o Order) { o.byteOrder().PutUint32(b, v) }

// PutUint64 encodes v into b in the given order. b must have length >= 8.
func PutUint64(b []byte, v uint64, o Order) { o.byteOrder().PutUint64(b, v) }

// PutInt16 encodes v into b in the given order.
func PutInt16(b []byte, v int16, o Order) { PutUint16(b, uint16(v), o) }

// PutInt32 encodes v into b in the given order.
func PutInt32(b []byte, v int32, o Order) { PutUint32(b, uint32(v), o) }

// PutInt64 encodes v into b in the given order.
func PutInt64(b []byte, v int64, o Order) { PutUint64(b, uint64(v), o) }

// PutFloat32 encodes v's raw IEEE-754 bits into b in the given order.
func PutFloat32(b []byte, v float32, o Order) {
	PutUint32(b, math.Float32bits(v), o)
}

// PutFloat64 encodes v's raw IEEE-754 bits into b in the given order.
func PutFloat64(b []byte, v float64, o Order) {
	PutUint64(b, math.Float64bits(v), o)
}

// Swap16 reverses the byte order of a 16-bit value.
func Swap16(v uint16) uint16 {
	return v<<8 | v>>8
}

// Swap32 reverses the byte order of a 32-bit value.
func Swap32(v uint32) uint32 {
	return v<<24 | (v&0xFF00)<<8 | (v&0xFF0000)>>8 | v>>24
}

// Swap64 reverses the byte order of a 64-bit value.
func Swap64(v uint64) uint64 {
	return v<<56 |
		(v&0x000000000000FF00)<<40 |
		(v&0x0000000000FF0000)<<24 |
		(v&0x00000000FF000000)<<8 |
		(v&0x000000FF00000000)>>8 |
		(v&0x0000FF0000000000)>>24 |
		(v&0x00FF000000000000)>>40 |
		v>>56
}
