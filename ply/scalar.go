package ply

import (
	"math"
	"strconv"

	"github.com/go-mesh/meshio/internal/endian"
	"github.com/go-mesh/meshio/internal/ioreader"
	"github.com/go-mesh/meshio/loader"
)

// scalarSource reads a single property value of the given Type from the
// current position of an underlying Reader, advancing it by exactly one
// value. ASCII and binary bodies share every other piece of parsing logic
// (element walking, face triangulation, chunk assembly) through this one
// seam.
type scalarSource interface {
	ReadFloat(t Type) (float64, error)
	ReadInt(t Type) (int64, error)
}

type binarySource struct {
	r     ioreader.Reader
	order endian.Order
}

func newBinarySource(r ioreader.Reader, mode StorageMode) *binarySource {
	o := endian.Little
	if mode == BinaryBigEndian {
		o = endian.Big
	}
	return &binarySource{r: r, order: o}
}

func (s *binarySource) ReadFloat(t Type) (float64, error) {
	switch t {
	case Int8:
		v, err := s.r.ReadInt8()
		return float64(v), err
	case Uint8:
		v, err := s.r.ReadUint8()
		return float64(v), err
	case Int16:
		v, err := s.r.ReadInt16E(s.order)
		return float64(v), err
	case Uint16:
		v, err := s.r.ReadUint16E(s.order)
		return float64(v), err
	case Int32:
		v, err := s.r.ReadInt32E(s.order)
		return float64(v), err
	case Uint32:
		v, err := s.r.ReadUint32E(s.order)
		return float64(v), err
	case Float32:
		v, err := s.r.ReadFloat32E(s.order)
		return float64(v), err
	case Float64:
		return s.r.ReadFloat64E(s.order)
	default:
		return 0, loader.New(loader.Malformed, "unknown scalar type")
	}
}

func (s *binarySource) ReadInt(t Type) (int64, error) {
	v, err := s.ReadFloat(t)
	return int64(math.Round(v)), err
}

type asciiSource struct {
	r ioreader.Reader
}

func newAsciiSource(r ioreader.Reader) *asciiSource { return &asciiSource{r: r} }

func (s *asciiSource) nextToken() (string, error) {
	word, ok, err := s.r.ReadWord()
	if err != nil {
		return "", loader.Wrap(loader.IOFailure, "read ascii ply token", err)
	}
	if !ok {
		return "", loader.New(loader.IOFailure, "unexpected end of ascii ply body")
	}
	return word, nil
}

func (s *asciiSource) ReadFloat(t Type) (float64, error) {
	tok, err := s.nextToken()
	if err != nil {
		return 0, err
	}
	// Floating text values that are integers are accepted (ParseFloat
	// already handles both "3" and "3.0").
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, loader.Wrap(loader.Malformed, "malformed ascii ply scalar "+tok, err)
	}
	return v, nil
}

func (s *asciiSource) ReadInt(t Type) (int64, error) {
	v, err := s.ReadFloat(t)
	return int64(math.Round(v)), err
}

func newScalarSource(r ioreader.Reader, mode StorageMode) scalarSource {
	if mode == ASCII {
		return newAsciiSource(r)
	}
	return newBinarySource(r, mode)
}

// skipProperty advances src past one instance of a (possibly list) property
// without retaining its value.
func skipProperty(src scalarSource, p Property) error {
	if !p.IsList {
		_, err := src.ReadFloat(p.Type)
		return err
	}
	n, err := src.ReadInt(p.CountType)
	if err != nil {
		return err
	}
	for i := int64(0); i < n; i++ {
		if _, err := src.ReadFloat(p.Type); err != nil {
			return err
		}
	}
	return nil
}

// skipElementInstance advances src past one full instance (every property)
// of e.
func skipElementInstance(src scalarSource, e *Element) error {
	for _, p := range e.Properties {
		if err := skipProperty(src, p); err != nil {
			return err
		}
	}
	return nil
}
