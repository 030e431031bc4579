package gltf

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	qgltf "github.com/qmuntal/gltf"

	"github.com/go-mesh/meshio/internal/endian"
)

// bufferBytes returns a buffer's raw bytes, supporting the three sources
// glTF allows: data already embedded by the loader (the GLB binary
// chunk), a base64 "data:" URI, or an external file read relative to the
// document's own path.
func bufferBytes(doc *qgltf.Document, bufIdx int, basePath string) ([]byte, error) {
	buf := doc.Buffers[bufIdx]
	if buf.URI == "" {
		if buf.Data == nil {
			return nil, fmt.Errorf("buffer %d has no data", bufIdx)
		}
		return buf.Data, nil
	}
	if strings.HasPrefix(buf.URI, "data:") {
		idx := strings.Index(buf.URI, ",")
		if idx < 0 {
			return nil, fmt.Errorf("buffer %d: malformed data URI", bufIdx)
		}
		return base64.StdEncoding.DecodeString(buf.URI[idx+1:])
	}
	return os.ReadFile(filepath.Join(filepath.Dir(basePath), buf.URI))
}

// readVec3Accessor decodes a VEC3 accessor (positions or normals) into a
// slice of [3]float32 triples.
func readVec3Accessor(doc *qgltf.Document, accessorIdx int, basePath string) ([][3]float32, error) {
	acc := doc.Accessors[accessorIdx]
	if acc.Type != qgltf.AccessorVec3 {
		return nil, fmt.Errorf("accessor %d: expected VEC3, got %v", accessorIdx, acc.Type)
	}
	raw, stride, err := accessorBytes(doc, acc, basePath)
	if err != nil {
		return nil, err
	}
	if stride == 0 {
		stride = 12
	}
	out := make([][3]float32, acc.Count)
	for i := range out {
		base := int(acc.ByteOffset) + i*stride
		for j := 0; j < 3; j++ {
			out[i][j] = endian.Float32(raw[base+j*4:base+j*4+4], endian.Little)
		}
	}
	return out, nil
}

// readVec2Accessor decodes a VEC2 accessor (texture coordinates) into a
// slice of [2]float32 pairs, flipping V the way every other decoder in
// this module does NOT — glTF's origin is top-left, matching none of
// PLY/OBJ/3DS/STL's convention, so the flip stays local to this package.
func readVec2Accessor(doc *qgltf.Document, accessorIdx int, basePath string) ([][2]float32, error) {
	acc := doc.Accessors[accessorIdx]
	if acc.Type != qgltf.AccessorVec2 {
		return nil, fmt.Errorf("accessor %d: expected VEC2, got %v", accessorIdx, acc.Type)
	}
	raw, stride, err := accessorBytes(doc, acc, basePath)
	if err != nil {
		return nil, err
	}
	if stride == 0 {
		stride = 8
	}
	out := make([][2]float32, acc.Count)
	for i := range out {
		base := int(acc.ByteOffset) + i*stride
		out[i][0] = endian.Float32(raw[base:base+4], endian.Little)
		out[i][1] = 1 - endian.Float32(raw[base+4:base+8], endian.Little)
	}
	return out, nil
}

// readIndices decodes a SCALAR accessor of unsigned 8/16/32-bit component
// type into plain ints, the form every triangulation path in this package
// wants.
func readIndices(doc *qgltf.Document, accessorIdx int, basePath string) ([]int, error) {
	acc := doc.Accessors[accessorIdx]
	if acc.Type != qgltf.AccessorScalar {
		return nil, fmt.Errorf("accessor %d: expected SCALAR, got %v", accessorIdx, acc.Type)
	}
	raw, stride, err := accessorBytes(doc, acc, basePath)
	if err != nil {
		return nil, err
	}

	out := make([]int, acc.Count)
	switch acc.ComponentType {
	case qgltf.ComponentUbyte:
		if stride == 0 {
			stride = 1
		}
		for i := range out {
			out[i] = int(raw[int(acc.ByteOffset)+i*stride])
		}
	case qgltf.ComponentUshort:
		if stride == 0 {
			stride = 2
		}
		for i := range out {
			base := int(acc.ByteOffset) + i*stride
			out[i] = int(endian.Uint16(raw[base:base+2], endian.Little))
		}
	case qgltf.ComponentUint:
		if stride == 0 {
			stride = 4
		}
		for i := range out {
			base := int(acc.ByteOffset) + i*stride
			out[i] = int(endian.Uint32(raw[base:base+4], endian.Little))
		}
	default:
		return nil, fmt.Errorf("accessor %d: unsupported index component type %v", accessorIdx, acc.ComponentType)
	}
	return out, nil
}

// accessorBytes returns the raw buffer-view bytes an accessor reads from,
// plus the view's byte stride (0 meaning "tightly packed", resolved by
// each caller against its own element size).
func accessorBytes(doc *qgltf.Document, acc *qgltf.Accessor, basePath string) ([]byte, int, error) {
	if acc.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view (sparse/zero-filled accessors are not supported)")
	}
	bv := doc.BufferViews[*acc.BufferView]
	data, err := bufferBytes(doc, int(bv.Buffer), basePath)
	if err != nil {
		return nil, 0, fmt.Errorf("read buffer %d: %w", bv.Buffer, err)
	}
	start := int(bv.ByteOffset)
	end := start + int(bv.ByteLength)
	if end > len(data) {
		return nil, 0, fmt.Errorf("buffer view out of range")
	}
	return data[start:end], int(bv.ByteStride), nil
}
