package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-mesh/meshio/codec"
	"github.com/go-mesh/meshio/gltf"
	"github.com/go-mesh/meshio/loader"
	"github.com/go-mesh/meshio/obj"
	"github.com/go-mesh/meshio/ply"
	"github.com/go-mesh/meshio/stl"
	"github.com/go-mesh/meshio/threeds"
)

// openLoader picks the right format decoder for path and binds it,
// checking the file extension first (loader.Sniff's magic rules don't
// cover plain-JSON .gltf or this module's own .bin container) and
// falling back to loader.Sniff otherwise.
func openLoader(path string, l loader.Listener) (loader.Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return newBound(gltf.New, path, l)
	case ".bin":
		return newBound(codec.New, path, l)
	}

	format, err := loader.Sniff(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case loader.FormatPLYAscii, loader.FormatPLYBinaryLittleEndian, loader.FormatPLYBinaryBigEndian:
		return newBound(ply.New, path, l)
	case loader.Format3DS:
		return newBound(threeds.New, path, l)
	case loader.FormatSTL:
		return newBound(stl.New, path, l)
	case loader.FormatGLTF:
		return newBound(gltf.New, path, l)
	case loader.FormatBinary:
		return newBound(codec.New, path, l)
	case loader.FormatOBJ:
		return newBound(obj.New, path, l)
	default:
		return nil, fmt.Errorf("unrecognized mesh file: %s", path)
	}
}

// newBound constructs a Loader with ctor, binds path and installs l,
// collapsing the construct/SetFile/SetListener trio every format shares
// into one call.
func newBound[T loader.Loader](ctor func(...loader.Option) (T, error), path string, l loader.Listener) (loader.Loader, error) {
	ld, err := ctor()
	if err != nil {
		return nil, err
	}
	if err := ld.SetFile(path); err != nil {
		return nil, err
	}
	ld.SetListener(l)
	return ld, nil
}
