package main

import (
	"log/slog"
	"os"

	"github.com/go-mesh/meshio/loader"
	"github.com/go-mesh/meshio/mesh"
	"github.com/go-mesh/meshio/obj"
)

// cliListener is the loader.Listener every subcommand installs: it logs
// lifecycle events through log/slog, resolves OBJ mtllib directives to a
// real obj.MaterialLoader, and validates referenced textures by checking
// they exist on disk.
type cliListener struct {
	log *slog.Logger
}

func newCLIListener(log *slog.Logger) *cliListener {
	if log == nil {
		log = slog.Default()
	}
	return &cliListener{log: log}
}

func (c *cliListener) OnLoadStart(l loader.Loader) {
	c.log.Debug("load start", "format", l.MeshFormat())
}

func (c *cliListener) OnLoadEnd(l loader.Loader) {
	c.log.Debug("load end", "format", l.MeshFormat())
}

func (c *cliListener) OnLoadProgressChange(l loader.Loader, progress float64) {
	c.log.Debug("load progress", "format", l.MeshFormat(), "progress", progress)
}

// OnValidateTexture confirms a referenced texture by checking the source
// file exists on disk.
func (c *cliListener) OnValidateTexture(l loader.Loader, tex *mesh.Texture) bool {
	if tex.Path == "" {
		return false
	}
	_, err := os.Stat(tex.Path)
	return err == nil
}

// OnMaterialLoaderRequested resolves an OBJ mtllib path to a real
// obj.MaterialLoader, the same loader obj.Loader itself uses for its own
// tests, so mtllib directives from the CLI behave identically to an
// in-process caller that wires one up manually.
func (c *cliListener) OnMaterialLoaderRequested(l loader.Loader, mtlPath string) (loader.MaterialLoader, error) {
	if _, err := os.Stat(mtlPath); err != nil {
		c.log.Warn("mtllib not found, skipping materials", "path", mtlPath, "err", err)
		return nil, nil
	}
	return obj.NewMaterialLoader(mtlPath, c, l), nil
}

var _ loader.Listener = (*cliListener)(nil)
var _ loader.MaterialLoaderRequester = (*cliListener)(nil)
