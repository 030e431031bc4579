package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-mesh/meshio/codec"
)

// runConvert decodes src with whichever format it sniffs as and re-encodes
// it into this module's own binary container at dst via codec.Writer,
// draining texture bytes to sibling files next to dst named
// texture-<id>.bin, one per distinct texture the Writer reports.
func runConvert(src, dst string) error {
	l, err := openLoader(src, newCLIListener(nil))
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer l.Close()

	if !l.IsValidFile() {
		return fmt.Errorf("%s does not look like a %s file", src, l.MeshFormat())
	}

	w, err := codec.NewWriter(dst)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	defer w.Close()

	w.SetListener(&convertProgress{dstDir: filepath.Dir(dst), log: slog.Default()})

	if err := w.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	slog.Info("converted", "src", src, "dst", dst, "format", l.MeshFormat())
	return nil
}

// convertProgress is the codec.WriteListener installed for the duration of
// one convert run: it logs start/progress/end through log/slog, mirroring
// cliListener's loader-side logging, and saves each referenced texture's
// raw bytes to a sibling file next to the destination binary.
type convertProgress struct {
	dstDir string
	log    *slog.Logger
}

func (p *convertProgress) OnWriteStart(w *codec.Writer) { p.log.Debug("write start") }
func (p *convertProgress) OnWriteEnd(w *codec.Writer)   { p.log.Debug("write end") }
func (p *convertProgress) OnWriteProgressChange(w *codec.Writer, progress float64) {
	p.log.Debug("write progress", "progress", progress)
}

func (p *convertProgress) OnTextureReceived(w *codec.Writer, textureID int, width, height int) (io.Writer, string, error) {
	name := fmt.Sprintf("texture-%d.bin", textureID)
	f, err := os.Create(filepath.Join(p.dstDir, name))
	if err != nil {
		return nil, "", err
	}
	return f, name, nil
}

var _ codec.WriteListener = (*convertProgress)(nil)
