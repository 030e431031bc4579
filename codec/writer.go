package codec

import (
	"io"
	"os"

	"github.com/go-mesh/meshio/internal/ioreader"
	"github.com/go-mesh/meshio/loader"
	"github.com/go-mesh/meshio/mesh"
)

// WriteListener receives the Writer's lifecycle events, mirroring
// loader.Listener's start/progress/end trio, plus the one callback this
// format needs that no Loader does: OnTextureReceived is called once per
// distinct texture referenced by a written chunk's material, and must
// return a destination to copy that texture's raw source bytes into (nil
// to skip, e.g. when the host has no interest in carrying textures along)
// and the side-file name to record in the binary stream.
type WriteListener interface {
	OnWriteStart(w *Writer)
	OnWriteEnd(w *Writer)
	OnWriteProgressChange(w *Writer, progress float64)
	OnTextureReceived(w *Writer, textureID int, width, height int) (dst io.Writer, sideFileName string, err error)
}

// nopWriteListener is the default: no texture side files are written.
type nopWriteListener struct{}

func (nopWriteListener) OnWriteStart(*Writer)                     {}
func (nopWriteListener) OnWriteEnd(*Writer)                       {}
func (nopWriteListener) OnWriteProgressChange(*Writer, float64)   {}
func (nopWriteListener) OnTextureReceived(*Writer, int, int, int) (io.Writer, string, error) {
	return nil, "", nil
}

var _ WriteListener = nopWriteListener{}

// Writer serializes any Loader's chunk stream into this module's internal
// binary format (magic "MESH_WRITER_BIN", version 2, little-endian
// throughout except the Java-style UTF length prefixes already established
// by internal/ioreader's ReadUTF/WriteUTF). Unlike the format decoders,
// which stream lazily, Encode must see every chunk before writing anything
// (the texture table is written ahead of the chunk data, and a chunk's
// texture references are only known once its material is in hand), so it
// drains the source Loader to completion in memory first.
type Writer struct {
	out      *ioreader.StreamWriter
	listener WriteListener
}

// NewWriter creates (truncating if it exists) the binary file at path.
func NewWriter(path string) (*Writer, error) {
	out, err := ioreader.NewStreamWriter(path)
	if err != nil {
		return nil, loader.Wrap(loader.IOFailure, "create binary output", err)
	}
	return &Writer{out: out, listener: nopWriteListener{}}, nil
}

// SetListener installs the write lifecycle/texture callback sink.
func (w *Writer) SetListener(l WriteListener) {
	if l == nil {
		l = nopWriteListener{}
	}
	w.listener = l
}

// Close releases the underlying file. Safe to call after a failed Encode.
func (w *Writer) Close() error { return w.out.Close() }

// Encode drives l to completion and writes every chunk it produces.
func (w *Writer) Encode(l loader.Loader) error {
	it, err := l.Load()
	if err != nil {
		return err
	}
	defer l.Close()

	var chunks []*mesh.DataChunk
	for it.HasNext() {
		c, err := it.Next()
		if err != nil {
			return err
		}
		chunks = append(chunks, c)
	}

	w.listener.OnWriteStart(w)

	textureIDs, textures := collectTextures(chunks)
	if err := w.out.WriteUTF(magic); err != nil {
		return wrapIO(err)
	}
	if err := w.out.WriteUint8(version); err != nil {
		return wrapIO(err)
	}
	if err := w.writeTextureTable(textures); err != nil {
		return err
	}
	if err := w.out.WriteUint32(uint32(len(chunks))); err != nil {
		return wrapIO(err)
	}

	for i, c := range chunks {
		if err := w.writeChunk(c, textureIDs); err != nil {
			return err
		}
		w.listener.OnWriteProgressChange(w, float64(i+1)/float64(len(chunks)))
	}

	w.listener.OnWriteEnd(w)
	return nil
}

// collectTextures assigns each distinct *mesh.Texture referenced by any
// chunk's material a stable sequential id, in first-reference order.
func collectTextures(chunks []*mesh.DataChunk) (map[*mesh.Texture]int, []*mesh.Texture) {
	ids := make(map[*mesh.Texture]int)
	var ordered []*mesh.Texture
	consider := func(t *mesh.Texture) {
		if t == nil {
			return
		}
		if _, ok := ids[t]; ok {
			return
		}
		ids[t] = len(ordered)
		ordered = append(ordered, t)
	}
	for _, c := range chunks {
		if c.Material == nil {
			continue
		}
		m := c.Material
		consider(m.TextureAmbient)
		consider(m.TextureDiffuse)
		consider(m.TextureSpecular)
		consider(m.TextureAlpha)
		consider(m.TextureBump)
	}
	return ids, ordered
}

func (w *Writer) writeTextureTable(textures []*mesh.Texture) error {
	if err := w.out.WriteUint32(uint32(len(textures))); err != nil {
		return wrapIO(err)
	}
	for id, tex := range textures {
		width, height := 0, 0
		if tex.HasWidth {
			width = tex.Width
		}
		if tex.HasHeight {
			height = tex.Height
		}
		dst, name, err := w.listener.OnTextureReceived(w, id, width, height)
		if err != nil {
			return err
		}
		if dst != nil && tex.Path != "" {
			if err := copyTextureBytes(tex.Path, dst); err != nil {
				return err
			}
		}
		if err := w.out.WriteUint32(uint32(id)); err != nil {
			return wrapIO(err)
		}
		if err := w.out.WriteUint32(uint32(width)); err != nil {
			return wrapIO(err)
		}
		if err := w.out.WriteUint32(uint32(height)); err != nil {
			return wrapIO(err)
		}
		if err := w.out.WriteUTF(name); err != nil {
			return wrapIO(err)
		}
	}
	return nil
}

// copyTextureBytes streams the raw, un-decoded source bytes of a texture
// (per this module's non-goal of never decoding texture pixel data) into
// the side file the host opened for it.
func copyTextureBytes(path string, dst io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return loader.Wrap(loader.IOFailure, "open texture source", err)
	}
	defer f.Close()
	if _, err := io.Copy(dst, f); err != nil {
		return loader.Wrap(loader.IOFailure, "copy texture bytes", err)
	}
	if closer, ok := dst.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (w *Writer) writeChunk(c *mesh.DataChunk, textureIDs map[*mesh.Texture]int) error {
	var bitmask uint16
	if len(c.Vertices) > 0 {
		bitmask |= flagVertices
	}
	if len(c.Normals) > 0 {
		bitmask |= flagNormals
	}
	if len(c.TextureCoordinates) > 0 {
		bitmask |= flagTextureCoordinates
	}
	if len(c.Colors) > 0 {
		bitmask |= flagColors
	}
	if len(c.Indices) > 0 {
		bitmask |= flagIndices
	}
	if c.Material != nil {
		bitmask |= flagMaterial
	}

	if err := w.out.WriteUint16(bitmask); err != nil {
		return wrapIO(err)
	}
	if err := w.out.WriteUint32(uint32(c.VertexCount())); err != nil {
		return wrapIO(err)
	}
	if err := w.out.WriteUint32(uint32(len(c.Indices))); err != nil {
		return wrapIO(err)
	}

	if bitmask&flagVertices != 0 {
		if err := w.writeFloat32Array(c.Vertices); err != nil {
			return err
		}
	}
	if bitmask&flagNormals != 0 {
		if err := w.writeFloat32Array(c.Normals); err != nil {
			return err
		}
	}
	if bitmask&flagTextureCoordinates != 0 {
		if err := w.writeFloat32Array(c.TextureCoordinates); err != nil {
			return err
		}
	}
	if bitmask&flagColors != 0 {
		if err := w.out.WriteUint8(uint8(c.ColorComponents)); err != nil {
			return wrapIO(err)
		}
		if err := w.out.WriteUint32(uint32(len(c.Colors))); err != nil {
			return wrapIO(err)
		}
		if err := w.out.WriteBytes(c.Colors); err != nil {
			return wrapIO(err)
		}
	}
	if bitmask&flagIndices != 0 {
		if err := w.out.WriteUint32(uint32(len(c.Indices))); err != nil {
			return wrapIO(err)
		}
		for _, idx := range c.Indices {
			if err := w.out.WriteInt32(idx); err != nil {
				return wrapIO(err)
			}
		}
	}

	min, max, _ := c.Bounds()
	for _, v := range []float32{min.X, min.Y, min.Z, max.X, max.Y, max.Z} {
		if err := w.out.WriteFloat32(v); err != nil {
			return wrapIO(err)
		}
	}

	if bitmask&flagMaterial != 0 {
		if err := w.out.WriteUint32(uint32(c.Material.ID)); err != nil {
			return wrapIO(err)
		}
		if err := w.writeMaterial(c.Material, textureIDs); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeFloat32Array(vals []float32) error {
	if err := w.out.WriteUint32(uint32(len(vals))); err != nil {
		return wrapIO(err)
	}
	for _, v := range vals {
		if err := w.out.WriteFloat32(v); err != nil {
			return wrapIO(err)
		}
	}
	return nil
}

func (w *Writer) writeMaterial(m *mesh.Material, textureIDs map[*mesh.Texture]int) error {
	if err := w.out.WriteUint32(uint32(m.ID)); err != nil {
		return wrapIO(err)
	}
	if err := w.out.WriteUTF(m.Name); err != nil {
		return wrapIO(err)
	}
	for _, col := range []mesh.Color3{m.Ambient, m.Diffuse, m.Specular} {
		if err := w.writeColor3(col); err != nil {
			return err
		}
	}
	if err := w.out.WriteFloat64(m.SpecularCoefficient); err != nil {
		return wrapIO(err)
	}
	if err := w.out.WriteBool(m.HasSpecularCoefficient); err != nil {
		return wrapIO(err)
	}
	if err := w.out.WriteInt16(m.Transparency); err != nil {
		return wrapIO(err)
	}
	if err := w.out.WriteInt8(int8(m.Illumination)); err != nil {
		return wrapIO(err)
	}
	for _, tex := range []*mesh.Texture{m.TextureAmbient, m.TextureDiffuse, m.TextureSpecular, m.TextureAlpha, m.TextureBump} {
		if err := w.writeTextureSlot(tex, textureIDs); err != nil {
			return err
		}
	}
	if err := w.out.WriteBool(m.HasPBR); err != nil {
		return wrapIO(err)
	}
	if err := w.out.WriteFloat64(m.Metallic); err != nil {
		return wrapIO(err)
	}
	if err := w.out.WriteFloat64(m.Roughness); err != nil {
		return wrapIO(err)
	}
	return nil
}

func (w *Writer) writeColor3(c mesh.Color3) error {
	if err := w.out.WriteInt16(c.R); err != nil {
		return wrapIO(err)
	}
	if err := w.out.WriteInt16(c.G); err != nil {
		return wrapIO(err)
	}
	return wrapIO(w.out.WriteInt16(c.B))
}

func (w *Writer) writeTextureSlot(tex *mesh.Texture, textureIDs map[*mesh.Texture]int) error {
	if tex == nil {
		return wrapIO(w.out.WriteBool(false))
	}
	if err := w.out.WriteBool(true); err != nil {
		return wrapIO(err)
	}
	if err := w.out.WriteUint32(uint32(textureIDs[tex])); err != nil {
		return wrapIO(err)
	}
	return wrapIO(w.out.WriteBool(tex.Valid))
}

func wrapIO(err error) error {
	if err == nil {
		return nil
	}
	return loader.Wrap(loader.IOFailure, "write binary data", err)
}
