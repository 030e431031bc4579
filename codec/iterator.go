package codec

import (
	"github.com/go-mesh/meshio/internal/ioreader"
	"github.com/go-mesh/meshio/loader"
	"github.com/go-mesh/meshio/mesh"
)

type iterator struct {
	l *Loader
	r ioreader.Reader

	textures map[int]textureRecord

	remaining int
	total     int
	done      bool
}

func (it *iterator) HasNext() bool { return !it.done && it.remaining > 0 }

func (it *iterator) Next() (*mesh.DataChunk, error) {
	if !it.HasNext() {
		return nil, loader.New(loader.NotAvailable, "no more binary chunks")
	}

	bitmask, err := it.r.ReadUint16()
	if err != nil {
		return nil, loader.Wrap(loader.IOFailure, "read chunk bitmask", err)
	}
	// vertexCount/indexCount are a redundant summary ahead of the arrays
	// themselves; each array below carries its own authoritative length.
	if _, err := it.r.ReadUint32(); err != nil {
		return nil, loader.Wrap(loader.IOFailure, "read chunk vertex count", err)
	}
	if _, err := it.r.ReadUint32(); err != nil {
		return nil, loader.Wrap(loader.IOFailure, "read chunk index count", err)
	}

	c := mesh.NewChunk()

	if bitmask&flagVertices != 0 {
		vals, err := it.readFloat32Array()
		if err != nil {
			return nil, err
		}
		for i := 0; i+2 < len(vals); i += 3 {
			c.AppendVertex(vals[i], vals[i+1], vals[i+2])
		}
	}
	if bitmask&flagNormals != 0 {
		vals, err := it.readFloat32Array()
		if err != nil {
			return nil, err
		}
		for i := 0; i+2 < len(vals); i += 3 {
			c.AppendNormal(vals[i], vals[i+1], vals[i+2])
		}
	}
	if bitmask&flagTextureCoordinates != 0 {
		vals, err := it.readFloat32Array()
		if err != nil {
			return nil, err
		}
		for i := 0; i+1 < len(vals); i += 2 {
			c.AppendTexCoord(vals[i], vals[i+1])
		}
	}
	if bitmask&flagColors != 0 {
		comps, err := it.r.ReadUint8()
		if err != nil {
			return nil, loader.Wrap(loader.IOFailure, "read color component count", err)
		}
		n, err := it.r.ReadUint32()
		if err != nil {
			return nil, loader.Wrap(loader.IOFailure, "read color array length", err)
		}
		buf, err := it.r.ReadBytes(int(n))
		if err != nil {
			return nil, loader.Wrap(loader.IOFailure, "read color bytes", err)
		}
		c.ColorComponents = int(comps)
		for i := 0; i+int(comps) <= len(buf); i += int(comps) {
			c.AppendColor(buf[i : i+int(comps)]...)
		}
	}
	if bitmask&flagIndices != 0 {
		n, err := it.r.ReadUint32()
		if err != nil {
			return nil, loader.Wrap(loader.IOFailure, "read index array length", err)
		}
		// Indices are already-triangulated chunk-local references, so they
		// are appended directly rather than through AppendTriangle (which
		// exists for decoders building a chunk from raw face references).
		for i := int64(0); i < n; i++ {
			idx, err := it.r.ReadInt32()
			if err != nil {
				return nil, loader.Wrap(loader.IOFailure, "read index", err)
			}
			c.Indices = append(c.Indices, idx)
		}
	}

	// bbox: recomputed identically by the Append* calls above from the
	// same vertex sequence the writer used, so the encoded values are read
	// here only to advance the cursor.
	for i := 0; i < 6; i++ {
		if _, err := it.r.ReadFloat32(); err != nil {
			return nil, loader.Wrap(loader.IOFailure, "read chunk bbox", err)
		}
	}

	if bitmask&flagMaterial != 0 {
		if _, err := it.r.ReadUint32(); err != nil {
			return nil, loader.Wrap(loader.IOFailure, "read material id", err)
		}
		mat, err := it.readMaterial()
		if err != nil {
			return nil, err
		}
		c.Material = mat
	}

	it.remaining--
	it.reportProgress()
	if !it.HasNext() {
		it.finish()
	}
	return c, nil
}

func (it *iterator) readFloat32Array() ([]float32, error) {
	n, err := it.r.ReadUint32()
	if err != nil {
		return nil, loader.Wrap(loader.IOFailure, "read float array length", err)
	}
	out := make([]float32, n)
	for i := range out {
		v, err := it.r.ReadFloat32()
		if err != nil {
			return nil, loader.Wrap(loader.IOFailure, "read float value", err)
		}
		out[i] = v
	}
	return out, nil
}

func (it *iterator) readMaterial() (*mesh.Material, error) {
	id, err := it.r.ReadUint32()
	if err != nil {
		return nil, loader.Wrap(loader.IOFailure, "read material id", err)
	}
	m := mesh.NewMaterial(int(id))
	name, err := it.r.ReadUTF()
	if err != nil {
		return nil, loader.Wrap(loader.IOFailure, "read material name", err)
	}
	m.Name = name

	for _, dst := range []*mesh.Color3{&m.Ambient, &m.Diffuse, &m.Specular} {
		c, err := it.readColor3()
		if err != nil {
			return nil, err
		}
		*dst = c
	}

	coef, err := it.r.ReadFloat64()
	if err != nil {
		return nil, loader.Wrap(loader.IOFailure, "read specular coefficient", err)
	}
	m.SpecularCoefficient = coef
	has, err := it.r.ReadBool()
	if err != nil {
		return nil, loader.Wrap(loader.IOFailure, "read has-specular-coefficient flag", err)
	}
	m.HasSpecularCoefficient = has

	transparency, err := it.r.ReadInt16()
	if err != nil {
		return nil, loader.Wrap(loader.IOFailure, "read transparency", err)
	}
	m.Transparency = transparency

	illum, err := it.r.ReadInt8()
	if err != nil {
		return nil, loader.Wrap(loader.IOFailure, "read illumination mode", err)
	}
	m.Illumination = mesh.IlluminationMode(illum)

	slots := []**mesh.Texture{&m.TextureAmbient, &m.TextureDiffuse, &m.TextureSpecular, &m.TextureAlpha, &m.TextureBump}
	for _, slot := range slots {
		tex, err := it.readTextureSlot()
		if err != nil {
			return nil, err
		}
		*slot = tex
	}

	hasPBR, err := it.r.ReadBool()
	if err != nil {
		return nil, loader.Wrap(loader.IOFailure, "read has-pbr flag", err)
	}
	m.HasPBR = hasPBR
	metallic, err := it.r.ReadFloat64()
	if err != nil {
		return nil, loader.Wrap(loader.IOFailure, "read metallic", err)
	}
	m.Metallic = metallic
	roughness, err := it.r.ReadFloat64()
	if err != nil {
		return nil, loader.Wrap(loader.IOFailure, "read roughness", err)
	}
	m.Roughness = roughness

	return m, nil
}

func (it *iterator) readColor3() (mesh.Color3, error) {
	r, err := it.r.ReadInt16()
	if err != nil {
		return mesh.Color3{}, loader.Wrap(loader.IOFailure, "read color channel", err)
	}
	g, err := it.r.ReadInt16()
	if err != nil {
		return mesh.Color3{}, loader.Wrap(loader.IOFailure, "read color channel", err)
	}
	b, err := it.r.ReadInt16()
	if err != nil {
		return mesh.Color3{}, loader.Wrap(loader.IOFailure, "read color channel", err)
	}
	return mesh.Color3{R: r, G: g, B: b}, nil
}

func (it *iterator) readTextureSlot() (*mesh.Texture, error) {
	has, err := it.r.ReadBool()
	if err != nil {
		return nil, loader.Wrap(loader.IOFailure, "read texture slot flag", err)
	}
	if !has {
		return nil, nil
	}
	id, err := it.r.ReadUint32()
	if err != nil {
		return nil, loader.Wrap(loader.IOFailure, "read texture id", err)
	}
	valid, err := it.r.ReadBool()
	if err != nil {
		return nil, loader.Wrap(loader.IOFailure, "read texture valid flag", err)
	}
	rec := it.textures[int(id)]
	tex := mesh.NewTexture(int(id), rec.path)
	tex.Width, tex.HasWidth = rec.width, rec.width > 0
	tex.Height, tex.HasHeight = rec.height, rec.height > 0
	tex.Valid = valid
	return tex, nil
}

func (it *iterator) reportProgress() {
	if it.l == nil || it.total == 0 {
		return
	}
	done := it.total - it.remaining
	it.l.ReportProgress(it.l, float64(done)/float64(it.total))
}

func (it *iterator) finish() {
	if it.done {
		return
	}
	it.done = true
	if it.l != nil {
		it.l.ReportEnd(it.l)
	}
}
