package threeds

import (
	"github.com/go-mesh/meshio/internal/ioreader"
	"github.com/go-mesh/meshio/loader"
	"github.com/go-mesh/meshio/mesh"
)

// parseMaterialBlock reads one MAT_ENTRY chunk's children into a
// *mesh.Material. Grounded on the same nested-chunk recursion as the
// geometry parser; colors and percentages each arrive wrapped in their own
// sub-chunk (COLOR_24/COLOR_F, INT_PERCENTAGE/FLOAT_PERCENTAGE) rather than
// as a bare value, so each is itself walked one level deeper.
func parseMaterialBlock(r ioreader.Reader, end int64, id int) (*mesh.Material, error) {
	mat := mesh.NewMaterial(id)
	err := walkChunks(r, end, func(h chunkHeader) error {
		switch h.id {
		case chunkMatName:
			name, err := readCString(r, h.end)
			if err != nil {
				return err
			}
			mat.Name = name
		case chunkMatAmbient:
			c, err := readColorChunk(r, h.end)
			if err != nil {
				return err
			}
			mat.Ambient = c
		case chunkMatDiffuse:
			c, err := readColorChunk(r, h.end)
			if err != nil {
				return err
			}
			mat.Diffuse = c
		case chunkMatSpecular:
			c, err := readColorChunk(r, h.end)
			if err != nil {
				return err
			}
			mat.Specular = c
		case chunkMatShininess:
			v, err := readPercentChunk(r, h.end)
			if err != nil {
				return err
			}
			mat.SpecularCoefficient = v * 100
			mat.HasSpecularCoefficient = true
		case chunkMatTransparent:
			v, err := readPercentChunk(r, h.end)
			if err != nil {
				return err
			}
			mat.Transparency = int16((1 - v) * 255)
		case chunkMatTexmap:
			tex, err := parseTexmap(r, h.end)
			if err != nil {
				return err
			}
			mat.TextureDiffuse = tex
		default:
			// Unrecognized material sub-chunk: left to walkChunks' forced
			// seek-to-end.
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mat, nil
}

// readColorChunk reads a COLOR_24 (3 bytes, 0-255) or COLOR_F (3 float32,
// 0-1) sub-chunk, whichever is present, into a Color3.
func readColorChunk(r ioreader.Reader, parentEnd int64) (mesh.Color3, error) {
	var out mesh.Color3
	err := walkChunks(r, parentEnd, func(h chunkHeader) error {
		switch h.id {
		case chunkColor24, chunkLinColor24:
			rb, err := r.ReadUint8()
			if err != nil {
				return wrapIO(err)
			}
			gb, err := r.ReadUint8()
			if err != nil {
				return wrapIO(err)
			}
			bb, err := r.ReadUint8()
			if err != nil {
				return wrapIO(err)
			}
			out = mesh.Color3{R: rb, G: gb, B: bb}
		case chunkColorFloat, chunkLinColorF:
			rf, err := r.ReadFloat32()
			if err != nil {
				return wrapIO(err)
			}
			gf, err := r.ReadFloat32()
			if err != nil {
				return wrapIO(err)
			}
			bf, err := r.ReadFloat32()
			if err != nil {
				return wrapIO(err)
			}
			out = mesh.Color3{R: int16(rf * 255), G: int16(gf * 255), B: int16(bf * 255)}
		}
		return nil
	})
	return out, err
}

// readPercentChunk reads an INT_PERCENTAGE (int16, 0-100) or
// FLOAT_PERCENTAGE (float32, 0-1) sub-chunk into a [0,1] value.
func readPercentChunk(r ioreader.Reader, parentEnd int64) (float64, error) {
	var out float64
	err := walkChunks(r, parentEnd, func(h chunkHeader) error {
		switch h.id {
		case chunkIntPercent:
			v, err := r.ReadInt16()
			if err != nil {
				return wrapIO(err)
			}
			out = float64(v) / 100
		case chunkFloatPerc:
			v, err := r.ReadFloat32()
			if err != nil {
				return wrapIO(err)
			}
			out = float64(v)
		}
		return nil
	})
	return out, err
}

// parseTexmap reads a MAT_TEXMAP chunk's MAT_MAPNAME into a mesh.Texture.
func parseTexmap(r ioreader.Reader, parentEnd int64) (*mesh.Texture, error) {
	var path string
	err := walkChunks(r, parentEnd, func(h chunkHeader) error {
		if h.id == chunkMatMapname {
			name, err := readCString(r, h.end)
			if err != nil {
				return err
			}
			path = name
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, nil
	}
	return mesh.NewTexture(0, path), nil
}

// readCString reads a NUL-terminated ASCII string, the 3DS string
// encoding used for object, material and texture names.
func readCString(r ioreader.Reader, limit int64) (string, error) {
	var buf []byte
	for {
		pos, err := r.Position()
		if err != nil {
			return "", wrapIO(err)
		}
		if pos >= limit {
			break
		}
		b, err := r.ReadByte()
		if err != nil {
			return "", wrapIO(err)
		}
		if b == 0 {
			break
		}
		buf = append(buf, b)
	}
	return string(buf), nil
}

func wrapIO(err error) error {
	return loader.Wrap(loader.IOFailure, "read 3ds data", err)
}
