package obj

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"

	"github.com/go-mesh/meshio/internal/ioreader"
	"github.com/go-mesh/meshio/loader"
	"github.com/go-mesh/meshio/mesh"
)

// MaterialLoader parses a single MTL file into named materials, grounded on
// the newmtl/Ka/Kd/Ks/Ns/d/Tr/illum/map_* directive set from
// other_examples' raytrace obj.go parser, generalized to populate
// mesh.Material (including texture validation) instead of a package-private
// Material struct.
type MaterialLoader struct {
	path     string
	listener loader.Listener
	self     loader.Loader
}

// NewMaterialLoader returns a MaterialLoader for the MTL file at path.
// listener's OnValidateTexture (if implemented) is consulted for every
// map_* directive; self is passed through to that callback as the
// originating Loader.
func NewMaterialLoader(path string, listener loader.Listener, self loader.Loader) *MaterialLoader {
	return &MaterialLoader{path: path, listener: listener, self: self}
}

// Load parses the bound MTL file and returns its materials by name.
func (m *MaterialLoader) Load() (map[string]*mesh.Material, error) {
	r, err := ioreader.NewStream(m.path)
	if err != nil {
		return nil, loader.Wrap(loader.IOFailure, "open mtl file", err)
	}
	defer r.Close()

	materials := make(map[string]*mesh.Material)
	var current *mesh.Material
	nextID := 0

	for {
		line, err := r.ReadLine()
		if err != nil {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		directive := fields[0]
		rest := fields[1:]

		switch directive {
		case "newmtl":
			if len(rest) == 0 {
				return nil, loader.New(loader.Malformed, "newmtl directive missing name")
			}
			current = mesh.NewMaterial(nextID)
			current.Name = rest[0]
			nextID++
			materials[rest[0]] = current
		case "Ka":
			if err := setColor(current, &current.Ambient, rest); err != nil {
				return nil, err
			}
		case "Kd":
			if err := setColor(current, &current.Diffuse, rest); err != nil {
				return nil, err
			}
		case "Ks":
			if err := setColor(current, &current.Specular, rest); err != nil {
				return nil, err
			}
		case "Ns":
			if current == nil {
				return nil, loader.New(loader.Malformed, "Ns directive before newmtl")
			}
			v, err := parseFloatField(rest)
			if err != nil {
				return nil, loader.Wrap(loader.Malformed, "parse Ns", err)
			}
			current.SpecularCoefficient = v
			current.HasSpecularCoefficient = true
		case "d":
			if current == nil {
				return nil, loader.New(loader.Malformed, "d directive before newmtl")
			}
			v, err := parseFloatField(rest)
			if err != nil {
				return nil, loader.Wrap(loader.Malformed, "parse d", err)
			}
			current.Transparency = scaleToByte(v)
		case "Tr":
			if current == nil {
				return nil, loader.New(loader.Malformed, "Tr directive before newmtl")
			}
			v, err := parseFloatField(rest)
			if err != nil {
				return nil, loader.Wrap(loader.Malformed, "parse Tr", err)
			}
			// Tr is the inverse of d: Tr=0 means opaque.
			current.Transparency = scaleToByte(1 - v)
		case "illum":
			if current == nil {
				return nil, loader.New(loader.Malformed, "illum directive before newmtl")
			}
			if len(rest) == 0 {
				return nil, loader.New(loader.Malformed, "illum directive missing value")
			}
			n, err := strconv.Atoi(rest[0])
			if err != nil || n < 0 || n > 10 {
				return nil, loader.New(loader.Malformed, "illum value out of range 0-10")
			}
			current.Illumination = mesh.IlluminationMode(n)
		case "map_Ka":
			if err := m.setTexture(current, &current.TextureAmbient, rest, &nextID); err != nil {
				return nil, err
			}
		case "map_Kd":
			if err := m.setTexture(current, &current.TextureDiffuse, rest, &nextID); err != nil {
				return nil, err
			}
		case "map_Ks":
			if err := m.setTexture(current, &current.TextureSpecular, rest, &nextID); err != nil {
				return nil, err
			}
		case "map_d":
			if err := m.setTexture(current, &current.TextureAlpha, rest, &nextID); err != nil {
				return nil, err
			}
		case "map_Bump", "bump":
			if err := m.setTexture(current, &current.TextureBump, rest, &nextID); err != nil {
				return nil, err
			}
		default:
			// Unrecognized directives (Ni, Tf, sharpness, ...) are skipped.
		}
	}
	return materials, nil
}

func setColor(current *mesh.Material, field *mesh.Color3, rest []string) error {
	if current == nil {
		return loader.New(loader.Malformed, "color directive before newmtl")
	}
	rgb, err := parseFloat3(rest)
	if err != nil {
		return loader.Wrap(loader.Malformed, "parse color directive", err)
	}
	field.R = int16(rgb[0] * 255)
	field.G = int16(rgb[1] * 255)
	field.B = int16(rgb[2] * 255)
	return nil
}

func parseFloatField(fields []string) (float64, error) {
	if len(fields) == 0 {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseFloat(fields[0], 64)
}

func scaleToByte(v float64) int16 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return int16(v * 255)
}

func (m *MaterialLoader) setTexture(current *mesh.Material, field **mesh.Texture, rest []string, nextID *int) error {
	if current == nil {
		return loader.New(loader.Malformed, "texture directive before newmtl")
	}
	if len(rest) == 0 {
		return loader.New(loader.Malformed, "texture directive missing filename")
	}
	// The path, not any preceding -o/-s/-bm option tokens, is the directive's
	// final field.
	path := rest[len(rest)-1]
	tex := mesh.NewTexture(*nextID, path)
	*nextID++
	m.probeTextureDimensions(tex)
	if v, ok := m.listener.(loader.TextureValidator); ok {
		tex.Valid = v.OnValidateTexture(m.self, tex)
	} else {
		tex.Valid = true
	}
	*field = tex
	return nil
}

// probeTextureDimensions recovers tex's width/height, per this module's
// non-goal against decoding texture pixels, via image.DecodeConfig's
// header-only read — BMP support comes from golang.org/x/image/bmp, which
// carries no decoder in the standard library. A texture the host can't
// resolve (missing file, unsupported format) is left with HasWidth/HasHeight
// false rather than failing the whole mtllib.
func (m *MaterialLoader) probeTextureDimensions(tex *mesh.Texture) {
	texPath := tex.Path
	if !filepath.IsAbs(texPath) {
		texPath = filepath.Join(filepath.Dir(m.path), texPath)
	}
	f, err := os.Open(texPath)
	if err != nil {
		return
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return
	}
	tex.Width, tex.HasWidth = cfg.Width, cfg.Width > 0
	tex.Height, tex.HasHeight = cfg.Height, cfg.Height > 0
}

var _ loader.MaterialLoader = (*MaterialLoader)(nil)
