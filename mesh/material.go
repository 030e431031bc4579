package mesh

// Color3 is a 3-channel 8-bit color where an unset channel is represented
// as -1, matching the OBJ/PLY/3DS material model's "unset" convention.
type Color3 struct {
	R, G, B int16
}

// UnsetColor3 returns a color with every channel unset.
func UnsetColor3() Color3 { return Color3{-1, -1, -1} }

// Any reports whether at least one channel has been set.
func (c Color3) Any() bool { return c.R >= 0 || c.G >= 0 || c.B >= 0 }

// IlluminationMode is one of the ten OBJ `illum` values. -1 means unset.
type IlluminationMode int8

const (
	IllumUnset                       IlluminationMode = -1
	IllumColorOnly                   IlluminationMode = 0
	IllumColorAndAmbient             IlluminationMode = 1
	IllumHighlight                   IlluminationMode = 2
	IllumReflectionRaytrace          IlluminationMode = 3
	IllumGlassRaytrace               IlluminationMode = 4
	IllumFresnelRaytrace             IlluminationMode = 5
	IllumRefractionRaytraceNoFresnel IlluminationMode = 6
	IllumRefractionRaytraceFresnel   IlluminationMode = 7
	IllumReflectionNoRaytrace        IlluminationMode = 8
	IllumGlassNoRaytrace             IlluminationMode = 9
	IllumShadowsOnInvisibleSurfaces  IlluminationMode = 10
)

// Material holds the attributes common to the OBJ/MTL, PLY and 3DS material
// models. Chunks borrow a *Material owned by the originating Loader; they
// never own one (see the module's "no cyclic references" design note).
type Material struct {
	ID   int
	Name string

	Ambient  Color3
	Diffuse  Color3
	Specular Color3

	SpecularCoefficient    float64
	HasSpecularCoefficient bool

	// Transparency is 0-255, or -1 if unset.
	Transparency int16

	Illumination IlluminationMode

	TextureAmbient  *Texture
	TextureDiffuse  *Texture
	TextureSpecular *Texture
	TextureAlpha    *Texture
	TextureBump     *Texture

	// HasPBR/Metallic/Roughness carry glTF's metallic-roughness model
	// without losing information when a glTF material is represented
	// through this OBJ-shaped struct (see SPEC_FULL.md §4.2.5 expansion).
	HasPBR    bool
	Metallic  float64
	Roughness float64
}

// NewMaterial returns a material with every optional field unset.
func NewMaterial(id int) *Material {
	return &Material{
		ID:           id,
		Ambient:      UnsetColor3(),
		Diffuse:      UnsetColor3(),
		Specular:     UnsetColor3(),
		Transparency: -1,
		Illumination: IllumUnset,
	}
}

// Texture is a reference to an externally stored (and, per this module's
// non-goals, never decoded) image. Validity is set by the host application
// via the onValidateTexture listener callback.
type Texture struct {
	ID   int
	Path string

	Width, Height       int
	HasWidth, HasHeight bool

	Valid bool
}

// NewTexture returns an unvalidated texture referencing path.
func NewTexture(id int, path string) *Texture {
	return &Texture{ID: id, Path: path}
}
