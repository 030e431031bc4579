package gltf

import (
	"path/filepath"
	"strconv"

	qgltf "github.com/qmuntal/gltf"

	"github.com/go-mesh/meshio/loader"
	"github.com/go-mesh/meshio/mesh"
)

// buildMaterials maps every glTF material onto the same mesh.Material
// struct obj and threeds already populate: base color becomes Diffuse
// (scaled to the 0-255 int16 channel range the rest of this module uses),
// and the PBR metallic/roughness factors this struct has no other home
// for are kept on the dedicated HasPBR/Metallic/Roughness fields rather
// than dropped.
func buildMaterials(doc *qgltf.Document, basePath string, listener loader.Listener, self loader.Loader) []*mesh.Material {
	out := make([]*mesh.Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		m := mesh.NewMaterial(i)
		m.Name = gm.Name
		m.Diffuse = mesh.Color3{R: 255, G: 255, B: 255}
		m.Roughness = 1
		m.HasPBR = true

		if gm.PBRMetallicRoughness != nil {
			pbr := gm.PBRMetallicRoughness
			if pbr.BaseColorFactor != nil {
				c := pbr.BaseColorFactor
				m.Diffuse = mesh.Color3{
					R: scaleUnit(c[0]),
					G: scaleUnit(c[1]),
					B: scaleUnit(c[2]),
				}
				m.Transparency = scaleUnit(c[3])
			}
			if pbr.MetallicFactor != nil {
				m.Metallic = float64(*pbr.MetallicFactor)
			} else {
				m.Metallic = 1
			}
			if pbr.RoughnessFactor != nil {
				m.Roughness = float64(*pbr.RoughnessFactor)
			}
			if pbr.BaseColorTexture != nil {
				m.TextureDiffuse = buildTexture(doc, int(pbr.BaseColorTexture.Index), i, basePath, listener, self)
			}
		}

		out[i] = m
	}
	return out
}

// scaleUnit converts a glTF [0,1] factor channel into this module's 0-255
// Color3 channel range.
func scaleUnit(v float32) int16 {
	scaled := int(v*255 + 0.5)
	if scaled < 0 {
		scaled = 0
	}
	if scaled > 255 {
		scaled = 255
	}
	return int16(scaled)
}

// buildTexture resolves a glTF texture reference to a *mesh.Texture.
// Embedded (bufferView-backed) images have no external path to hand the
// rest of this module's "textures are references, never decoded pixels"
// model, so they get a synthetic "glb-embedded-image-N" path; external
// URI images resolve relative to the document's own path, same as OBJ's
// map_* handling.
func buildTexture(doc *qgltf.Document, texIdx, materialIdx int, basePath string, listener loader.Listener, self loader.Loader) *mesh.Texture {
	if texIdx < 0 || texIdx >= len(doc.Textures) {
		return nil
	}
	tex := doc.Textures[texIdx]
	if tex.Source == nil || int(*tex.Source) >= len(doc.Images) {
		return nil
	}
	img := doc.Images[*tex.Source]

	path := img.URI
	if path == "" {
		path = syntheticEmbeddedImagePath(int(*tex.Source))
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(basePath), path)
	}

	t := mesh.NewTexture(materialIdx, path)
	if v, ok := listener.(loader.TextureValidator); ok {
		t.Valid = v.OnValidateTexture(self, t)
	} else {
		t.Valid = img.URI != "" || img.BufferView != nil
	}
	return t
}

func syntheticEmbeddedImagePath(imageIdx int) string {
	return "glb-embedded-image-" + strconv.Itoa(imageIdx)
}
