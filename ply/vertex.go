package ply

import "strings"

// vertexLayout records which recognized properties a "vertex" element
// carries, detected once from the header so every instance read afterward
// can dispatch by position in Properties without a second name lookup.
type vertexLayout struct {
	hasNormal       bool
	hasColor        bool
	colorComponents int // 3 (rgb) or 4 (rgba)
	hasTexCoord     bool
	kinds           []propertyKind // parallel to element.Properties
}

type propertyKind int

const (
	kindOther propertyKind = iota
	kindX
	kindY
	kindZ
	kindNX
	kindNY
	kindNZ
	kindRed
	kindGreen
	kindBlue
	kindAlpha
	kindTexU
	kindTexV
)

// Accepts the historical "textureCoordiantes" misspelling alongside the
// standard s/t, u/v and texture_u/texture_v spellings on ingest, matched
// case-insensitively. No encode path writes PLY property names: package
// codec stores texture coordinates without names.
func classifyVertexProperty(name string) propertyKind {
	switch strings.ToLower(name) {
	case "x":
		return kindX
	case "y":
		return kindY
	case "z":
		return kindZ
	case "nx":
		return kindNX
	case "ny":
		return kindNY
	case "nz":
		return kindNZ
	case "red", "r":
		return kindRed
	case "green", "g":
		return kindGreen
	case "blue", "b":
		return kindBlue
	case "alpha", "a":
		return kindAlpha
	case "u", "s", "texture_u", "texturecoordiantes_u", "texturecoordinates_u":
		return kindTexU
	case "v", "t", "texture_v", "texturecoordiantes_v", "texturecoordinates_v":
		return kindTexV
	default:
		return kindOther
	}
}

func newVertexLayout(e *Element) *vertexLayout {
	l := &vertexLayout{colorComponents: 3, kinds: make([]propertyKind, len(e.Properties))}
	for i, p := range e.Properties {
		k := classifyVertexProperty(p.Name)
		l.kinds[i] = k
		switch k {
		case kindNX, kindNY, kindNZ:
			l.hasNormal = true
		case kindRed, kindGreen, kindBlue:
			l.hasColor = true
		case kindAlpha:
			l.hasColor = true
			l.colorComponents = 4
		case kindTexU, kindTexV:
			l.hasTexCoord = true
		}
	}
	return l
}

// vertexRecord is one decoded vertex instance.
type vertexRecord struct {
	x, y, z    float32
	nx, ny, nz float32
	r, g, b, a uint8
	u, v       float32
}

// readVertexInstance reads one vertex instance's properties in declared
// order from src, dispatching each value into the record by its classified
// kind.
func readVertexInstance(src scalarSource, e *Element, l *vertexLayout) (vertexRecord, error) {
	var rec vertexRecord
	for i, p := range e.Properties {
		if p.IsList {
			if err := skipProperty(src, p); err != nil {
				return rec, err
			}
			continue
		}
		val, err := src.ReadFloat(p.Type)
		if err != nil {
			return rec, err
		}
		switch l.kinds[i] {
		case kindX:
			rec.x = float32(val)
		case kindY:
			rec.y = float32(val)
		case kindZ:
			rec.z = float32(val)
		case kindNX:
			rec.nx = float32(val)
		case kindNY:
			rec.ny = float32(val)
		case kindNZ:
			rec.nz = float32(val)
		case kindRed:
			rec.r = uint8(val)
		case kindGreen:
			rec.g = uint8(val)
		case kindBlue:
			rec.b = uint8(val)
		case kindAlpha:
			rec.a = uint8(val)
		case kindTexU:
			rec.u = float32(val)
		case kindTexV:
			rec.v = float32(val)
		}
	}
	return rec, nil
}
