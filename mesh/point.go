package mesh

// Point3 is an opaque 3D point. This module treats geometry as flat
// float32 triples — it consumes points, it does not provide a vector math
// library (that is explicitly out of scope; see the module's purpose and
// scope notes).
type Point3 struct {
	X, Y, Z float32
}

func (p Point3) min(o Point3) Point3 {
	return Point3{minf(p.X, o.X), minf(p.Y, o.Y), minf(p.Z, o.Z)}
}

func (p Point3) max(o Point3) Point3 {
	return Point3{maxf(p.X, o.X), maxf(p.Y, o.Y), maxf(p.Z, o.Z)}
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
