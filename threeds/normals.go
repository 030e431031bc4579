package threeds

import "math"

// faceNormal returns the unit normal of face i in obj, via the standard
// cross-product-of-edges construction.
func faceNormal(obj *object, i int) [3]float32 {
	f := obj.faces[i]
	a := obj.vertices[f.indices[0]]
	b := obj.vertices[f.indices[1]]
	c := obj.vertices[f.indices[2]]
	ux, uy, uz := b[0]-a[0], b[1]-a[1], b[2]-a[2]
	vx, vy, vz := c[0]-a[0], c[1]-a[1], c[2]-a[2]
	nx := uy*vz - uz*vy
	ny := uz*vx - ux*vz
	nz := ux*vy - uy*vx
	return normalize([3]float32{nx, ny, nz})
}

func normalize(v [3]float32) [3]float32 {
	length := math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2]))
	if length == 0 {
		return v
	}
	l := float32(length)
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}

// vertexGroupKey groups a (global vertex index, smoothing group) pair so
// faces sharing both are averaged together.
type vertexGroupKey struct {
	vertex uint16
	group  uint32
}

// computeVertexNormals derives one normal per (face, corner) per the
// decided Open Question: a face with smoothing group 0 gets its own flat
// face normal at every corner (no averaging with neighbors); a face with a
// non-zero group has each corner's normal averaged with every other face
// sharing that exact vertex and group value.
func computeVertexNormals(obj *object) [][3][3]float32 {
	faceNormals := make([][3]float32, len(obj.faces))
	for i := range obj.faces {
		faceNormals[i] = faceNormal(obj, i)
	}

	type accum struct {
		sum   [3]float32
		count int
	}
	groups := make(map[vertexGroupKey]*accum)
	for i, f := range obj.faces {
		if f.smoothGroup == 0 {
			continue
		}
		for _, v := range f.indices {
			key := vertexGroupKey{vertex: v, group: f.smoothGroup}
			a := groups[key]
			if a == nil {
				a = &accum{}
				groups[key] = a
			}
			a.sum[0] += faceNormals[i][0]
			a.sum[1] += faceNormals[i][1]
			a.sum[2] += faceNormals[i][2]
			a.count++
		}
	}

	out := make([][3][3]float32, len(obj.faces))
	for i, f := range obj.faces {
		if f.smoothGroup == 0 {
			out[i] = [3][3]float32{faceNormals[i], faceNormals[i], faceNormals[i]}
			continue
		}
		for c, v := range f.indices {
			a := groups[vertexGroupKey{vertex: v, group: f.smoothGroup}]
			out[i][c] = normalize([3]float32{a.sum[0] / float32(a.count), a.sum[1] / float32(a.count), a.sum[2] / float32(a.count)})
		}
	}
	return out
}
