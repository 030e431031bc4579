package mesh

// FanTriangulate decomposes a k-gon's ordered vertex references into k-2
// triangles sharing the first vertex: (v0,v1,v2), (v0,v2,v3), …. Shared by
// every decoder that must triangulate polygonal faces (obj, ply, gltf's
// TRIANGLE_FAN primitives) so the policy lives in one place.
func FanTriangulate(indices []int32) [][3]int32 {
	if len(indices) < 3 {
		return nil
	}
	tris := make([][3]int32, 0, len(indices)-2)
	v0 := indices[0]
	for i := 1; i < len(indices)-1; i++ {
		tris = append(tris, [3]int32{v0, indices[i], indices[i+1]})
	}
	return tris
}
