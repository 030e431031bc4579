package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-mesh/meshio/mesh"
)

// runInspect reports format/size/vertex/triangle/material/bounds
// information for path, computed by accumulating over the DataChunk stream
// rather than a single materialized mesh.
func runInspect(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}

	l, err := openLoader(path, newCLIListener(nil))
	if err != nil {
		return err
	}
	defer l.Close()

	if !l.IsValidFile() {
		return fmt.Errorf("%s does not look like a %s file", path, l.MeshFormat())
	}

	it, err := l.Load()
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	var (
		vertexCount, triangleCount int
		materialIDs                = map[int]bool{}
		haveBounds                 bool
		min, max                   mesh.Point3
	)
	for it.HasNext() {
		c, err := it.Next()
		if err != nil {
			return fmt.Errorf("decode chunk: %w", err)
		}
		vertexCount += c.VertexCount()
		triangleCount += len(c.Indices) / 3
		if c.Material != nil {
			materialIDs[c.Material.ID] = true
		}
		if cMin, cMax, ok := c.Bounds(); ok {
			if !haveBounds {
				min, max = cMin, cMax
				haveBounds = true
			} else {
				min = mesh.Point3{X: minf(min.X, cMin.X), Y: minf(min.Y, cMin.Y), Z: minf(min.Z, cMin.Z)}
				max = mesh.Point3{X: maxf(max.X, cMax.X), Y: maxf(max.Y, cMax.Y), Z: maxf(max.Z, cMax.Z)}
			}
		}
	}

	fmt.Printf("File:       %s\n", filepath.Base(path))
	fmt.Printf("Format:     %s\n", l.MeshFormat())
	fmt.Printf("Size:       %.2f KB\n", float64(info.Size())/1024)
	fmt.Println()
	fmt.Printf("Vertices:   %d\n", vertexCount)
	fmt.Printf("Triangles:  %d\n", triangleCount)
	fmt.Printf("Materials:  %d\n", len(materialIDs))
	fmt.Println()
	if haveBounds {
		fmt.Printf("Bounds Min: (%.3f, %.3f, %.3f)\n", min.X, min.Y, min.Z)
		fmt.Printf("Bounds Max: (%.3f, %.3f, %.3f)\n", max.X, max.Y, max.Z)
		fmt.Printf("Dimensions: %.3f x %.3f x %.3f\n", max.X-min.X, max.Y-min.Y, max.Z-min.Z)
		center := mesh.Point3{X: (min.X + max.X) / 2, Y: (min.Y + max.Y) / 2, Z: (min.Z + max.Z) / 2}
		fmt.Printf("Center:     (%.3f, %.3f, %.3f)\n", center.X, center.Y, center.Z)
	} else {
		fmt.Println("Bounds:     (empty mesh)")
	}

	return nil
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
