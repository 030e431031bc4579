package mesh

import (
	"math"
	"testing"
)

func TestEmptyChunkBoundsSentinel(t *testing.T) {
	c := NewChunk()
	min, max, avail := c.Bounds()
	if avail {
		t.Fatal("empty chunk reports bounds available")
	}
	if min.X != float32(math.Inf(1)) || min.Y != float32(math.Inf(1)) || min.Z != float32(math.Inf(1)) {
		t.Errorf("empty chunk min = %+v, want +Inf in every component", min)
	}
	if max.X != float32(math.Inf(-1)) || max.Y != float32(math.Inf(-1)) || max.Z != float32(math.Inf(-1)) {
		t.Errorf("empty chunk max = %+v, want -Inf in every component", max)
	}
}

func TestPopulatedChunkBounds(t *testing.T) {
	c := NewChunk()
	c.AppendVertex(1, 2, 3)
	c.AppendVertex(-1, 5, 0)
	c.AppendVertex(2, -3, 7)

	min, max, avail := c.Bounds()
	if !avail {
		t.Fatal("populated chunk reports bounds unavailable")
	}
	if min.X != -1 || min.Y != -3 || min.Z != 0 {
		t.Errorf("min = %+v, want {-1,-3,0}", min)
	}
	if max.X != 2 || max.Y != 5 || max.Z != 7 {
		t.Errorf("max = %+v, want {2,5,7}", max)
	}
	if c.VertexCount() != 3 {
		t.Errorf("VertexCount = %d, want 3", c.VertexCount())
	}
}

func TestIndicesReferenceWithinChunk(t *testing.T) {
	c := NewChunk()
	a := c.AppendVertex(0, 0, 0)
	b := c.AppendVertex(1, 0, 0)
	v := c.AppendVertex(0, 1, 0)
	c.AppendTriangle(int32(a), int32(b), int32(v))

	for i, idx := range c.Indices {
		if int(idx) >= c.VertexCount() {
			t.Errorf("index %d at position %d >= vertex count %d", idx, i, c.VertexCount())
		}
	}
}

func TestColorComponentCount(t *testing.T) {
	c := NewChunk()
	if c.ColorComponents != 3 {
		t.Errorf("default ColorComponents = %d, want 3", c.ColorComponents)
	}
	c.ColorComponents = 4
	c.AppendColor(255, 0, 0, 128)
	if len(c.Colors) != 4 {
		t.Errorf("len(Colors) = %d, want 4", len(c.Colors))
	}
}
