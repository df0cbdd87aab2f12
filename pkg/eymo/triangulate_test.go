package eymo

import "testing"

func square() []Vertex {
	return []Vertex{
		NewVertex([2]float32{0, 0}),
		NewVertex([2]float32{10, 0}),
		NewVertex([2]float32{10, 10}),
		NewVertex([2]float32{0, 10}),
	}
}

func TestTriangulateConvexSquare(t *testing.T) {
	out := ToTriangles(square())

	// n=4 points in convex position -> (n-2) triangles -> 2 triangles -> 6 verts.
	if len(out) != 6 {
		t.Fatalf("expected 6 vertices (2 triangles), got %d", len(out))
	}
}

func TestTriangulateCollinearReturnsEmpty(t *testing.T) {
	pts := []Vertex{
		NewVertex([2]float32{0, 0}),
		NewVertex([2]float32{1, 0}),
		NewVertex([2]float32{2, 0}),
		NewVertex([2]float32{3, 0}),
	}

	out := ToTriangles(pts)
	if len(out) != 0 {
		t.Fatalf("expected empty triangle list for collinear input, got %d vertices", len(out))
	}
}

func TestTriangulatePreservesTexCoords(t *testing.T) {
	pts := []Vertex{
		NewVertexWithTex([2]float32{0, 0}, [2]float32{0, 0}),
		NewVertexWithTex([2]float32{10, 0}, [2]float32{1, 0}),
		NewVertexWithTex([2]float32{10, 10}, [2]float32{1, 1}),
		NewVertexWithTex([2]float32{0, 10}, [2]float32{0, 1}),
	}

	out := ToTriangles(pts)
	for _, v := range out {
		matched := false
		for _, in := range pts {
			if v.Position == in.Position && v.TexCoord == in.TexCoord {
				matched = true
				break
			}
		}
		if !matched {
			t.Errorf("output vertex %+v did not match any input vertex's attached data", v)
		}
	}
}

func TestTriangulateNonConvexInput(t *testing.T) {
	// square plus a center point: 4 hull verts + 1 interior point.
	pts := append(square(), NewVertex([2]float32{5, 5}))

	out := ToTriangles(pts)
	triCount := len(out) / 3
	// hull-vertex-count(4) - 2 + non-hull-point-count(1) = 3, within the
	// spec's documented +/-2 tolerance.
	if triCount < 1 || triCount > 5 {
		t.Errorf("expected triangle count near 3, got %d", triCount)
	}
}
