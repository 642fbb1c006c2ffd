package geometry

import (
	"math"
	"testing"
)

func TestPointToSegmentDistance(t *testing.T) {
	a := Point2D{X: 0, Y: 0}
	b := Point2D{X: 10, Y: 0}

	tests := []struct {
		name string
		p    Point2D
		want float64
	}{
		{"above middle", Point2D{X: 5, Y: 3}, 3},
		{"on segment", Point2D{X: 7, Y: 0}, 0},
		{"beyond end clamps to endpoint", Point2D{X: 13, Y: 4}, 5},
		{"before start clamps to endpoint", Point2D{X: -3, Y: 4}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PointToSegmentDistance(tt.p, a, b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PointToSegmentDistance = %v, want %v", got, tt.want)
			}
		})
	}

	// Degenerate segment reduces to point distance.
	if got := PointToSegmentDistance(Point2D{X: 3, Y: 4}, a, a); math.Abs(got-5) > 1e-9 {
		t.Errorf("degenerate segment: got %v, want 5", got)
	}
}

func TestPointInPolygon(t *testing.T) {
	square := []Point2D{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
	}

	if !PointInPolygon(Point2D{X: 5, Y: 5}, square) {
		t.Error("center should be inside square")
	}
	if PointInPolygon(Point2D{X: 15, Y: 5}, square) {
		t.Error("point to the right should be outside square")
	}
	if PointInPolygon(Point2D{X: 5, Y: 5}, square[:2]) {
		t.Error("two vertices cannot contain a point")
	}

	// Slanted edges: a right triangle, where a bad intercept on the
	// hypotenuse flips the classification.
	triangle := []Point2D{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10},
	}
	if !PointInPolygon(Point2D{X: 2, Y: 2}, triangle) {
		t.Error("(2,2) should be inside triangle")
	}
	if PointInPolygon(Point2D{X: 7, Y: 7}, triangle) {
		t.Error("(7,7) should be outside triangle")
	}
	if !PointInPolygon(Point2D{X: 4.9, Y: 4.9}, triangle) {
		t.Error("(4.9,4.9) just under the hypotenuse should be inside")
	}

	// Concave polygon: a notch cut into the top edge.
	concave := []Point2D{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10},
		{X: 5, Y: 4}, {X: 0, Y: 10},
	}
	if PointInPolygon(Point2D{X: 5, Y: 8}, concave) {
		t.Error("point in the notch should be outside")
	}
	if !PointInPolygon(Point2D{X: 1, Y: 2}, concave) {
		t.Error("point in the body should be inside")
	}
}

func TestCircleBoundaryDistance(t *testing.T) {
	center := Point2D{X: 50, Y: 50}

	if got := CircleBoundaryDistance(Point2D{X: 60, Y: 50}, center, 10); math.Abs(got) > 1e-9 {
		t.Errorf("on boundary: got %v, want 0", got)
	}
	if got := CircleBoundaryDistance(Point2D{X: 50, Y: 50}, center, 10); math.Abs(got-10) > 1e-9 {
		t.Errorf("at center: got %v, want 10", got)
	}
	if got := CircleBoundaryDistance(Point2D{X: 65, Y: 50}, center, 10); math.Abs(got-5) > 1e-9 {
		t.Errorf("outside: got %v, want 5", got)
	}
}

func TestEllipseBoundaryDistance(t *testing.T) {
	center := Point2D{X: 0, Y: 0}

	// Points exactly on the boundary along each axis.
	if got := EllipseBoundaryDistance(Point2D{X: 20, Y: 0}, center, 20, 10); math.Abs(got) > 1e-9 {
		t.Errorf("on rx boundary: got %v, want 0", got)
	}
	if got := EllipseBoundaryDistance(Point2D{X: 0, Y: 10}, center, 20, 10); math.Abs(got) > 1e-9 {
		t.Errorf("on ry boundary: got %v, want 0", got)
	}

	// Interior vs exterior classification.
	if !EllipseContains(Point2D{X: 5, Y: 2}, center, 20, 10) {
		t.Error("interior point should be contained")
	}
	if EllipseContains(Point2D{X: 19, Y: 9}, center, 20, 10) {
		t.Error("corner point should not be contained")
	}
	if EllipseContains(Point2D{X: 1, Y: 1}, center, 0, 10) {
		t.Error("degenerate ellipse contains nothing")
	}
}
