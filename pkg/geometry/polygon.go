package geometry

import "math"

// PointToSegmentDistance returns the shortest distance from p to the line
// segment between a and b. Degenerate segments (a == b) reduce to point
// distance.
func PointToSegmentDistance(p, a, b Point2D) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.Distance(a)
	}

	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	closest := Point2D{X: a.X + t*dx, Y: a.Y + t*dy}
	return p.Distance(closest)
}

// PointInPolygon returns true if p lies inside the polygon described by
// vertices, using the even-odd ray casting rule. Polygons with fewer than
// three vertices contain nothing.
func PointInPolygon(p Point2D, vertices []Point2D) bool {
	if len(vertices) < 3 {
		return false
	}

	inside := false
	n := len(vertices)
	j := n - 1
	for i := 0; i < n; i++ {
		vi := vertices[i]
		vj := vertices[j]
		if (vi.Y > p.Y) != (vj.Y > p.Y) {
			xInt := (vj.X-vi.X)*(p.Y-vi.Y)/(vj.Y-vi.Y) + vi.X
			if p.X < xInt {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// CircleBoundaryDistance returns the distance from p to the boundary of the
// circle with the given center and radius.
func CircleBoundaryDistance(p, center Point2D, radius float64) float64 {
	return math.Abs(p.Distance(center) - radius)
}

// EllipseBoundaryDistance approximates the distance from p to the boundary
// of an axis-aligned ellipse with the given center and semi-axes rx, ry.
// The normalized radial distance is scaled by the mean semi-axis, which is
// accurate enough for hit testing at interactive tolerances.
func EllipseBoundaryDistance(p, center Point2D, rx, ry float64) float64 {
	if rx <= 0 || ry <= 0 {
		return p.Distance(center)
	}
	dx := (p.X - center.X) / rx
	dy := (p.Y - center.Y) / ry
	norm := math.Sqrt(dx*dx + dy*dy)
	return math.Abs(norm-1) * (rx + ry) / 2
}

// EllipseContains reports whether p lies inside the axis-aligned ellipse
// with the given center and semi-axes.
func EllipseContains(p, center Point2D, rx, ry float64) bool {
	if rx <= 0 || ry <= 0 {
		return false
	}
	dx := (p.X - center.X) / rx
	dy := (p.Y - center.Y) / ry
	return dx*dx+dy*dy <= 1
}
