package geometry

import "math"

// AngleAt returns the angle in degrees at vertex p1 between the segments
// p1->p0 and p1->p2. The result is folded into [0, 90]: obtuse angles are
// reported as their supplement, matching clinical convention where only the
// magnitude of the deviation matters.
func AngleAt(p0, p1, p2 Point2D) float64 {
	v1 := p0.Sub(p1)
	v2 := p2.Sub(p1)

	len1 := math.Sqrt(v1.X*v1.X + v1.Y*v1.Y)
	len2 := math.Sqrt(v2.X*v2.X + v2.Y*v2.Y)
	if len1 == 0 || len2 == 0 {
		return 0
	}

	cos := (v1.X*v2.X + v1.Y*v2.Y) / (len1 * len2)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}

	return foldAcute(math.Acos(cos) * 180 / math.Pi)
}

// SegmentAngle returns the angle in degrees between the directions of two
// independent segments a0->a1 and b0->b1, folded into [0, 90]. This is the
// primitive behind Cobb-style four-point measurements.
func SegmentAngle(a0, a1, b0, b1 Point2D) float64 {
	angA := math.Atan2(a1.Y-a0.Y, a1.X-a0.X)
	angB := math.Atan2(b1.Y-b0.Y, b1.X-b0.X)

	deg := math.Abs(angA-angB) * 180 / math.Pi
	for deg > 180 {
		deg -= 180
	}
	return foldAcute(deg)
}

// TiltFromHorizontal returns the signed angle in degrees of the segment
// p0->p1 relative to the horizontal axis, normalized into [-90, 90].
// Positive values tilt downward in image coordinates (y-down).
func TiltFromHorizontal(p0, p1 Point2D) float64 {
	deg := math.Atan2(p1.Y-p0.Y, p1.X-p0.X) * 180 / math.Pi
	if deg > 90 {
		deg -= 180
	} else if deg < -90 {
		deg += 180
	}
	return deg
}

// TiltFromVertical returns the signed angle in degrees of the segment
// p0->p1 relative to the vertical axis, normalized into [-90, 90].
func TiltFromVertical(p0, p1 Point2D) float64 {
	deg := math.Atan2(p1.X-p0.X, p1.Y-p0.Y) * 180 / math.Pi
	if deg > 90 {
		deg -= 180
	} else if deg < -90 {
		deg += 180
	}
	return deg
}

// foldAcute folds an angle in [0, 180] into [0, 90].
func foldAcute(deg float64) float64 {
	if deg > 90 {
		return 180 - deg
	}
	return deg
}
