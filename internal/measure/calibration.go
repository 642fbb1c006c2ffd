package measure

import "spineview/pkg/geometry"

// DefaultMMPerPixel is the fixed fallback ratio applied to distance
// measurements when no standard distance has been set. Typical digital
// radiography detectors resolve around 0.2mm per pixel.
const DefaultMMPerPixel = 0.2

// Calibration converts pixel distances to millimeters from a user-supplied
// two-point reference of known physical length.
type Calibration struct {
	Points     [2]geometry.Point2D `json:"points"`
	DistanceMM float64             `json:"distanceMm"`
}

// Set returns true if the calibration holds a usable reference.
func (c *Calibration) Set() bool {
	if c == nil || c.DistanceMM <= 0 {
		return false
	}
	return c.Points[0].Distance(c.Points[1]) > 0
}

// MMPerPixel returns the millimeters-per-pixel factor, falling back to
// DefaultMMPerPixel when no reference is set.
func (c *Calibration) MMPerPixel() float64 {
	if !c.Set() {
		return DefaultMMPerPixel
	}
	return c.DistanceMM / c.Points[0].Distance(c.Points[1])
}
