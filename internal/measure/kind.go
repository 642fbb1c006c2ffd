// Package measure defines the clinical measurement model: the closed catalog
// of measurement kinds, the per-kind formula registry, calibration, and the
// Measurement unit itself.
package measure

import (
	"fmt"
	"image/color"

	"spineview/pkg/geometry"
)

// Kind identifies a measurement type. The set is closed; every kind has an
// entry in the registry below.
type Kind string

// Clinical measurement kinds.
const (
	KindCobb             Kind = "cobb"
	KindClavicleAngle    Kind = "clavicleAngle"
	KindT1Tilt           Kind = "t1Tilt"
	KindAVT              Kind = "avt"
	KindTS               Kind = "ts"
	KindSVA              Kind = "sva"
	KindSacralSlope      Kind = "sacralSlope"
	KindPelvicTilt       Kind = "pelvicTilt"
	KindPelvicIncidence  Kind = "pelvicIncidence"
	KindLumbarLordosis   Kind = "lumbarLordosis"
	KindThoracicKyphosis Kind = "thoracicKyphosis"
	KindLength           Kind = "length"
	KindAngle            Kind = "angle"
	KindStandardDistance Kind = "standardDistance"
)

// Auxiliary shape kinds. These carry no numeric value and exist purely for
// visual annotation.
const (
	KindCircle    Kind = "circle"
	KindEllipse   Kind = "ellipse"
	KindRectangle Kind = "rectangle"
	KindArrow     Kind = "arrow"
	KindPolygon   Kind = "polygon"
)

// GuideOrientation identifies the auxiliary reference line some tools anchor
// on their first point.
type GuideOrientation int

const (
	GuideNone GuideOrientation = iota
	GuideHorizontal
	GuideVertical
)

// auxPlaceholder is the constant value string for auxiliary shapes.
const auxPlaceholder = "—"

// Spec describes everything the rest of the application needs to know about
// a measurement kind: point count, classification flags, rendering color,
// the value formula, and the label anchor. Adding a kind touches only this
// table.
type Spec struct {
	Name         string
	Description  string
	PointsNeeded int  // fixed click count; 0 for freeform and variable kinds
	Variable     bool // polygon: accumulates until explicitly closed
	Freeform     bool // drawn by drag instead of click accumulation
	Auxiliary    bool // no numeric value, outline rendering only
	Calibrated   bool // refuses activation without a standard distance
	Guide        GuideOrientation
	Color        color.RGBA

	value       func(points []geometry.Point2D, c *Calibration) string
	labelAnchor func(points []geometry.Point2D) geometry.Point2D
}

var registry = map[Kind]Spec{
	KindCobb: {
		Name:         "Cobb Angle",
		Description:  "Angle between the superior endplate of the upper end vertebra and the inferior endplate of the lower end vertebra",
		PointsNeeded: 4,
		Color:        color.RGBA{R: 0xE5, G: 0x39, B: 0x35, A: 0xFF},
		value:        fourPointAngle,
		labelAnchor:  midpointAnchor,
	},
	KindClavicleAngle: {
		Name:         "Clavicle Angle",
		Description:  "Tilt of the line through both clavicle heads relative to the horizontal",
		PointsNeeded: 2,
		Guide:        GuideHorizontal,
		Color:        color.RGBA{R: 0xFB, G: 0x8C, B: 0x00, A: 0xFF},
		value:        horizontalTilt,
		labelAnchor:  abovePairAnchor,
	},
	KindT1Tilt: {
		Name:         "T1 Tilt",
		Description:  "Tilt of the superior endplate of T1 relative to the horizontal",
		PointsNeeded: 2,
		Guide:        GuideHorizontal,
		Color:        color.RGBA{R: 0xFB, G: 0x8C, B: 0x00, A: 0xFF},
		value:        horizontalTilt,
		labelAnchor:  abovePairAnchor,
	},
	KindAVT: {
		Name:         "AVT",
		Description:  "Apical vertebral translation: horizontal offset of the apical vertebra from the central sacral vertical line",
		PointsNeeded: 2,
		Calibrated:   true,
		Guide:        GuideVertical,
		Color:        color.RGBA{R: 0x8E, G: 0x24, B: 0xAA, A: 0xFF},
		value:        horizontalOffsetMM,
		labelAnchor:  midpointAnchor,
	},
	KindTS: {
		Name:         "Trunk Shift",
		Description:  "Horizontal offset of the trunk midline from the central sacral vertical line",
		PointsNeeded: 2,
		Calibrated:   true,
		Guide:        GuideVertical,
		Color:        color.RGBA{R: 0x8E, G: 0x24, B: 0xAA, A: 0xFF},
		value:        horizontalOffsetMM,
		labelAnchor:  midpointAnchor,
	},
	KindSVA: {
		Name:         "SVA",
		Description:  "Sagittal vertical axis: horizontal offset of the C7 plumb line from the posterosuperior corner of S1",
		PointsNeeded: 2,
		Guide:        GuideVertical,
		Color:        color.RGBA{R: 0x1E, G: 0x88, B: 0xE5, A: 0xFF},
		value:        horizontalOffsetMM,
		labelAnchor:  midpointAnchor,
	},
	KindSacralSlope: {
		Name:         "Sacral Slope",
		Description:  "Tilt of the superior endplate of S1 relative to the horizontal",
		PointsNeeded: 2,
		Guide:        GuideHorizontal,
		Color:        color.RGBA{R: 0xFB, G: 0x8C, B: 0x00, A: 0xFF},
		value:        horizontalTilt,
		labelAnchor:  abovePairAnchor,
	},
	KindPelvicTilt: {
		Name:         "Pelvic Tilt",
		Description:  "Angle between the vertical and the line from the femoral head axis to the midpoint of the sacral endplate",
		PointsNeeded: 2,
		Guide:        GuideVertical,
		Color:        color.RGBA{R: 0xFB, G: 0x8C, B: 0x00, A: 0xFF},
		value:        verticalTilt,
		labelAnchor:  abovePairAnchor,
	},
	KindPelvicIncidence: {
		Name:         "Pelvic Incidence",
		Description:  "Angle between the perpendicular to the sacral endplate and the line joining its midpoint to the femoral head axis",
		PointsNeeded: 4,
		Color:        color.RGBA{R: 0xE5, G: 0x39, B: 0x35, A: 0xFF},
		value:        fourPointAngle,
		labelAnchor:  midpointAnchor,
	},
	KindLumbarLordosis: {
		Name:         "Lumbar Lordosis",
		Description:  "Cobb angle between the superior endplate of L1 and the superior endplate of S1",
		PointsNeeded: 4,
		Color:        color.RGBA{R: 0xE5, G: 0x39, B: 0x35, A: 0xFF},
		value:        fourPointAngle,
		labelAnchor:  midpointAnchor,
	},
	KindThoracicKyphosis: {
		Name:         "Thoracic Kyphosis",
		Description:  "Cobb angle between the superior endplate of T4 and the inferior endplate of T12",
		PointsNeeded: 4,
		Color:        color.RGBA{R: 0xE5, G: 0x39, B: 0x35, A: 0xFF},
		value:        fourPointAngle,
		labelAnchor:  midpointAnchor,
	},
	KindLength: {
		Name:         "Length",
		Description:  "Straight-line distance between two points",
		PointsNeeded: 2,
		Color:        color.RGBA{R: 0x1E, G: 0x88, B: 0xE5, A: 0xFF},
		value:        pointDistanceMM,
		labelAnchor:  midpointAnchor,
	},
	KindAngle: {
		Name:         "Angle",
		Description:  "Angle at the middle point between two segments",
		PointsNeeded: 3,
		Color:        color.RGBA{R: 0xFD, G: 0xD8, B: 0x35, A: 0xFF},
		value:        threePointAngle,
		labelAnchor:  vertexAnchor,
	},
	KindStandardDistance: {
		Name:         "Standard Distance",
		Description:  "Reference distance of known length used to calibrate pixel measurements",
		PointsNeeded: 2,
		Color:        color.RGBA{R: 0x00, G: 0xAC, B: 0xC1, A: 0xFF},
		value:        calibrationLabel,
		labelAnchor:  midpointAnchor,
	},

	KindCircle: {
		Name:        "Circle",
		Description: "Freeform circle annotation",
		Freeform:    true,
		Auxiliary:   true,
		Color:       color.RGBA{R: 0x43, G: 0xA0, B: 0x47, A: 0xFF},
	},
	KindEllipse: {
		Name:        "Ellipse",
		Description: "Freeform ellipse annotation",
		Freeform:    true,
		Auxiliary:   true,
		Color:       color.RGBA{R: 0x43, G: 0xA0, B: 0x47, A: 0xFF},
	},
	KindRectangle: {
		Name:        "Rectangle",
		Description: "Freeform rectangle annotation",
		Freeform:    true,
		Auxiliary:   true,
		Color:       color.RGBA{R: 0x43, G: 0xA0, B: 0x47, A: 0xFF},
	},
	KindArrow: {
		Name:        "Arrow",
		Description: "Freeform arrow annotation",
		Freeform:    true,
		Auxiliary:   true,
		Color:       color.RGBA{R: 0x43, G: 0xA0, B: 0x47, A: 0xFF},
	},
	KindPolygon: {
		Name:        "Polygon",
		Description: "Closed polygon annotation",
		Variable:    true,
		Auxiliary:   true,
		Color:       color.RGBA{R: 0x43, G: 0xA0, B: 0x47, A: 0xFF},
	},
}

// SpecFor returns the registry entry for a kind. The second return value is
// false for kinds outside the closed catalog.
func SpecFor(kind Kind) (Spec, bool) {
	spec, ok := registry[kind]
	return spec, ok
}

// Known returns true if the kind is in the catalog.
func Known(kind Kind) bool {
	_, ok := registry[kind]
	return ok
}

// LabelAnchor returns the image-space anchor point for the kind's text
// label. Auxiliary shapes have no label; the centroid is returned so callers
// need not special-case them.
func LabelAnchor(kind Kind, points []geometry.Point2D) geometry.Point2D {
	if spec, ok := registry[kind]; ok && spec.labelAnchor != nil {
		return spec.labelAnchor(points)
	}
	return geometry.Centroid(points)
}

// Value formulas. Each is total over its point-count precondition and
// returns a zero-valued string when called prematurely.

func fourPointAngle(points []geometry.Point2D, _ *Calibration) string {
	if len(points) < 4 {
		return "0.0°"
	}
	return fmt.Sprintf("%.1f°", geometry.SegmentAngle(points[0], points[1], points[2], points[3]))
}

func threePointAngle(points []geometry.Point2D, _ *Calibration) string {
	if len(points) < 3 {
		return "0.0°"
	}
	return fmt.Sprintf("%.1f°", geometry.AngleAt(points[0], points[1], points[2]))
}

func horizontalTilt(points []geometry.Point2D, _ *Calibration) string {
	if len(points) < 2 {
		return "0.0°"
	}
	return fmt.Sprintf("%.1f°", geometry.TiltFromHorizontal(points[0], points[1]))
}

func verticalTilt(points []geometry.Point2D, _ *Calibration) string {
	if len(points) < 2 {
		return "0.0°"
	}
	return fmt.Sprintf("%.1f°", geometry.TiltFromVertical(points[0], points[1]))
}

func pointDistanceMM(points []geometry.Point2D, c *Calibration) string {
	if len(points) < 2 {
		return "0.0mm"
	}
	return fmt.Sprintf("%.1fmm", points[0].Distance(points[1])*c.MMPerPixel())
}

func horizontalOffsetMM(points []geometry.Point2D, c *Calibration) string {
	if len(points) < 2 {
		return "0.0mm"
	}
	return fmt.Sprintf("%.1fmm", (points[1].X-points[0].X)*c.MMPerPixel())
}

func calibrationLabel(points []geometry.Point2D, c *Calibration) string {
	if c == nil || !c.Set() {
		return pointDistanceMM(points, c)
	}
	return fmt.Sprintf("%.1fmm", c.DistanceMM)
}

// Label anchors.

func midpointAnchor(points []geometry.Point2D) geometry.Point2D {
	if len(points) < 2 {
		return geometry.Centroid(points)
	}
	return geometry.Point2D{
		X: (points[0].X + points[1].X) / 2,
		Y: (points[0].Y + points[1].Y) / 2,
	}
}

// abovePairAnchor places tilt-type labels above the point pair.
func abovePairAnchor(points []geometry.Point2D) geometry.Point2D {
	if len(points) < 2 {
		return geometry.Centroid(points)
	}
	anchor := midpointAnchor(points)
	top := points[0].Y
	if points[1].Y < top {
		top = points[1].Y
	}
	anchor.Y = top - 24
	return anchor
}

func vertexAnchor(points []geometry.Point2D) geometry.Point2D {
	if len(points) < 2 {
		return geometry.Centroid(points)
	}
	return points[1]
}
