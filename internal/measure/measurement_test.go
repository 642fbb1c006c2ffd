package measure

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"spineview/pkg/geometry"
)

func TestDistanceWithDefaultRatio(t *testing.T) {
	// 100px horizontal distance with no calibration uses the fixed
	// default pixel-to-mm ratio.
	m := New(KindLength, []geometry.Point2D{{X: 100, Y: 100}, {X: 200, Y: 100}}, nil)

	want := fmt.Sprintf("%.1fmm", 100*DefaultMMPerPixel)
	if m.Value != want {
		t.Errorf("Value = %q, want %q", m.Value, want)
	}
}

func TestDistanceWithCalibration(t *testing.T) {
	// 50px reference known to be 25mm: 0.5mm per pixel.
	calib := &Calibration{
		Points:     [2]geometry.Point2D{{X: 0, Y: 0}, {X: 50, Y: 0}},
		DistanceMM: 25,
	}

	m := New(KindLength, []geometry.Point2D{{X: 0, Y: 0}, {X: 100, Y: 0}}, calib)
	if m.Value != "50.0mm" {
		t.Errorf("Value = %q, want 50.0mm", m.Value)
	}
}

func TestCobbFourPointAngle(t *testing.T) {
	pts := []geometry.Point2D{
		{X: 0, Y: 0}, {X: 10, Y: 0},
		{X: 0, Y: 10}, {X: 10, Y: 20},
	}
	m := New(KindCobb, pts, nil)

	want := geometry.SegmentAngle(pts[0], pts[1], pts[2], pts[3])
	if math.Abs(want-45) > 1e-9 {
		t.Fatalf("scenario angle = %v, want 45", want)
	}
	if m.Value != "45.0°" {
		t.Errorf("Value = %q, want 45.0°", m.Value)
	}
}

func TestRecomputeAfterMutation(t *testing.T) {
	m := New(KindLength, []geometry.Point2D{{X: 0, Y: 0}, {X: 100, Y: 0}}, nil)
	before := m.Value

	m.MovePoint(1, geometry.Point2D{X: 200, Y: 0}, nil)
	if m.Value == before {
		t.Error("value not recomputed after point move")
	}

	want := fmt.Sprintf("%.1fmm", 200*DefaultMMPerPixel)
	if m.Value != want {
		t.Errorf("Value = %q, want %q", m.Value, want)
	}
}

func TestTranslatePreservesValue(t *testing.T) {
	m := New(KindCobb, []geometry.Point2D{
		{X: 0, Y: 0}, {X: 10, Y: 0},
		{X: 0, Y: 10}, {X: 10, Y: 20},
	}, nil)
	before := m.Value

	m.Translate(geometry.Point2D{X: 37, Y: -12}, nil)
	if m.Value != before {
		t.Errorf("translation changed angle: %q -> %q", before, m.Value)
	}
}

func TestHorizontalOffsetUsesCalibration(t *testing.T) {
	calib := &Calibration{
		Points:     [2]geometry.Point2D{{X: 0, Y: 0}, {X: 100, Y: 0}},
		DistanceMM: 100,
	}

	// Only the horizontal displacement counts, and the sign is kept.
	m := New(KindSVA, []geometry.Point2D{{X: 250, Y: 400}, {X: 200, Y: 100}}, calib)
	if m.Value != "-50.0mm" {
		t.Errorf("Value = %q, want -50.0mm", m.Value)
	}
}

func TestAuxiliaryShapesHavePlaceholderValue(t *testing.T) {
	for _, kind := range []Kind{KindCircle, KindEllipse, KindRectangle, KindArrow, KindPolygon} {
		m := New(kind, []geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}, nil)
		if m.Value != auxPlaceholder {
			t.Errorf("%s: Value = %q, want placeholder", kind, m.Value)
		}
		if !m.Auxiliary() {
			t.Errorf("%s: not flagged auxiliary", kind)
		}
	}
}

func TestUnknownKindHeuristic(t *testing.T) {
	three := &Measurement{Kind: Kind("variola"), Points: []geometry.Point2D{
		{X: 10, Y: 0}, {X: 0, Y: 0}, {X: 0, Y: 10},
	}}
	three.Recompute(nil)
	if !strings.HasSuffix(three.Value, "°") {
		t.Errorf("three points should guess an angle, got %q", three.Value)
	}

	two := &Measurement{Kind: Kind("variola"), Points: []geometry.Point2D{
		{X: 0, Y: 0}, {X: 100, Y: 0},
	}}
	two.Recompute(nil)
	if !strings.HasSuffix(two.Value, "mm") {
		t.Errorf("two points should guess a distance, got %q", two.Value)
	}
}

func TestPrematureValueIsZero(t *testing.T) {
	m := New(KindCobb, []geometry.Point2D{{X: 0, Y: 0}}, nil)
	if m.Value != "0.0°" {
		t.Errorf("premature cobb value = %q, want 0.0°", m.Value)
	}
}

func TestCatalogLookup(t *testing.T) {
	frontal := Catalog(ExamFrontal)
	lateral := Catalog(ExamLateral)

	hasKind := func(defs []ToolDefinition, kind Kind) bool {
		for _, d := range defs {
			if d.Kind == kind {
				return true
			}
		}
		return false
	}

	if !hasKind(frontal, KindCobb) || hasKind(frontal, KindSacralSlope) {
		t.Error("frontal catalog mismatch")
	}
	if !hasKind(lateral, KindSacralSlope) || hasKind(lateral, KindCobb) {
		t.Error("lateral catalog mismatch")
	}
	for _, defs := range [][]ToolDefinition{frontal, lateral} {
		if !hasKind(defs, KindPolygon) || !hasKind(defs, KindStandardDistance) {
			t.Error("shared tools missing from catalog")
		}
	}
}

func TestCalibrationFallback(t *testing.T) {
	var nilCalib *Calibration
	if nilCalib.MMPerPixel() != DefaultMMPerPixel {
		t.Error("nil calibration should use default ratio")
	}

	zeroLength := &Calibration{DistanceMM: 10}
	if zeroLength.Set() {
		t.Error("zero-length reference should not count as set")
	}
	if zeroLength.MMPerPixel() != DefaultMMPerPixel {
		t.Error("zero-length reference should use default ratio")
	}
}
