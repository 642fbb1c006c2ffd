package annotate

import (
	"testing"

	"spineview/internal/measure"
	"spineview/pkg/geometry"
)

func lengthAt(x0, y0, x1, y1 float64) *measure.Measurement {
	return measure.New(measure.KindLength, []geometry.Point2D{{X: x0, Y: y0}, {X: x1, Y: y1}}, nil)
}

func TestHitPriorityPointBeforeEdge(t *testing.T) {
	m := lengthAt(100, 100, 300, 100)
	sel := NewSelector()
	mapping := identityMapping()

	// Near an endpoint: point zone wins even though the edge is closer
	// than its own tolerance too.
	hit := sel.HitTest(geometry.Point2D{X: 104, Y: 103}, []*measure.Measurement{m}, mapping)
	if hit == nil || hit.Zone != ZonePoint || hit.PointIndex != 0 {
		t.Fatalf("hit = %+v, want point 0", hit)
	}

	// Mid-segment: edge zone.
	hit = sel.HitTest(geometry.Point2D{X: 200, Y: 105}, []*measure.Measurement{m}, mapping)
	if hit == nil || hit.Zone != ZoneEdge {
		t.Fatalf("hit = %+v, want edge", hit)
	}

	// Far away: nothing.
	if hit := sel.HitTest(geometry.Point2D{X: 200, Y: 400}, []*measure.Measurement{m}, mapping); hit != nil {
		t.Fatalf("hit = %+v, want nil", hit)
	}
}

func TestCirclePointsNotDraggable(t *testing.T) {
	circle := measure.New(measure.KindCircle, []geometry.Point2D{{X: 200, Y: 200}, {X: 250, Y: 200}}, nil)
	sel := NewSelector()
	mapping := identityMapping()

	// Clicking the center point must not yield a point hit; the interior
	// counts as body instead.
	hit := sel.HitTest(geometry.Point2D{X: 200, Y: 200}, []*measure.Measurement{circle}, mapping)
	if hit == nil || hit.Zone != ZoneBody {
		t.Fatalf("hit = %+v, want body", hit)
	}

	// The boundary is an edge hit.
	hit = sel.HitTest(geometry.Point2D{X: 253, Y: 200}, []*measure.Measurement{circle}, mapping)
	if hit == nil || hit.Zone != ZoneEdge {
		t.Fatalf("hit = %+v, want edge", hit)
	}
}

func TestCobbSegmentsAreIndependent(t *testing.T) {
	cobb := measure.New(measure.KindCobb, []geometry.Point2D{
		{X: 0, Y: 0}, {X: 100, Y: 0},
		{X: 0, Y: 200}, {X: 100, Y: 200},
	}, nil)
	sel := NewSelector()
	mapping := identityMapping()

	// The gap between the two segments is not part of the outline.
	if hit := sel.HitTest(geometry.Point2D{X: 50, Y: 100}, []*measure.Measurement{cobb}, mapping); hit != nil {
		t.Fatalf("hit = %+v in the gap between cobb segments", hit)
	}
	if hit := sel.HitTest(geometry.Point2D{X: 50, Y: 203}, []*measure.Measurement{cobb}, mapping); hit == nil {
		t.Fatal("second segment not hittable")
	}
}

func TestTopmostWins(t *testing.T) {
	bottom := lengthAt(100, 100, 300, 100)
	top := lengthAt(100, 104, 300, 104)
	sel := NewSelector()
	mapping := identityMapping()

	hit := sel.HitTest(geometry.Point2D{X: 200, Y: 102}, []*measure.Measurement{bottom, top}, mapping)
	if hit == nil || hit.Measurement.ID != top.ID {
		t.Fatal("later (topmost) measurement should win the hit")
	}
}

func TestSelectionExclusivity(t *testing.T) {
	a := lengthAt(100, 100, 300, 100)
	b := lengthAt(100, 300, 300, 300)
	ms := []*measure.Measurement{a, b}
	sel := NewSelector()
	mapping := identityMapping()

	sel.PointerDown(geometry.Point2D{X: 200, Y: 100}, ms, mapping)
	if sel.Selection() == nil || sel.Selection().ID != a.ID {
		t.Fatal("first selection missing")
	}
	sel.PointerUp()

	sel.PointerDown(geometry.Point2D{X: 200, Y: 300}, ms, mapping)
	got := sel.Selection()
	if got == nil || got.ID != b.ID {
		t.Fatal("selecting a new target must replace the previous one")
	}
}

func TestDragWholeTranslatesAllPoints(t *testing.T) {
	m := lengthAt(100, 100, 300, 100)
	ms := []*measure.Measurement{m}
	sel := NewSelector()
	mapping := identityMapping()
	valueBefore := m.Value

	if !sel.PointerDown(geometry.Point2D{X: 200, Y: 102}, ms, mapping) {
		t.Fatal("edge click should select")
	}
	sel.Drag(geometry.Point2D{X: 230, Y: 142}, ms, mapping, nil)
	sel.PointerUp()

	if m.Points[0] != (geometry.Point2D{X: 130, Y: 140}) || m.Points[1] != (geometry.Point2D{X: 330, Y: 140}) {
		t.Errorf("points after whole drag: %v", m.Points)
	}
	if m.Value != valueBefore {
		t.Errorf("translation changed the value: %q -> %q", valueBefore, m.Value)
	}
}

func TestDragPointRecomputesValue(t *testing.T) {
	m := lengthAt(100, 100, 200, 100)
	ms := []*measure.Measurement{m}
	sel := NewSelector()
	mapping := identityMapping()
	valueBefore := m.Value

	if !sel.PointerDown(geometry.Point2D{X: 200, Y: 100}, ms, mapping) {
		t.Fatal("point click should select")
	}
	if sel.Selection().Mode != ModePoint {
		t.Fatal("endpoint click should enter point mode")
	}

	sel.Drag(geometry.Point2D{X: 400, Y: 100}, ms, mapping, nil)
	sel.PointerUp()

	if m.Points[1] != (geometry.Point2D{X: 400, Y: 100}) {
		t.Errorf("point not moved: %v", m.Points)
	}
	if m.Points[0] != (geometry.Point2D{X: 100, Y: 100}) {
		t.Error("point drag moved the wrong point")
	}
	if m.Value == valueBefore {
		t.Error("value not recomputed after point drag")
	}
}

func TestPaddedBBoxKeepsSelection(t *testing.T) {
	m := lengthAt(100, 100, 300, 100)
	ms := []*measure.Measurement{m}
	sel := NewSelector()
	mapping := identityMapping()

	sel.PointerDown(geometry.Point2D{X: 200, Y: 102}, ms, mapping)
	sel.PointerUp()

	// 12px below the line: outside edge tolerance, inside the padded box.
	if !sel.PointerDown(geometry.Point2D{X: 200, Y: 112}, ms, mapping) {
		t.Fatal("click inside padded bbox should keep manipulating the selection")
	}
	if sel.Selection() == nil || sel.Selection().ID != m.ID {
		t.Fatal("selection lost")
	}
	sel.PointerUp()

	// Way outside: selection clears.
	if sel.PointerDown(geometry.Point2D{X: 600, Y: 500}, ms, mapping) {
		t.Fatal("distant click should not be consumed")
	}
	if sel.Selection() != nil {
		t.Error("selection not cleared")
	}
}

func TestHoverDoesNotMutateSelection(t *testing.T) {
	m := lengthAt(100, 100, 300, 100)
	ms := []*measure.Measurement{m}
	sel := NewSelector()
	mapping := identityMapping()

	sel.Hover(geometry.Point2D{X: 200, Y: 102}, ms, mapping)
	if sel.HoverID() != m.ID {
		t.Error("hover miss")
	}
	if sel.Selection() != nil {
		t.Error("hover must not select")
	}

	sel.Hover(geometry.Point2D{X: 600, Y: 500}, ms, mapping)
	if sel.HoverID() != "" {
		t.Error("hover not cleared")
	}
}

func TestDropIfClearsDeletedTarget(t *testing.T) {
	m := lengthAt(100, 100, 300, 100)
	sel := NewSelector()
	mapping := identityMapping()

	sel.PointerDown(geometry.Point2D{X: 200, Y: 100}, []*measure.Measurement{m}, mapping)
	sel.DropIf(m.ID)
	if sel.Selection() != nil {
		t.Error("selection survived deletion of its target")
	}
}

func TestLabelHit(t *testing.T) {
	// Tilt-type labels sit above the point pair, well clear of point and
	// edge tolerances.
	m := measure.New(measure.KindT1Tilt, []geometry.Point2D{{X: 100, Y: 100}, {X: 300, Y: 100}}, nil)
	sel := NewSelector()
	mapping := identityMapping()

	hit := sel.HitTest(geometry.Point2D{X: 200, Y: 76}, []*measure.Measurement{m}, mapping)
	if hit == nil || hit.Zone != ZoneLabel {
		t.Fatalf("hit = %+v, want label", hit)
	}
}

func TestHiddenLabelTakesNoHits(t *testing.T) {
	m := measure.New(measure.KindT1Tilt, []geometry.Point2D{{X: 100, Y: 100}, {X: 300, Y: 100}}, nil)
	sel := NewSelector()
	mapping := identityMapping()
	at := geometry.Point2D{X: 200, Y: 76}

	// Per-measurement hidden label is transparent to clicks.
	m.LabelHidden = true
	if hit := sel.HitTest(at, []*measure.Measurement{m}, mapping); hit != nil {
		t.Fatalf("hit = %+v, want nil for hidden label", hit)
	}
	m.LabelHidden = false

	// Globally hidden labels are transparent too, and reappear when the
	// toggle comes back.
	sel.SetLabelsVisible(false)
	if hit := sel.HitTest(at, []*measure.Measurement{m}, mapping); hit != nil {
		t.Fatalf("hit = %+v, want nil with labels off", hit)
	}
	sel.SetLabelsVisible(true)
	if hit := sel.HitTest(at, []*measure.Measurement{m}, mapping); hit == nil || hit.Zone != ZoneLabel {
		t.Fatalf("hit = %+v, want label after re-enable", hit)
	}
}
