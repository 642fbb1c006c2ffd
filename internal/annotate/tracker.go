// Package annotate turns raw pointer input into measurements: the per-tool
// point accumulation state machine and the hit-testing selection engine.
// Everything here is pure state manipulation; no UI toolkit types leak in.
package annotate

import (
	"errors"

	"spineview/internal/measure"
	"spineview/pkg/geometry"
)

// Screen-space interaction thresholds, in pixels. Keeping them in screen
// space makes the feel of clicking and closing zoom-independent.
const (
	pointHitRadius     = 10.0
	edgeHitRadius      = 8.0
	selectionPadding   = 15.0
	polygonCloseRadius = 10.0
)

// ErrCalibrationRequired is returned when a calibrated tool is activated
// without a standard distance being set.
var ErrCalibrationRequired = errors.New("standard distance calibration required")

// Projector maps a point from one coordinate space to another.
type Projector func(geometry.Point2D) geometry.Point2D

// Mapping bundles both directions of the image/screen conversion for one
// event. The canvas rebuilds it whenever the view transform changes.
type Mapping struct {
	ToScreen Projector
	ToImage  Projector
}

// Guide is the auxiliary horizontal or vertical reference line some tools
// anchor on their first accumulated point.
type Guide struct {
	Orientation measure.GuideOrientation
	Anchor      geometry.Point2D
}

// Tracker accumulates clicked points for the active tool and emits a
// finished Measurement when the tool's point count is reached. It is either
// idle (no tool, no points) or accumulating.
type Tracker struct {
	tool   measure.Kind
	spec   measure.Spec
	active bool

	points []geometry.Point2D

	// Freeform drag in progress.
	dragStart geometry.Point2D
	dragEnd   geometry.Point2D
	dragging  bool
}

// NewTracker returns an idle tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// SetTool activates a tool, discarding any in-progress accumulation.
// Calibrated tools refuse to activate without a usable calibration.
func (t *Tracker) SetTool(kind measure.Kind, calib *measure.Calibration) error {
	spec, ok := measure.SpecFor(kind)
	if !ok {
		return errors.New("unknown tool: " + string(kind))
	}
	if spec.Calibrated && !calib.Set() {
		return ErrCalibrationRequired
	}

	t.tool = kind
	t.spec = spec
	t.active = true
	t.Clear()
	return nil
}

// Deactivate returns the tracker to idle, discarding partial input.
func (t *Tracker) Deactivate() {
	t.active = false
	t.tool = ""
	t.Clear()
}

// Tool returns the active tool kind, or "" when idle.
func (t *Tracker) Tool() measure.Kind {
	if !t.active {
		return ""
	}
	return t.tool
}

// Active reports whether a tool is selected.
func (t *Tracker) Active() bool {
	return t.active
}

// Clear discards in-progress points and any freeform drag.
func (t *Tracker) Clear() {
	t.points = t.points[:0]
	t.dragging = false
}

// Pending returns the points accumulated so far, for preview rendering.
func (t *Tracker) Pending() []geometry.Point2D {
	return t.points
}

// Guide returns the active tool's reference guide, anchored on the first
// accumulated point, or nil when the tool has none or no point is down yet.
func (t *Tracker) Guide() *Guide {
	if !t.active || t.spec.Guide == measure.GuideNone || len(t.points) == 0 {
		return nil
	}
	return &Guide{Orientation: t.spec.Guide, Anchor: t.points[0]}
}

// Click feeds one image-space click to the active point-accumulating tool.
// A click within pointHitRadius (screen pixels) of an already-accumulated
// point removes that point instead of adding a new one. Returns the emitted
// measurement when the click completes the tool, else nil.
func (t *Tracker) Click(img geometry.Point2D, m Mapping, calib *measure.Calibration) *measure.Measurement {
	if !t.active || t.spec.Freeform {
		return nil
	}

	screen := m.ToScreen(img)

	// Polygon auto-close: clicking near the first vertex with three or
	// more points down closes the shape. Checked before click-to-undo,
	// which would otherwise swallow the closing click.
	if t.spec.Variable && len(t.points) >= 3 {
		if m.ToScreen(t.points[0]).Distance(screen) <= polygonCloseRadius {
			return t.emit(calib)
		}
	}

	// Click-to-undo an accumulated point.
	for i, p := range t.points {
		if m.ToScreen(p).Distance(screen) <= pointHitRadius {
			t.points = append(t.points[:i], t.points[i+1:]...)
			return nil
		}
	}

	t.points = append(t.points, img)

	if !t.spec.Variable && len(t.points) == t.spec.PointsNeeded {
		return t.emit(calib)
	}
	return nil
}

// CompletePolygon explicitly closes a variable-length tool. It fails when
// fewer than three points have accumulated.
func (t *Tracker) CompletePolygon(calib *measure.Calibration) (*measure.Measurement, error) {
	if !t.active || !t.spec.Variable {
		return nil, errors.New("no polygon in progress")
	}
	if len(t.points) < 3 {
		return nil, errors.New("polygon needs at least 3 points")
	}
	return t.emit(calib), nil
}

// StartShape begins a freeform drag at the given image-space point.
func (t *Tracker) StartShape(img geometry.Point2D) {
	if !t.active || !t.spec.Freeform {
		return
	}
	t.dragStart = img
	t.dragEnd = img
	t.dragging = true
}

// UpdateShape updates the live preview endpoint of a freeform drag.
func (t *Tracker) UpdateShape(img geometry.Point2D) {
	if t.dragging {
		t.dragEnd = img
	}
}

// EndShape finishes a freeform drag and emits the shape. Degenerate drags
// (start == end) are discarded.
func (t *Tracker) EndShape(img geometry.Point2D, calib *measure.Calibration) *measure.Measurement {
	if !t.dragging {
		return nil
	}
	t.dragEnd = img
	t.dragging = false

	if t.dragStart == t.dragEnd {
		return nil
	}
	return measure.New(t.tool, []geometry.Point2D{t.dragStart, t.dragEnd}, calib)
}

// ShapePreview returns the in-progress freeform drag, if any.
func (t *Tracker) ShapePreview() (start, end geometry.Point2D, ok bool) {
	return t.dragStart, t.dragEnd, t.dragging
}

func (t *Tracker) emit(calib *measure.Calibration) *measure.Measurement {
	points := make([]geometry.Point2D, len(t.points))
	copy(points, t.points)
	t.Clear()
	return measure.New(t.tool, points, calib)
}
