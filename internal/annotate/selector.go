package annotate

import (
	"spineview/internal/measure"
	"spineview/pkg/geometry"
)

// Estimated screen-space text metrics for label hit testing. The canvas
// draws labels with its pixel font at roughly these proportions.
const (
	labelCharWidth = 7.0
	labelHeight    = 12.0
)

// Zone identifies which part of a measurement a pointer landed on.
type Zone int

const (
	ZoneNone Zone = iota
	ZonePoint
	ZoneEdge
	ZoneLabel
	ZoneBody
)

// Hit is the result of a hit test.
type Hit struct {
	Measurement *measure.Measurement
	PointIndex  int // valid only for ZonePoint, else -1
	Zone        Zone
}

// Mode describes how a selected measurement reacts to dragging.
type Mode int

const (
	ModeNone Mode = iota
	ModePoint
	ModeWhole
)

// Selection is the single active selection. At most one measurement (and at
// most one of its points) is selected at a time.
type Selection struct {
	ID         string
	PointIndex int
	Mode       Mode
}

// Selector owns selection and hover state and applies drag mutations to the
// selected measurement.
type Selector struct {
	selection *Selection
	hoverID   string

	labelsHidden bool

	dragging bool
	dragLast geometry.Point2D // image space
}

// NewSelector returns a selector with nothing selected.
func NewSelector() *Selector {
	return &Selector{}
}

// SetLabelsVisible mirrors the renderer's global label toggle. A label that
// is not drawn must not take clicks from whatever lies beneath it.
func (s *Selector) SetLabelsVisible(visible bool) {
	s.labelsHidden = !visible
}

// Selection returns the active selection, or nil.
func (s *Selector) Selection() *Selection {
	return s.selection
}

// HoverID returns the id of the measurement under the pointer, or "".
func (s *Selector) HoverID() string {
	return s.hoverID
}

// Select selects a measurement as a whole, replacing any prior selection.
func (s *Selector) Select(id string) {
	s.selection = &Selection{ID: id, PointIndex: -1, Mode: ModeWhole}
}

// ClearSelection drops the active selection.
func (s *Selector) ClearSelection() {
	s.selection = nil
	s.dragging = false
}

// DropIf clears selection and hover when they reference the given id, used
// after a measurement is deleted.
func (s *Selector) DropIf(id string) {
	if s.selection != nil && s.selection.ID == id {
		s.ClearSelection()
	}
	if s.hoverID == id {
		s.hoverID = ""
	}
}

// HitTest finds the topmost measurement under the screen-space point using
// the priority order: point markers, outline, label text, shape body. All
// thresholds are screen pixels.
func (s *Selector) HitTest(screen geometry.Point2D, measurements []*measure.Measurement, m Mapping) *Hit {
	// Later measurements render on top, so scan back to front.
	for i := len(measurements) - 1; i >= 0; i-- {
		meas := measurements[i]

		if hit := hitPoints(screen, meas, m); hit != nil {
			return hit
		}
		if hit := hitOutline(screen, meas, m); hit != nil {
			return hit
		}
		if !s.labelsHidden && !meas.LabelHidden {
			if hit := hitLabel(screen, meas, m); hit != nil {
				return hit
			}
		}
		if hit := hitBody(screen, meas, m); hit != nil {
			return hit
		}
	}
	return nil
}

// PointerDown starts a selection or drag at the screen-space point. Returns
// true when the event was consumed (something is selected); false means the
// caller should clear selection side effects and fall back to panning.
func (s *Selector) PointerDown(screen geometry.Point2D, measurements []*measure.Measurement, m Mapping) bool {
	if hit := s.HitTest(screen, measurements, m); hit != nil {
		sel := &Selection{ID: hit.Measurement.ID, PointIndex: -1, Mode: ModeWhole}
		if hit.Zone == ZonePoint {
			sel.PointIndex = hit.PointIndex
			sel.Mode = ModePoint
		}
		s.selection = sel
		s.dragging = true
		s.dragLast = m.ToImage(screen)
		return true
	}

	// A drag starting slightly outside a thin selected shape still moves
	// it: check the padded bounding box of the current selection.
	if s.selection != nil {
		if meas := findByID(measurements, s.selection.ID); meas != nil {
			if paddedBounds(meas, m).Contains(screen) {
				s.selection.Mode = ModeWhole
				s.selection.PointIndex = -1
				s.dragging = true
				s.dragLast = m.ToImage(screen)
				return true
			}
		}
	}

	s.ClearSelection()
	return false
}

// Drag applies pointer movement to the current selection: single-point move
// or whole-shape translation, recomputing the value either way.
func (s *Selector) Drag(screen geometry.Point2D, measurements []*measure.Measurement, m Mapping, calib *measure.Calibration) {
	if !s.dragging || s.selection == nil {
		return
	}
	meas := findByID(measurements, s.selection.ID)
	if meas == nil {
		s.ClearSelection()
		return
	}

	img := m.ToImage(screen)
	if s.selection.Mode == ModePoint {
		meas.MovePoint(s.selection.PointIndex, img, calib)
	} else {
		meas.Translate(img.Sub(s.dragLast), calib)
	}
	s.dragLast = img
}

// PointerUp ends any drag in progress, keeping the selection.
func (s *Selector) PointerUp() {
	s.dragging = false
}

// Hover runs the hit test without touching selection state, recording which
// measurement a click would select. Used purely for rendering feedback.
func (s *Selector) Hover(screen geometry.Point2D, measurements []*measure.Measurement, m Mapping) {
	if hit := s.HitTest(screen, measurements, m); hit != nil {
		s.hoverID = hit.Measurement.ID
	} else {
		s.hoverID = ""
	}
}

func findByID(measurements []*measure.Measurement, id string) *measure.Measurement {
	for _, m := range measurements {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// hitPoints tests the measurement's own point markers. Circle and ellipse
// defining points are not independently draggable.
func hitPoints(screen geometry.Point2D, meas *measure.Measurement, m Mapping) *Hit {
	if meas.Kind == measure.KindCircle || meas.Kind == measure.KindEllipse {
		return nil
	}
	for i, p := range meas.Points {
		if m.ToScreen(p).Distance(screen) <= pointHitRadius {
			return &Hit{Measurement: meas, PointIndex: i, Zone: ZonePoint}
		}
	}
	return nil
}

// hitOutline tests the shape's connecting geometry or implicit boundary.
func hitOutline(screen geometry.Point2D, meas *measure.Measurement, m Mapping) *Hit {
	switch meas.Kind {
	case measure.KindCircle:
		if len(meas.Points) == 2 {
			center := m.ToScreen(meas.Points[0])
			radius := m.ToScreen(meas.Points[1]).Distance(center)
			if geometry.CircleBoundaryDistance(screen, center, radius) <= edgeHitRadius {
				return &Hit{Measurement: meas, PointIndex: -1, Zone: ZoneEdge}
			}
		}
		return nil

	case measure.KindEllipse:
		if len(meas.Points) == 2 {
			a := m.ToScreen(meas.Points[0])
			b := m.ToScreen(meas.Points[1])
			center := geometry.Point2D{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
			rx := abs(b.X-a.X) / 2
			ry := abs(b.Y-a.Y) / 2
			if geometry.EllipseBoundaryDistance(screen, center, rx, ry) <= edgeHitRadius {
				return &Hit{Measurement: meas, PointIndex: -1, Zone: ZoneEdge}
			}
		}
		return nil
	}

	for _, seg := range outlineSegments(meas) {
		a := m.ToScreen(seg[0])
		b := m.ToScreen(seg[1])
		if geometry.PointToSegmentDistance(screen, a, b) <= edgeHitRadius {
			return &Hit{Measurement: meas, PointIndex: -1, Zone: ZoneEdge}
		}
	}
	return nil
}

// hitLabel tests the estimated bounding box of the measurement's text
// label. Auxiliary shapes render no label.
func hitLabel(screen geometry.Point2D, meas *measure.Measurement, m Mapping) *Hit {
	if meas.Auxiliary() {
		return nil
	}
	anchor := m.ToScreen(measure.LabelAnchor(meas.Kind, meas.Points))
	w := float64(len(meas.Label())) * labelCharWidth
	box := geometry.Rect{
		X: anchor.X - w/2, Y: anchor.Y - labelHeight/2,
		Width: w, Height: labelHeight,
	}
	if box.Contains(screen) {
		return &Hit{Measurement: meas, PointIndex: -1, Zone: ZoneLabel}
	}
	return nil
}

// hitBody tests the interior of filled auxiliary shapes.
func hitBody(screen geometry.Point2D, meas *measure.Measurement, m Mapping) *Hit {
	if !meas.Auxiliary() {
		return nil
	}

	inside := false
	switch meas.Kind {
	case measure.KindPolygon:
		verts := make([]geometry.Point2D, len(meas.Points))
		for i, p := range meas.Points {
			verts[i] = m.ToScreen(p)
		}
		inside = geometry.PointInPolygon(screen, verts)

	case measure.KindRectangle:
		if len(meas.Points) == 2 {
			a := m.ToScreen(meas.Points[0])
			b := m.ToScreen(meas.Points[1])
			inside = geometry.BoundingBox([]geometry.Point2D{a, b}).Contains(screen)
		}

	case measure.KindCircle:
		if len(meas.Points) == 2 {
			center := m.ToScreen(meas.Points[0])
			radius := m.ToScreen(meas.Points[1]).Distance(center)
			inside = screen.Distance(center) <= radius
		}

	case measure.KindEllipse:
		if len(meas.Points) == 2 {
			a := m.ToScreen(meas.Points[0])
			b := m.ToScreen(meas.Points[1])
			center := geometry.Point2D{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
			inside = geometry.EllipseContains(screen, center, abs(b.X-a.X)/2, abs(b.Y-a.Y)/2)
		}
	}

	if inside {
		return &Hit{Measurement: meas, PointIndex: -1, Zone: ZoneBody}
	}
	return nil
}

// outlineSegments returns the image-space segments a measurement draws.
// Four-point angle kinds draw two independent segments; three-point angles
// draw two segments meeting at the vertex; rectangle and polygon close.
func outlineSegments(meas *measure.Measurement) [][2]geometry.Point2D {
	pts := meas.Points

	switch meas.Kind {
	case measure.KindRectangle:
		if len(pts) != 2 {
			return nil
		}
		box := geometry.BoundingBox(pts)
		tl := geometry.Point2D{X: box.X, Y: box.Y}
		tr := geometry.Point2D{X: box.X + box.Width, Y: box.Y}
		br := geometry.Point2D{X: box.X + box.Width, Y: box.Y + box.Height}
		bl := geometry.Point2D{X: box.X, Y: box.Y + box.Height}
		return [][2]geometry.Point2D{{tl, tr}, {tr, br}, {br, bl}, {bl, tl}}

	case measure.KindPolygon:
		if len(pts) < 3 {
			return nil
		}
		segs := make([][2]geometry.Point2D, 0, len(pts))
		for i := range pts {
			segs = append(segs, [2]geometry.Point2D{pts[i], pts[(i+1)%len(pts)]})
		}
		return segs
	}

	spec, ok := measure.SpecFor(meas.Kind)
	if ok {
		switch spec.PointsNeeded {
		case 4:
			if len(pts) >= 4 {
				return [][2]geometry.Point2D{{pts[0], pts[1]}, {pts[2], pts[3]}}
			}
		case 3:
			if len(pts) >= 3 {
				return [][2]geometry.Point2D{{pts[1], pts[0]}, {pts[1], pts[2]}}
			}
		}
	}

	if len(pts) >= 2 {
		return [][2]geometry.Point2D{{pts[0], pts[1]}}
	}
	return nil
}

// paddedBounds returns the screen-space bounding box of a measurement,
// expanded by the selection padding.
func paddedBounds(meas *measure.Measurement, m Mapping) geometry.Rect {
	b := meas.Bounds()
	tl := m.ToScreen(geometry.Point2D{X: b.X, Y: b.Y})
	br := m.ToScreen(geometry.Point2D{X: b.X + b.Width, Y: b.Y + b.Height})
	return geometry.BoundingBox([]geometry.Point2D{tl, br}).Expand(selectionPadding)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
