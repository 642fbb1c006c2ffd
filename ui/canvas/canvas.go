// Package canvas provides the radiograph viewer widget: pan, zoom,
// measurement drawing, and selection editing over a contain-fitted image.
package canvas

import (
	"fmt"
	"image"
	"image/color"

	"spineview/internal/annotate"
	"spineview/internal/app"
	"spineview/internal/measure"
	"spineview/internal/view"
	"spineview/internal/xray"
	"spineview/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"
)

// dragMode tells an in-progress drag apart by what it grabbed.
type dragMode int

const (
	dragNone dragMode = iota
	dragPan
	dragShape
	dragEdit
)

// Viewer displays the radiograph with its measurement overlay.
type Viewer struct {
	widget.BaseWidget

	state    *app.State
	tracker  *annotate.Tracker
	selector *annotate.Selector

	raster *fynecanvas.Raster

	transform     view.Transform
	containerSize geometry.Size

	// display is the windowed (and possibly enhanced) image shown to the
	// user; measurement coordinates always reference the original pixels.
	display  image.Image
	enhanced image.Image

	mode       dragMode
	dragLast   fyne.Position
	showLabels bool

	onStatus      func(text string)
	onCalibration func(m *measure.Measurement)
	onToolDone    func()
}

// NewViewer creates the viewer and subscribes it to state changes.
func NewViewer(state *app.State, tracker *annotate.Tracker, selector *annotate.Selector) *Viewer {
	v := &Viewer{
		state:      state,
		tracker:    tracker,
		selector:   selector,
		transform:  view.NewTransform(),
		showLabels: true,
	}
	v.raster = fynecanvas.NewRaster(v.draw)
	v.raster.ScaleMode = fynecanvas.ImageScalePixels
	v.ExtendBaseWidget(v)

	state.On(app.EventImageLoaded, func(interface{}) {
		v.enhanced = nil
		v.transform = view.NewTransform()
		v.rebuildDisplay()
		v.Refresh()
	})
	state.On(app.EventImageFailed, func(interface{}) {
		v.enhanced = nil
		v.display = nil
		v.Refresh()
	})
	state.On(app.EventWindowChanged, func(interface{}) {
		v.rebuildDisplay()
		v.Refresh()
	})
	state.On(app.EventMeasurementsChanged, func(interface{}) {
		v.Refresh()
	})
	state.On(app.EventSelectionChanged, func(interface{}) {
		v.Refresh()
	})

	return v
}

// SetShowLabels toggles the global measurement label visibility, for both
// rendering and hit-testing.
func (v *Viewer) SetShowLabels(show bool) {
	v.showLabels = show
	v.selector.SetLabelsVisible(show)
	v.Refresh()
}

// LabelsShown reports whether measurement labels are globally visible.
func (v *Viewer) LabelsShown() bool {
	return v.showLabels
}

// OnStatus sets the callback for pointer position and hint text.
func (v *Viewer) OnStatus(callback func(string)) {
	v.onStatus = callback
}

// OnCalibration sets the callback fired when a standard distance reference
// has been drawn and needs its physical length.
func (v *Viewer) OnCalibration(callback func(*measure.Measurement)) {
	v.onCalibration = callback
}

// OnToolDone sets the callback fired when the active tool emits its
// measurement.
func (v *Viewer) OnToolDone(callback func()) {
	v.onToolDone = callback
}

// SetEnhanced overrides the displayed pixels with an enhanced rendition.
// Passing nil reverts to the plain windowed radiograph.
func (v *Viewer) SetEnhanced(img image.Image) {
	v.enhanced = img
	v.rebuildDisplay()
	v.Refresh()
}

// Enhanced reports whether an enhanced rendition is active.
func (v *Viewer) Enhanced() bool {
	return v.enhanced != nil
}

// rebuildDisplay reapplies the window settings to the source pixels.
func (v *Viewer) rebuildDisplay() {
	src := v.enhanced
	if src == nil {
		if v.state.Radiograph == nil {
			v.display = nil
			return
		}
		src = v.state.Radiograph.Image
	}
	v.display = v.state.Window.Apply(src)
}

// ZoomIn zooms by one wheel step.
func (v *Viewer) ZoomIn() {
	v.transform = v.transform.WithScale(v.transform.Scale * view.ZoomStep)
	v.Refresh()
}

// ZoomOut zooms out by one wheel step.
func (v *Viewer) ZoomOut() {
	v.transform = v.transform.WithScale(v.transform.Scale / view.ZoomStep)
	v.Refresh()
}

// ResetView restores the contain-fitted, centered view.
func (v *Viewer) ResetView() {
	v.transform = view.NewTransform()
	v.Refresh()
}

// Transform returns the current view transform.
func (v *Viewer) Transform() view.Transform {
	return v.transform
}

// mapping builds both projection directions for the current view.
func (v *Viewer) mapping() annotate.Mapping {
	t := v.transform
	natural := v.state.ImageSize()
	container := v.containerSize
	return annotate.Mapping{
		ToScreen: view.Projector(t, natural, container),
		ToImage: func(p geometry.Point2D) geometry.Point2D {
			return view.ScreenToImage(p, t, natural, container)
		},
	}
}

func toPoint(pos fyne.Position) geometry.Point2D {
	return geometry.Point2D{X: float64(pos.X), Y: float64(pos.Y)}
}

// Tapped feeds a left click either to the active tool or to selection.
func (v *Viewer) Tapped(ev *fyne.PointEvent) {
	screen := toPoint(ev.Position)
	m := v.mapping()

	if v.tracker.Active() {
		img := m.ToImage(screen)
		if done := v.tracker.Click(img, m, v.state.Calibration); done != nil {
			v.finishMeasurement(done)
		}
		v.Refresh()
		return
	}

	if v.selector.PointerDown(screen, v.state.Measurements(), m) {
		v.selector.PointerUp()
	}
	v.state.Emit(app.EventSelectionChanged, v.selector.Selection())
}

// TappedSecondary completes an open polygon, otherwise cancels the active
// tool or the selection.
func (v *Viewer) TappedSecondary(*fyne.PointEvent) {
	if v.tracker.Active() {
		if v.tracker.Tool() == measure.KindPolygon {
			if done, err := v.tracker.CompletePolygon(v.state.Calibration); err == nil {
				v.finishMeasurement(done)
				v.Refresh()
				return
			}
		}
		v.tracker.Deactivate()
		if v.onToolDone != nil {
			v.onToolDone()
		}
		v.Refresh()
		return
	}

	v.selector.ClearSelection()
	v.state.Emit(app.EventSelectionChanged, nil)
}

// Dragged routes a drag to freeform shape drawing, measurement editing, or
// panning, decided on its first event.
func (v *Viewer) Dragged(ev *fyne.DragEvent) {
	screen := toPoint(ev.Position)
	m := v.mapping()

	if v.mode == dragNone {
		switch {
		case v.tracker.Active() && v.freeformTool():
			v.mode = dragShape
			v.tracker.StartShape(m.ToImage(screen))
		case !v.tracker.Active() && v.selector.PointerDown(screen, v.state.Measurements(), m):
			v.mode = dragEdit
			v.state.Emit(app.EventSelectionChanged, v.selector.Selection())
		default:
			v.mode = dragPan
		}
		v.dragLast = ev.Position
	}

	switch v.mode {
	case dragShape:
		v.tracker.UpdateShape(m.ToImage(screen))
	case dragEdit:
		v.selector.Drag(screen, v.state.Measurements(), m, v.state.Calibration)
	case dragPan:
		delta := geometry.Point2D{
			X: float64(ev.Position.X - v.dragLast.X),
			Y: float64(ev.Position.Y - v.dragLast.Y),
		}
		v.transform = v.transform.WithPan(delta)
	}
	v.dragLast = ev.Position
	v.Refresh()
}

// DragEnd finishes the drag started by Dragged.
func (v *Viewer) DragEnd() {
	switch v.mode {
	case dragShape:
		img := v.mapping().ToImage(toPoint(v.dragLast))
		if done := v.tracker.EndShape(img, v.state.Calibration); done != nil {
			v.finishMeasurement(done)
		}
	case dragEdit:
		v.selector.PointerUp()
		v.state.MeasurementMutated()
	}
	v.mode = dragNone
	v.Refresh()
}

// Scrolled zooms with the wheel.
func (v *Viewer) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		v.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		v.ZoomOut()
	}
}

// MouseMoved updates hover highlighting and the status readout.
func (v *Viewer) MouseMoved(ev *desktop.MouseEvent) {
	screen := toPoint(ev.Position)
	m := v.mapping()

	before := v.selector.HoverID()
	v.selector.Hover(screen, v.state.Measurements(), m)
	if v.selector.HoverID() != before {
		v.Refresh()
	}

	if v.onStatus != nil {
		img := m.ToImage(screen)
		v.onStatus(fmt.Sprintf("x: %.0f  y: %.0f  zoom: %.0f%%",
			img.X, img.Y, v.transform.Scale*100))
	}
}

func (v *Viewer) MouseIn(*desktop.MouseEvent) {}

func (v *Viewer) MouseOut() {
	if v.onStatus != nil {
		v.onStatus("")
	}
}

// freeformTool reports whether the active tool is drawn by drag.
func (v *Viewer) freeformTool() bool {
	spec, ok := measure.SpecFor(v.tracker.Tool())
	return ok && spec.Freeform
}

// finishMeasurement commits an emitted measurement and hands the standard
// distance reference off for its physical length prompt.
func (v *Viewer) finishMeasurement(m *measure.Measurement) {
	v.state.AddMeasurement(m)
	if m.Kind == measure.KindStandardDistance && v.onCalibration != nil {
		v.onCalibration(m)
	}
	v.tracker.Deactivate()
	if v.onToolDone != nil {
		v.onToolDone()
	}
}

// draw renders the frame: base image, measurements, selection, then any
// in-progress tool input.
func (v *Viewer) draw(w, h int) image.Image {
	v.containerSize = geometry.Size{Width: float64(w), Height: float64(h)}

	output := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(output.Pix); i += 4 {
		output.Pix[i] = 255
	}

	if v.display != nil {
		v.compositeImage(output)
	} else {
		drawLabel(output, "NO IMAGE LOADED", w/2, h/2, color.RGBA{R: 0x9E, G: 0x9E, B: 0x9E, A: 0xFF})
	}

	m := v.mapping()
	selection := v.selector.Selection()

	// Hovered measurement draws last so it sits on top of its neighbors.
	var hovered *measure.Measurement
	hoverID := v.selector.HoverID()
	for _, meas := range v.state.Measurements() {
		if meas.ID == hoverID && (selection == nil || selection.ID != meas.ID) {
			hovered = meas
			continue
		}
		v.drawMeasurement(output, meas, m, v.overlayColor(meas, selection))
	}
	if hovered != nil {
		v.drawMeasurement(output, hovered, m, v.overlayColor(hovered, selection))
	}

	if selection != nil {
		if meas := v.findMeasurement(selection.ID); meas != nil {
			v.drawSelectionBox(output, meas, m)
		}
	}

	v.drawPending(output, m)
	return output
}

// compositeImage scales the display image into its on-screen rectangle.
func (v *Viewer) compositeImage(output *image.RGBA) {
	natural := v.state.ImageSize()
	t := v.transform
	topLeft := view.ImageToScreen(geometry.Point2D{}, t, natural, v.containerSize)
	bottomRight := view.ImageToScreen(geometry.Point2D{X: natural.Width, Y: natural.Height}, t, natural, v.containerSize)

	dst := image.Rect(int(topLeft.X), int(topLeft.Y), int(bottomRight.X), int(bottomRight.Y))
	xdraw.ApproxBiLinear.Scale(output, dst, v.display, v.display.Bounds(), xdraw.Over, nil)
}

func (v *Viewer) overlayColor(meas *measure.Measurement, selection *annotate.Selection) color.RGBA {
	spec, ok := measure.SpecFor(meas.Kind)
	base := spec.Color
	if !ok {
		base = color.RGBA{R: 0xBD, G: 0xBD, B: 0xBD, A: 0xFF}
	}
	if selection != nil && selection.ID == meas.ID {
		return selectedColor(base)
	}
	if v.selector.HoverID() == meas.ID {
		return hoverColor(base)
	}
	return base
}

// drawMeasurement renders one measurement's outline, handles, and label in
// screen space.
func (v *Viewer) drawMeasurement(output *image.RGBA, meas *measure.Measurement, m annotate.Mapping, col color.RGBA) {
	pts := make([]geometry.Point2D, len(meas.Points))
	for i, p := range meas.Points {
		pts[i] = m.ToScreen(p)
	}

	switch meas.Kind {
	case measure.KindCircle:
		if len(pts) == 2 {
			drawCircleOutline(output, pts[0].X, pts[0].Y, pts[0].Distance(pts[1]), col)
		}
	case measure.KindEllipse:
		if len(pts) == 2 {
			cx := (pts[0].X + pts[1].X) / 2
			cy := (pts[0].Y + pts[1].Y) / 2
			drawEllipseOutline(output, cx, cy, absf(pts[1].X-pts[0].X)/2, absf(pts[1].Y-pts[0].Y)/2, col)
		}
	case measure.KindRectangle:
		if len(pts) == 2 {
			drawRectOutline(output, int(pts[0].X), int(pts[0].Y), int(pts[1].X), int(pts[1].Y), col)
		}
	case measure.KindArrow:
		if len(pts) == 2 {
			drawArrow(output, pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, col)
		}
	case measure.KindPolygon:
		for i := range pts {
			next := pts[(i+1)%len(pts)]
			drawLine(output, int(pts[i].X), int(pts[i].Y), int(next.X), int(next.Y), col, 2)
		}
	default:
		v.drawSegments(output, meas, pts, col)
	}

	if !meas.Auxiliary() {
		for _, p := range pts {
			drawHandle(output, int(p.X), int(p.Y), col)
		}
		if v.showLabels && !meas.LabelHidden {
			anchor := m.ToScreen(measure.LabelAnchor(meas.Kind, meas.Points))
			drawLabel(output, meas.Label(), int(anchor.X), int(anchor.Y), col)
		}
	}
}

// drawSegments renders the point-accumulated kinds: one segment per pair
// for 4-point angles, a vertex fan for 3-point angles, a plain segment for
// pairs.
func (v *Viewer) drawSegments(output *image.RGBA, meas *measure.Measurement, pts []geometry.Point2D, col color.RGBA) {
	switch {
	case len(pts) >= 4:
		drawLine(output, int(pts[0].X), int(pts[0].Y), int(pts[1].X), int(pts[1].Y), col, 2)
		drawLine(output, int(pts[2].X), int(pts[2].Y), int(pts[3].X), int(pts[3].Y), col, 2)
	case len(pts) == 3:
		drawLine(output, int(pts[1].X), int(pts[1].Y), int(pts[0].X), int(pts[0].Y), col, 2)
		drawLine(output, int(pts[1].X), int(pts[1].Y), int(pts[2].X), int(pts[2].Y), col, 2)
	case len(pts) == 2:
		drawLine(output, int(pts[0].X), int(pts[0].Y), int(pts[1].X), int(pts[1].Y), col, 2)
	}

	// Tilt kinds carry their reference line with them.
	spec, ok := measure.SpecFor(meas.Kind)
	if ok && spec.Guide != measure.GuideNone && len(pts) >= 1 {
		v.drawGuideLine(output, spec.Guide, pts[0])
	}
}

// drawGuideLine draws a dashed full-width or full-height reference through
// an anchor point in screen space.
func (v *Viewer) drawGuideLine(output *image.RGBA, orientation measure.GuideOrientation, anchor geometry.Point2D) {
	bounds := output.Bounds()
	if orientation == measure.GuideHorizontal {
		drawDashedLine(output, bounds.Min.X, int(anchor.Y), bounds.Max.X-1, int(anchor.Y), guideColor)
	} else {
		drawDashedLine(output, int(anchor.X), bounds.Min.Y, int(anchor.X), bounds.Max.Y-1, guideColor)
	}
}

// drawSelectionBox outlines the selected measurement's padded bounds.
func (v *Viewer) drawSelectionBox(output *image.RGBA, meas *measure.Measurement, m annotate.Mapping) {
	b := meas.Bounds()
	topLeft := m.ToScreen(geometry.Point2D{X: b.X, Y: b.Y})
	bottomRight := m.ToScreen(geometry.Point2D{X: b.X + b.Width, Y: b.Y + b.Height})
	const pad = 15
	drawDashedRect(output,
		int(topLeft.X)-pad, int(topLeft.Y)-pad,
		int(bottomRight.X)+pad, int(bottomRight.Y)+pad,
		selectionBoxColor)
}

// drawPending renders the active tool's accumulated points, its guide, and
// any freeform preview.
func (v *Viewer) drawPending(output *image.RGBA, m annotate.Mapping) {
	if !v.tracker.Active() {
		return
	}

	if g := v.tracker.Guide(); g != nil {
		v.drawGuideLine(output, g.Orientation, m.ToScreen(g.Anchor))
	}

	pending := v.tracker.Pending()
	var prev geometry.Point2D
	for i, p := range pending {
		sp := m.ToScreen(p)
		drawHandle(output, int(sp.X), int(sp.Y), pendingColor)
		if i > 0 {
			drawDashedLine(output, int(prev.X), int(prev.Y), int(sp.X), int(sp.Y), pendingColor)
		}
		prev = sp
	}

	if start, end, ok := v.tracker.ShapePreview(); ok {
		a := m.ToScreen(start)
		b := m.ToScreen(end)
		switch v.tracker.Tool() {
		case measure.KindCircle:
			drawCircleOutline(output, a.X, a.Y, a.Distance(b), pendingColor)
		case measure.KindEllipse:
			drawEllipseOutline(output, (a.X+b.X)/2, (a.Y+b.Y)/2, absf(b.X-a.X)/2, absf(b.Y-a.Y)/2, pendingColor)
		case measure.KindArrow:
			drawArrow(output, a.X, a.Y, b.X, b.Y, pendingColor)
		default:
			drawDashedRect(output, int(a.X), int(a.Y), int(b.X), int(b.Y), pendingColor)
		}
	}
}

func (v *Viewer) findMeasurement(id string) *measure.Measurement {
	for _, m := range v.state.Measurements() {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// CreateRenderer implements fyne.Widget.
func (v *Viewer) CreateRenderer() fyne.WidgetRenderer {
	return &viewerRenderer{viewer: v}
}

type viewerRenderer struct {
	viewer *Viewer
}

func (r *viewerRenderer) Layout(size fyne.Size) {
	r.viewer.raster.Resize(size)
}

func (r *viewerRenderer) MinSize() fyne.Size {
	return fyne.NewSize(200, 200)
}

func (r *viewerRenderer) Refresh() {
	r.viewer.raster.Refresh()
}

func (r *viewerRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.viewer.raster}
}

func (r *viewerRenderer) Destroy() {}

// Window applies the current window settings; exposed for the window/level
// panel preview.
func (v *Viewer) Window() xray.Window {
	return v.state.Window
}
