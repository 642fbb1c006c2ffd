// Package app provides application lifecycle management, state, and events.
package app

import (
	"fmt"
	"os"
	"sync"

	"spineview/internal/measure"
	"spineview/internal/session"
	"spineview/internal/xray"
	"spineview/pkg/geometry"
)

// State holds the application state: the loaded radiograph, its
// measurements, calibration, and display settings.
type State struct {
	mu sync.RWMutex

	// Session
	SessionPath string
	Modified    bool

	// Radiograph
	Radiograph *xray.Radiograph
	ImageID    string
	loadGen    int

	// Display window (brightness/contrast/invert)
	Window xray.Window

	// Film marker text, populated when OCR is available
	Laterality string
	FilmBanner string

	// Exam classification selects the tool catalog
	ExamType measure.ExamType

	// Measurements
	measurements []*measure.Measurement
	Calibration  *measure.Calibration

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventImageLoaded EventType = iota
	EventImageFailed
	EventMeasurementsChanged
	EventSelectionChanged
	EventCalibrationChanged
	EventWindowChanged
	EventToolChanged
	EventExamTypeChanged
	EventSessionSaved
	EventSessionLoaded
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new application state.
func NewState() *State {
	return &State{
		ExamType:    measure.ExamFrontal,
		Calibration: &measure.Calibration{},
		listeners:   make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the session as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// LoadImage loads a radiograph from disk. Loads are guarded by a
// generation counter so a slow decode can never clobber a newer one.
func (s *State) LoadImage(path string) error {
	s.mu.Lock()
	s.loadGen++
	gen := s.loadGen
	s.mu.Unlock()

	r, err := xray.Load(path)
	if err != nil {
		s.Emit(EventImageFailed, err)
		return err
	}

	s.mu.Lock()
	if gen != s.loadGen {
		s.mu.Unlock()
		return nil // a newer load superseded this one
	}
	s.Radiograph = r
	s.ImageID = path
	s.Window = xray.Window{}
	s.Laterality = ""
	s.FilmBanner = ""
	s.measurements = nil
	s.Calibration = &measure.Calibration{}
	s.mu.Unlock()

	s.Emit(EventImageLoaded, r)
	s.Emit(EventMeasurementsChanged, nil)
	s.Emit(EventCalibrationChanged, nil)
	s.SetModified(false)
	return nil
}

// RotateImage rotates the radiograph 90 degrees counter-clockwise and remaps
// every measurement point into the rotated frame. Distances are preserved,
// so the calibration scale survives; orientation-dependent values are
// recomputed.
func (s *State) RotateImage() {
	s.mu.Lock()
	if s.Radiograph == nil {
		s.mu.Unlock()
		return
	}
	w := float64(s.Radiograph.Width)
	s.Radiograph = s.Radiograph.Rotate90()
	s.remapPoints(func(p geometry.Point2D) geometry.Point2D {
		return geometry.Point2D{X: p.Y, Y: w - p.X}
	})
	r := s.Radiograph
	s.mu.Unlock()

	s.Emit(EventImageLoaded, r)
	s.Emit(EventMeasurementsChanged, nil)
	s.SetModified(true)
}

// FlipImage mirrors the radiograph horizontally, remapping measurement
// points the same way.
func (s *State) FlipImage() {
	s.mu.Lock()
	if s.Radiograph == nil {
		s.mu.Unlock()
		return
	}
	w := float64(s.Radiograph.Width)
	s.Radiograph = s.Radiograph.FlipHorizontal()
	s.remapPoints(func(p geometry.Point2D) geometry.Point2D {
		return geometry.Point2D{X: w - p.X, Y: p.Y}
	})
	r := s.Radiograph
	s.mu.Unlock()

	s.Emit(EventImageLoaded, r)
	s.Emit(EventMeasurementsChanged, nil)
	s.SetModified(true)
}

// remapPoints applies fn to every measurement and calibration point and
// recomputes values. Caller holds the lock.
func (s *State) remapPoints(fn func(geometry.Point2D) geometry.Point2D) {
	for _, m := range s.measurements {
		for i, p := range m.Points {
			m.Points[i] = fn(p)
		}
		m.Recompute(s.Calibration)
	}
	s.Calibration.Points[0] = fn(s.Calibration.Points[0])
	s.Calibration.Points[1] = fn(s.Calibration.Points[1])
}

// ImageSize returns the natural size of the loaded radiograph, zero when
// nothing is loaded.
func (s *State) ImageSize() geometry.Size {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Radiograph == nil {
		return geometry.Size{}
	}
	return s.Radiograph.Size()
}

// Measurements returns a snapshot of the current measurements.
func (s *State) Measurements() []*measure.Measurement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*measure.Measurement, len(s.measurements))
	copy(out, s.measurements)
	return out
}

// AddMeasurement appends a completed measurement. A standard-distance
// measurement also becomes the calibration reference.
func (s *State) AddMeasurement(m *measure.Measurement) {
	s.mu.Lock()
	s.measurements = append(s.measurements, m)
	calibrated := false
	if m.Kind == measure.KindStandardDistance && len(m.Points) == 2 {
		s.Calibration.Points[0] = m.Points[0]
		s.Calibration.Points[1] = m.Points[1]
		calibrated = true
	}
	s.mu.Unlock()

	if calibrated {
		s.recomputeAll()
		s.Emit(EventCalibrationChanged, s.Calibration)
	}
	s.Emit(EventMeasurementsChanged, nil)
	s.SetModified(true)
}

// RemoveMeasurement deletes a measurement by id. Removing the standard
// distance reference drops calibration and recomputes everything under the
// default ratio.
func (s *State) RemoveMeasurement(id string) bool {
	s.mu.Lock()
	removed := false
	uncalibrated := false
	for i, m := range s.measurements {
		if m.ID != id {
			continue
		}
		if m.Kind == measure.KindStandardDistance {
			s.Calibration = &measure.Calibration{}
			uncalibrated = true
		}
		s.measurements = append(s.measurements[:i], s.measurements[i+1:]...)
		removed = true
		break
	}
	s.mu.Unlock()

	if !removed {
		return false
	}
	if uncalibrated {
		s.recomputeAll()
		s.Emit(EventCalibrationChanged, s.Calibration)
	}
	s.Emit(EventMeasurementsChanged, nil)
	s.SetModified(true)
	return true
}

// RemoveAll clears every measurement and the calibration.
func (s *State) RemoveAll() {
	s.mu.Lock()
	s.measurements = nil
	s.Calibration = &measure.Calibration{}
	s.mu.Unlock()

	s.Emit(EventCalibrationChanged, s.Calibration)
	s.Emit(EventMeasurementsChanged, nil)
	s.SetModified(true)
}

// SetCalibrationDistance records the physical length of the drawn standard
// distance reference and recomputes every measurement against it.
func (s *State) SetCalibrationDistance(mm float64) error {
	if mm <= 0 {
		return fmt.Errorf("calibration distance must be positive, got %v", mm)
	}
	s.mu.Lock()
	s.Calibration.DistanceMM = mm
	s.mu.Unlock()

	s.recomputeAll()
	s.Emit(EventCalibrationChanged, s.Calibration)
	s.Emit(EventMeasurementsChanged, nil)
	s.SetModified(true)
	return nil
}

// recomputeAll rederives every measurement value from its points.
func (s *State) recomputeAll() {
	s.mu.Lock()
	for _, m := range s.measurements {
		m.Recompute(s.Calibration)
	}
	s.mu.Unlock()
}

// MeasurementMutated is called after a drag edits points in place.
func (s *State) MeasurementMutated() {
	s.Emit(EventMeasurementsChanged, nil)
	s.SetModified(true)
}

// ToggleLabel flips the on-canvas label visibility for one measurement.
func (s *State) ToggleLabel(id string) bool {
	s.mu.Lock()
	var found bool
	for _, m := range s.measurements {
		if m.ID == id {
			m.LabelHidden = !m.LabelHidden
			found = true
			break
		}
	}
	s.mu.Unlock()

	if found {
		s.Emit(EventMeasurementsChanged, nil)
	}
	return found
}

// SetExamType switches the tool catalog classification.
func (s *State) SetExamType(exam measure.ExamType) {
	s.mu.Lock()
	changed := s.ExamType != exam
	s.ExamType = exam
	s.mu.Unlock()

	if changed {
		s.Emit(EventExamTypeChanged, exam)
	}
}

// SetWindow updates the display window settings.
func (s *State) SetWindow(w xray.Window) {
	s.mu.Lock()
	s.Window = w
	s.mu.Unlock()
	s.Emit(EventWindowChanged, w)
}

// SetMarkers records OCR results from the film corners.
func (s *State) SetMarkers(laterality, banner string) {
	s.mu.Lock()
	s.Laterality = laterality
	s.FilmBanner = banner
	s.mu.Unlock()
}

// ExportPayload builds the persistable form of the session.
func (s *State) ExportPayload() session.Payload {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var size geometry.Size
	if s.Radiograph != nil {
		size = s.Radiograph.Size()
	}
	return session.Export(s.ImageID, size, s.measurements, s.Calibration)
}

// SaveSession writes the annotation file for the current image.
func (s *State) SaveSession(path string) error {
	data, err := s.ExportPayload().Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	s.mu.Lock()
	s.SessionPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventSessionSaved, path)
	return nil
}

// LoadSession reads an annotation file and replaces the current
// measurements. A malformed file leaves the in-memory state untouched.
func (s *State) LoadSession(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	sess, err := session.Import(data, s.ImageSize())
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.SessionPath = path
	s.measurements = sess.Measurements
	s.Calibration = sess.Calibration
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventCalibrationChanged, s.Calibration)
	s.Emit(EventMeasurementsChanged, nil)
	s.Emit(EventSessionLoaded, path)
	return nil
}

// ReportText renders the measurement report for the current session.
func (s *State) ReportText() string {
	s.mu.RLock()
	hdr := session.ReportHeader{
		ImageID:    s.ImageID,
		Laterality: s.Laterality,
		Banner:     s.FilmBanner,
		ExamType:   s.ExamType,
	}
	measurements := make([]*measure.Measurement, len(s.measurements))
	copy(measurements, s.measurements)
	calib := s.Calibration
	s.mu.RUnlock()

	return session.Report(hdr, measurements, calib)
}
