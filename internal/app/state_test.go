package app

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"spineview/internal/measure"
	"spineview/internal/xray"
	"spineview/pkg/geometry"
)

func newLength(t *testing.T, s *State, a, b geometry.Point2D) *measure.Measurement {
	t.Helper()
	m := measure.New(measure.KindLength, []geometry.Point2D{a, b}, s.Calibration)
	s.AddMeasurement(m)
	return m
}

func TestAddAndRemoveMeasurement(t *testing.T) {
	s := NewState()
	var events int
	s.On(EventMeasurementsChanged, func(interface{}) { events++ })

	m := newLength(t, s, geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 100, Y: 0})
	if len(s.Measurements()) != 1 {
		t.Fatalf("got %d measurements, want 1", len(s.Measurements()))
	}
	if events != 1 {
		t.Errorf("events = %d, want 1", events)
	}
	if !s.Modified {
		t.Error("adding a measurement should mark the session modified")
	}

	if !s.RemoveMeasurement(m.ID) {
		t.Fatal("RemoveMeasurement returned false")
	}
	if len(s.Measurements()) != 0 {
		t.Error("measurement not removed")
	}
	if s.RemoveMeasurement("m999999") {
		t.Error("removing an unknown id should return false")
	}
}

func TestCalibrationRecomputesValues(t *testing.T) {
	s := NewState()
	m := newLength(t, s, geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 100, Y: 0})
	if m.Value != "20.0mm" {
		t.Fatalf("uncalibrated value = %q, want 20.0mm (default ratio)", m.Value)
	}

	ref := measure.New(measure.KindStandardDistance, []geometry.Point2D{
		{X: 0, Y: 0}, {X: 50, Y: 0},
	}, s.Calibration)
	s.AddMeasurement(ref)
	if err := s.SetCalibrationDistance(25); err != nil {
		t.Fatalf("SetCalibrationDistance failed: %v", err)
	}

	// 25mm over 50px = 0.5mm/px, so 100px reads 50mm.
	if m.Value != "50.0mm" {
		t.Errorf("calibrated value = %q, want 50.0mm", m.Value)
	}

	// Removing the reference reverts to the default ratio.
	if !s.RemoveMeasurement(ref.ID) {
		t.Fatal("failed to remove calibration reference")
	}
	if s.Calibration.Set() {
		t.Error("calibration should be cleared with its reference")
	}
	if m.Value != "20.0mm" {
		t.Errorf("value after uncalibration = %q, want 20.0mm", m.Value)
	}
}

func TestSetCalibrationDistanceRejectsNonPositive(t *testing.T) {
	s := NewState()
	if err := s.SetCalibrationDistance(0); err == nil {
		t.Error("expected error for zero distance")
	}
	if err := s.SetCalibrationDistance(-5); err == nil {
		t.Error("expected error for negative distance")
	}
}

func TestSaveAndLoadSession(t *testing.T) {
	s := NewState()
	newLength(t, s, geometry.Point2D{X: 10, Y: 10}, geometry.Point2D{X: 110, Y: 10})
	s.AddMeasurement(measure.New(measure.KindCobb, []geometry.Point2D{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 20},
	}, s.Calibration))

	path := filepath.Join(t.TempDir(), "session.json")
	if err := s.SaveSession(path); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	if s.Modified {
		t.Error("save should clear the modified flag")
	}

	loaded := NewState()
	if err := loaded.LoadSession(path); err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	ms := loaded.Measurements()
	if len(ms) != 2 {
		t.Fatalf("got %d measurements, want 2", len(ms))
	}
	if ms[1].Kind != measure.KindCobb || ms[1].Value != "45.0°" {
		t.Errorf("cobb round trip: kind=%q value=%q", ms[1].Kind, ms[1].Value)
	}
}

func TestLoadSessionRejectsMalformedFile(t *testing.T) {
	s := NewState()
	newLength(t, s, geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 10, Y: 0})

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"imageId":"x"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := s.LoadSession(path); err == nil {
		t.Fatal("expected error for payload without measurements")
	}
	if len(s.Measurements()) != 1 {
		t.Error("failed import must leave prior measurements untouched")
	}
}

func TestRotateRemapsPoints(t *testing.T) {
	s := NewState()
	s.Radiograph = &xray.Radiograph{
		Image:  image.NewGray(image.Rect(0, 0, 100, 50)),
		Width:  100,
		Height: 50,
	}
	m := newLength(t, s, geometry.Point2D{X: 10, Y: 20}, geometry.Point2D{X: 30, Y: 20})

	s.RotateImage()

	if s.Radiograph.Width != 50 || s.Radiograph.Height != 100 {
		t.Fatalf("rotated dims = %dx%d, want 50x100", s.Radiograph.Width, s.Radiograph.Height)
	}
	// Counter-clockwise: (x,y) maps to (y, w-x).
	want := []geometry.Point2D{{X: 20, Y: 90}, {X: 20, Y: 70}}
	for i, p := range m.Points {
		if p != want[i] {
			t.Errorf("point %d = %+v, want %+v", i, p, want[i])
		}
	}
	// A 20px segment stays 20px, so the value survives rotation.
	if m.Value != "4.0mm" {
		t.Errorf("value after rotate = %q, want 4.0mm", m.Value)
	}
	if !s.Modified {
		t.Error("rotate should mark the session modified")
	}
}

func TestFlipRemapsPoints(t *testing.T) {
	s := NewState()
	s.Radiograph = &xray.Radiograph{
		Image:  image.NewGray(image.Rect(0, 0, 100, 50)),
		Width:  100,
		Height: 50,
	}
	m := newLength(t, s, geometry.Point2D{X: 10, Y: 20}, geometry.Point2D{X: 30, Y: 20})

	s.FlipImage()

	if s.Radiograph.Width != 100 || s.Radiograph.Height != 50 {
		t.Fatalf("flipped dims = %dx%d, want 100x50", s.Radiograph.Width, s.Radiograph.Height)
	}
	want := []geometry.Point2D{{X: 90, Y: 20}, {X: 70, Y: 20}}
	for i, p := range m.Points {
		if p != want[i] {
			t.Errorf("point %d = %+v, want %+v", i, p, want[i])
		}
	}
}

func TestRemoveAll(t *testing.T) {
	s := NewState()
	newLength(t, s, geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 10, Y: 0})
	newLength(t, s, geometry.Point2D{X: 0, Y: 5}, geometry.Point2D{X: 10, Y: 5})
	s.Calibration.DistanceMM = 25

	s.RemoveAll()
	if len(s.Measurements()) != 0 {
		t.Error("measurements not cleared")
	}
	if s.Calibration.Set() {
		t.Error("calibration not cleared")
	}
}

func TestReportText(t *testing.T) {
	s := NewState()
	s.SetMarkers("R", "SMITH J 2026-03-01")
	newLength(t, s, geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 100, Y: 0})

	text := s.ReportText()
	for _, want := range []string{"Marker:    R", "SMITH J", "20.0mm"} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q", want)
		}
	}
}
