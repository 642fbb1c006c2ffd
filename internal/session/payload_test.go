package session

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"spineview/internal/measure"
	"spineview/pkg/geometry"
)

func TestExportImportRoundTrip(t *testing.T) {
	size := geometry.Size{Width: 2000, Height: 1000}
	calib := &measure.Calibration{}
	original := []*measure.Measurement{
		measure.New(measure.KindCobb, []geometry.Point2D{
			{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 20},
		}, calib),
		measure.New(measure.KindLength, []geometry.Point2D{
			{X: 100, Y: 100}, {X: 200, Y: 100},
		}, calib),
	}

	data, err := Export("study-42", size, original, calib).Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	s, err := Import(data, size)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if s.ImageID != "study-42" {
		t.Errorf("ImageID = %q, want study-42", s.ImageID)
	}
	if len(s.Measurements) != len(original) {
		t.Fatalf("got %d measurements, want %d", len(s.Measurements), len(original))
	}
	for i, m := range s.Measurements {
		if m.Kind != original[i].Kind {
			t.Errorf("measurement %d kind = %q, want %q", i, m.Kind, original[i].Kind)
		}
		for j, p := range m.Points {
			want := original[i].Points[j]
			if math.Abs(p.X-want.X) > 1e-9 || math.Abs(p.Y-want.Y) > 1e-9 {
				t.Errorf("measurement %d point %d = %v, want %v", i, j, p, want)
			}
		}
		if m.Value != original[i].Value {
			t.Errorf("measurement %d value = %q, want %q", i, m.Value, original[i].Value)
		}
		if m.ID == original[i].ID {
			t.Errorf("measurement %d id was not regenerated", i)
		}
	}
}

func TestImportRescalesPerAxis(t *testing.T) {
	data := []byte(`{
		"imageId": "study-7",
		"imageWidth": 1000,
		"imageHeight": 500,
		"measurements": [
			{"type": "length", "points": [{"x": 100, "y": 100}, {"x": 200, "y": 100}]}
		]
	}`)

	s, err := Import(data, geometry.Size{Width: 2000, Height: 1000})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	got := s.Measurements[0].Points
	want := []geometry.Point2D{{X: 200, Y: 200}, {X: 400, Y: 200}}
	for i := range want {
		if math.Abs(got[i].X-want[i].X) > 1e-9 || math.Abs(got[i].Y-want[i].Y) > 1e-9 {
			t.Errorf("point %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestImportWithoutStoredDimensions(t *testing.T) {
	data := []byte(`{"imageId": "x", "measurements": [
		{"type": "length", "points": [{"x": 10, "y": 20}, {"x": 30, "y": 20}]}
	]}`)

	s, err := Import(data, geometry.Size{Width: 4000, Height: 2000})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	p := s.Measurements[0].Points[0]
	if p.X != 10 || p.Y != 20 {
		t.Errorf("point = %v, want untouched (10,20)", p)
	}
}

func TestImportRestoresCalibration(t *testing.T) {
	data := []byte(`{
		"imageId": "x",
		"measurements": [
			{"type": "length", "points": [{"x": 0, "y": 0}, {"x": 100, "y": 0}]}
		],
		"standardDistance": 25,
		"standardDistancePoints": [{"x": 0, "y": 0}, {"x": 50, "y": 0}]
	}`)

	s, err := Import(data, geometry.Size{})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if !s.Calibration.Set() {
		t.Fatal("calibration not restored")
	}
	// 25mm over 50px = 0.5mm/px, so a 100px length reads 50mm.
	if s.Measurements[0].Value != "50.0mm" {
		t.Errorf("value = %q, want 50.0mm", s.Measurements[0].Value)
	}
}

func TestImportRejectsMalformedPayload(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not json", "{nope"},
		{"missing measurements", `{"imageId": "x"}`},
		{"untyped measurement", `{"measurements": [{"points": [{"x": 1, "y": 2}]}]}`},
		{"empty points", `{"measurements": [{"type": "length", "points": []}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Import([]byte(tc.data), geometry.Size{}); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	p := Export("series/1.2.3", geometry.Size{Width: 800, Height: 600}, nil, &measure.Calibration{})
	p.Measurements = []StoredMeasurement{
		{Type: "cobb", Points: []geometry.Point2D{{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 6}, {X: 7, Y: 8}}},
	}
	if err := store.Save("series/1.2.3", p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Path separators in the id must not escape the store directory.
	if filepath.Dir(store.Path("series/1.2.3")) != filepath.Dir(store.Path("plain")) {
		t.Error("image id was not sanitized into the store directory")
	}

	loaded, err := store.Load("series/1.2.3")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.ImageID != "series/1.2.3" {
		t.Errorf("ImageID = %q", loaded.ImageID)
	}
	if len(loaded.Measurements) != 1 || loaded.Measurements[0].Type != "cobb" {
		t.Errorf("unexpected measurements: %+v", loaded.Measurements)
	}

	if _, err := store.Load("absent"); !os.IsNotExist(err) {
		t.Errorf("Load of missing id: err = %v, want not-exist", err)
	}
}

func TestReportContents(t *testing.T) {
	calib := &measure.Calibration{
		Points:     [2]geometry.Point2D{{X: 0, Y: 0}, {X: 100, Y: 0}},
		DistanceMM: 50,
	}
	measurements := []*measure.Measurement{
		measure.New(measure.KindCobb, []geometry.Point2D{
			{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 20},
		}, calib),
		measure.New(measure.KindCircle, []geometry.Point2D{{X: 5, Y: 5}, {X: 9, Y: 5}}, calib),
	}

	text := Report(ReportHeader{
		ImageID:    "study-42",
		Laterality: "L",
		ExamType:   measure.ExamFrontal,
	}, measurements, calib)

	for _, want := range []string{"study-42", "frontal", "Marker:    L", "45.0", "Annotations", "calibrated"} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q:\n%s", want, text)
		}
	}
}
