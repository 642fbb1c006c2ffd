// Package session provides annotation persistence and report generation.
// Annotation files store only the measurement kind and its image-space
// points; ids, values and descriptions are regenerated on import so stale
// or hand-edited values can never survive a round trip.
package session

import (
	"encoding/json"
	"fmt"

	"spineview/internal/measure"
	"spineview/pkg/geometry"
)

// StoredMeasurement is the persisted form of a measurement.
type StoredMeasurement struct {
	Type   string             `json:"type"`
	Points []geometry.Point2D `json:"points"`
}

// Payload is the annotation file format.
type Payload struct {
	ImageID                string              `json:"imageId"`
	ImageWidth             float64             `json:"imageWidth,omitempty"`
	ImageHeight            float64             `json:"imageHeight,omitempty"`
	Measurements           []StoredMeasurement `json:"measurements"`
	StandardDistance       float64             `json:"standardDistance,omitempty"`
	StandardDistancePoints []geometry.Point2D  `json:"standardDistancePoints,omitempty"`
}

// Session is the in-memory state reconstructed from a payload.
type Session struct {
	ImageID      string
	Measurements []*measure.Measurement
	Calibration  *measure.Calibration
}

// Export builds a payload from the current session. Stored image dimensions
// let a later import rescale when the image is re-digitized at another
// resolution.
func Export(imageID string, size geometry.Size, measurements []*measure.Measurement, calib *measure.Calibration) Payload {
	p := Payload{
		ImageID:      imageID,
		ImageWidth:   size.Width,
		ImageHeight:  size.Height,
		Measurements: make([]StoredMeasurement, 0, len(measurements)),
	}
	for _, m := range measurements {
		points := make([]geometry.Point2D, len(m.Points))
		copy(points, m.Points)
		p.Measurements = append(p.Measurements, StoredMeasurement{
			Type:   string(m.Kind),
			Points: points,
		})
	}
	if calib.Set() {
		p.StandardDistance = calib.DistanceMM
		p.StandardDistancePoints = []geometry.Point2D{calib.Points[0], calib.Points[1]}
	}
	return p
}

// Marshal serializes a payload as indented JSON.
func (p Payload) Marshal() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// Import parses an annotation payload and reconstructs the session against
// the current image size. A malformed payload is rejected wholesale so a
// partial import can never replace existing work.
func Import(data []byte, current geometry.Size) (*Session, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse annotation file: %w", err)
	}
	if p.Measurements == nil {
		return nil, fmt.Errorf("annotation file has no measurements array")
	}
	for i, sm := range p.Measurements {
		if sm.Type == "" {
			return nil, fmt.Errorf("measurement %d has no type", i)
		}
		if len(sm.Points) == 0 {
			return nil, fmt.Errorf("measurement %d (%s) has no points", i, sm.Type)
		}
	}

	sx, sy := rescaleFactors(p, current)

	calib := &measure.Calibration{}
	if p.StandardDistance > 0 && len(p.StandardDistancePoints) == 2 {
		calib.DistanceMM = p.StandardDistance
		calib.Points[0] = p.StandardDistancePoints[0].ScaleXY(sx, sy)
		calib.Points[1] = p.StandardDistancePoints[1].ScaleXY(sx, sy)
	}

	s := &Session{
		ImageID:      p.ImageID,
		Measurements: make([]*measure.Measurement, 0, len(p.Measurements)),
		Calibration:  calib,
	}
	for _, sm := range p.Measurements {
		points := make([]geometry.Point2D, len(sm.Points))
		for i, pt := range sm.Points {
			points[i] = pt.ScaleXY(sx, sy)
		}
		s.Measurements = append(s.Measurements, measure.New(measure.Kind(sm.Type), points, calib))
	}
	return s, nil
}

// rescaleFactors returns per-axis factors mapping stored coordinates onto
// the current image. Files without stored dimensions load untouched.
func rescaleFactors(p Payload, current geometry.Size) (float64, float64) {
	sx, sy := 1.0, 1.0
	if p.ImageWidth > 0 && current.Width > 0 {
		sx = current.Width / p.ImageWidth
	}
	if p.ImageHeight > 0 && current.Height > 0 {
		sy = current.Height / p.ImageHeight
	}
	return sx, sy
}
