package measure

import (
	"fmt"
	"log"
	"sync/atomic"

	"spineview/pkg/geometry"
)

var idCounter uint64

// NewID returns a process-unique measurement identifier.
func NewID() string {
	return fmt.Sprintf("m%d", atomic.AddUint64(&idCounter, 1))
}

// Measurement is the persisted unit of annotation: an ordered point set of a
// given kind plus its derived display value.
type Measurement struct {
	ID          string
	Kind        Kind
	Points      []geometry.Point2D
	Value       string
	Description string

	// LabelHidden suppresses this measurement's on-canvas label. It is a
	// display preference and is not persisted.
	LabelHidden bool
}

// New creates a measurement of the given kind and derives its value.
func New(kind Kind, points []geometry.Point2D, c *Calibration) *Measurement {
	m := &Measurement{
		ID:     NewID(),
		Kind:   kind,
		Points: points,
	}
	if spec, ok := SpecFor(kind); ok {
		m.Description = spec.Description
	}
	m.Recompute(c)
	return m
}

// Recompute re-derives Value from Points. It must be called after every
// point mutation so a stale value never survives a drag.
func (m *Measurement) Recompute(c *Calibration) {
	spec, ok := SpecFor(m.Kind)
	switch {
	case ok && spec.Auxiliary:
		m.Value = auxPlaceholder
	case ok:
		m.Value = spec.value(m.Points, c)
	default:
		// Best-effort degrade for kinds outside the catalog: guess the
		// formula from the point count. Loud on purpose, since this can
		// mask a typo in an imported file.
		log.Printf("measure: unknown kind %q, guessing formula from %d points", m.Kind, len(m.Points))
		if len(m.Points) >= 3 {
			m.Value = threePointAngle(m.Points, c)
		} else {
			m.Value = pointDistanceMM(m.Points, c)
		}
	}
}

// Auxiliary reports whether the measurement is a visual annotation shape.
func (m *Measurement) Auxiliary() bool {
	spec, ok := SpecFor(m.Kind)
	return ok && spec.Auxiliary
}

// DisplayName returns the kind's catalog name, or the raw kind tag for
// unknown kinds.
func (m *Measurement) DisplayName() string {
	if spec, ok := SpecFor(m.Kind); ok {
		return spec.Name
	}
	return string(m.Kind)
}

// Label returns the "{name}: {value}" text rendered next to the measurement.
func (m *Measurement) Label() string {
	return m.DisplayName() + ": " + m.Value
}

// Bounds returns the axis-aligned bounding box of the measurement's points.
// Circles and ellipses expand to their drawn extent rather than the bare
// defining points.
func (m *Measurement) Bounds() geometry.Rect {
	switch m.Kind {
	case KindCircle:
		if len(m.Points) == 2 {
			r := m.Points[0].Distance(m.Points[1])
			return geometry.Rect{
				X: m.Points[0].X - r, Y: m.Points[0].Y - r,
				Width: 2 * r, Height: 2 * r,
			}
		}
	case KindEllipse:
		if len(m.Points) == 2 {
			return geometry.BoundingBox(m.Points)
		}
	}
	return geometry.BoundingBox(m.Points)
}

// Translate moves every point by the same delta, preserving shape, and
// recomputes the value.
func (m *Measurement) Translate(delta geometry.Point2D, c *Calibration) {
	for i := range m.Points {
		m.Points[i] = m.Points[i].Add(delta)
	}
	m.Recompute(c)
}

// MovePoint updates a single point and recomputes the value. Out-of-range
// indexes are ignored.
func (m *Measurement) MovePoint(index int, p geometry.Point2D, c *Calibration) {
	if index < 0 || index >= len(m.Points) {
		return
	}
	m.Points[index] = p
	m.Recompute(c)
}
