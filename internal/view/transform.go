// Package view maps between image-space and screen-space coordinates under
// pan and zoom, with the image fit into its container using "contain"
// semantics.
package view

import (
	"spineview/pkg/geometry"
)

// Zoom limits and wheel step for the canvas.
const (
	MinScale = 0.1
	MaxScale = 5.0
	ZoomStep = 1.25
)

// Transform is the process-local pan/zoom state. The zero value (with
// Scale 0) is not valid; use NewTransform.
type Transform struct {
	Pan   geometry.Point2D
	Scale float64
}

// NewTransform returns the identity view: no pan, unit scale.
func NewTransform() Transform {
	return Transform{Scale: 1}
}

// WithScale returns a copy with the scale clamped into [MinScale, MaxScale].
func (t Transform) WithScale(scale float64) Transform {
	if scale < MinScale {
		scale = MinScale
	}
	if scale > MaxScale {
		scale = MaxScale
	}
	t.Scale = scale
	return t
}

// WithPan returns a copy panned by the given screen-space delta.
func (t Transform) WithPan(delta geometry.Point2D) Transform {
	t.Pan = t.Pan.Add(delta)
	return t
}

// FitScale returns the "contain" scale factor that fits natural into
// container with the whole image visible. Zero sizes yield 1 so the
// transform degrades to identity while the image is still loading.
func FitScale(natural, container geometry.Size) float64 {
	if natural.IsZero() || container.IsZero() {
		return 1
	}
	sx := container.Width / natural.Width
	sy := container.Height / natural.Height
	if sy < sx {
		return sy
	}
	return sx
}

// DisplaySize returns the on-screen size of the image at zoom 1 under
// contain fitting.
func DisplaySize(natural, container geometry.Size) geometry.Size {
	s := FitScale(natural, container)
	return geometry.NewSize(natural.Width*s, natural.Height*s)
}

// matrix builds the forward image-to-screen affine transform: translate the
// image center to the origin, apply the combined contain-fit and zoom
// scale, then translate by the pan offset plus the container center.
func matrix(t Transform, natural, container geometry.Size) geometry.AffineTransform {
	k := FitScale(natural, container) * t.Scale
	toOrigin := geometry.Translation(-natural.Width/2, -natural.Height/2)
	place := geometry.Translation(
		t.Pan.X+container.Width/2,
		t.Pan.Y+container.Height/2,
	)
	return place.Compose(geometry.Scaling(k)).Compose(toOrigin)
}

// ImageToScreen maps an image-space point to screen space.
func ImageToScreen(p geometry.Point2D, t Transform, natural, container geometry.Size) geometry.Point2D {
	if natural.IsZero() {
		return p
	}
	return matrix(t, natural, container).Apply(p)
}

// ScreenToImage maps a screen-space point back to image space. It is the
// exact inverse of ImageToScreen for all valid transforms.
func ScreenToImage(p geometry.Point2D, t Transform, natural, container geometry.Size) geometry.Point2D {
	if natural.IsZero() {
		return p
	}
	inv, ok := matrix(t, natural, container).Inverse()
	if !ok {
		return p
	}
	return inv.Apply(p)
}

// Projector returns a closure mapping image space to screen space with the
// given parameters baked in. Hit testing and rendering use this so their
// thresholds stay in screen pixels.
func Projector(t Transform, natural, container geometry.Size) func(geometry.Point2D) geometry.Point2D {
	m := matrix(t, natural, container)
	identity := natural.IsZero()
	return func(p geometry.Point2D) geometry.Point2D {
		if identity {
			return p
		}
		return m.Apply(p)
	}
}
