// Package xray provides radiograph loading and display conditioning:
// decoding, thumbnails, and window/level adjustment.
package xray

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"spineview/pkg/geometry"
)

// Radiograph is a decoded X-ray image plus its natural pixel dimensions.
// Points on measurements always reference these natural dimensions.
type Radiograph struct {
	Path   string
	Image  image.Image
	Width  int
	Height int
}

// Load decodes a radiograph from disk. PNG, JPEG and TIFF are supported;
// TIFF is common for digitized film. EXIF orientation is applied during
// decode so camera-captured films come up the right way round.
func Load(path string) (*Radiograph, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}

	bounds := img.Bounds()
	return &Radiograph{
		Path:   path,
		Image:  img,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// Supported reports whether the file extension looks like a loadable image.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff":
		return true
	}
	return false
}

// Size returns the natural dimensions as a geometry.Size.
func (r *Radiograph) Size() geometry.Size {
	if r == nil {
		return geometry.Size{}
	}
	return geometry.NewSize(float64(r.Width), float64(r.Height))
}

// Thumbnail returns a copy scaled to fit within maxDim on its longest side,
// preserving aspect ratio.
func (r *Radiograph) Thumbnail(maxDim int) image.Image {
	if r == nil || r.Image == nil {
		return nil
	}
	return imaging.Fit(r.Image, maxDim, maxDim, imaging.Lanczos)
}

// Rotate90 returns a copy rotated 90 degrees counter-clockwise, for films
// scanned sideways.
func (r *Radiograph) Rotate90() *Radiograph {
	if r == nil || r.Image == nil {
		return r
	}
	rotated := imaging.Rotate90(r.Image)
	return &Radiograph{
		Path:   r.Path,
		Image:  rotated,
		Width:  rotated.Bounds().Dx(),
		Height: rotated.Bounds().Dy(),
	}
}

// FlipHorizontal returns a mirrored copy, for films digitized emulsion-side
// up.
func (r *Radiograph) FlipHorizontal() *Radiograph {
	if r == nil || r.Image == nil {
		return r
	}
	return &Radiograph{
		Path:   r.Path,
		Image:  imaging.FlipH(r.Image),
		Width:  r.Width,
		Height: r.Height,
	}
}
