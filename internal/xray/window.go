package xray

import (
	"image"
	"sort"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
	"gonum.org/v1/gonum/stat"
)

// Window holds display conditioning parameters for a radiograph.
// Brightness and Contrast are relative adjustments in [-1, 1]; zero values
// leave the image untouched. Inverted flips the grayscale, turning a
// negative film view into a positive one.
type Window struct {
	Brightness float64
	Contrast   float64
	Inverted   bool
}

// IsNeutral reports whether applying the window would be a no-op.
func (w Window) IsNeutral() bool {
	return w.Brightness == 0 && w.Contrast == 0 && !w.Inverted
}

// Apply returns a display copy of img with the window applied. The source
// image is never modified; measurement coordinates stay valid because the
// dimensions are unchanged.
func (w Window) Apply(img image.Image) image.Image {
	if img == nil || w.IsNeutral() {
		return img
	}

	out := img
	if w.Brightness != 0 {
		out = adjust.Brightness(out, w.Brightness)
	}
	if w.Contrast != 0 {
		out = adjust.Contrast(out, w.Contrast)
	}
	if w.Inverted {
		out = effect.Invert(out)
	}
	return out
}

// autoWindowStride limits luminance sampling to roughly 10k pixels on large
// radiographs.
const autoWindowSamples = 10000

// AutoWindow estimates a window from the image's luminance distribution:
// the 2nd and 98th percentiles are stretched toward the full range. This
// mirrors the auto window/level button on diagnostic viewers.
func AutoWindow(img image.Image) Window {
	if img == nil {
		return Window{}
	}

	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return Window{}
	}

	stride := 1
	if total > autoWindowSamples {
		stride = total / autoWindowSamples
	}

	lum := make([]float64, 0, autoWindowSamples)
	for i := 0; i < total; i += stride {
		x := bounds.Min.X + i%bounds.Dx()
		y := bounds.Min.Y + i/bounds.Dx()
		r, g, b, _ := img.At(x, y).RGBA()
		// Rec. 601 luma on 16-bit channel values, normalized to [0, 1].
		lum = append(lum, (0.299*float64(r)+0.587*float64(g)+0.114*float64(b))/0xffff)
	}

	sort.Float64s(lum)
	lo := stat.Quantile(0.02, stat.Empirical, lum, nil)
	hi := stat.Quantile(0.98, stat.Empirical, lum, nil)

	spread := hi - lo
	if spread <= 0 || spread >= 0.95 {
		// Already using the full range, or degenerate: leave it alone.
		return Window{}
	}

	w := Window{
		// Center the occupied range on mid-gray.
		Brightness: 0.5 - (lo+hi)/2,
		// Stretch the occupied range toward full scale, capped to keep
		// the adjustment subtle.
		Contrast: 0.9 - spread,
	}
	if w.Contrast > 0.5 {
		w.Contrast = 0.5
	}
	if w.Contrast < 0 {
		w.Contrast = 0
	}
	return w
}
