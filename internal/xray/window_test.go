package xray

import (
	"image"
	"image/color"
	"testing"
)

func grayImage(w, h int, shade uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{shade, shade, shade, 255})
		}
	}
	return img
}

func TestNeutralWindowIsNoOp(t *testing.T) {
	img := grayImage(10, 10, 128)
	w := Window{}
	if !w.IsNeutral() {
		t.Fatal("zero window should be neutral")
	}
	if w.Apply(img) != image.Image(img) {
		t.Error("neutral window should return the source image unchanged")
	}
}

func TestApplyPreservesDimensions(t *testing.T) {
	img := grayImage(32, 48, 60)
	out := Window{Brightness: 0.2, Contrast: 0.3, Inverted: true}.Apply(img)

	if out.Bounds().Dx() != 32 || out.Bounds().Dy() != 48 {
		t.Errorf("window changed dimensions: %v", out.Bounds())
	}
}

func TestInvertFlipsShade(t *testing.T) {
	img := grayImage(4, 4, 0)
	out := Window{Inverted: true}.Apply(img)

	r, _, _, _ := out.At(0, 0).RGBA()
	if r>>8 < 250 {
		t.Errorf("inverting black should give white, got %d", r>>8)
	}
}

func TestAutoWindowNarrowRange(t *testing.T) {
	// A washed-out film: everything clustered around mid-dark gray.
	img := image.NewRGBA(image.Rect(0, 0, 60, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 60; x++ {
			shade := uint8(90 + (x+y)%20)
			img.Set(x, y, color.RGBA{shade, shade, shade, 255})
		}
	}

	w := AutoWindow(img)
	if w.Contrast <= 0 {
		t.Errorf("narrow luminance range should gain contrast, got %+v", w)
	}
	if w.Inverted {
		t.Error("auto window never inverts")
	}
}

func TestAutoWindowFullRangeIsNeutral(t *testing.T) {
	// A full-range gradient needs no adjustment.
	img := image.NewRGBA(image.Rect(0, 0, 256, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 256; x++ {
			shade := uint8(x)
			img.Set(x, y, color.RGBA{shade, shade, shade, 255})
		}
	}

	if w := AutoWindow(img); !w.IsNeutral() {
		t.Errorf("full-range image should stay neutral, got %+v", w)
	}
}

func TestAutoWindowNilImage(t *testing.T) {
	if w := AutoWindow(nil); !w.IsNeutral() {
		t.Error("nil image should yield a neutral window")
	}
}
