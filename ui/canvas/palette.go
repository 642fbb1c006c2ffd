package canvas

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// hoverColor lightens a measurement's base color so hovered overlays stand
// out without changing hue.
func hoverColor(base color.RGBA) color.RGBA {
	c, _ := colorful.MakeColor(base)
	h, s, l := c.Hsl()
	l += (1 - l) * 0.35
	return toRGBA(colorful.Hsl(h, s, l))
}

// selectedColor shifts a measurement's base color toward a saturated warm
// highlight for the active selection.
func selectedColor(base color.RGBA) color.RGBA {
	c, _ := colorful.MakeColor(base)
	h, _, l := c.Hsl()
	if l < 0.55 {
		l = 0.55
	}
	return toRGBA(colorful.Hsl(h, 1.0, l))
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

// guideColor is the auxiliary reference line tint.
var guideColor = color.RGBA{R: 0x4F, G: 0xC3, B: 0xF7, A: 0xFF}

// selectionBoxColor outlines the padded bounds of the selected measurement.
var selectionBoxColor = color.RGBA{R: 0xFF, G: 0xEB, B: 0x3B, A: 0xFF}

// pendingColor marks points accumulated by the active tool before the
// measurement is complete.
var pendingColor = color.RGBA{R: 0x69, G: 0xF0, B: 0xAE, A: 0xFF}
