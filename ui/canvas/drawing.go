// Overlay drawing primitives for the radiograph viewer raster.
package canvas

import (
	"image"
	"image/color"
	"math"
)

// digitPatterns contains 3x5 pixel patterns for digits 0-9.
// Each digit is represented as 5 rows of 3 bits.
var digitPatterns = [10][5]uint8{
	{0b111, 0b101, 0b101, 0b101, 0b111}, // 0
	{0b010, 0b110, 0b010, 0b010, 0b111}, // 1
	{0b111, 0b001, 0b111, 0b100, 0b111}, // 2
	{0b111, 0b001, 0b111, 0b001, 0b111}, // 3
	{0b101, 0b101, 0b111, 0b001, 0b001}, // 4
	{0b111, 0b100, 0b111, 0b001, 0b111}, // 5
	{0b111, 0b100, 0b111, 0b101, 0b111}, // 6
	{0b111, 0b001, 0b001, 0b001, 0b001}, // 7
	{0b111, 0b101, 0b111, 0b101, 0b111}, // 8
	{0b111, 0b101, 0b111, 0b001, 0b111}, // 9
}

// letterPatterns contains 3x5 pixel patterns for letters and the symbols
// that appear in measurement labels.
var letterPatterns = map[rune][5]uint8{
	'A': {0b010, 0b101, 0b111, 0b101, 0b101},
	'B': {0b110, 0b101, 0b110, 0b101, 0b110},
	'C': {0b011, 0b100, 0b100, 0b100, 0b011},
	'D': {0b110, 0b101, 0b101, 0b101, 0b110},
	'E': {0b111, 0b100, 0b110, 0b100, 0b111},
	'F': {0b111, 0b100, 0b110, 0b100, 0b100},
	'G': {0b011, 0b100, 0b101, 0b101, 0b011},
	'H': {0b101, 0b101, 0b111, 0b101, 0b101},
	'I': {0b111, 0b010, 0b010, 0b010, 0b111},
	'J': {0b001, 0b001, 0b001, 0b101, 0b010},
	'K': {0b101, 0b101, 0b110, 0b101, 0b101},
	'L': {0b100, 0b100, 0b100, 0b100, 0b111},
	'M': {0b101, 0b111, 0b101, 0b101, 0b101},
	'N': {0b101, 0b111, 0b111, 0b101, 0b101},
	'O': {0b010, 0b101, 0b101, 0b101, 0b010},
	'P': {0b110, 0b101, 0b110, 0b100, 0b100},
	'Q': {0b010, 0b101, 0b101, 0b111, 0b011},
	'R': {0b110, 0b101, 0b110, 0b101, 0b101},
	'S': {0b011, 0b100, 0b010, 0b001, 0b110},
	'T': {0b111, 0b010, 0b010, 0b010, 0b010},
	'U': {0b101, 0b101, 0b101, 0b101, 0b111},
	'V': {0b101, 0b101, 0b101, 0b101, 0b010},
	'W': {0b101, 0b101, 0b101, 0b111, 0b101},
	'X': {0b101, 0b101, 0b010, 0b101, 0b101},
	'Y': {0b101, 0b101, 0b010, 0b010, 0b010},
	'Z': {0b111, 0b001, 0b010, 0b100, 0b111},
	'+': {0b000, 0b010, 0b111, 0b010, 0b000},
	'-': {0b000, 0b000, 0b111, 0b000, 0b000},
	'.': {0b000, 0b000, 0b000, 0b000, 0b010},
	':': {0b000, 0b010, 0b000, 0b010, 0b000},
	'°': {0b111, 0b101, 0b111, 0b000, 0b000},
	'—': {0b000, 0b000, 0b111, 0b000, 0b000},
	' ': {0b000, 0b000, 0b000, 0b000, 0b000},
}

// charPattern returns the 3x5 pattern for a character, empty when
// unsupported.
func charPattern(ch rune) [5]uint8 {
	if ch >= '0' && ch <= '9' {
		return digitPatterns[ch-'0']
	}
	if ch >= 'a' && ch <= 'z' {
		ch = ch - 'a' + 'A'
	}
	if pattern, ok := letterPatterns[ch]; ok {
		return pattern
	}
	return [5]uint8{}
}

func setPixel(output *image.RGBA, x, y int, col color.RGBA) {
	bounds := output.Bounds()
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		output.Set(x, y, col)
	}
}

// drawLine draws a line using Bresenham's algorithm.
func drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				setPixel(output, x1+s, y1+t, col)
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawDashedLine draws a line with alternating 4-pixel dashes.
func drawDashedLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	step := 0

	for {
		if step%8 < 4 {
			setPixel(output, x1, y1, col)
		}
		step++

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawCircleOutline draws a 2 pixel thick circle outline.
func drawCircleOutline(output *image.RGBA, cx, cy, r float64, col color.RGBA) {
	minX := int(cx - r - 1)
	maxX := int(cx + r + 1)
	minY := int(cy - r - 1)
	maxY := int(cy + r + 1)

	r2 := r * r
	inner := r - 2
	if inner < 0 {
		inner = 0
	}
	innerR2 := inner * inner

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			dist2 := dx*dx + dy*dy
			if dist2 <= r2 && dist2 >= innerR2 {
				setPixel(output, x, y, col)
			}
		}
	}
}

// drawEllipseOutline draws an axis-aligned ellipse outline by stepping the
// parametric form; the step count tracks the larger semi-axis so the curve
// stays closed at any zoom.
func drawEllipseOutline(output *image.RGBA, cx, cy, rx, ry float64, col color.RGBA) {
	if rx <= 0 || ry <= 0 {
		return
	}
	steps := int(4 * math.Max(rx, ry))
	if steps < 32 {
		steps = 32
	}

	px := cx + rx
	py := cy
	for i := 1; i <= steps; i++ {
		theta := float64(i) / float64(steps) * 2 * math.Pi
		x := cx + rx*math.Cos(theta)
		y := cy + ry*math.Sin(theta)
		drawLine(output, int(px), int(py), int(x), int(y), col, 2)
		px, py = x, y
	}
}

// drawDashedRect draws a dashed rectangle outline, used for the selection
// bounding box.
func drawDashedRect(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for x := x1; x <= x2; x++ {
		if (x+y1)%8 < 4 {
			setPixel(output, x, y1, col)
		}
		if (x+y2)%8 < 4 {
			setPixel(output, x, y2, col)
		}
	}
	for y := y1; y <= y2; y++ {
		if (x1+y)%8 < 4 {
			setPixel(output, x1, y, col)
		}
		if (x2+y)%8 < 4 {
			setPixel(output, x2, y, col)
		}
	}
}

// drawRectOutline draws a 2 pixel thick rectangle outline.
func drawRectOutline(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for t := 0; t < 2; t++ {
		for x := x1; x <= x2; x++ {
			setPixel(output, x, y1+t, col)
			setPixel(output, x, y2-t, col)
		}
		for y := y1; y <= y2; y++ {
			setPixel(output, x1+t, y, col)
			setPixel(output, x2-t, y, col)
		}
	}
}

// arrowHeadLength is in screen pixels so heads stay readable at any zoom.
const arrowHeadLength = 12.0

// drawArrow draws a line with a head at the second point.
func drawArrow(output *image.RGBA, x1, y1, x2, y2 float64, col color.RGBA) {
	drawLine(output, int(x1), int(y1), int(x2), int(y2), col, 2)

	angle := math.Atan2(y2-y1, x2-x1)
	for _, offset := range []float64{math.Pi * 5 / 6, -math.Pi * 5 / 6} {
		hx := x2 + arrowHeadLength*math.Cos(angle+offset)
		hy := y2 + arrowHeadLength*math.Sin(angle+offset)
		drawLine(output, int(x2), int(y2), int(hx), int(hy), col, 2)
	}
}

// drawHandle draws a small square point handle centered on a coordinate.
func drawHandle(output *image.RGBA, cx, cy int, col color.RGBA) {
	const half = 3
	for y := cy - half; y <= cy+half; y++ {
		for x := cx - half; x <= cx+half; x++ {
			setPixel(output, x, y, col)
		}
	}
}

// drawText draws a string in the 3x5 pixel font, top-left anchored.
func drawText(output *image.RGBA, text string, x, y, scale int, col color.RGBA) {
	if scale < 1 {
		scale = 1
	}
	charWidth := 3 * scale
	spacing := scale

	cx := x
	for _, ch := range text {
		pattern := charPattern(ch)
		for row := 0; row < 5; row++ {
			for c := 0; c < 3; c++ {
				if (pattern[row] & (1 << (2 - c))) == 0 {
					continue
				}
				for dy := 0; dy < scale; dy++ {
					for dx := 0; dx < scale; dx++ {
						setPixel(output, cx+c*scale+dx, y+row*scale+dy, col)
					}
				}
			}
		}
		cx += charWidth + spacing
	}
}

// drawLabel draws a centered label with a dark backing band so text stays
// readable over bone.
func drawLabel(output *image.RGBA, text string, centerX, centerY int, col color.RGBA) {
	const scale = 2
	charWidth := 3 * scale
	spacing := scale
	width := len([]rune(text))*(charWidth+spacing) - spacing
	height := 5 * scale

	x := centerX - width/2
	y := centerY - height/2

	backing := color.RGBA{R: 0, G: 0, B: 0, A: 0xFF}
	for by := y - 2; by < y+height+2; by++ {
		for bx := x - 2; bx < x+width+2; bx++ {
			setPixel(output, bx, by, backing)
		}
	}

	drawText(output, text, x, y, scale, col)
}
