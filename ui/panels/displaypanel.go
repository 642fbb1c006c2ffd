package panels

import (
	"log"

	"spineview/internal/app"
	"spineview/internal/enhance"
	"spineview/internal/xray"
	spinecanvas "spineview/ui/canvas"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// DisplayPanel holds the window/level sliders and enhancement toggles.
// Everything here changes only the displayed pixels, never the measurement
// coordinates.
type DisplayPanel struct {
	state  *app.State
	viewer *spinecanvas.Viewer

	brightness *widget.Slider
	contrast   *widget.Slider
	invert     *widget.Check
	claheCheck *widget.Check
	sharpen    *widget.Check

	box fyne.CanvasObject
}

// NewDisplayPanel creates the display settings panel.
func NewDisplayPanel(state *app.State, viewer *spinecanvas.Viewer) *DisplayPanel {
	dp := &DisplayPanel{
		state:  state,
		viewer: viewer,
	}

	dp.brightness = widget.NewSlider(-1, 1)
	dp.brightness.Step = 0.05
	dp.brightness.OnChanged = func(float64) { dp.applyWindow() }

	dp.contrast = widget.NewSlider(-1, 1)
	dp.contrast.Step = 0.05
	dp.contrast.OnChanged = func(float64) { dp.applyWindow() }

	dp.invert = widget.NewCheck("Invert", func(bool) { dp.applyWindow() })

	autoBtn := widget.NewButton("Auto Window", func() {
		if state.Radiograph == nil {
			return
		}
		w := xray.AutoWindow(state.Radiograph.Image)
		dp.brightness.SetValue(w.Brightness)
		dp.contrast.SetValue(w.Contrast)
		dp.invert.SetChecked(w.Inverted)
		dp.applyWindow()
	})
	resetBtn := widget.NewButton("Reset", func() {
		dp.brightness.SetValue(0)
		dp.contrast.SetValue(0)
		dp.invert.SetChecked(false)
		dp.applyWindow()
	})

	dp.claheCheck = widget.NewCheck("Adaptive contrast (CLAHE)", func(bool) { dp.applyEnhancement() })
	dp.sharpen = widget.NewCheck("Edge sharpen", func(bool) { dp.applyEnhancement() })

	state.On(app.EventImageLoaded, func(interface{}) {
		dp.brightness.SetValue(0)
		dp.contrast.SetValue(0)
		dp.invert.SetChecked(false)
		dp.claheCheck.SetChecked(false)
		dp.sharpen.SetChecked(false)
	})

	dp.box = container.NewVBox(
		widget.NewLabelWithStyle("Window / Level", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Brightness"),
		dp.brightness,
		widget.NewLabel("Contrast"),
		dp.contrast,
		dp.invert,
		container.NewGridWithColumns(2, autoBtn, resetBtn),
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Enhancement", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		dp.claheCheck,
		dp.sharpen,
	)
	return dp
}

// Container returns the panel content.
func (dp *DisplayPanel) Container() fyne.CanvasObject {
	return dp.box
}

func (dp *DisplayPanel) applyWindow() {
	dp.state.SetWindow(xray.Window{
		Brightness: dp.brightness.Value,
		Contrast:   dp.contrast.Value,
		Inverted:   dp.invert.Checked,
	})
}

// applyEnhancement recomputes the enhanced rendition from the original
// pixels. Failures fall back to the plain radiograph.
func (dp *DisplayPanel) applyEnhancement() {
	if dp.state.Radiograph == nil {
		return
	}
	if !dp.claheCheck.Checked && !dp.sharpen.Checked {
		dp.viewer.SetEnhanced(nil)
		return
	}

	img := dp.state.Radiograph.Image
	if dp.claheCheck.Checked {
		out, err := enhance.CLAHE(img)
		if err != nil {
			log.Printf("CLAHE failed: %v", err)
		} else {
			img = out
		}
	}
	if dp.sharpen.Checked {
		out, err := enhance.Sharpen(img)
		if err != nil {
			log.Printf("sharpen failed: %v", err)
		} else {
			img = out
		}
	}
	dp.viewer.SetEnhanced(img)
}
