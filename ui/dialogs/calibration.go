// Package dialogs provides modal dialogs for the main window.
package dialogs

import (
	"fmt"
	"strconv"

	"spineview/internal/app"
	"spineview/internal/measure"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// ShowCalibration prompts for the physical length of a drawn standard
// distance reference. Cancelling removes the reference so a half-finished
// calibration can never linger.
func ShowCalibration(state *app.State, ref *measure.Measurement, win fyne.Window) {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("e.g. 25")
	entry.Validator = func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("enter a number in millimeters")
		}
		if v <= 0 {
			return fmt.Errorf("length must be positive")
		}
		return nil
	}

	items := []*widget.FormItem{
		widget.NewFormItem("Known length (mm)", entry),
	}

	d := dialog.NewForm("Standard Distance", "Set", "Cancel", items, func(ok bool) {
		if !ok {
			state.RemoveMeasurement(ref.ID)
			return
		}
		mm, err := strconv.ParseFloat(entry.Text, 64)
		if err != nil || mm <= 0 {
			state.RemoveMeasurement(ref.ID)
			return
		}
		if err := state.SetCalibrationDistance(mm); err != nil {
			dialog.ShowError(err, win)
		}
	}, win)
	d.Resize(fyne.NewSize(320, 150))
	d.Show()
}
