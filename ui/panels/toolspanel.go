// Package panels provides the side panel sections of the main window.
package panels

import (
	"errors"
	"log"

	"spineview/internal/annotate"
	"spineview/internal/app"
	"spineview/internal/measure"
	spinecanvas "spineview/ui/canvas"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// ToolsPanel lists the measurement tools for the current exam type.
type ToolsPanel struct {
	state   *app.State
	tracker *annotate.Tracker
	viewer  *spinecanvas.Viewer
	win     fyne.Window

	examSelect *widget.Select
	toolList   *fyne.Container
	activeHint *widget.Label
	box        fyne.CanvasObject
}

// NewToolsPanel creates the tool selection panel.
func NewToolsPanel(state *app.State, tracker *annotate.Tracker, viewer *spinecanvas.Viewer) *ToolsPanel {
	tp := &ToolsPanel{
		state:   state,
		tracker: tracker,
		viewer:  viewer,
	}

	tp.examSelect = widget.NewSelect([]string{
		string(measure.ExamFrontal),
		string(measure.ExamLateral),
	}, func(selected string) {
		state.SetExamType(measure.ExamType(selected))
	})
	tp.examSelect.SetSelected(string(state.ExamType))

	tp.activeHint = widget.NewLabel("")
	tp.activeHint.Wrapping = fyne.TextWrapWord

	tp.toolList = container.NewVBox()
	tp.rebuildTools()

	state.On(app.EventExamTypeChanged, func(interface{}) {
		tracker.Deactivate()
		tp.rebuildTools()
		tp.setHint("")
	})
	viewer.OnToolDone(func() {
		tp.setHint("")
	})

	tp.box = container.NewBorder(
		container.NewVBox(
			widget.NewLabelWithStyle("View", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			tp.examSelect,
			widget.NewSeparator(),
		),
		tp.activeHint,
		nil, nil,
		container.NewVScroll(tp.toolList),
	)
	return tp
}

// SetWindow sets the parent window for error dialogs.
func (tp *ToolsPanel) SetWindow(w fyne.Window) {
	tp.win = w
}

// Container returns the panel content.
func (tp *ToolsPanel) Container() fyne.CanvasObject {
	return tp.box
}

// rebuildTools repopulates the tool buttons from the exam catalog.
func (tp *ToolsPanel) rebuildTools() {
	tp.toolList.Objects = nil
	for _, def := range measure.Catalog(tp.state.ExamType) {
		def := def
		btn := widget.NewButton(def.Name, func() {
			tp.activate(def.Kind, def.Name)
		})
		tp.toolList.Add(btn)
	}
	tp.toolList.Refresh()
}

// activate switches the tracker to a tool, surfacing the calibration
// prompt when the tool requires a standard distance first.
func (tp *ToolsPanel) activate(kind measure.Kind, name string) {
	err := tp.tracker.SetTool(kind, tp.state.Calibration)
	if err == nil {
		tp.setHint("Active: " + name)
		tp.viewer.Refresh()
		tp.state.Emit(app.EventToolChanged, kind)
		return
	}

	if errors.Is(err, annotate.ErrCalibrationRequired) {
		if tp.win != nil {
			dialog.ShowInformation("Calibration required",
				"Draw a Standard Distance reference and enter its physical length before using "+name+".",
				tp.win)
		}
		return
	}
	log.Printf("tool activation failed: %v", err)
}

func (tp *ToolsPanel) setHint(text string) {
	tp.activeHint.SetText(text)
}
