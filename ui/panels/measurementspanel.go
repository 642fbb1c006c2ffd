package panels

import (
	"spineview/internal/annotate"
	"spineview/internal/app"
	"spineview/internal/measure"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// MeasurementsPanel lists completed measurements and supports deleting them.
type MeasurementsPanel struct {
	state    *app.State
	selector *annotate.Selector
	win      fyne.Window

	items []*measure.Measurement
	list  *widget.List
	box   fyne.CanvasObject
}

// NewMeasurementsPanel creates the measurement list panel.
func NewMeasurementsPanel(state *app.State, selector *annotate.Selector) *MeasurementsPanel {
	mp := &MeasurementsPanel{
		state:    state,
		selector: selector,
	}

	mp.list = widget.NewList(
		func() int { return len(mp.items) },
		func() fyne.CanvasObject {
			return widget.NewLabel("placeholder")
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < 0 || id >= len(mp.items) {
				return
			}
			m := mp.items[id]
			label := obj.(*widget.Label)
			if m.Auxiliary() {
				label.SetText(m.DisplayName())
			} else {
				label.SetText(m.Label())
			}
		},
	)
	mp.list.OnSelected = func(id widget.ListItemID) {
		if id < 0 || id >= len(mp.items) {
			return
		}
		selector.Select(mp.items[id].ID)
		state.Emit(app.EventSelectionChanged, selector.Selection())
	}

	deleteBtn := widget.NewButton("Delete Selected", mp.deleteSelected)
	clearBtn := widget.NewButton("Clear All", mp.clearAll)

	mp.box = container.NewBorder(nil,
		container.NewVBox(widget.NewSeparator(), deleteBtn, clearBtn),
		nil, nil, mp.list)

	state.On(app.EventMeasurementsChanged, func(interface{}) {
		mp.reload()
	})
	state.On(app.EventSelectionChanged, func(interface{}) {
		mp.syncSelection()
	})

	mp.reload()
	return mp
}

// SetWindow sets the parent window for confirmation dialogs.
func (mp *MeasurementsPanel) SetWindow(w fyne.Window) {
	mp.win = w
}

// Container returns the panel content.
func (mp *MeasurementsPanel) Container() fyne.CanvasObject {
	return mp.box
}

func (mp *MeasurementsPanel) reload() {
	mp.items = mp.state.Measurements()
	mp.list.Refresh()
	mp.syncSelection()
}

// syncSelection mirrors the canvas selection into the list highlight.
func (mp *MeasurementsPanel) syncSelection() {
	sel := mp.selector.Selection()
	if sel == nil {
		mp.list.UnselectAll()
		return
	}
	for i, m := range mp.items {
		if m.ID == sel.ID {
			mp.list.Select(i)
			return
		}
	}
	mp.list.UnselectAll()
}

// DeleteSelected removes the selected measurement, also reachable from the
// Delete key.
func (mp *MeasurementsPanel) DeleteSelected() {
	mp.deleteSelected()
}

func (mp *MeasurementsPanel) deleteSelected() {
	sel := mp.selector.Selection()
	if sel == nil {
		return
	}
	id := sel.ID
	mp.selector.DropIf(id)
	mp.state.RemoveMeasurement(id)
	mp.state.Emit(app.EventSelectionChanged, nil)
}

// ClearAll asks for confirmation, then removes every measurement. The menu
// and the panel button share this path so bulk clear always confirms.
func (mp *MeasurementsPanel) ClearAll() {
	mp.clearAll()
}

func (mp *MeasurementsPanel) clearAll() {
	if len(mp.items) == 0 {
		return
	}
	remove := func() {
		mp.selector.ClearSelection()
		mp.state.RemoveAll()
		mp.state.Emit(app.EventSelectionChanged, nil)
	}
	if mp.win == nil {
		remove()
		return
	}
	dialog.ShowConfirm("Clear measurements",
		"Remove all measurements from this radiograph?",
		func(ok bool) {
			if ok {
				remove()
			}
		}, mp.win)
}
