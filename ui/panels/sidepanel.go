package panels

import (
	"spineview/internal/annotate"
	"spineview/internal/app"
	spinecanvas "spineview/ui/canvas"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// SidePanel provides the main side panel with tabbed sections.
type SidePanel struct {
	container *container.AppTabs

	toolsPanel        *ToolsPanel
	measurementsPanel *MeasurementsPanel
	displayPanel      *DisplayPanel
}

// NewSidePanel creates a new side panel.
func NewSidePanel(state *app.State, tracker *annotate.Tracker, selector *annotate.Selector, viewer *spinecanvas.Viewer) *SidePanel {
	sp := &SidePanel{}

	sp.toolsPanel = NewToolsPanel(state, tracker, viewer)
	sp.measurementsPanel = NewMeasurementsPanel(state, selector)
	sp.displayPanel = NewDisplayPanel(state, viewer)

	sp.container = container.NewAppTabs(
		container.NewTabItem("Tools", sp.toolsPanel.Container()),
		container.NewTabItem("Measurements", sp.measurementsPanel.Container()),
		container.NewTabItem("Display", sp.displayPanel.Container()),
	)

	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// Measurements exposes the list panel for keyboard shortcuts.
func (sp *SidePanel) Measurements() *MeasurementsPanel {
	return sp.measurementsPanel
}

// SetWindow sets the parent window for dialogs.
func (sp *SidePanel) SetWindow(w fyne.Window) {
	sp.toolsPanel.SetWindow(w)
	sp.measurementsPanel.SetWindow(w)
}
