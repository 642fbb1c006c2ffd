// Package mainwindow provides the main application window.
package mainwindow

import (
	"bytes"
	"fmt"
	"image/png"
	"log"
	"path/filepath"
	"strings"

	"spineview/internal/annotate"
	"spineview/internal/app"
	"spineview/internal/measure"
	"spineview/internal/ocr"
	"spineview/internal/version"
	"spineview/ui/canvas"
	"spineview/ui/dialogs"
	"spineview/ui/panels"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	prefKeyLastDir    = "lastDirectory"
	prefKeyLastImage  = "lastImage"
	prefKeyShowLabels = "showLabels"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	tracker   *annotate.Tracker
	selector  *annotate.Selector
	viewer    *canvas.Viewer
	sidePanel *panels.SidePanel
	statusBar *widget.Label
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State) *MainWindow {
	win := fyneApp.NewWindow("SpineView")

	mw := &MainWindow{
		Window:   win,
		app:      fyneApp,
		state:    state,
		tracker:  annotate.NewTracker(),
		selector: annotate.NewSelector(),
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.setupKeys()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.viewer = canvas.NewViewer(mw.state, mw.tracker, mw.selector)

	mw.sidePanel = panels.NewSidePanel(mw.state, mw.tracker, mw.selector, mw.viewer)
	mw.sidePanel.SetWindow(mw.Window)

	mw.statusBar = widget.NewLabel("Ready")
	mw.viewer.OnStatus(func(text string) {
		if text == "" {
			text = "Ready"
		}
		mw.statusBar.SetText(text)
	})
	mw.viewer.OnCalibration(func(ref *measure.Measurement) {
		dialogs.ShowCalibration(mw.state, ref, mw.Window)
	})

	toolbar := mw.createToolbar()

	viewerArea := container.NewBorder(
		toolbar,
		nil, nil, nil,
		mw.viewer,
	)

	split := container.NewHSplit(
		mw.sidePanel.Container(),
		viewerArea,
	)
	split.SetOffset(0.25)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil, nil,
		split,
	)

	mw.SetContent(content)
	mw.Resize(fyne.NewSize(1280, 860))

	mw.viewer.SetShowLabels(mw.app.Preferences().BoolWithFallback(prefKeyShowLabels, true))
	mw.restoreLastImage()
}

// createToolbar creates the toolbar with zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	zoomOutBtn := widget.NewButton("-", mw.viewer.ZoomOut)
	zoomInBtn := widget.NewButton("+", mw.viewer.ZoomIn)
	fitBtn := widget.NewButton("Fit", mw.viewer.ResetView)
	reportBtn := widget.NewButton("Report", mw.onShowReport)

	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		fitBtn,
		widget.NewSeparator(),
		reportBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Radiograph...", mw.onOpenImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Open Annotations...", mw.onOpenAnnotations),
		fyne.NewMenuItem("Save Annotations", mw.onSaveAnnotations),
		fyne.NewMenuItem("Save Annotations As...", mw.onSaveAnnotationsAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Report...", mw.onExportReport),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Delete Selected", mw.sidePanel.Measurements().DeleteSelected),
		fyne.NewMenuItem("Toggle Selected Label", func() {
			if sel := mw.selector.Selection(); sel != nil {
				mw.state.ToggleLabel(sel.ID)
			}
		}),
		fyne.NewMenuItem("Clear All Measurements", func() {
			mw.sidePanel.Measurements().ClearAll()
		}),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.viewer.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.viewer.ZoomOut),
		fyne.NewMenuItem("Fit to Window", mw.viewer.ResetView),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Rotate 90° CCW", mw.state.RotateImage),
		fyne.NewMenuItem("Flip Horizontal", mw.state.FlipImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Toggle Measurement Labels", func() {
			show := !mw.viewer.LabelsShown()
			mw.viewer.SetShowLabels(show)
			mw.app.Preferences().SetBool(prefKeyShowLabels, show)
		}),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Read Film Markers", mw.onReadMarkers),
		fyne.NewMenuItem("Show Report", mw.onShowReport),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mainMenu := fyne.NewMainMenu(fileMenu, editMenu, viewMenu, toolsMenu, helpMenu)
	mw.SetMainMenu(mainMenu)
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventImageLoaded, func(data interface{}) {
		mw.SetTitle("SpineView - " + filepath.Base(mw.state.ImageID))
		mw.updateStatus("Loaded " + mw.state.ImageID)
		mw.setIconFromRadiograph()
	})

	mw.state.On(app.EventImageFailed, func(data interface{}) {
		if err, ok := data.(error); ok {
			mw.updateStatus("Image load failed: " + err.Error())
		}
	})

	mw.state.On(app.EventSessionLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.updateStatus("Annotations loaded: " + path)
		}
	})

	mw.state.On(app.EventSessionSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.updateStatus("Annotations saved: " + path)
		}
	})

	mw.state.On(app.EventCalibrationChanged, func(interface{}) {
		if mw.state.Calibration.Set() {
			mw.updateStatus(fmt.Sprintf("Calibrated: %.4f mm/px", mw.state.Calibration.MMPerPixel()))
		}
	})

	mw.state.On(app.EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok {
			mw.SetTitle(dirtyTitle(mw.Title(), modified))
		}
	})
}

// dirtyTitle appends or strips the unsaved-changes marker.
func dirtyTitle(title string, modified bool) string {
	title = strings.TrimSuffix(title, " *")
	if modified {
		title += " *"
	}
	return title
}

// setupKeys wires the Delete and Escape keys.
func (mw *MainWindow) setupKeys() {
	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			mw.sidePanel.Measurements().DeleteSelected()
		case fyne.KeyEscape:
			if mw.tracker.Active() {
				mw.tracker.Deactivate()
				mw.viewer.Refresh()
			} else {
				mw.selector.ClearSelection()
				mw.state.Emit(app.EventSelectionChanged, nil)
			}
		}
	})
}

// setIconFromRadiograph uses a small thumbnail of the loaded film as the
// window icon, so task switchers show which study is open.
func (mw *MainWindow) setIconFromRadiograph() {
	thumb := mw.state.Radiograph.Thumbnail(64)
	if thumb == nil {
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		log.Printf("thumbnail encode failed: %v", err)
		return
	}
	mw.SetIcon(fyne.NewStaticResource("radiograph.png", buf.Bytes()))
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.app.Preferences().String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	dir := filepath.Dir(filePath)
	mw.app.Preferences().SetString(prefKeyLastDir, dir)
}

// restoreLastImage reopens the radiograph from the previous run.
func (mw *MainWindow) restoreLastImage() {
	path := mw.app.Preferences().String(prefKeyLastImage)
	if path == "" {
		return
	}
	if err := mw.state.LoadImage(path); err != nil {
		log.Printf("failed to restore %s: %v", path, err)
		return
	}
	mw.state.SetModified(false)
}

// Menu action handlers

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadImage(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.app.Preferences().SetString(prefKeyLastImage, path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".tiff", ".tif"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onOpenAnnotations() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadSession(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveAnnotations() {
	if mw.state.SessionPath == "" {
		mw.onSaveAnnotationsAs()
		return
	}
	if err := mw.state.SaveSession(mw.state.SessionPath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveAnnotationsAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".json" {
			path += ".json"
		}
		mw.saveLastDir(path)
		if err := mw.state.SaveSession(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName("annotations.json")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExportReport() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		if _, err := writer.Write([]byte(mw.state.ReportText())); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName("report.txt")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onShowReport() {
	entry := widget.NewMultiLineEntry()
	entry.SetText(mw.state.ReportText())
	entry.Wrapping = fyne.TextWrapOff

	d := dialog.NewCustom("Measurement Report", "Close", container.NewVScroll(entry), mw.Window)
	d.Resize(fyne.NewSize(560, 480))
	d.Show()
}

// onReadMarkers runs OCR over the film corners in the background and drops
// the result into the report header. Failure is informational only.
func (mw *MainWindow) onReadMarkers() {
	if mw.state.Radiograph == nil {
		mw.updateStatus("No radiograph loaded")
		return
	}
	img := mw.state.Radiograph.Image
	mw.updateStatus("Reading film markers...")

	// Run OCR in goroutine to keep UI responsive
	go func() {
		engine, err := ocr.NewEngine()
		if err != nil {
			log.Printf("OCR unavailable: %v", err)
			mw.updateStatus("OCR unavailable")
			return
		}
		defer engine.Close()

		markers, err := engine.ReadMarkers(img)
		if err != nil {
			log.Printf("marker recognition failed: %v", err)
			mw.updateStatus("No film markers found")
			return
		}
		mw.state.SetMarkers(markers.Laterality, markers.Banner)
		if markers.Laterality == "" && markers.Banner == "" {
			mw.updateStatus("No film markers found")
		} else {
			mw.updateStatus("Film markers: " + markers.Banner)
		}
	}()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About SpineView",
		fmt.Sprintf("SpineView v%s\n\n"+
			"Spinal radiograph measurement and annotation.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
