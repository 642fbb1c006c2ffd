// Package main provides the entry point for the SpineView application.
package main

import (
	"log"
	"os"
	"time"

	"spineview/internal/app"
	"spineview/internal/measure"
	"spineview/ui/mainwindow"
	"spineview/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting SpineView")

	fyneApp := fyneapp.NewWithID("io.spineview.app")
	fyneApp.Settings().SetTheme(&app.SpineViewTheme{})

	appState := app.NewState()
	appPrefs := prefs.Load()

	if exam := appPrefs.ExamType(); exam != "" {
		appState.SetExamType(measure.ExamType(exam))
	}
	appState.On(app.EventExamTypeChanged, func(data interface{}) {
		if exam, ok := data.(measure.ExamType); ok {
			if err := appPrefs.SetExamType(string(exam)); err != nil {
				log.Printf("Failed to save preferences: %v", err)
			}
		}
	})

	win := mainwindow.New(fyneApp, appState)

	// Handle command line arguments
	if len(os.Args) > 1 {
		imagePath := os.Args[1]
		if err := appState.LoadImage(imagePath); err != nil {
			log.Printf("Failed to load radiograph %s: %v", imagePath, err)
		}
	}

	if appPrefs.HotReload() {
		reloader := app.NewHotReloader(2 * time.Second)
		if reloader == nil {
			log.Printf("Hot reload unavailable")
		} else {
			reloader.OnNewBinary(func() {
				dialog.ShowConfirm("New Build Detected",
					"A newer binary is available. Restart now?",
					func(restart bool) {
						if !restart {
							reloader.ResetBaseline()
							return
						}
						if err := reloader.Restart(); err != nil {
							log.Printf("Restart failed: %v", err)
						}
					}, win)
			})
			reloader.Start()
			defer reloader.Stop()
		}
	}

	win.ShowAndRun()
}
