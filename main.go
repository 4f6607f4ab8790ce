// Package main provides the entry point for the Cutline Studio application.
package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"cutline-studio/internal/app"
	"cutline-studio/internal/cutline"
	"cutline-studio/internal/pricing"
	"cutline-studio/internal/version"
	"cutline-studio/ui/mainwindow"
	"cutline-studio/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
)

const appTitle = "Cutline Studio"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	cutCfg, err := cutline.LoadConfig(configPath("cutting.json"))
	if err != nil {
		log.Printf("Cutting config: %v, using defaults", err)
		cutCfg = cutline.DefaultConfig()
	}
	priceCfg, err := pricing.LoadConfig(configPath("pricing.json"))
	if err != nil {
		log.Printf("Pricing config: %v, using defaults", err)
		priceCfg = pricing.DefaultConfig()
	}

	state := app.NewState(cutCfg, priceCfg)
	appPrefs := prefs.Load()

	fyneApp := fyneapp.NewWithID("studio.cutline")
	fyneApp.Settings().SetTheme(&app.StudioTheme{})

	win := mainwindow.New(fyneApp, state, appPrefs)

	// A project file on the command line is opened at startup.
	if len(os.Args) > 1 {
		if err := state.LoadProject(os.Args[1]); err != nil {
			log.Printf("Failed to load project %s: %v", os.Args[1], err)
		}
	}

	setupHotReload(win)

	win.SetOnClosed(func() {
		win.SavePrefs()
	})
	win.ShowAndRun()
}

// configPath resolves a config file under the user config directory.
func configPath(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "cutline-studio", name)
}

// setupHotReload configures automatic restart detection when the binary is
// recompiled, and piggybacks periodic preference saving on the same timer.
func setupHotReload(win *mainwindow.MainWindow) {
	reloader := app.NewDevReloader(2 * time.Second)
	if reloader == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}

	reloader.OnTick(func() {
		win.SavePrefs()
	})

	reloader.OnNewBinary(func() {
		log.Println("Hot reload: newer binary detected")
		dialog.ShowConfirm("New Version Available",
			"The application binary has been updated.\nRestart now?",
			func(restart bool) {
				if restart {
					win.SavePrefs()
					log.Println("Hot reload: restarting...")
					if err := reloader.Restart(); err != nil {
						log.Printf("Hot reload: restart failed: %v", err)
					}
					return
				}
				reloader.ResetBaseline()
				reloader.Start()
			}, win.Window)
	})

	reloader.Start()
}
