// Package mainwindow provides the main application window.
package mainwindow

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"path/filepath"
	"strings"

	"cutline-studio/internal/analyzer"
	"cutline-studio/internal/app"
	"cutline-studio/internal/cutline"
	"cutline-studio/internal/editor"
	"cutline-studio/internal/version"
	"cutline-studio/ui/canvas"
	"cutline-studio/ui/panels"
	"cutline-studio/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"gocv.io/x/gocv"
)

const projectExt = ".cutline.json"

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State
	prefs *prefs.Prefs

	canvas     *canvas.EditorCanvas
	toolPanel  *panels.ToolPanel
	quotePanel *panels.QuotePanel
	statusBar  *widget.Label

	canvasScroll *container.Scroll
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, pf *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Cutline Studio")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  pf,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	win.Resize(fyne.NewSize(
		float32(pf.Int(prefs.KeyWindowWidth, 1200)),
		float32(pf.Int(prefs.KeyWindowHeight, 800)),
	))

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewEditorCanvas(func() {
		mw.toolPanel.RefreshState()
	})

	mw.toolPanel = panels.NewToolPanel(mw.canvas)
	mw.quotePanel = panels.NewQuotePanel(mw.state)
	mw.statusBar = widget.NewLabel("Open artwork to start")

	sideContent := container.NewVBox(
		mw.toolPanel.Container(),
		widget.NewSeparator(),
		mw.quotePanel.Container(),
	)
	side := container.NewVScroll(sideContent)

	mw.canvasScroll = container.NewScroll(mw.canvas)

	split := container.NewHSplit(side, mw.canvasScroll)
	split.SetOffset(0.28)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil,
		nil,
		split,
	)

	mw.SetContent(content)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Artwork...", mw.onOpenArtwork),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Open Project...", mw.onOpenProject),
		fyne.NewMenuItem("Save Project", mw.onSaveProject),
		fyne.NewMenuItem("Save Project As...", mw.onSaveProjectAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Cutting Files...", mw.onExportCutFiles),
		fyne.NewMenuItem("Export Shape Points...", mw.onExportShapePoints),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	traceMenu := fyne.NewMenu("Trace",
		fyne.NewMenuItem("Polygon Mode", func() { mw.setMode(editor.ModePolygon) }),
		fyne.NewMenuItem("Freehand Mode", func() { mw.setMode(editor.ModeFreehand) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Undo", func() { mw.canvas.Undo(); mw.toolPanel.RefreshState() }),
		fyne.NewMenuItem("Close Shape", func() {
			if !mw.canvas.CloseShape() {
				mw.updateStatus("Need at least 3 points to close the shape")
			}
			mw.toolPanel.RefreshState()
		}),
		fyne.NewMenuItem("Reset", func() { mw.canvas.Reset(); mw.toolPanel.RefreshState() }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, traceMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventProjectLoaded, func(event app.EventType, data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("Cutline Studio - " + filepath.Base(path))
			mw.updateStatus("Project loaded: " + path)
		}
	})

	mw.state.On(app.EventProjectSaved, func(event app.EventType, data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("Cutline Studio - " + filepath.Base(path))
			mw.updateStatus("Project saved: " + path)
		}
	})

	mw.state.On(app.EventShapeChanged, func(event app.EventType, data interface{}) {
		if mw.state.HasShape() {
			mw.updateStatus(fmt.Sprintf("Shape applied with %d points", len(mw.state.Shape())))
		}
	})
}

func (mw *MainWindow) setMode(mode editor.Mode) {
	mw.canvas.SetMode(mode)
	mw.prefs.SetString(prefs.KeyTraceMode, mode.String())
	mw.toolPanel.SyncMode()
	mw.toolPanel.RefreshState()
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// containerWidth returns the width available for the displayed artwork.
func (mw *MainWindow) containerWidth() int {
	w := int(mw.canvasScroll.Size().Width)
	if w <= 0 {
		w = 900
	}
	return w
}

// loadArtwork loads the artwork into both the canvas and the session state.
func (mw *MainWindow) loadArtwork(path string) {
	opts := editor.DefaultOptions()
	mw.canvas.LoadArtwork(path, mw.containerWidth(), opts,
		func(pts []editor.ImagePoint) {
			mw.state.SetShape(pts)
		},
		func(err error) {
			if err != nil {
				log.Printf("artwork load failed: %v", err)
				dialog.ShowError(err, mw.Window)
				return
			}
			if stateErr := mw.state.LoadArtwork(path); stateErr != nil {
				dialog.ShowError(stateErr, mw.Window)
				return
			}
			// Restore the last used tracing mode for the fresh editor.
			if mw.prefs.String(prefs.KeyTraceMode) == editor.ModeFreehand.String() {
				mw.setMode(editor.ModeFreehand)
			}
			mw.toolPanel.RefreshState()
			mw.updateStatus("Artwork loaded: " + filepath.Base(path))
		})
}

// lastDir returns the stored directory for the given preference key.
func (mw *MainWindow) lastDir(key string) fyne.ListableURI {
	path := mw.prefs.String(key)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

func (mw *MainWindow) saveLastDir(key, filePath string) {
	mw.prefs.SetString(key, filepath.Dir(filePath))
}

// Menu action handlers

func (mw *MainWindow) onOpenArtwork() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(prefs.KeyLastArtworkDir, path)
		mw.loadArtwork(path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".tiff", ".tif"}))
	if loc := mw.lastDir(prefs.KeyLastArtworkDir); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onOpenProject() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(prefs.KeyLastProjectDir, path)
		if err := mw.state.LoadProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if art := mw.state.Artwork(); art != nil {
			mw.loadArtwork(art.Path)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	if loc := mw.lastDir(prefs.KeyLastProjectDir); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveProject() {
	if mw.state.ProjectPath() == "" {
		mw.onSaveProjectAs()
		return
	}
	if err := mw.state.SaveProject(mw.state.ProjectPath()); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveProjectAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if !strings.HasSuffix(path, projectExt) {
			path += projectExt
		}
		mw.saveLastDir(prefs.KeyLastProjectDir, path)
		if err := mw.state.SaveProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName("order" + projectExt)
	if loc := mw.lastDir(prefs.KeyLastProjectDir); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// onExportCutFiles generates the print and cutting outlines from the traced
// shape and writes them as mask images next to the chosen path.
func (mw *MainWindow) onExportCutFiles() {
	if !mw.state.HasShape() {
		mw.updateStatus("Trace and apply a shape before exporting")
		return
	}
	art := mw.state.Artwork()
	if art == nil {
		mw.updateStatus("No artwork loaded")
		return
	}

	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		base := strings.TrimSuffix(writer.URI().Path(), ".png")

		if err := mw.exportCutFiles(base); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Cutting files written: " + base + "_print.png, " + base + "_cut.png")
	}, mw.Window)
	fd.SetFileName("cutline.png")
	if loc := mw.lastDir(prefs.KeyLastProjectDir); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// exportCutFiles rasterizes the shape, generates both outlines, and writes
// the masks to <base>_print.png and <base>_cut.png.
func (mw *MainWindow) exportCutFiles(base string) error {
	art := mw.state.Artwork()
	shape := mw.state.Shape()
	order := mw.state.Order()

	pts := make([]image.Point, len(shape))
	for i, p := range shape {
		pts[i] = image.Point{X: p.X, Y: p.Y}
	}
	w, h := art.NaturalSize()
	mask := analyzer.MaskFromPoints(pts, w, h)
	defer mask.Close()

	metrics, err := analyzer.AnalyzeMask(mask)
	if err != nil {
		return fmt.Errorf("analyzing shape: %w", err)
	}
	mmPerPx := analyzer.ShapeScaleMM(metrics, order.TargetWidthMM, order.TargetHeightMM)
	pxPerMM := 1.0
	if mmPerPx > 0 {
		pxPerMM = 1.0 / mmPerPx
	}

	result, err := cutline.Generate(mask, cutline.Request{
		Config:      mw.state.CuttingConfig(),
		Product:     order.Product,
		Hole:        order.HoleType,
		Position:    order.HolePosition,
		ScaleMMToPx: pxPerMM,
	})
	if err != nil {
		return fmt.Errorf("generating cutting line: %w", err)
	}
	defer result.Close()

	if ok := gocv.IMWrite(base+"_print.png", result.PrintMask); !ok {
		return fmt.Errorf("writing %s_print.png failed", base)
	}
	if ok := gocv.IMWrite(base+"_cut.png", result.CutMask); !ok {
		return fmt.Errorf("writing %s_cut.png failed", base)
	}
	return nil
}

// onExportShapePoints writes the traced shape as a JSON point array, the
// format cmd/quotetest consumes.
func (mw *MainWindow) onExportShapePoints() {
	if !mw.state.HasShape() {
		mw.updateStatus("Trace and apply a shape before exporting")
		return
	}

	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()

		data, err := json.MarshalIndent(mw.state.Shape(), "", "  ")
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if _, err := writer.Write(data); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Shape points written: " + writer.URI().Path())
	}, mw.Window)
	fd.SetFileName("shape.json")
	if loc := mw.lastDir(prefs.KeyLastProjectDir); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Cutline Studio",
		fmt.Sprintf("Cutline Studio v%s\n\n"+
			"Trace custom acrylic shapes over artwork,\n"+
			"generate print and cutting outlines, and quote production.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}

// SavePrefs persists window geometry. Called on shutdown and periodically.
func (mw *MainWindow) SavePrefs() {
	size := mw.Canvas().Size()
	if size.Width > 0 && size.Height > 0 {
		mw.prefs.SetInt(prefs.KeyWindowWidth, int(size.Width))
		mw.prefs.SetInt(prefs.KeyWindowHeight, int(size.Height))
	}
	if err := mw.prefs.Save(); err != nil {
		log.Printf("saving preferences: %v", err)
	}
}
