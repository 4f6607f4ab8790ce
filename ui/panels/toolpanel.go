// Package panels provides the control panels beside the tracing canvas.
package panels

import (
	"fmt"

	"cutline-studio/internal/editor"
	"cutline-studio/ui/canvas"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	modePolygonLabel  = "Polygon (click vertices)"
	modeFreehandLabel = "Freehand (drag strokes)"
)

// ToolPanel holds the tracing controls: mode selection, undo, close,
// reset, and export.
type ToolPanel struct {
	canvas *canvas.EditorCanvas

	modeRadio *widget.RadioGroup
	undoBtn   *widget.Button
	closeBtn  *widget.Button
	resetBtn  *widget.Button
	exportBtn *widget.Button
	hint      *widget.Label

	box *fyne.Container
}

// NewToolPanel creates the tracing tool panel bound to the canvas.
func NewToolPanel(cvs *canvas.EditorCanvas) *ToolPanel {
	tp := &ToolPanel{canvas: cvs}

	tp.modeRadio = widget.NewRadioGroup(
		[]string{modePolygonLabel, modeFreehandLabel},
		func(selected string) {
			mode := editor.ModePolygon
			if selected == modeFreehandLabel {
				mode = editor.ModeFreehand
			}
			cvs.SetMode(mode)
			tp.RefreshState()
		},
	)
	tp.modeRadio.SetSelected(modePolygonLabel)

	tp.undoBtn = widget.NewButton("Undo", func() {
		cvs.Undo()
		tp.RefreshState()
	})
	tp.closeBtn = widget.NewButton("Close Shape", func() {
		if !cvs.CloseShape() {
			tp.hint.SetText("Need at least 3 points to close")
			return
		}
		tp.RefreshState()
	})
	tp.resetBtn = widget.NewButton("Reset", func() {
		cvs.Reset()
		tp.RefreshState()
	})
	tp.exportBtn = widget.NewButton("Use Shape", func() {
		if pts, ok := cvs.Export(); ok {
			tp.hint.SetText(fmt.Sprintf("Shape applied (%d points)", len(pts)))
		} else {
			tp.hint.SetText("Close the shape before applying it")
		}
		tp.RefreshState()
	})
	tp.hint = widget.NewLabel("Load artwork to start tracing")
	tp.hint.Wrapping = fyne.TextWrapWord

	tp.box = container.NewVBox(
		widget.NewLabel("Tracing Mode"),
		tp.modeRadio,
		widget.NewSeparator(),
		tp.undoBtn,
		tp.closeBtn,
		tp.resetBtn,
		tp.exportBtn,
		widget.NewSeparator(),
		tp.hint,
	)

	tp.RefreshState()
	return tp
}

// Container returns the panel for embedding in layouts.
func (tp *ToolPanel) Container() fyne.CanvasObject {
	return tp.box
}

// SyncMode selects the radio entry matching the editor's current mode
// without re-triggering a mode change.
func (tp *ToolPanel) SyncMode() {
	ed := tp.canvas.Editor()
	if ed == nil {
		return
	}
	label := modePolygonLabel
	if ed.Mode() == editor.ModeFreehand {
		label = modeFreehandLabel
	}
	if tp.modeRadio.Selected != label {
		tp.modeRadio.Selected = label
		tp.modeRadio.Refresh()
	}
}

// RefreshState enables and disables the buttons to match the editor.
func (tp *ToolPanel) RefreshState() {
	ed := tp.canvas.Editor()
	if ed == nil {
		tp.undoBtn.Disable()
		tp.closeBtn.Disable()
		tp.resetBtn.Disable()
		tp.exportBtn.Disable()
		return
	}

	tp.resetBtn.Enable()

	hasWork := ed.Closed() || len(ed.Vertices()) > 0 || len(ed.Strokes()) > 0
	if hasWork {
		tp.undoBtn.Enable()
	} else {
		tp.undoBtn.Disable()
	}

	if ed.Mode() == editor.ModeFreehand && !ed.Closed() && len(ed.FreehandPath()) >= 3 {
		tp.closeBtn.Enable()
	} else {
		tp.closeBtn.Disable()
	}

	if ed.Closed() {
		tp.exportBtn.Enable()
		tp.hint.SetText("Shape closed. Use Shape to apply it to the quote.")
	} else {
		tp.exportBtn.Disable()
		switch ed.Mode() {
		case editor.ModePolygon:
			tp.hint.SetText("Click to place vertices; click the first vertex to close.")
		case editor.ModeFreehand:
			tp.hint.SetText("Drag to draw strokes, then Close Shape.")
		}
	}
}
