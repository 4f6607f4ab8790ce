// Package canvas provides the interactive tracing canvas: the artwork
// rendered at display scale with the cutting shape drawn on top.
package canvas

import (
	"fmt"
	"image"
	"sync"

	"cutline-studio/internal/artwork"
	"cutline-studio/internal/editor"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// EditorCanvas displays the loaded artwork and forwards pointer input to the
// shape editor. All editor coordinates are display-space pixels, identical to
// the widget's own coordinate units; the raster rescales at draw time when
// the output buffer has a different pixel density.
type EditorCanvas struct {
	widget.BaseWidget

	mu         sync.Mutex
	art        *artwork.Artwork
	background *image.RGBA // artwork prescaled to display size
	editor     *editor.Editor

	raster *fynecanvas.Raster

	// onChange fires after any editor state change so panels can refresh.
	onChange func()
}

// interface checks
var (
	_ fyne.Tappable     = (*EditorCanvas)(nil)
	_ fyne.Draggable    = (*EditorCanvas)(nil)
	_ desktop.Hoverable = (*EditorCanvas)(nil)
)

// NewEditorCanvas creates an empty canvas. Artwork is supplied later via
// LoadArtwork.
func NewEditorCanvas(onChange func()) *EditorCanvas {
	c := &EditorCanvas{onChange: onChange}
	c.raster = fynecanvas.NewRaster(c.draw)
	c.raster.SetMinSize(fyne.NewSize(400, 300))
	c.ExtendBaseWidget(c)
	return c
}

// LoadArtwork loads the image at path in the background, sizes it to fit
// containerWidth, and installs a fresh editor over it. ready is called from
// the loading goroutine with the load result.
func (c *EditorCanvas) LoadArtwork(path string, containerWidth int, opts editor.Options, onComplete func([]editor.ImagePoint), ready func(error)) {
	go func() {
		art, err := artwork.Load(path)
		if err != nil {
			ready(fmt.Errorf("loading %s: %w", path, err))
			return
		}

		naturalW, _ := art.NaturalSize()
		scale := artwork.DisplayScale(containerWidth, naturalW)
		bg := art.ScaleForDisplay(scale)

		c.mu.Lock()
		c.art = art
		c.background = bg
		c.editor = editor.New(scale, opts, onComplete)
		c.mu.Unlock()

		c.raster.SetMinSize(fyne.NewSize(float32(bg.Bounds().Dx()), float32(bg.Bounds().Dy())))
		c.Refresh()
		ready(nil)
	}()
}

// Editor returns the active shape editor, or nil before artwork is loaded.
func (c *EditorCanvas) Editor() *editor.Editor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editor
}

// Artwork returns the loaded artwork, or nil.
func (c *EditorCanvas) Artwork() *artwork.Artwork {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.art
}

// SetMode switches the tracing mode, discarding any shape in progress.
func (c *EditorCanvas) SetMode(mode editor.Mode) {
	c.withEditor(func(ed *editor.Editor) { ed.SetMode(mode) })
}

// Undo reverts the most recent tracing action.
func (c *EditorCanvas) Undo() {
	c.withEditor(func(ed *editor.Editor) { ed.Undo() })
}

// CloseShape closes a freehand trace. Reports whether the shape closed.
func (c *EditorCanvas) CloseShape() bool {
	var closed bool
	c.withEditor(func(ed *editor.Editor) { closed = ed.Close() })
	return closed
}

// Reset discards the current trace.
func (c *EditorCanvas) Reset() {
	c.withEditor(func(ed *editor.Editor) { ed.Reset() })
}

// Export converts the closed shape to image coordinates and hands it to the
// completion callback. Returns false when no closed shape exists.
func (c *EditorCanvas) Export() ([]editor.ImagePoint, bool) {
	c.mu.Lock()
	ed := c.editor
	c.mu.Unlock()
	if ed == nil {
		return nil, false
	}

	pts, ok := ed.ImagePoints()
	if !ok {
		return nil, false
	}
	if ed.OnComplete != nil {
		ed.OnComplete(pts)
	}
	return pts, true
}

// withEditor runs fn against the editor and propagates the change.
func (c *EditorCanvas) withEditor(fn func(*editor.Editor)) {
	c.mu.Lock()
	ed := c.editor
	c.mu.Unlock()
	if ed == nil {
		return
	}
	fn(ed)
	c.changed()
}

func (c *EditorCanvas) changed() {
	c.raster.Refresh()
	if c.onChange != nil {
		c.onChange()
	}
}

func (c *EditorCanvas) handle(in editor.Input) {
	c.withEditor(func(ed *editor.Editor) { ed.Handle(in) })
}

func (c *EditorCanvas) toDisplay(pos fyne.Position) editor.DisplayPoint {
	return editor.DisplayPoint{X: float64(pos.X), Y: float64(pos.Y)}
}

// Tapped places a polygon vertex (or closes the polygon near its anchor).
func (c *EditorCanvas) Tapped(ev *fyne.PointEvent) {
	// Reject positions outside the widget; stale events can arrive after
	// the pointer leaves.
	size := c.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}
	c.handle(editor.Click{Pos: c.toDisplay(ev.Position)})
}

// Dragged extends a freehand stroke.
func (c *EditorCanvas) Dragged(ev *fyne.DragEvent) {
	c.mu.Lock()
	ed := c.editor
	c.mu.Unlock()
	if ed == nil {
		return
	}

	pos := c.toDisplay(ev.Position)
	if !ed.Dragging() {
		// Anchor the stroke where the drag began, not where the first
		// motion event landed.
		start := editor.DisplayPoint{
			X: pos.X - float64(ev.Dragged.DX),
			Y: pos.Y - float64(ev.Dragged.DY),
		}
		ed.Handle(editor.PointerDown{Pos: start})
	}
	ed.Handle(editor.PointerMove{Pos: pos})
	c.changed()
}

// DragEnd completes the active freehand stroke.
func (c *EditorCanvas) DragEnd() {
	c.mu.Lock()
	ed := c.editor
	c.mu.Unlock()
	if ed == nil || !ed.Dragging() {
		return
	}
	// Commit at the last known stroke point.
	path := ed.FreehandPath()
	var pos editor.DisplayPoint
	if len(path) > 0 {
		pos = path[len(path)-1]
	}
	ed.Handle(editor.PointerUp{Pos: pos})
	c.changed()
}

// MouseIn implements desktop.Hoverable.
func (c *EditorCanvas) MouseIn(*desktop.MouseEvent) {}

// MouseMoved updates the polygon cursor preview.
func (c *EditorCanvas) MouseMoved(ev *desktop.MouseEvent) {
	c.mu.Lock()
	ed := c.editor
	c.mu.Unlock()
	if ed == nil || ed.Mode() != editor.ModePolygon {
		return
	}
	ed.Handle(editor.PointerMove{Pos: c.toDisplay(ev.Position)})
	c.raster.Refresh()
}

// MouseOut clears the cursor preview.
func (c *EditorCanvas) MouseOut() {
	c.handle(editor.PointerLeave{})
}

// Destroy stops routing input and releases the artwork. The widget draws a
// blank background afterwards.
func (c *EditorCanvas) Destroy() {
	c.mu.Lock()
	c.editor = nil
	c.art = nil
	c.background = nil
	c.mu.Unlock()
	c.raster.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (c *EditorCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.raster)
}

// MinSize reports the displayed artwork size.
func (c *EditorCanvas) MinSize() fyne.Size {
	return c.raster.MinSize()
}
