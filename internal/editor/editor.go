// Package editor implements the cutting-region tracing state machine.
// It owns the shape state for one tracing session over one artwork image
// and is independent of the UI toolkit: the hosting surface feeds it
// abstract input commands and renders a projection of its state.
package editor

import (
	"math"
)

// Mode selects the active tracing protocol.
type Mode int

const (
	// ModePolygon places one vertex per click and closes on a click near
	// the first vertex.
	ModePolygon Mode = iota
	// ModeFreehand captures continuous strokes between pointer down and up.
	ModeFreehand
)

func (m Mode) String() string {
	switch m {
	case ModePolygon:
		return "Polygon"
	case ModeFreehand:
		return "Freehand"
	default:
		return "Unknown"
	}
}

// DisplayPoint is a point in rendering-surface pixels, scaled from the
// source image. It is the only coordinate space the editor stores.
type DisplayPoint struct {
	X float64
	Y float64
}

// Distance returns the Euclidean distance to another display point.
func (p DisplayPoint) Distance(other DisplayPoint) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// ImagePoint is a point in the original, unscaled image's pixel grid.
// Produced only at export time; never stored.
type ImagePoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Editor manages one interactive shape-tracing session. All methods
// must be called from the UI event loop; the editor does no locking.
type Editor struct {
	opts  Options
	mode  Mode
	scale float64

	// Polygon state
	vertices []DisplayPoint
	cursor   *DisplayPoint

	// Freehand state. Each committed stroke is an atomic undo unit.
	strokes  [][]DisplayPoint
	active   []DisplayPoint
	dragging bool

	closed bool

	// OnComplete is stored for the caller's use. Closing a shape only
	// updates editor state; the editor never invokes this itself. The UI
	// layer fires it when the user explicitly exports.
	OnComplete func([]ImagePoint)
}

// New creates an editor for a surface whose display scale maps image
// pixels to surface pixels. A non-positive scale is treated as 1.
func New(displayScale float64, opts Options, onComplete func([]ImagePoint)) *Editor {
	if displayScale <= 0 {
		displayScale = 1
	}
	return &Editor{
		opts:       opts,
		mode:       ModePolygon,
		scale:      displayScale,
		OnComplete: onComplete,
	}
}

// Mode returns the active tracing mode.
func (e *Editor) Mode() Mode {
	return e.mode
}

// Options returns the editor's configuration.
func (e *Editor) Options() Options {
	return e.opts
}

// DisplayScale returns the fixed image-to-display scale factor.
func (e *Editor) DisplayScale() float64 {
	return e.scale
}

// Closed reports whether the shape has been closed.
func (e *Editor) Closed() bool {
	return e.closed
}

// Dragging reports whether a freehand stroke is in progress.
func (e *Editor) Dragging() bool {
	return e.dragging
}

// SetMode switches the tracing mode. The shape state is always reset,
// even when the new mode equals the current one.
func (e *Editor) SetMode(mode Mode) {
	e.mode = mode
	e.Reset()
}

// Reset clears all shape state back to empty and unclosed. The mode is
// unchanged. Calling Reset repeatedly is harmless.
func (e *Editor) Reset() {
	e.vertices = nil
	e.cursor = nil
	e.strokes = nil
	e.active = nil
	e.dragging = false
	e.closed = false
}

// Handle dispatches one abstract input command into the state machine.
// Commands that do not belong to the active mode are ignored, mirroring
// per-mode handler binding on the hosting surface.
func (e *Editor) Handle(in Input) {
	switch cmd := in.(type) {
	case Click:
		if e.mode == ModePolygon {
			e.clickVertex(cmd.Pos)
		}
	case PointerDown:
		if e.mode == ModeFreehand {
			e.beginStroke(cmd.Pos)
		}
	case PointerMove:
		switch e.mode {
		case ModePolygon:
			e.moveCursor(cmd.Pos)
		case ModeFreehand:
			e.extendStroke(cmd.Pos)
		}
	case PointerUp:
		if e.mode == ModeFreehand {
			e.endStroke()
		}
	case PointerLeave:
		if e.mode == ModePolygon {
			e.cursor = nil
		}
	}
}

// clickVertex implements the polygon click protocol: a click near the
// first vertex closes the shape once at least 3 vertices exist;
// otherwise the click appends a vertex. Clicks on a closed shape are
// ignored.
func (e *Editor) clickVertex(pos DisplayPoint) {
	if e.closed {
		return
	}

	// The proximity check only applies once 3 vertices already exist,
	// so the 3rd vertex itself can never close the shape.
	if len(e.vertices) >= 3 && pos.Distance(e.vertices[0]) <= e.opts.CloseThreshold {
		e.closed = true
		e.cursor = nil
		return
	}

	e.vertices = append(e.vertices, pos)
}

// moveCursor tracks the live pointer position for preview rendering.
func (e *Editor) moveCursor(pos DisplayPoint) {
	if e.closed {
		return
	}
	p := pos
	e.cursor = &p
}

func (e *Editor) beginStroke(pos DisplayPoint) {
	if e.closed {
		return
	}
	e.dragging = true
	e.active = []DisplayPoint{pos}
}

func (e *Editor) extendStroke(pos DisplayPoint) {
	if !e.dragging || e.closed {
		return
	}
	e.active = append(e.active, pos)
}

// endStroke commits the active stroke if it captured at least 2 points;
// shorter strokes are discarded.
func (e *Editor) endStroke() {
	if !e.dragging {
		return
	}
	e.dragging = false
	if len(e.active) >= 2 {
		e.strokes = append(e.strokes, e.active)
	}
	e.active = nil
}

// Undo reverses the most recent step. A closed shape reopens without
// losing points; an open polygon drops its last vertex; open freehand
// drops its last committed stroke. Undo past empty state is a no-op.
func (e *Editor) Undo() {
	if e.closed {
		e.closed = false
		e.dragging = false
		return
	}

	switch e.mode {
	case ModePolygon:
		if len(e.vertices) > 0 {
			e.vertices = e.vertices[:len(e.vertices)-1]
		}
	case ModeFreehand:
		if len(e.strokes) > 0 {
			e.strokes = e.strokes[:len(e.strokes)-1]
		}
	}
}

// Close explicitly closes a freehand shape. It reports false when the
// combined point sequence has fewer than 3 points, or in polygon mode,
// which closes only through the anchor-click gesture. A failed close
// leaves the state untouched.
func (e *Editor) Close() bool {
	if e.mode != ModeFreehand {
		return false
	}
	if len(e.FreehandPath()) < 3 {
		return false
	}

	// A close during a drag ends the drag and commits the in-progress
	// stroke: once closed, the point sequence only changes through Undo.
	if e.dragging {
		e.dragging = false
		if len(e.active) > 0 {
			e.strokes = append(e.strokes, e.active)
		}
		e.active = nil
	}

	e.closed = true
	return true
}

// Vertices returns the committed polygon vertices in insertion order.
func (e *Editor) Vertices() []DisplayPoint {
	return e.vertices
}

// Cursor returns the live pointer position, if known.
func (e *Editor) Cursor() (DisplayPoint, bool) {
	if e.cursor == nil {
		return DisplayPoint{}, false
	}
	return *e.cursor, true
}

// Strokes returns the committed freehand strokes.
func (e *Editor) Strokes() [][]DisplayPoint {
	return e.strokes
}

// FreehandPath returns all committed strokes followed by the in-progress
// stroke, concatenated into a single point sequence.
func (e *Editor) FreehandPath() []DisplayPoint {
	total := len(e.active)
	for _, s := range e.strokes {
		total += len(s)
	}
	path := make([]DisplayPoint, 0, total)
	for _, s := range e.strokes {
		path = append(path, s...)
	}
	return append(path, e.active...)
}

// NearAnchor reports whether a point would close the polygon: at least
// 3 vertices exist and the point is within the close threshold of the
// first vertex. Used by the surface to render the closure affordance.
func (e *Editor) NearAnchor(p DisplayPoint) bool {
	return len(e.vertices) >= 3 && p.Distance(e.vertices[0]) <= e.opts.CloseThreshold
}

// ImagePoints exports the closed shape mapped into image-space pixels.
// It reports false while the shape is open or when it has fewer than 3
// points. Freehand shapes with more points than the export cap are
// downsampled by index, always keeping the first point.
func (e *Editor) ImagePoints() ([]ImagePoint, bool) {
	if !e.closed {
		return nil, false
	}

	var pts []DisplayPoint
	switch e.mode {
	case ModePolygon:
		if len(e.vertices) < 3 {
			return nil, false
		}
		pts = e.vertices
	case ModeFreehand:
		pts = e.FreehandPath()
		if len(pts) < 3 {
			return nil, false
		}
		if limit := e.opts.MaxExportPoints; limit > 0 && len(pts) > limit {
			step := (len(pts) + limit - 1) / limit
			sampled := make([]DisplayPoint, 0, (len(pts)+step-1)/step)
			for i := 0; i < len(pts); i += step {
				sampled = append(sampled, pts[i])
			}
			pts = sampled
		}
	}

	out := make([]ImagePoint, len(pts))
	for i, p := range pts {
		out[i] = e.toImage(p)
	}
	return out, true
}

// toImage maps a display-space point into image space by dividing out
// the display scale and rounding to the nearest pixel.
func (e *Editor) toImage(p DisplayPoint) ImagePoint {
	return ImagePoint{
		X: int(math.Round(p.X / e.scale)),
		Y: int(math.Round(p.Y / e.scale)),
	}
}
