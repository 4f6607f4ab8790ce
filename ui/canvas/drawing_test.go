package canvas

import (
	"image"
	"image/color"
	"testing"

	"cutline-studio/internal/editor"
)

// containsColor reports whether any pixel of the box around (cx, cy)
// matches the color.
func containsColor(img *image.RGBA, cx, cy, halfBox int, col color.RGBA) bool {
	for y := cy - halfBox; y <= cy+halfBox; y++ {
		for x := cx - halfBox; x <= cx+halfBox; x++ {
			if img.RGBAAt(x, y) == col {
				return true
			}
		}
	}
	return false
}

func TestPolygonPreviewClosingEdge(t *testing.T) {
	ed := editor.New(1, editor.DefaultOptions(), nil)
	ed.SetMode(editor.ModePolygon)
	ed.Handle(editor.Click{Pos: editor.DisplayPoint{X: 10, Y: 10}})
	ed.Handle(editor.Click{Pos: editor.DisplayPoint{X: 100, Y: 10}})
	ed.Handle(editor.PointerMove{Pos: editor.DisplayPoint{X: 100, Y: 100}})

	output := image.NewRGBA(image.Rect(0, 0, 120, 120))
	c := &EditorCanvas{}
	c.drawPolygonTrace(output, ed, 1)

	opts := ed.Options()

	// Solid rubber band from the last vertex (100,10) down to the cursor.
	if !containsColor(output, 100, 55, 2, opts.StrokeColor) {
		t.Error("no rubber-band segment from the last vertex to the cursor")
	}

	// Dashed closing edge from the cursor (100,100) back to the first
	// vertex (10,10): its midpoint region is crossed by no other segment.
	if !containsColor(output, 55, 55, 4, opts.StrokeColor) {
		t.Error("no dashed closing edge from the cursor to the first vertex")
	}
}

func TestPolygonPreviewClosingEdgeNearAnchor(t *testing.T) {
	ed := editor.New(1, editor.DefaultOptions(), nil)
	ed.SetMode(editor.ModePolygon)
	ed.Handle(editor.Click{Pos: editor.DisplayPoint{X: 10, Y: 10}})
	ed.Handle(editor.Click{Pos: editor.DisplayPoint{X: 100, Y: 10}})
	ed.Handle(editor.Click{Pos: editor.DisplayPoint{X: 100, Y: 100}})

	// Cursor within the close threshold of the anchor: the closing edge
	// takes the anchor color.
	ed.Handle(editor.PointerMove{Pos: editor.DisplayPoint{X: 20, Y: 20}})

	output := image.NewRGBA(image.Rect(0, 0, 120, 120))
	c := &EditorCanvas{}
	c.drawPolygonTrace(output, ed, 1)

	opts := ed.Options()
	if !containsColor(output, 18, 18, 1, opts.AnchorColor) {
		t.Error("closing edge near the anchor not drawn in the anchor color")
	}
}

func TestFreehandEndMarkersDistinct(t *testing.T) {
	ed := editor.New(1, editor.DefaultOptions(), nil)
	ed.SetMode(editor.ModeFreehand)
	ed.Handle(editor.PointerDown{Pos: editor.DisplayPoint{X: 20, Y: 20}})
	ed.Handle(editor.PointerMove{Pos: editor.DisplayPoint{X: 60, Y: 20}})
	ed.Handle(editor.PointerMove{Pos: editor.DisplayPoint{X: 100, Y: 20}})
	ed.Handle(editor.PointerUp{Pos: editor.DisplayPoint{X: 100, Y: 20}})

	output := image.NewRGBA(image.Rect(0, 0, 120, 60))
	c := &EditorCanvas{}
	c.drawFreehandTrace(output, ed, 1)

	opts := ed.Options()
	if got := output.RGBAAt(20, 20); got != opts.AnchorColor {
		t.Errorf("start marker = %v, want %v", got, opts.AnchorColor)
	}
	if got := output.RGBAAt(100, 20); got != opts.EndColor {
		t.Errorf("end marker = %v, want %v", got, opts.EndColor)
	}
	if opts.AnchorColor == opts.EndColor {
		t.Error("start and end markers share a color")
	}
}
