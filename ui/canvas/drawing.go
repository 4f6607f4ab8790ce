// Package canvas drawing routines: the raster render of the artwork plus the
// in-progress or closed cutting shape.
package canvas

import (
	"image"
	"image/color"

	"cutline-studio/internal/editor"
	"cutline-studio/pkg/colorutil"
	"cutline-studio/pkg/geometry"
)

// draw renders the canvas into a w x h pixel buffer. The editor works in
// display-space units; f converts those to output pixels when the buffer is
// denser than the widget (HiDPI).
func (c *EditorCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))

	c.mu.Lock()
	bg := c.background
	ed := c.editor
	c.mu.Unlock()

	if bg == nil {
		fillBackground(output, color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xFF})
		return output
	}

	f := 1.0
	if bw := bg.Bounds().Dx(); bw > 0 && w > 0 {
		f = float64(w) / float64(bw)
	}
	drawBackground(output, bg, f)

	if ed == nil {
		return output
	}

	switch ed.Mode() {
	case editor.ModePolygon:
		c.drawPolygonTrace(output, ed, f)
	case editor.ModeFreehand:
		c.drawFreehandTrace(output, ed, f)
	}
	return output
}

// fillBackground floods the buffer with a single color.
func fillBackground(output *image.RGBA, col color.RGBA) {
	for i := 0; i < len(output.Pix); i += 4 {
		output.Pix[i] = col.R
		output.Pix[i+1] = col.G
		output.Pix[i+2] = col.B
		output.Pix[i+3] = col.A
	}
}

// drawBackground copies the prescaled artwork, nearest-neighbor resampled by f.
func drawBackground(output *image.RGBA, bg *image.RGBA, f float64) {
	outB := output.Bounds()
	bgB := bg.Bounds()
	for y := outB.Min.Y; y < outB.Max.Y; y++ {
		sy := int(float64(y) / f)
		for x := outB.Min.X; x < outB.Max.X; x++ {
			sx := int(float64(x) / f)
			if sx >= bgB.Max.X || sy >= bgB.Max.Y {
				output.SetRGBA(x, y, color.RGBA{A: 255})
				continue
			}
			output.SetRGBA(x, y, bg.RGBAAt(sx, sy))
		}
	}
}

// drawPolygonTrace renders vertex-click tracing: placed vertices, the
// rubber-band segment to the cursor, and the translucent fill once closed.
func (c *EditorCanvas) drawPolygonTrace(output *image.RGBA, ed *editor.Editor, f float64) {
	opts := ed.Options()
	verts := ed.Vertices()
	if len(verts) == 0 {
		return
	}

	pts := scalePoints(verts, f)
	lineWidth := scaleThickness(opts.PolygonLineWidth, f)

	if ed.Closed() {
		fillPolygon(output, pts, opts.FillColor)
		n := len(pts)
		for i := 0; i < n; i++ {
			p1, p2 := pts[i], pts[(i+1)%n]
			drawLine(output, int(p1.X), int(p1.Y), int(p2.X), int(p2.Y), opts.StrokeColor, lineWidth)
		}
		return
	}

	// Open path
	for i := 0; i+1 < len(pts); i++ {
		drawLine(output, int(pts[i].X), int(pts[i].Y), int(pts[i+1].X), int(pts[i+1].Y), opts.StrokeColor, lineWidth)
	}

	// Rubber-band preview: a solid segment from the last vertex to the
	// cursor, then a dashed segment from the cursor back to the first
	// vertex showing where the closing edge will land. The dashed segment
	// switches to the anchor color when the cursor would close the shape.
	if cur, ok := ed.Cursor(); ok {
		last := pts[len(pts)-1]
		cp := geometry.Point2D{X: cur.X * f, Y: cur.Y * f}
		drawLine(output, int(last.X), int(last.Y), int(cp.X), int(cp.Y), opts.StrokeColor, lineWidth)
		if len(pts) >= 2 {
			col := opts.StrokeColor
			if ed.NearAnchor(cur) {
				col = opts.AnchorColor
			}
			drawDashedLine(output, int(cp.X), int(cp.Y), int(pts[0].X), int(pts[0].Y), col, lineWidth)
		}
	}

	// Vertex markers. The first vertex is the closing anchor: always drawn
	// in the anchor color, with an enlarged ring when the cursor is close
	// enough to close.
	radius := opts.VertexRadius * f
	for i, p := range pts {
		col := opts.StrokeColor
		if i == 0 {
			col = opts.AnchorColor
		}
		drawCircle(output, p, radius, col, true)
		if i == 0 && len(verts) >= 3 {
			if cur, ok := ed.Cursor(); ok && ed.NearAnchor(cur) {
				drawCircle(output, p, radius+3*f, opts.AnchorColor, false)
			}
		}
	}
}

// drawFreehandTrace renders committed strokes and the stroke being dragged,
// plus the translucent fill once closed.
func (c *EditorCanvas) drawFreehandTrace(output *image.RGBA, ed *editor.Editor, f float64) {
	opts := ed.Options()
	lineWidth := scaleThickness(opts.FreehandLineWidth, f)

	if ed.Closed() {
		path := scalePoints(ed.FreehandPath(), f)
		if len(path) < 3 {
			return
		}
		fillPolygon(output, path, opts.FillColor)
		n := len(path)
		for i := 0; i < n; i++ {
			p1, p2 := path[i], path[(i+1)%n]
			drawLine(output, int(p1.X), int(p1.Y), int(p2.X), int(p2.Y), opts.StrokeColor, lineWidth)
		}
		return
	}

	drawStroke := func(stroke []editor.DisplayPoint) {
		pts := scalePoints(stroke, f)
		for i := 0; i+1 < len(pts); i++ {
			drawLine(output, int(pts[i].X), int(pts[i].Y), int(pts[i+1].X), int(pts[i+1].Y), opts.StrokeColor, lineWidth)
		}
	}
	for _, stroke := range ed.Strokes() {
		drawStroke(stroke)
	}
	drawStroke(activeStroke(ed))

	// Mark the open ends so the user can see where Close will join. The
	// start and end carry distinct colors.
	path := ed.FreehandPath()
	if len(path) >= 2 {
		radius := opts.VertexRadius * f
		first := geometry.Point2D{X: path[0].X * f, Y: path[0].Y * f}
		last := geometry.Point2D{X: path[len(path)-1].X * f, Y: path[len(path)-1].Y * f}
		drawCircle(output, first, radius, opts.AnchorColor, true)
		drawCircle(output, last, radius, opts.EndColor, true)
	}
}

// activeStroke returns the points of the stroke currently being dragged.
func activeStroke(ed *editor.Editor) []editor.DisplayPoint {
	if !ed.Dragging() {
		return nil
	}
	full := ed.FreehandPath()
	var committed int
	for _, s := range ed.Strokes() {
		committed += len(s)
	}
	if committed >= len(full) {
		return nil
	}
	return full[committed:]
}

func scalePoints(pts []editor.DisplayPoint, f float64) []geometry.Point2D {
	out := make([]geometry.Point2D, len(pts))
	for i, p := range pts {
		out[i] = geometry.Point2D{X: p.X * f, Y: p.Y * f}
	}
	return out
}

func scaleThickness(t int, f float64) int {
	s := int(float64(t) * f)
	if s < 1 {
		s = 1
	}
	return s
}

// drawLine draws a line between two points using Bresenham's algorithm.
func drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := output.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					output.SetRGBA(px, py, col)
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawDashedLine draws a line with a 4-on 4-off pixel pattern.
func drawDashedLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := output.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	step := 0

	for {
		if step%8 < 4 {
			for t := -thickness / 2; t <= thickness/2; t++ {
				for s := -thickness / 2; s <= thickness/2; s++ {
					px, py := x1+s, y1+t
					if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
						output.SetRGBA(px, py, col)
					}
				}
			}
		}
		step++

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// fillPolygon fills a polygon with a translucent color using scanlines,
// blending against the pixels already in the buffer.
func fillPolygon(output *image.RGBA, pts []geometry.Point2D, col color.RGBA) {
	if len(pts) < 3 {
		return
	}
	bounds := output.Bounds()

	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	n := len(pts)
	for y := int(minY); y <= int(maxY); y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}

		var xs []float64
		for i := 0; i < n; i++ {
			p1 := pts[i]
			p2 := pts[(i+1)%n]
			if (p1.Y <= float64(y) && p2.Y > float64(y)) ||
				(p2.Y <= float64(y) && p1.Y > float64(y)) {
				t := (float64(y) - p1.Y) / (p2.Y - p1.Y)
				xs = append(xs, p1.X+t*(p2.X-p1.X))
			}
		}

		// insertion sort; intersection counts are tiny
		for i := 1; i < len(xs); i++ {
			for j := i; j > 0 && xs[j] < xs[j-1]; j-- {
				xs[j], xs[j-1] = xs[j-1], xs[j]
			}
		}

		for i := 0; i+1 < len(xs); i += 2 {
			x1, x2 := int(xs[i]), int(xs[i+1])
			for x := x1; x <= x2; x++ {
				if x < bounds.Min.X || x >= bounds.Max.X {
					continue
				}
				output.SetRGBA(x, y, colorutil.Blend(output.RGBAAt(x, y), col))
			}
		}
	}
}

// drawCircle draws a filled disc or a 2-pixel ring centered at p.
func drawCircle(output *image.RGBA, p geometry.Point2D, radius float64, col color.RGBA, filled bool) {
	bounds := output.Bounds()

	minX := int(p.X - radius - 1)
	maxX := int(p.X + radius + 1)
	minY := int(p.Y - radius - 1)
	maxY := int(p.Y + radius + 1)

	r2 := radius * radius
	inner := radius - 2
	if inner < 0 {
		inner = 0
	}
	innerR2 := inner * inner

	for y := minY; y <= maxY; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx := float64(x) - p.X
			dy := float64(y) - p.Y
			dist2 := dx*dx + dy*dy

			if filled {
				if dist2 <= r2 {
					output.SetRGBA(x, y, col)
				}
			} else if dist2 <= r2 && dist2 >= innerR2 {
				output.SetRGBA(x, y, col)
			}
		}
	}
}
