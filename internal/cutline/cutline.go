// Package cutline generates print and cutting outlines for acrylic parts.
// The print line offsets the artwork's foreground mask outward so edge
// pixels survive trimming; the cutting line offsets the print line again
// to leave clear acrylic around the printed region.
package cutline

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"cutline-studio/pkg/geometry"

	"gocv.io/x/gocv"
)

var colorFill = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// tabMarginMM is how far the hanging-ring dome extends past the hole.
const tabMarginMM = 1.0

// ProductType selects what is being produced from the traced shape.
type ProductType string

const (
	ProductObjet   ProductType = "objet"
	ProductKeyring ProductType = "keyring"
)

// HoleType selects how a keyring attaches.
type HoleType string

const (
	// HoleRing is a ring tab protruding outside the cutting line.
	HoleRing HoleType = "ring"
	// HoleInternal is a hole punched inside the cutting line.
	HoleInternal HoleType = "internal"
)

// HolePosition places the keyring hole relative to the shape.
type HolePosition string

const (
	PositionTop    HolePosition = "top"
	PositionBottom HolePosition = "bottom"
	PositionLeft   HolePosition = "left"
	PositionRight  HolePosition = "right"
)

// Request describes one generation run.
type Request struct {
	Config   Config
	Product  ProductType
	Hole     HoleType
	Position HolePosition
	// ScaleMMToPx converts millimeter distances in the config to mask
	// pixels. Derived from the target part size.
	ScaleMMToPx float64
}

// Result holds the generated outlines and masks. Masks are owned by the
// caller and must be Closed.
type Result struct {
	PrintOutline []geometry.Point2D // Print line in mask pixels
	CutOutline   []geometry.Point2D // Cutting line in mask pixels

	PrintMask gocv.Mat
	CutMask   gocv.Mat

	// Keyring hole, when Product == ProductKeyring
	HoleCenter   image.Point
	HoleRadiusPx int         // Ring hole radius (HoleRing)
	HoleSizePx   image.Point // Punch hole size (HoleInternal)

	Product  ProductType
	Hole     HoleType
	Position HolePosition

	PrintOffsetPx float64
	CutOffsetPx   float64
}

// Close releases the result's masks.
func (r *Result) Close() {
	if !r.PrintMask.Empty() {
		r.PrintMask.Close()
	}
	if !r.CutMask.Empty() {
		r.CutMask.Close()
	}
}

// Generate produces print and cutting outlines from a binary foreground
// mask.
func Generate(mask gocv.Mat, req Request) (*Result, error) {
	if mask.Empty() {
		return nil, fmt.Errorf("empty foreground mask")
	}
	if req.ScaleMMToPx <= 0 {
		req.ScaleMMToPx = 1
	}

	printOffsetPx := req.Config.PrintOffsetMM * req.ScaleMMToPx
	cutOffsetPx := req.Config.CuttingOffsetMM * req.ScaleMMToPx

	printContour, printMask, err := OffsetOutline(mask, printOffsetPx)
	if err != nil {
		return nil, fmt.Errorf("print outline: %w", err)
	}

	cutContour, cutMask, err := OffsetOutline(printMask, cutOffsetPx)
	if err != nil {
		printMask.Close()
		return nil, fmt.Errorf("cutting outline: %w", err)
	}

	res := &Result{
		PrintOutline:  SmoothOutline(printContour, req.Config.SmoothingFactor),
		CutOutline:    SmoothOutline(cutContour, req.Config.SmoothingFactor),
		PrintMask:     printMask,
		CutMask:       cutMask,
		Product:       req.Product,
		Hole:          req.Hole,
		Position:      req.Position,
		PrintOffsetPx: printOffsetPx,
		CutOffsetPx:   cutOffsetPx,
	}

	if req.Product == ProductKeyring {
		bbox := outlineBounds(res.CutOutline)
		kh := req.Config.KeyringHole
		switch req.Hole {
		case HoleInternal:
			ih := req.Config.InternalHole
			res.HoleCenter, res.HoleSizePx = InternalHole(bbox, req.Position,
				ih.WidthMM*req.ScaleMMToPx,
				ih.HeightMM*req.ScaleMMToPx,
				ih.EdgeDistanceMM*req.ScaleMMToPx,
				res.CutMask.Cols(), res.CutMask.Rows())
			res.HoleCenter = holeCenterInOutline(res.HoleCenter, res.CutOutline)

			// The punch is part of the cut: remove it from the mask so
			// the exported cutting file carries the hole.
			axes := image.Point{X: res.HoleSizePx.X / 2, Y: res.HoleSizePx.Y / 2}
			gocv.Ellipse(&res.CutMask, res.HoleCenter, axes, 0, 0, 360, color.RGBA{}, -1)
		default:
			res.HoleCenter, res.HoleRadiusPx = RingHole(bbox, req.Position,
				kh.DiameterMM*req.ScaleMMToPx,
				kh.EdgeDistanceMM*req.ScaleMMToPx)

			applyRingTab(&res.CutMask, res.HoleCenter, res.HoleRadiusPx, bbox, req.Position,
				int(kh.BridgeWidthMM*req.ScaleMMToPx/2),
				int(math.Ceil(tabMarginMM*req.ScaleMMToPx)))
			if outline, err := largestOutline(res.CutMask); err == nil {
				res.CutOutline = SmoothOutline(outline, req.Config.SmoothingFactor)
			}
		}
	}

	return res, nil
}

// holeCenterInOutline keeps a punch center inside the cutting outline,
// falling back to the outline centroid when the inset point misses it
// (thin or concave shapes).
func holeCenterInOutline(center image.Point, outline []geometry.Point2D) image.Point {
	p := geometry.NewPoint2D(float64(center.X), float64(center.Y))
	if geometry.PointInPolygon(p, outline) {
		return center
	}
	c := geometry.Centroid(outline)
	return image.Point{X: int(c.X), Y: int(c.Y)}
}

// applyRingTab merges the hanging-ring tab into the cutting mask: a dome
// around the hole, a bridge of the configured width joining it to the
// body, and the hole itself punched out.
func applyRingTab(mask *gocv.Mat, center image.Point, holeRadiusPx int, bbox geometry.RectInt, position HolePosition, bridgeHalfPx, tabMarginPx int) {
	tabR := holeRadiusPx + tabMarginPx
	if bridgeHalfPx < 1 {
		bridgeHalfPx = 1
	}
	gocv.Circle(mask, center, tabR, colorFill, -1)

	// Bridge from the dome center deep into the body so the closing pass
	// cannot leave a gap at the junction.
	var bridge image.Rectangle
	switch position {
	case PositionBottom:
		overlap := max(bbox.Height/4, tabR*2)
		bridge = image.Rect(center.X-bridgeHalfPx, bbox.Y+bbox.Height-overlap, center.X+bridgeHalfPx, center.Y)
	case PositionLeft:
		overlap := max(bbox.Width/4, tabR*2)
		bridge = image.Rect(center.X, center.Y-bridgeHalfPx, bbox.X+overlap, center.Y+bridgeHalfPx)
	case PositionRight:
		overlap := max(bbox.Width/4, tabR*2)
		bridge = image.Rect(bbox.X+bbox.Width-overlap, center.Y-bridgeHalfPx, center.X, center.Y+bridgeHalfPx)
	default: // top
		overlap := max(bbox.Height/4, tabR*2)
		bridge = image.Rect(center.X-bridgeHalfPx, center.Y, center.X+bridgeHalfPx, bbox.Y+overlap)
	}
	gocv.Rectangle(mask, bridge, colorFill, -1)

	// Closing pass rounds the inner corners where the bridge meets the
	// body without eroding the dome's outer edge.
	closeK := oddAtLeast(int(float64(tabR)*0.7), 5)
	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Point{X: closeK, Y: closeK})
	defer kernel.Close()
	gocv.MorphologyEx(*mask, mask, gocv.MorphClose, kernel)

	gocv.Circle(mask, center, holeRadiusPx, color.RGBA{}, -1)
}

// OffsetOutline expands a binary mask outward by offsetPx and extracts
// the resulting outline. The mask is pre-smoothed so spikes and noise
// don't survive into the offset contour, then dilated with an elliptical
// kernel sized to the offset. The returned mask is owned by the caller.
func OffsetOutline(mask gocv.Mat, offsetPx float64) ([]geometry.Point2D, gocv.Mat, error) {
	if mask.Empty() {
		return nil, gocv.NewMat(), fmt.Errorf("empty mask")
	}

	if offsetPx <= 0 {
		contour, err := largestOutline(mask)
		if err != nil {
			return nil, gocv.NewMat(), err
		}
		out := gocv.NewMat()
		mask.CopyTo(&out)
		return contour, out, nil
	}

	rows, cols := mask.Rows(), mask.Cols()

	// Pre-smooth: blur then re-threshold removes pixel noise without
	// shifting the outline.
	preBlur := oddAtLeast(min(rows, cols)/60, 7)
	smoothed := gocv.NewMat()
	defer smoothed.Close()
	gocv.GaussianBlur(mask, &smoothed, image.Point{X: preBlur, Y: preBlur}, 0, 0, gocv.BorderDefault)
	gocv.Threshold(smoothed, &smoothed, 127, 255, gocv.ThresholdBinary)

	// Dilate outward by the offset
	kernelSize := oddAtLeast(int(offsetPx*2), 3)
	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Point{X: kernelSize, Y: kernelSize})
	defer kernel.Close()
	iterations := int(math.Ceil(offsetPx / (float64(kernelSize) / 2)))
	if iterations < 1 {
		iterations = 1
	}
	expanded := gocv.NewMat()
	defer expanded.Close()
	smoothed.CopyTo(&expanded)
	for i := 0; i < iterations; i++ {
		gocv.Dilate(expanded, &expanded, kernel)
	}

	// Light edge blur rounds the dilated outline without pushing it out
	edgeBlur := oddAtLeast(int(offsetPx*0.5), 3)
	result := gocv.NewMat()
	gocv.GaussianBlur(expanded, &result, image.Point{X: edgeBlur, Y: edgeBlur}, 0, 0, gocv.BorderDefault)
	gocv.Threshold(result, &result, 127, 255, gocv.ThresholdBinary)

	contour, err := largestOutline(result)
	if err != nil {
		result.Close()
		return nil, gocv.NewMat(), err
	}

	// Rebuild the mask from the dominant contour only
	clean := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8U)
	pts := make([]image.Point, len(contour))
	for i, p := range contour {
		pts[i] = image.Point{X: int(p.X), Y: int(p.Y)}
	}
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{pts})
	gocv.FillPoly(&clean, pv, colorFill)
	pv.Close()
	result.Close()

	return contour, clean, nil
}

// SmoothOutline subsamples and moving-average smooths a closed outline
// for a clean laser path. The factor sets the averaging window as a
// fraction of the point count, capped at 15; non-positive factors fall
// back to the default. Short outlines pass through unchanged.
func SmoothOutline(outline []geometry.Point2D, factor float64) []geometry.Point2D {
	if len(outline) < 30 {
		return outline
	}
	if factor <= 0 {
		factor = DefaultConfig().SmoothingFactor
	}

	pts := geometry.Resample(outline, 400)

	window := min(15, oddAtLeast(int(factor*float64(len(pts))), 5))
	return geometry.SmoothClosed(pts, window, 2)
}

// RingHole places a hanging-ring hole outside the cutting outline's
// bounding box on the requested side.
func RingHole(bbox geometry.RectInt, position HolePosition, holeDiameterPx, edgeDistancePx float64) (center image.Point, radiusPx int) {
	radiusPx = int(holeDiameterPx / 2)
	dist := int(edgeDistancePx)

	switch position {
	case PositionBottom:
		center = image.Point{X: bbox.X + bbox.Width/2, Y: bbox.Y + bbox.Height + dist + radiusPx}
	case PositionLeft:
		center = image.Point{X: bbox.X - dist - radiusPx, Y: bbox.Y + bbox.Height/2}
	case PositionRight:
		center = image.Point{X: bbox.X + bbox.Width + dist + radiusPx, Y: bbox.Y + bbox.Height/2}
	default: // top
		center = image.Point{X: bbox.X + bbox.Width/2, Y: bbox.Y - dist - radiusPx}
	}
	return center, radiusPx
}

// InternalHole places a punch hole inside the cutting outline, inset
// from the requested side. The center is clamped so the full punch fits
// inside a maskW x maskH image with a 2 px margin.
func InternalHole(bbox geometry.RectInt, position HolePosition, holeWidthPx, holeHeightPx, edgeDistancePx float64, maskW, maskH int) (center image.Point, sizePx image.Point) {
	sizePx = image.Point{X: int(holeWidthPx), Y: int(holeHeightPx)}
	dist := int(edgeDistancePx)

	switch position {
	case PositionBottom:
		center = image.Point{X: bbox.X + bbox.Width/2, Y: bbox.Y + bbox.Height - dist}
	case PositionLeft:
		center = image.Point{X: bbox.X + dist, Y: bbox.Y + bbox.Height/2}
	case PositionRight:
		center = image.Point{X: bbox.X + bbox.Width - dist, Y: bbox.Y + bbox.Height/2}
	default: // top
		center = image.Point{X: bbox.X + bbox.Width/2, Y: bbox.Y + dist}
	}

	hw, hh := sizePx.X/2, sizePx.Y/2
	center.X = max(hw+2, min(maskW-hw-2, center.X))
	center.Y = max(hh+2, min(maskH-hh-2, center.Y))
	return center, sizePx
}

// largestOutline extracts the largest external contour of a mask as
// geometry points.
func largestOutline(mask gocv.Mat) ([]geometry.Point2D, error) {
	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() == 0 {
		return nil, fmt.Errorf("no outline found")
	}

	bestIdx := 0
	bestArea := -1.0
	for i := 0; i < contours.Size(); i++ {
		if a := gocv.ContourArea(contours.At(i)); a > bestArea {
			bestArea = a
			bestIdx = i
		}
	}

	contour := contours.At(bestIdx)
	pts := make([]geometry.Point2D, contour.Size())
	for i := 0; i < contour.Size(); i++ {
		p := contour.At(i)
		pts[i] = geometry.Point2D{X: float64(p.X), Y: float64(p.Y)}
	}
	return pts, nil
}

// outlineBounds computes the integer bounding box of an outline.
func outlineBounds(outline []geometry.Point2D) geometry.RectInt {
	bbox := geometry.BoundingBox(outline)
	return geometry.RectInt{
		X:      int(bbox.X),
		Y:      int(bbox.Y),
		Width:  int(bbox.Width),
		Height: int(bbox.Height),
	}
}

// oddAtLeast rounds v up to the nearest odd number no smaller than lo.
func oddAtLeast(v, lo int) int {
	if v < lo {
		v = lo
	}
	return v | 1
}
