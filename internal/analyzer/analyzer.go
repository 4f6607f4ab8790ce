package analyzer

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"cutline-studio/pkg/geometry"

	"gocv.io/x/gocv"
)

// minContourArea filters out noise contours, in px².
const minContourArea = 100

var colorWhite = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// AnalyzeImage measures the dominant foreground shape in an artwork
// file. The foreground mask comes from the alpha channel when present,
// otherwise from Otsu binarization.
func AnalyzeImage(path string) (ShapeMetrics, error) {
	img := gocv.IMRead(path, gocv.IMReadUnchanged)
	if img.Empty() {
		return ShapeMetrics{}, fmt.Errorf("read image %s: empty or unreadable", path)
	}
	defer img.Close()

	mask, err := ForegroundMask(img)
	if err != nil {
		return ShapeMetrics{}, err
	}
	defer mask.Close()

	return AnalyzeMask(mask)
}

// AnalyzeMask measures the largest contour of a binary foreground mask.
func AnalyzeMask(mask gocv.Mat) (ShapeMetrics, error) {
	contour, err := LargestContour(mask)
	if err != nil {
		return ShapeMetrics{}, err
	}
	defer contour.Close()

	area := gocv.ContourArea(contour)
	if area < minContourArea {
		return ShapeMetrics{}, fmt.Errorf("dominant contour too small: %.0f px²", area)
	}

	perimeter := gocv.ArcLength(contour, true)
	rect := gocv.BoundingRect(contour)

	// Vertex count via Douglas-Peucker at 1% of perimeter
	approx := gocv.ApproxPolyDP(contour, 0.01*perimeter, true)
	defer approx.Close()

	m := ShapeMetrics{
		AreaPx:       area,
		PerimeterPx:  perimeter,
		BBoxWidthPx:  rect.Dx(),
		BBoxHeightPx: rect.Dy(),
		VertexCount:  approx.Size(),
	}
	m.Circularity = circularity(area, perimeter)
	if bboxArea := float64(rect.Dx() * rect.Dy()); bboxArea > 0 {
		m.FillRatio = round4(area / bboxArea)
	}
	m.OutlineLengthScore = round4(outlineLengthScore(perimeter, area))
	m.DirectionChangeScore = round4(directionChangeScore(contourPoints(approx)))
	m.ComplexityScore = round4(complexityScore(m))
	return m, nil
}

// ForegroundMask builds a binary foreground mask from an artwork Mat.
// RGBA images are thresholded on alpha; others go through grayscale
// Otsu binarization, inverted when the foreground ends up dominant.
func ForegroundMask(img gocv.Mat) (gocv.Mat, error) {
	if img.Empty() {
		return gocv.NewMat(), fmt.Errorf("empty image")
	}

	if img.Channels() == 4 {
		channels := gocv.Split(img)
		for i, ch := range channels {
			if i == 3 {
				continue
			}
			ch.Close()
		}
		alpha := channels[3]
		defer alpha.Close()

		mask := gocv.NewMat()
		gocv.Threshold(alpha, &mask, 10, 255, gocv.ThresholdBinary)
		return mask, nil
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if img.Channels() == 3 {
		gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	} else {
		img.CopyTo(&gray)
	}

	mask := gocv.NewMat()
	gocv.Threshold(gray, &mask, 0, 255, gocv.ThresholdBinaryInv+gocv.ThresholdOtsu)

	// Otsu can pick either polarity; the foreground should be the
	// minority of pixels.
	total := mask.Rows() * mask.Cols()
	if total > 0 && float64(gocv.CountNonZero(mask))/float64(total) > 0.5 {
		inverted := gocv.NewMat()
		gocv.BitwiseNot(mask, &inverted)
		mask.Close()
		return inverted, nil
	}

	return mask, nil
}

// LargestContour returns the external contour with the greatest area.
// The caller owns the returned PointVector.
func LargestContour(mask gocv.Mat) (gocv.PointVector, error) {
	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() == 0 {
		return gocv.PointVector{}, fmt.Errorf("no contours found")
	}

	bestIdx := 0
	bestArea := -1.0
	for i := 0; i < contours.Size(); i++ {
		if a := gocv.ContourArea(contours.At(i)); a > bestArea {
			bestArea = a
			bestIdx = i
		}
	}

	return gocv.NewPointVectorFromPoints(contours.At(bestIdx).ToPoints()), nil
}

// MaskFromPoints rasterizes a closed outline into a binary mask of the
// given dimensions. Used to feed editor-traced shapes into the cutline
// generator.
func MaskFromPoints(points []image.Point, width, height int) gocv.Mat {
	mask := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8U)
	if len(points) < 3 {
		return mask
	}

	pv := gocv.NewPointsVectorFromPoints([][]image.Point{points})
	defer pv.Close()
	gocv.FillPoly(&mask, pv, colorWhite)
	return mask
}

// contourPoints converts a gocv contour into geometry points.
func contourPoints(contour gocv.PointVector) []geometry.Point2D {
	pts := make([]geometry.Point2D, contour.Size())
	for i := 0; i < contour.Size(); i++ {
		p := contour.At(i)
		pts[i] = geometry.Point2D{X: float64(p.X), Y: float64(p.Y)}
	}
	return pts
}

// ShapeScaleMM returns the px→mm scale implied by fitting the shape's
// bounding box to the target size (mean of the axis scales).
func ShapeScaleMM(m ShapeMetrics, targetWidthMM, targetHeightMM float64) float64 {
	scaleX, scaleY := 1.0, 1.0
	if m.BBoxWidthPx > 0 {
		scaleX = targetWidthMM / float64(m.BBoxWidthPx)
	}
	if m.BBoxHeightPx > 0 {
		scaleY = targetHeightMM / float64(m.BBoxHeightPx)
	}
	return (scaleX + scaleY) / 2
}

// MMToPx converts a millimeter distance to pixels at the given scale.
func MMToPx(mm, scale float64) float64 {
	if scale <= 0 {
		return mm
	}
	return math.Abs(mm / scale)
}
