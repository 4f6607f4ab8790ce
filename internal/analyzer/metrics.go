// Package analyzer measures traced or detected shapes for production quoting.
package analyzer

import (
	"math"

	"cutline-studio/pkg/geometry"

	"gonum.org/v1/gonum/stat"
)

// circleRatio is the perimeter/sqrt(area) ratio of a perfect circle,
// 2*sqrt(pi). Shapes score above it in proportion to outline complexity.
const circleRatio = 3.5449077018

// Weights of the complexity score components.
const (
	weightCircularity = 0.4
	weightVertices    = 0.3
	weightOutline     = 0.3
)

// ShapeMetrics holds the measured properties of a single shape.
type ShapeMetrics struct {
	AreaPx      float64 `json:"area_px"`      // Enclosed area (px²)
	PerimeterPx float64 `json:"perimeter_px"` // Outline length (px)
	BBoxWidthPx  int    `json:"bbox_width_px"`
	BBoxHeightPx int    `json:"bbox_height_px"`

	VertexCount          int     `json:"vertex_count"`           // After Douglas-Peucker approximation
	Circularity          float64 `json:"circularity"`            // 0..1, 1 = perfect circle
	FillRatio            float64 `json:"fill_ratio"`             // Area / bounding-box area
	OutlineLengthScore   float64 `json:"outline_length_score"`   // 0..1, normalized perimeter excess
	DirectionChangeScore float64 `json:"direction_change_score"` // 0..1, mean turn angle
	ComplexityScore      float64 `json:"complexity_score"`       // 0..1 weighted composite

	// Millimeter values, set by ConvertToMM
	AreaMM2      float64 `json:"area_mm2"`
	PerimeterMM  float64 `json:"perimeter_mm"`
	BBoxWidthMM  float64 `json:"bbox_width_mm"`
	BBoxHeightMM float64 `json:"bbox_height_mm"`
}

// MetricsFromPoints measures a closed shape given its outline points in
// image space. This is the pure path used for shapes traced in the
// editor; image-derived shapes go through AnalyzeImage.
func MetricsFromPoints(points []geometry.Point2D) (ShapeMetrics, bool) {
	if len(points) < 3 {
		return ShapeMetrics{}, false
	}

	area := geometry.Area(points)
	if area < 1 {
		return ShapeMetrics{}, false
	}
	perimeter := geometry.Perimeter(points)
	bbox := geometry.BoundingBox(points)

	// Vertex count on the simplified outline, epsilon at 1% of perimeter
	simplified := geometry.Simplify(points, 0.01*perimeter)

	m := ShapeMetrics{
		AreaPx:       area,
		PerimeterPx:  perimeter,
		BBoxWidthPx:  int(math.Round(bbox.Width)),
		BBoxHeightPx: int(math.Round(bbox.Height)),
		VertexCount:  len(simplified),
	}
	m.Circularity = circularity(area, perimeter)
	if bboxArea := bbox.Width * bbox.Height; bboxArea > 0 {
		m.FillRatio = round4(area / bboxArea)
	}
	m.OutlineLengthScore = round4(outlineLengthScore(perimeter, area))
	m.DirectionChangeScore = round4(directionChangeScore(simplified))
	m.ComplexityScore = round4(complexityScore(m))
	return m, true
}

// ConvertToMM scales pixel measurements to millimeters against the
// user-specified target size. The two axis scales are averaged.
func ConvertToMM(m ShapeMetrics, targetWidthMM, targetHeightMM float64) ShapeMetrics {
	scaleX, scaleY := 1.0, 1.0
	if m.BBoxWidthPx > 0 {
		scaleX = targetWidthMM / float64(m.BBoxWidthPx)
	}
	if m.BBoxHeightPx > 0 {
		scaleY = targetHeightMM / float64(m.BBoxHeightPx)
	}
	scale := (scaleX + scaleY) / 2

	m.AreaMM2 = round2(m.AreaPx * scale * scale)
	m.PerimeterMM = round2(m.PerimeterPx * scale)
	m.BBoxWidthMM = round2(targetWidthMM)
	m.BBoxHeightMM = round2(targetHeightMM)
	return m
}

// circularity is 4πA/P², 1 for a circle and approaching 0 for jagged shapes.
func circularity(area, perimeter float64) float64 {
	if perimeter <= 0 {
		return 0
	}
	c := 4 * math.Pi * area / (perimeter * perimeter)
	return round4(math.Min(c, 1))
}

// outlineLengthScore normalizes how much longer the outline is than a
// circle of the same area would be.
func outlineLengthScore(perimeter, area float64) float64 {
	if area <= 0 {
		return 0
	}
	ratio := perimeter / math.Sqrt(area)
	return clamp01((ratio - circleRatio) / 10)
}

// directionChangeScore is the mean absolute turn angle along the closed
// outline, normalized so that a rectangle (90° corners) scores 0.5.
func directionChangeScore(points []geometry.Point2D) float64 {
	n := len(points)
	if n < 3 {
		return 0
	}

	angles := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		prev := points[(i-1+n)%n]
		cur := points[i]
		next := points[(i+1)%n]

		v1 := cur.Sub(prev)
		v2 := next.Sub(cur)
		l1 := math.Hypot(v1.X, v1.Y)
		l2 := math.Hypot(v2.X, v2.Y)
		if l1 < 1e-9 || l2 < 1e-9 {
			continue
		}

		dot := (v1.X*v2.X + v1.Y*v2.Y) / (l1 * l2)
		dot = math.Max(-1, math.Min(1, dot))
		angles = append(angles, math.Acos(dot))
	}
	if len(angles) == 0 {
		return 0
	}

	mean := stat.Mean(angles, nil)
	return clamp01(mean / math.Pi)
}

// complexityScore combines circularity inversion, vertex density, and
// outline length excess into a single 0..1 score.
func complexityScore(m ShapeMetrics) float64 {
	inverted := 1 - m.Circularity

	// Vertex density normalized over the 4..50 range
	vertexNorm := clamp01(float64(m.VertexCount-4) / 46)

	score := inverted*weightCircularity +
		vertexNorm*weightVertices +
		m.OutlineLengthScore*weightOutline
	return clamp01(score)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
