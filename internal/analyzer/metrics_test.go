package analyzer

import (
	"math"
	"testing"

	"cutline-studio/pkg/geometry"
)

func circlePoints(cx, cy, r float64, n int) []geometry.Point2D {
	pts := make([]geometry.Point2D, n)
	for i := range pts {
		angle := float64(i) * 2 * math.Pi / float64(n)
		pts[i] = geometry.Point2D{X: cx + r*math.Cos(angle), Y: cy + r*math.Sin(angle)}
	}
	return pts
}

func TestMetricsFromPointsCircle(t *testing.T) {
	m, ok := MetricsFromPoints(circlePoints(500, 500, 200, 120))
	if !ok {
		t.Fatal("MetricsFromPoints failed on a circle")
	}

	if m.Circularity < 0.95 {
		t.Errorf("circle circularity = %v, want near 1", m.Circularity)
	}
	// Circle fills ~π/4 of its bounding box
	if m.FillRatio < 0.7 || m.FillRatio > 0.85 {
		t.Errorf("circle fill ratio = %v, want ~0.785", m.FillRatio)
	}
	if m.ComplexityScore > 0.4 {
		t.Errorf("circle complexity = %v, want low", m.ComplexityScore)
	}

	wantArea := math.Pi * 200 * 200
	if math.Abs(m.AreaPx-wantArea)/wantArea > 0.02 {
		t.Errorf("circle area = %v, want ~%v", m.AreaPx, wantArea)
	}
}

func TestMetricsFromPointsRectangle(t *testing.T) {
	rect := []geometry.Point2D{{0, 0}, {400, 0}, {400, 200}, {0, 200}}
	m, ok := MetricsFromPoints(rect)
	if !ok {
		t.Fatal("MetricsFromPoints failed on a rectangle")
	}

	if m.AreaPx != 80000 {
		t.Errorf("area = %v, want 80000", m.AreaPx)
	}
	if m.PerimeterPx != 1200 {
		t.Errorf("perimeter = %v, want 1200", m.PerimeterPx)
	}
	if m.FillRatio != 1 {
		t.Errorf("rectangle fill ratio = %v, want 1", m.FillRatio)
	}
	// Right-angle corners: mean turn angle π/2 normalizes to 0.5
	if math.Abs(m.DirectionChangeScore-0.5) > 0.01 {
		t.Errorf("rectangle direction change score = %v, want 0.5", m.DirectionChangeScore)
	}
}

func TestMetricsFromPointsRejectsDegenerate(t *testing.T) {
	if _, ok := MetricsFromPoints([]geometry.Point2D{{0, 0}, {1, 1}}); ok {
		t.Error("accepted a 2-point shape")
	}
	// Collinear points enclose no area
	if _, ok := MetricsFromPoints([]geometry.Point2D{{0, 0}, {1, 0}, {2, 0}}); ok {
		t.Error("accepted a zero-area shape")
	}
}

func TestComplexityOrdering(t *testing.T) {
	circle, _ := MetricsFromPoints(circlePoints(500, 500, 200, 120))

	// A spiky star should be clearly more complex than a circle
	star := make([]geometry.Point2D, 0, 40)
	for i := 0; i < 20; i++ {
		angle := float64(i) * math.Pi / 10
		r := 200.0
		if i%2 == 1 {
			r = 80
		}
		star = append(star, geometry.Point2D{
			X: 500 + r*math.Cos(angle),
			Y: 500 + r*math.Sin(angle),
		})
	}
	spiky, ok := MetricsFromPoints(star)
	if !ok {
		t.Fatal("MetricsFromPoints failed on star")
	}

	if spiky.ComplexityScore <= circle.ComplexityScore {
		t.Errorf("star complexity %v <= circle complexity %v",
			spiky.ComplexityScore, circle.ComplexityScore)
	}
	if spiky.Circularity >= circle.Circularity {
		t.Errorf("star circularity %v >= circle circularity %v",
			spiky.Circularity, circle.Circularity)
	}
}

func TestConvertToMM(t *testing.T) {
	m := ShapeMetrics{
		AreaPx:       10000,
		PerimeterPx:  400,
		BBoxWidthPx:  100,
		BBoxHeightPx: 100,
	}

	got := ConvertToMM(m, 50, 50)

	// Scale is 0.5 mm/px: area scales by 0.25, perimeter by 0.5
	if got.AreaMM2 != 2500 {
		t.Errorf("AreaMM2 = %v, want 2500", got.AreaMM2)
	}
	if got.PerimeterMM != 200 {
		t.Errorf("PerimeterMM = %v, want 200", got.PerimeterMM)
	}
	if got.BBoxWidthMM != 50 || got.BBoxHeightMM != 50 {
		t.Errorf("bbox mm = %vx%v, want 50x50", got.BBoxWidthMM, got.BBoxHeightMM)
	}
}

func TestConvertToMMAveragesAxes(t *testing.T) {
	m := ShapeMetrics{
		AreaPx:       1,
		PerimeterPx:  100,
		BBoxWidthPx:  100,
		BBoxHeightPx: 200,
	}

	// scaleX = 0.5, scaleY = 0.25 → mean 0.375
	got := ConvertToMM(m, 50, 50)
	if got.PerimeterMM != 37.5 {
		t.Errorf("PerimeterMM = %v, want 37.5", got.PerimeterMM)
	}
}

func TestShapeScaleMM(t *testing.T) {
	m := ShapeMetrics{BBoxWidthPx: 200, BBoxHeightPx: 100}
	if got := ShapeScaleMM(m, 100, 50); got != 0.5 {
		t.Errorf("ShapeScaleMM = %v, want 0.5", got)
	}
}

func TestClampAndRounding(t *testing.T) {
	if clamp01(-0.5) != 0 || clamp01(1.5) != 1 || clamp01(0.3) != 0.3 {
		t.Error("clamp01 misbehaves")
	}
	if round2(1.005) != 1.01 && round2(1.005) != 1 {
		// Floating point boundary; only verify it rounds to 2 decimals
		t.Errorf("round2(1.005) = %v", round2(1.005))
	}
	if round4(0.123456) != 0.1235 {
		t.Errorf("round4(0.123456) = %v", round4(0.123456))
	}
}
