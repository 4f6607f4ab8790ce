package geometry

import (
	"math"
	"testing"
)

func TestArea(t *testing.T) {
	tests := []struct {
		name    string
		polygon []Point2D
		want    float64
	}{
		{
			name:    "unit square",
			polygon: []Point2D{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
			want:    1,
		},
		{
			name:    "unit square clockwise",
			polygon: []Point2D{{0, 0}, {0, 1}, {1, 1}, {1, 0}},
			want:    1,
		},
		{
			name:    "right triangle",
			polygon: []Point2D{{0, 0}, {4, 0}, {0, 3}},
			want:    6,
		},
		{
			name:    "degenerate two points",
			polygon: []Point2D{{0, 0}, {1, 1}},
			want:    0,
		},
		{
			name:    "empty",
			polygon: nil,
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Area(tt.polygon)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Area() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPerimeter(t *testing.T) {
	square := []Point2D{{0, 0}, {2, 0}, {2, 2}, {0, 2}}
	if got := Perimeter(square); math.Abs(got-8) > 1e-9 {
		t.Errorf("Perimeter(square) = %v, want 8", got)
	}

	triangle := []Point2D{{0, 0}, {3, 0}, {0, 4}}
	if got := Perimeter(triangle); math.Abs(got-12) > 1e-9 {
		t.Errorf("Perimeter(triangle) = %v, want 12", got)
	}

	if got := Perimeter([]Point2D{{1, 1}}); got != 0 {
		t.Errorf("Perimeter(single point) = %v, want 0", got)
	}
}

func TestPointInPolygon(t *testing.T) {
	square := []Point2D{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

	tests := []struct {
		name string
		p    Point2D
		want bool
	}{
		{"center", Point2D{5, 5}, true},
		{"outside right", Point2D{11, 5}, false},
		{"outside above", Point2D{5, -1}, false},
		{"near edge inside", Point2D{9.99, 5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointInPolygon(tt.p, square); got != tt.want {
				t.Errorf("PointInPolygon(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}

	if PointInPolygon(Point2D{0, 0}, square[:2]) {
		t.Error("PointInPolygon with 2-point polygon should be false")
	}
}

func TestSimplify(t *testing.T) {
	// Collinear points collapse to endpoints
	line := []Point2D{{0, 0}, {1, 0.01}, {2, -0.01}, {3, 0}, {4, 0}}
	got := Simplify(line, 0.5)
	if len(got) != 2 {
		t.Fatalf("Simplify(collinear) kept %d points, want 2", len(got))
	}
	if got[0] != line[0] || got[1] != line[len(line)-1] {
		t.Errorf("Simplify endpoints = %v, %v; want first and last input points", got[0], got[1])
	}

	// A sharp corner survives
	corner := []Point2D{{0, 0}, {5, 0}, {5, 5}}
	got = Simplify(corner, 0.5)
	if len(got) != 3 {
		t.Errorf("Simplify(corner) kept %d points, want 3", len(got))
	}

	// Epsilon <= 0 is a pass-through
	if got := Simplify(line, 0); len(got) != len(line) {
		t.Errorf("Simplify with zero epsilon changed the path")
	}
}

func TestSmoothClosed(t *testing.T) {
	// A noisy circle smooths toward the circle without changing point count
	n := 60
	noisy := make([]Point2D, n)
	for i := range noisy {
		angle := float64(i) * 2 * math.Pi / float64(n)
		r := 100.0
		if i%2 == 0 {
			r += 5
		}
		noisy[i] = Point2D{X: r * math.Cos(angle), Y: r * math.Sin(angle)}
	}

	smoothed := SmoothClosed(noisy, 5, 2)
	if len(smoothed) != n {
		t.Fatalf("SmoothClosed changed point count: %d -> %d", n, len(smoothed))
	}

	var before, after float64
	center := Point2D{}
	for i := range noisy {
		before += math.Abs(noisy[i].Distance(center) - 102.5)
		after += math.Abs(smoothed[i].Distance(center) - 102.5)
	}
	if after >= before {
		t.Errorf("SmoothClosed did not reduce radial noise: before %.2f, after %.2f", before, after)
	}

	// Short paths pass through untouched
	short := []Point2D{{0, 0}, {1, 0}, {1, 1}}
	if got := SmoothClosed(short, 5, 2); len(got) != 3 {
		t.Errorf("SmoothClosed on short path changed point count")
	}
}

func TestResample(t *testing.T) {
	path := make([]Point2D, 100)
	for i := range path {
		path[i] = Point2D{X: float64(i), Y: 0}
	}

	got := Resample(path, 10)
	if len(got) != 10 {
		t.Fatalf("Resample kept %d points, want 10", len(got))
	}
	if got[0] != path[0] {
		t.Error("Resample dropped the first point")
	}
	if got[len(got)-1] != path[len(path)-1] {
		t.Error("Resample dropped the last point")
	}

	// At or below target is a pass-through
	if got := Resample(path, 100); len(got) != 100 {
		t.Error("Resample at target size changed the path")
	}
}

func TestCentroidAndBoundingBox(t *testing.T) {
	pts := []Point2D{{0, 0}, {4, 0}, {4, 2}, {0, 2}}

	c := Centroid(pts)
	if c.X != 2 || c.Y != 1 {
		t.Errorf("Centroid = %v, want (2, 1)", c)
	}

	bb := BoundingBox(pts)
	if bb.X != 0 || bb.Y != 0 || bb.Width != 4 || bb.Height != 2 {
		t.Errorf("BoundingBox = %v, want {0 0 4 2}", bb)
	}

	if got := Centroid(nil); got != (Point2D{}) {
		t.Errorf("Centroid(nil) = %v, want zero point", got)
	}
}
