package geometry

import "math"

// Area computes the area of a simple closed polygon using the shoelace
// formula. The result is always non-negative regardless of winding order.
func Area(polygon []Point2D) float64 {
	if len(polygon) < 3 {
		return 0
	}

	var sum float64
	n := len(polygon)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += polygon[i].X*polygon[j].Y - polygon[j].X*polygon[i].Y
	}
	return math.Abs(sum) / 2
}

// Perimeter computes the total edge length of a closed polygon, including
// the closing edge from the last point back to the first.
func Perimeter(polygon []Point2D) float64 {
	if len(polygon) < 2 {
		return 0
	}

	var sum float64
	n := len(polygon)
	for i := 0; i < n; i++ {
		sum += polygon[i].Distance(polygon[(i+1)%n])
	}
	return sum
}

// PointInPolygon tests if a point is inside a polygon using ray casting.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// Simplify reduces the vertex count of a path using the Douglas-Peucker
// algorithm. Points further than epsilon from the simplified path are kept.
// The first and last points are always retained.
func Simplify(path []Point2D, epsilon float64) []Point2D {
	if len(path) < 3 || epsilon <= 0 {
		return path
	}

	// Find the point with maximum distance from the line first-last
	first, last := path[0], path[len(path)-1]
	maxDist := 0.0
	maxIdx := 0
	for i := 1; i < len(path)-1; i++ {
		d := perpendicularDistance(path[i], first, last)
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}

	if maxDist <= epsilon {
		return []Point2D{first, last}
	}

	left := Simplify(path[:maxIdx+1], epsilon)
	right := Simplify(path[maxIdx:], epsilon)

	// Merge, dropping the duplicated split point
	merged := make([]Point2D, 0, len(left)+len(right)-1)
	merged = append(merged, left[:len(left)-1]...)
	merged = append(merged, right...)
	return merged
}

// perpendicularDistance returns the distance from p to the line through a and b.
func perpendicularDistance(p, a, b Point2D) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := math.Sqrt(dx*dx + dy*dy)
	if length < 1e-10 {
		return p.Distance(a)
	}
	return math.Abs(dy*p.X-dx*p.Y+b.X*a.Y-b.Y*a.X) / length
}

// SmoothClosed applies a circular moving average to a closed path,
// producing a smoother outline while preserving overall shape. The window
// must be odd; even windows are widened by one. Paths shorter than three
// windows are returned unchanged.
func SmoothClosed(path []Point2D, window, passes int) []Point2D {
	n := len(path)
	if window < 3 {
		window = 3
	}
	if window%2 == 0 {
		window++
	}
	if n < window*3 || passes < 1 {
		return path
	}

	pts := make([]Point2D, n)
	copy(pts, path)
	half := window / 2

	for pass := 0; pass < passes; pass++ {
		result := make([]Point2D, n)
		for i := 0; i < n; i++ {
			var sx, sy float64
			for j := -half; j <= half; j++ {
				k := ((i+j)%n + n) % n
				sx += pts[k].X
				sy += pts[k].Y
			}
			w := float64(window)
			result[i] = Point2D{X: sx / w, Y: sy / w}
		}
		pts = result
	}

	return pts
}

// Resample returns up to target points taken at uniform index spacing from
// the path. The first point is always included. Paths at or below the
// target are returned unchanged.
func Resample(path []Point2D, target int) []Point2D {
	n := len(path)
	if target <= 1 || n <= target {
		return path
	}

	out := make([]Point2D, 0, target)
	for i := 0; i < target; i++ {
		idx := i * (n - 1) / (target - 1)
		out = append(out, path[idx])
	}
	return out
}
