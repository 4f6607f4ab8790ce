package cutline

import (
	"image"
	"math"
	"os"
	"path/filepath"
	"testing"

	"cutline-studio/pkg/geometry"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.PrintOffsetMM != 2.0 || cfg.CuttingOffsetMM != 2.0 {
		t.Errorf("unexpected offsets: print %v cut %v", cfg.PrintOffsetMM, cfg.CuttingOffsetMM)
	}
	if cfg.KeyringHole.DiameterMM != 4.0 {
		t.Errorf("keyring hole diameter = %v, want 4.0", cfg.KeyringHole.DiameterMM)
	}
	if cfg.DrillingFee != 100 {
		t.Errorf("drilling fee = %v, want 100", cfg.DrillingFee)
	}
	if cfg.InternalHole.EdgeDistanceMM != 5.0 {
		t.Errorf("internal hole edge distance = %v, want 5.0", cfg.InternalHole.EdgeDistanceMM)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg != DefaultConfig() {
			t.Error("missing config did not fall back to defaults")
		}
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cutting_config.json")
		data := `{"print_offset_mm": 3.5, "keyring_hole": {"diameter_mm": 5, "edge_distance_mm": 3, "bridge_width_mm": 2.5}}`
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg.PrintOffsetMM != 3.5 {
			t.Errorf("PrintOffsetMM = %v, want 3.5", cfg.PrintOffsetMM)
		}
		if cfg.KeyringHole.DiameterMM != 5 {
			t.Errorf("hole diameter = %v, want 5", cfg.KeyringHole.DiameterMM)
		}
		// Untouched fields keep defaults
		if cfg.CuttingOffsetMM != 2.0 {
			t.Errorf("CuttingOffsetMM = %v, want default 2.0", cfg.CuttingOffsetMM)
		}
	})

	t.Run("malformed file errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Error("malformed config returned nil error")
		}
	})
}

func TestKeyringSizeAddition(t *testing.T) {
	cfg := DefaultConfig()
	// protrusion = edge 3 + diameter 4 + tab margin 1 = 8
	tests := []struct {
		position HolePosition
		wantW    float64
		wantH    float64
	}{
		{PositionTop, 0, 8},
		{PositionBottom, 0, 8},
		{PositionLeft, 8, 0},
		{PositionRight, 8, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.position), func(t *testing.T) {
			w, h := KeyringSizeAdditionMM(cfg, tt.position)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("addition = (%v, %v), want (%v, %v)", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRingHolePlacement(t *testing.T) {
	bbox := geometry.RectInt{X: 100, Y: 200, Width: 400, Height: 300}

	tests := []struct {
		position HolePosition
		want     image.Point
	}{
		{PositionTop, image.Point{X: 300, Y: 200 - 10 - 20}},
		{PositionBottom, image.Point{X: 300, Y: 500 + 10 + 20}},
		{PositionLeft, image.Point{X: 100 - 10 - 20, Y: 350}},
		{PositionRight, image.Point{X: 500 + 10 + 20, Y: 350}},
	}

	for _, tt := range tests {
		t.Run(string(tt.position), func(t *testing.T) {
			center, radius := RingHole(bbox, tt.position, 40, 10)
			if radius != 20 {
				t.Errorf("radius = %d, want 20", radius)
			}
			if center != tt.want {
				t.Errorf("center = %v, want %v", center, tt.want)
			}
		})
	}
}

func TestInternalHolePlacement(t *testing.T) {
	bbox := geometry.RectInt{X: 0, Y: 0, Width: 200, Height: 100}

	center, size := InternalHole(bbox, PositionTop, 10, 12, 15, 200, 100)
	if size != (image.Point{X: 10, Y: 12}) {
		t.Errorf("size = %v, want (10, 12)", size)
	}
	if center != (image.Point{X: 100, Y: 15}) {
		t.Errorf("top center = %v, want (100, 15)", center)
	}

	center, _ = InternalHole(bbox, PositionBottom, 10, 12, 15, 200, 100)
	if center != (image.Point{X: 100, Y: 85}) {
		t.Errorf("bottom center = %v, want (100, 85)", center)
	}

	// Internal holes stay inside the box; ring holes sit outside
	if !bbox.ToFloat().Contains(geometry.Point2D{X: float64(center.X), Y: float64(center.Y)}) {
		t.Error("internal hole placed outside the bounding box")
	}
}

func TestInternalHoleClampedToMask(t *testing.T) {
	// Shape touching the top of the mask: a small edge distance would put
	// the punch partly off-image without clamping.
	bbox := geometry.RectInt{X: 0, Y: 0, Width: 200, Height: 100}

	center, _ := InternalHole(bbox, PositionTop, 10, 12, 2, 200, 100)
	if want := (image.Point{X: 100, Y: 8}); center != want {
		t.Errorf("top center = %v, want clamped %v", center, want)
	}

	center, _ = InternalHole(bbox, PositionBottom, 10, 12, 2, 200, 100)
	if want := (image.Point{X: 100, Y: 92}); center != want {
		t.Errorf("bottom center = %v, want clamped %v", center, want)
	}
}

func TestHoleCenterInOutline(t *testing.T) {
	square := []geometry.Point2D{{10, 10}, {110, 10}, {110, 110}, {10, 110}}

	// A center already inside the outline is untouched.
	in := image.Point{X: 30, Y: 30}
	if got := holeCenterInOutline(in, square); got != in {
		t.Errorf("interior center moved: %v", got)
	}

	// A center outside it falls back to the centroid.
	out := holeCenterInOutline(image.Point{X: 5, Y: 5}, square)
	if want := (image.Point{X: 60, Y: 60}); out != want {
		t.Errorf("fallback center = %v, want centroid %v", out, want)
	}
}

func TestSmoothOutline(t *testing.T) {
	factor := DefaultConfig().SmoothingFactor

	// Short outlines pass through unchanged
	short := []geometry.Point2D{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if got := SmoothOutline(short, factor); len(got) != 4 {
		t.Errorf("short outline changed: %d points", len(got))
	}

	// Long outlines are resampled to at most 400 points
	long := make([]geometry.Point2D, 1000)
	for i := range long {
		angle := float64(i) * 2 * math.Pi / 1000
		long[i] = geometry.Point2D{X: 500 + 300*math.Cos(angle), Y: 500 + 300*math.Sin(angle)}
	}
	got := SmoothOutline(long, factor)
	if len(got) > 400 {
		t.Errorf("smoothed outline has %d points, want <= 400", len(got))
	}
	if len(got) < 100 {
		t.Errorf("smoothed outline collapsed to %d points", len(got))
	}

	// A non-positive factor falls back to the default window.
	if a, b := SmoothOutline(long, 0), SmoothOutline(long, factor); len(a) != len(b) {
		t.Errorf("zero factor produced %d points, default %d", len(a), len(b))
	}

	// A stronger factor averages across a wider window, pulling a jagged
	// outline further toward its mean radius.
	jagged := make([]geometry.Point2D, 1000)
	for i := range jagged {
		angle := float64(i) * 2 * math.Pi / 1000
		r := 300.0
		if i%2 == 0 {
			r = 320
		}
		jagged[i] = geometry.Point2D{X: 500 + r*math.Cos(angle), Y: 500 + r*math.Sin(angle)}
	}
	spread := func(pts []geometry.Point2D) float64 {
		c := geometry.Centroid(pts)
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, p := range pts {
			d := p.Distance(c)
			lo = math.Min(lo, d)
			hi = math.Max(hi, d)
		}
		return hi - lo
	}
	light := spread(SmoothOutline(jagged, 0.005))
	heavy := spread(SmoothOutline(jagged, 0.05))
	if heavy > light {
		t.Errorf("larger factor smoothed less: spread %v > %v", heavy, light)
	}
}

func TestOddAtLeast(t *testing.T) {
	tests := []struct {
		v, lo, want int
	}{
		{2, 3, 3},
		{4, 3, 5},
		{7, 3, 7},
		{0, 7, 7},
		{10, 3, 11},
	}
	for _, tt := range tests {
		if got := oddAtLeast(tt.v, tt.lo); got != tt.want {
			t.Errorf("oddAtLeast(%d, %d) = %d, want %d", tt.v, tt.lo, got, tt.want)
		}
	}
}
