package artwork

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(t *testing.T, w, h int, withAlpha bool) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := uint8(255)
			if withAlpha && x < w/2 {
				a = 0
			}
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: a})
		}
	}

	path := filepath.Join(t.TempDir(), "artwork.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create temp png: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode temp png: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeTestPNG(t, 40, 30, false)

	art, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	w, h := art.NaturalSize()
	if w != 40 || h != 30 {
		t.Errorf("NaturalSize = %dx%d, want 40x30", w, h)
	}
	if art.Format != "png" {
		t.Errorf("Format = %q, want png", art.Format)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/artwork.png"); err == nil {
		t.Error("Load of missing file returned nil error")
	}
}

func TestHasAlpha(t *testing.T) {
	opaque, err := Load(writeTestPNG(t, 32, 32, false))
	if err != nil {
		t.Fatal(err)
	}
	transparent, err := Load(writeTestPNG(t, 32, 32, true))
	if err != nil {
		t.Fatal(err)
	}

	if opaque.HasAlpha() {
		t.Error("opaque image reported alpha")
	}
	if !transparent.HasAlpha() {
		t.Error("transparent image reported no alpha")
	}
}

func TestDisplayScale(t *testing.T) {
	tests := []struct {
		name           string
		container, nat int
		want           float64
	}{
		{"half", 500, 1000, 0.5},
		{"fits", 800, 400, 1}, // never enlarged
		{"exact", 640, 640, 1},
		{"zero natural", 500, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayScale(tt.container, tt.nat); got != tt.want {
				t.Errorf("DisplayScale(%d, %d) = %v, want %v", tt.container, tt.nat, got, tt.want)
			}
		})
	}
}

func TestScaleForDisplay(t *testing.T) {
	art, err := Load(writeTestPNG(t, 100, 60, false))
	if err != nil {
		t.Fatal(err)
	}

	scaled := art.ScaleForDisplay(0.5)
	b := scaled.Bounds()
	if b.Dx() != 50 || b.Dy() != 30 {
		t.Errorf("scaled size = %dx%d, want 50x30", b.Dx(), b.Dy())
	}

	// Scale 1 returns a same-size copy
	full := art.ScaleForDisplay(1)
	if full.Bounds().Dx() != 100 || full.Bounds().Dy() != 60 {
		t.Errorf("unit scale changed dimensions: %v", full.Bounds())
	}
}

func TestIsSupported(t *testing.T) {
	for _, path := range []string{"a.png", "b.JPG", "c.jpeg", "d.tiff", "e.tif"} {
		if !IsSupported(path) {
			t.Errorf("IsSupported(%q) = false", path)
		}
	}
	for _, path := range []string{"a.gif", "b.bmp", "c.svg", "noext"} {
		if IsSupported(path) {
			t.Errorf("IsSupported(%q) = true", path)
		}
	}
}
