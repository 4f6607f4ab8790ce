// Package artwork provides loading and display scaling of product artwork images.
package artwork

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// Artwork holds a loaded product image and its natural dimensions.
type Artwork struct {
	Path   string
	Image  image.Image
	Format string
}

// Load reads and decodes an artwork image (PNG, JPEG, or TIFF).
func Load(path string) (*Artwork, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artwork: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode artwork %s: %w", filepath.Base(path), err)
	}

	return &Artwork{Path: path, Image: img, Format: format}, nil
}

// NaturalSize returns the unscaled pixel dimensions of the artwork.
func (a *Artwork) NaturalSize() (width, height int) {
	b := a.Image.Bounds()
	return b.Dx(), b.Dy()
}

// HasAlpha reports whether the artwork carries a usable alpha channel.
// Transparent-background PNGs drive the mask strategy in the analyzer.
func (a *Artwork) HasAlpha() bool {
	switch a.Image.(type) {
	case *image.NRGBA, *image.NRGBA64, *image.RGBA, *image.RGBA64:
		_, _, _, opaque := isOpaque(a.Image)
		return !opaque
	default:
		return false
	}
}

func isOpaque(img image.Image) (w, h int, sampled int, opaque bool) {
	b := img.Bounds()
	w, h = b.Dx(), b.Dy()

	// Sample a coarse grid rather than every pixel
	stepX := w/64 + 1
	stepY := h/64 + 1
	opaque = true
	for y := b.Min.Y; y < b.Max.Y; y += stepY {
		for x := b.Min.X; x < b.Max.X; x += stepX {
			sampled++
			if _, _, _, alpha := img.At(x, y).RGBA(); alpha < 0xffff {
				opaque = false
				return
			}
		}
	}
	return
}

// DisplayScale computes the image-to-display scale for a container of
// the given width: the image is shrunk to fit but never enlarged.
func DisplayScale(containerWidth, naturalWidth int) float64 {
	if naturalWidth <= 0 {
		return 1
	}
	scale := float64(containerWidth) / float64(naturalWidth)
	return math.Min(scale, 1)
}

// ScaleForDisplay resamples the artwork to the display size implied by
// the scale factor. A scale of 1 still returns a fresh RGBA copy so
// callers can composite over it freely.
func (a *Artwork) ScaleForDisplay(scale float64) *image.RGBA {
	w, h := a.NaturalSize()
	dw := int(math.Round(float64(w) * scale))
	dh := int(math.Round(float64(h) * scale))
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), a.Image, a.Image.Bounds(), draw.Src, nil)
	return dst
}

// IsSupported reports whether the file extension is a loadable format.
func IsSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff":
		return true
	default:
		return false
	}
}
