// Package colorutil provides shared color utilities for the cutline editor.
package colorutil

import (
	"image/color"
)

// Common overlay colors used throughout the application.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red     = color.RGBA{R: 220, G: 53, B: 69, A: 255}
	Green   = color.RGBA{R: 40, G: 167, B: 69, A: 255}
	Blue    = color.RGBA{R: 0, G: 123, B: 255, A: 255}
	Yellow  = color.RGBA{R: 255, G: 193, B: 7, A: 255}
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
)

// WithAlpha returns the color with its alpha channel replaced.
func WithAlpha(c color.RGBA, alpha uint8) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: alpha}
}

// Blend alpha-blends src over dst using the src alpha channel, returning
// an opaque result. An alpha of 255 replaces dst entirely.
func Blend(dst, src color.RGBA) color.RGBA {
	if src.A == 255 {
		return color.RGBA{R: src.R, G: src.G, B: src.B, A: 255}
	}
	if src.A == 0 {
		return dst
	}

	a := float64(src.A) / 255.0
	inv := 1 - a
	return color.RGBA{
		R: uint8(float64(src.R)*a + float64(dst.R)*inv),
		G: uint8(float64(src.G)*a + float64(dst.G)*inv),
		B: uint8(float64(src.B)*a + float64(dst.B)*inv),
		A: 255,
	}
}
