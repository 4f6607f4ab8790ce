package editor

import (
	"image/color"

	"cutline-studio/pkg/colorutil"
)

// Options configures the editor's interaction thresholds and the colors
// the surface uses to render its state.
type Options struct {
	StrokeColor       color.RGBA // Path outline color
	FillColor         color.RGBA // Translucent fill for closed shapes
	AnchorColor       color.RGBA // First polygon vertex (closure anchor); freehand start marker
	EndColor          color.RGBA // Freehand end marker
	VertexRadius      float64    // Vertex marker radius, display pixels
	CloseThreshold    float64    // Max distance from anchor for a closing click
	PolygonLineWidth  int        // Line width for polygon paths
	FreehandLineWidth int        // Line width for freehand paths
	MaxExportPoints   int        // Freehand export point cap
}

// DefaultOptions returns the standard editor configuration.
func DefaultOptions() Options {
	return Options{
		StrokeColor:       colorutil.Blue,
		FillColor:         colorutil.WithAlpha(colorutil.Blue, 64),
		AnchorColor:       colorutil.Yellow,
		EndColor:          colorutil.Green,
		VertexRadius:      5,
		CloseThreshold:    15, // Display-space pixels around the anchor
		PolygonLineWidth:  2,
		FreehandLineWidth: 3,
		MaxExportPoints:   200,
	}
}
