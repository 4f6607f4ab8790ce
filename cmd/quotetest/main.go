// Command quotetest computes a production quote for an artwork image or an
// exported shape points file.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"cutline-studio/internal/analyzer"
	"cutline-studio/internal/cutline"
	"cutline-studio/internal/editor"
	"cutline-studio/internal/pricing"
	"cutline-studio/pkg/geometry"
)

func main() {
	imagePath := flag.String("image", "", "Path to artwork image (PNG, JPEG, or TIFF)")
	pointsPath := flag.String("points", "", "Path to an exported shape points JSON file")
	widthMM := flag.Float64("width", 50, "Target part width in mm")
	heightMM := flag.Float64("height", 50, "Target part height in mm")
	quantity := flag.Int("quantity", 1, "Order quantity")
	keyring := flag.Bool("keyring", false, "Quote as a keyring (adds the drilling fee)")
	configPath := flag.String("config", "", "Optional pricing config JSON")
	asJSON := flag.Bool("json", false, "Print the quote as JSON")
	flag.Parse()

	if *imagePath == "" && *pointsPath == "" {
		fmt.Println("Usage: quotetest -image <path> | -points <path> [-width 50] [-height 50] [-quantity 1] [-keyring] [-json]")
		os.Exit(1)
	}

	cfg := pricing.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = pricing.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
	}

	var metrics analyzer.ShapeMetrics
	if *pointsPath != "" {
		var err error
		metrics, err = metricsFromPointsFile(*pointsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Shape analysis failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		var err error
		metrics, err = analyzer.AnalyzeImage(*imagePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Shape analysis failed: %v\n", err)
			os.Exit(1)
		}
	}
	metrics = analyzer.ConvertToMM(metrics, *widthMM, *heightMM)

	drillingFee := 0
	if *keyring {
		drillingFee = cutline.DefaultConfig().DrillingFee
	}

	svc := pricing.NewService(cfg)
	quote := svc.FullQuote(metrics, *quantity, drillingFee)

	if *asJSON {
		out, err := json.MarshalIndent(quote, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode quote: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}

	fmt.Printf("Shape: %.1fx%.1f mm, area %.1f mm2, perimeter %.1f mm\n",
		quote.BBoxWidthMM, quote.BBoxHeightMM, quote.AreaMM2, quote.PerimeterMM)
	fmt.Printf("Complexity: %.3f (%s, x%.2f)\n",
		quote.ComplexityScore, quote.ComplexityLabel, quote.ComplexityMultiplier)
	fmt.Printf("Fill ratio: %.3f (%s, x%.2f)\n",
		quote.FillRatio, quote.EfficiencyLabel, quote.EfficiencyMultiplier)
	fmt.Printf("Material: %.1f, processing: %.1f, margin: x%.2f\n",
		quote.MaterialCost, quote.ProcessingCost, quote.Margin)
	if quote.DrillingFee > 0 {
		fmt.Printf("Drilling fee: %d\n", quote.DrillingFee)
	}
	fmt.Printf("\nUnit price: %d\n", quote.UnitPrice)
	fmt.Printf("Minimum quantity: %d (%s)\n", quote.MinQuantity, quote.LayoutInfo)
	fmt.Printf("Quantity: %d, subtotal: %d\n", quote.Quantity, quote.Subtotal)
	if quote.IsSample {
		fmt.Printf("Sample fee: %d\n", quote.SampleFee)
	}
	fmt.Printf("Total: %d\n", quote.TotalPrice)
}

// metricsFromPointsFile computes metrics from a JSON array of image-space
// shape points, the format the editor exports.
func metricsFromPointsFile(path string) (analyzer.ShapeMetrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return analyzer.ShapeMetrics{}, fmt.Errorf("read points file: %w", err)
	}
	var raw []editor.ImagePoint
	if err := json.Unmarshal(data, &raw); err != nil {
		return analyzer.ShapeMetrics{}, fmt.Errorf("parse points file: %w", err)
	}

	pts := make([]geometry.Point2D, len(raw))
	for i, p := range raw {
		pts[i] = geometry.Point2D{X: float64(p.X), Y: float64(p.Y)}
	}
	m, ok := analyzer.MetricsFromPoints(pts)
	if !ok {
		return analyzer.ShapeMetrics{}, fmt.Errorf("points file %s does not describe a usable shape", path)
	}
	return m, nil
}
