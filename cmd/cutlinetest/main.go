// Command cutlinetest runs cutting-line generation on an artwork image and
// writes the resulting print and cut masks.
package main

import (
	"flag"
	"fmt"
	"os"

	"cutline-studio/internal/analyzer"
	"cutline-studio/internal/cutline"

	"gocv.io/x/gocv"
)

func main() {
	imagePath := flag.String("image", "", "Path to artwork image (PNG, JPEG, or TIFF)")
	widthMM := flag.Float64("width", 50, "Target part width in mm")
	heightMM := flag.Float64("height", 50, "Target part height in mm")
	product := flag.String("product", "objet", "Product type: objet or keyring")
	hole := flag.String("hole", "ring", "Keyring hole type: ring or internal")
	position := flag.String("position", "top", "Keyring hole side: top, bottom, left, or right")
	configPath := flag.String("config", "", "Optional cutting config JSON")
	outPrefix := flag.String("out", "cutline", "Output file prefix")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: cutlinetest -image <path> [-width 50] [-height 50] [-product objet|keyring] [-out prefix]")
		os.Exit(1)
	}

	cfg := cutline.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = cutline.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
	}

	img := gocv.IMRead(*imagePath, gocv.IMReadUnchanged)
	if img.Empty() {
		fmt.Fprintf(os.Stderr, "Failed to read image: %s\n", *imagePath)
		os.Exit(1)
	}
	defer img.Close()
	fmt.Printf("Loaded image: %dx%d pixels, %d channels\n", img.Cols(), img.Rows(), img.Channels())

	mask, err := analyzer.ForegroundMask(img)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Foreground extraction failed: %v\n", err)
		os.Exit(1)
	}
	defer mask.Close()

	metrics, err := analyzer.AnalyzeMask(mask)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Shape analysis failed: %v\n", err)
		os.Exit(1)
	}
	metrics = analyzer.ConvertToMM(metrics, *widthMM, *heightMM)

	fmt.Printf("\nShape:\n")
	fmt.Printf("  Bounding box: %dx%d px (%.1fx%.1f mm)\n",
		metrics.BBoxWidthPx, metrics.BBoxHeightPx, metrics.BBoxWidthMM, metrics.BBoxHeightMM)
	fmt.Printf("  Area: %.1f mm2, perimeter: %.1f mm\n", metrics.AreaMM2, metrics.PerimeterMM)
	fmt.Printf("  Circularity: %.3f, fill ratio: %.3f, complexity: %.3f\n",
		metrics.Circularity, metrics.FillRatio, metrics.ComplexityScore)

	mmPerPx := analyzer.ShapeScaleMM(metrics, *widthMM, *heightMM)
	pxPerMM := 1.0
	if mmPerPx > 0 {
		pxPerMM = 1.0 / mmPerPx
	}

	req := cutline.Request{
		Config:      cfg,
		Product:     cutline.ProductType(*product),
		Hole:        cutline.HoleType(*hole),
		Position:    cutline.HolePosition(*position),
		ScaleMMToPx: pxPerMM,
	}
	result, err := cutline.Generate(mask, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cutting line generation failed: %v\n", err)
		os.Exit(1)
	}
	defer result.Close()

	fmt.Printf("\nOutlines:\n")
	fmt.Printf("  Print line: %d points (offset %.1f px)\n", len(result.PrintOutline), result.PrintOffsetPx)
	fmt.Printf("  Cut line: %d points (offset %.1f px)\n", len(result.CutOutline), result.CutOffsetPx)
	if result.Product == cutline.ProductKeyring {
		switch result.Hole {
		case cutline.HoleRing:
			fmt.Printf("  Ring hole: center (%d, %d), radius %d px\n",
				result.HoleCenter.X, result.HoleCenter.Y, result.HoleRadiusPx)
		case cutline.HoleInternal:
			fmt.Printf("  Punch hole: center (%d, %d), size %dx%d px\n",
				result.HoleCenter.X, result.HoleCenter.Y, result.HoleSizePx.X, result.HoleSizePx.Y)
		}
	}

	printPath := *outPrefix + "_print.png"
	cutPath := *outPrefix + "_cut.png"
	if ok := gocv.IMWrite(printPath, result.PrintMask); !ok {
		fmt.Fprintf(os.Stderr, "Failed to write %s\n", printPath)
		os.Exit(1)
	}
	if ok := gocv.IMWrite(cutPath, result.CutMask); !ok {
		fmt.Fprintf(os.Stderr, "Failed to write %s\n", cutPath)
		os.Exit(1)
	}
	fmt.Printf("\nWrote %s and %s\n", printPath, cutPath)
}
