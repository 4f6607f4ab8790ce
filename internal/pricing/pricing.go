// Package pricing computes production quotes for custom-cut acrylic parts
// from measured shape metrics.
package pricing

import (
	"fmt"
	"math"

	"cutline-studio/internal/analyzer"
)

// Acrylic panel stock and order constants.
const (
	PanelWidthMM  = 406.4
	PanelHeightMM = 609.6
	PartMarginMM  = 5     // Clearance around each part on the panel
	SampleFee     = 10000 // Flat fee for orders below the panel minimum, in won
)

// Breakdown itemizes a single part's unit price.
type Breakdown struct {
	MaterialCost   float64 `json:"material_cost"`
	ProcessingCost float64 `json:"processing_cost"`

	ComplexityMultiplier float64 `json:"complexity_multiplier"`
	ComplexityLabel      string  `json:"complexity_label"`
	ComplexityScore      float64 `json:"complexity_score"`
	OutlineLengthScore   float64 `json:"outline_length_score"`
	DirectionChangeScore float64 `json:"direction_change_score"`

	EfficiencyMultiplier float64 `json:"efficiency_multiplier"`
	EfficiencyLabel      string  `json:"efficiency_label"`
	FillRatio            float64 `json:"fill_ratio"`

	Margin      float64 `json:"margin"`
	DrillingFee int     `json:"drilling_fee"`
	UnitPrice   int     `json:"unit_price"`

	AreaMM2      float64 `json:"area_mm2"`
	PerimeterMM  float64 `json:"perimeter_mm"`
	BBoxWidthMM  float64 `json:"bbox_width_mm"`
	BBoxHeightMM float64 `json:"bbox_height_mm"`
}

// Quote extends a unit-price breakdown with quantity and panel terms.
type Quote struct {
	Breakdown

	Quantity    int    `json:"quantity"`
	MinQuantity int    `json:"min_quantity"`
	LayoutInfo  string `json:"layout_info"`
	Subtotal    int    `json:"subtotal"`
	SampleFee   int    `json:"sample_fee"`
	TotalPrice  int    `json:"total_price"`
	IsSample    bool   `json:"is_sample"`
}

// Service computes quotes against a pricing configuration.
type Service struct {
	cfg Config
}

// NewService creates a pricing service.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// ComplexityMultiplier maps a 0..1 complexity score onto a surcharge
// multiplier and a human-readable grade.
func (s *Service) ComplexityMultiplier(score float64) (float64, string) {
	for _, level := range s.cfg.ComplexityLevels {
		if score <= level.MaxScore {
			return level.Multiplier, level.Label
		}
	}
	return 1.4, "Very complex"
}

// EfficiencySurcharge maps a 0..1 fill ratio onto a panel-efficiency
// surcharge. Sparse shapes waste panel area around the bounding box.
func (s *Service) EfficiencySurcharge(fillRatio float64) (float64, string) {
	for _, level := range s.cfg.EfficiencyLevels {
		if fillRatio >= level.MinFill {
			return level.Surcharge, level.Label
		}
	}
	return 1.35, "Poor"
}

// UnitPrice computes the per-part price from mm-converted metrics.
// Material cost scales with area, processing cost with outline length;
// complexity and panel efficiency apply as multipliers before margin.
// The result is rounded up to the nearest 10 won, then the drilling fee
// is added.
func (s *Service) UnitPrice(m analyzer.ShapeMetrics, drillingFee int) Breakdown {
	materialCost := m.AreaMM2 * s.cfg.MaterialRate
	processingCost := m.PerimeterMM * s.cfg.ProcessingRate

	complexityMult, complexityLabel := s.ComplexityMultiplier(m.ComplexityScore)
	efficiencyMult, efficiencyLabel := s.EfficiencySurcharge(m.FillRatio)

	raw := (materialCost + processingCost) * complexityMult * efficiencyMult * s.cfg.Margin
	unit := int(math.Ceil(raw/10))*10 + drillingFee

	return Breakdown{
		MaterialCost:         round1(materialCost),
		ProcessingCost:       round1(processingCost),
		ComplexityMultiplier: complexityMult,
		ComplexityLabel:      complexityLabel,
		ComplexityScore:      m.ComplexityScore,
		OutlineLengthScore:   m.OutlineLengthScore,
		DirectionChangeScore: m.DirectionChangeScore,
		EfficiencyMultiplier: efficiencyMult,
		EfficiencyLabel:      efficiencyLabel,
		FillRatio:            m.FillRatio,
		Margin:               s.cfg.Margin,
		DrillingFee:          drillingFee,
		UnitPrice:            unit,
		AreaMM2:              m.AreaMM2,
		PerimeterMM:          m.PerimeterMM,
		BBoxWidthMM:          m.BBoxWidthMM,
		BBoxHeightMM:         m.BBoxHeightMM,
	}
}

// MinQuantity computes how many parts of the given size fit on one
// panel, trying both the upright and the 90°-rotated grid. Orders below
// this count are sample runs.
func (s *Service) MinQuantity(widthMM, heightMM float64) (int, string) {
	actualW := widthMM + PartMarginMM*2
	actualH := heightMM + PartMarginMM*2
	if actualW <= 0 || actualH <= 0 {
		return 0, ""
	}

	cols1 := int(math.Floor(PanelWidthMM / actualW))
	rows1 := int(math.Floor(PanelHeightMM / actualH))
	count1 := cols1 * rows1

	cols2 := int(math.Floor(PanelWidthMM / actualH))
	rows2 := int(math.Floor(PanelHeightMM / actualW))
	count2 := cols2 * rows2

	if count1 >= count2 {
		return count1, fmt.Sprintf("%d x %d layout", cols1, rows1)
	}
	return count2, fmt.Sprintf("%d x %d layout (rotated 90°)", cols2, rows2)
}

// FullQuote produces the complete order quote: unit price, panel
// minimum, and sample fee when the order is below it.
func (s *Service) FullQuote(m analyzer.ShapeMetrics, quantity, drillingFee int) Quote {
	breakdown := s.UnitPrice(m, drillingFee)
	minQty, layout := s.MinQuantity(m.BBoxWidthMM, m.BBoxHeightMM)

	subtotal := breakdown.UnitPrice * quantity
	isSample := quantity < minQty
	sampleFee := 0
	if isSample {
		sampleFee = SampleFee
	}

	return Quote{
		Breakdown:   breakdown,
		Quantity:    quantity,
		MinQuantity: minQty,
		LayoutInfo:  layout,
		Subtotal:    subtotal,
		SampleFee:   sampleFee,
		TotalPrice:  subtotal + sampleFee,
		IsSample:    isSample,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
