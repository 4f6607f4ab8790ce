package pricing

import (
	"encoding/json"
	"fmt"
	"os"
)

// ComplexityLevel grades a complexity-score band. Levels are matched in
// order; the first level whose MaxScore covers the score wins.
type ComplexityLevel struct {
	MaxScore   float64 `json:"max_score"`
	Multiplier float64 `json:"multiplier"`
	Label      string  `json:"label"`
}

// EfficiencyLevel grades a fill-ratio band. Levels are matched in
// order; the first level whose MinFill the ratio reaches wins.
type EfficiencyLevel struct {
	MinFill   float64 `json:"min_fill"`
	Surcharge float64 `json:"surcharge"`
	Label     string  `json:"label"`
}

// Config holds the pricing rates and grading tiers.
type Config struct {
	MaterialRate     float64           `json:"material_rate"`   // won per mm²
	ProcessingRate   float64           `json:"processing_rate"` // won per mm of outline
	Margin           float64           `json:"margin"`
	ComplexityLevels []ComplexityLevel `json:"complexity_levels"`
	EfficiencyLevels []EfficiencyLevel `json:"efficiency_levels"`
}

// DefaultConfig returns the standard rate card.
func DefaultConfig() Config {
	return Config{
		MaterialRate:   0.07,
		ProcessingRate: 1.86,
		Margin:         2.98,
		ComplexityLevels: []ComplexityLevel{
			{MaxScore: 0.25, Multiplier: 1.0, Label: "Simple"},
			{MaxScore: 0.5, Multiplier: 1.1, Label: "Normal"},
			{MaxScore: 0.75, Multiplier: 1.25, Label: "Complex"},
			{MaxScore: 1.0, Multiplier: 1.4, Label: "Very complex"},
		},
		EfficiencyLevels: []EfficiencyLevel{
			{MinFill: 0.85, Surcharge: 1.0, Label: "Excellent"},
			{MinFill: 0.65, Surcharge: 1.1, Label: "Good"},
			{MinFill: 0.45, Surcharge: 1.2, Label: "Fair"},
			{MinFill: 0.0, Surcharge: 1.35, Label: "Poor"},
		},
	}
}

// LoadConfig reads the rate card from a JSON file, falling back to
// defaults when the file does not exist.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read pricing config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse pricing config: %w", err)
	}
	if len(cfg.ComplexityLevels) == 0 {
		cfg.ComplexityLevels = DefaultConfig().ComplexityLevels
	}
	if len(cfg.EfficiencyLevels) == 0 {
		cfg.EfficiencyLevels = DefaultConfig().EfficiencyLevels
	}
	return cfg, nil
}
