package cutline

import (
	"encoding/json"
	"fmt"
	"os"
)

// KeyringHoleConfig describes the hanging-ring hole geometry.
type KeyringHoleConfig struct {
	DiameterMM     float64 `json:"diameter_mm"`
	EdgeDistanceMM float64 `json:"edge_distance_mm"`
	BridgeWidthMM  float64 `json:"bridge_width_mm"`
}

// InternalHoleConfig describes the punch hole cut inside the shape.
type InternalHoleConfig struct {
	WidthMM        float64 `json:"width_mm"`
	HeightMM       float64 `json:"height_mm"`
	EdgeDistanceMM float64 `json:"edge_distance_mm"`
}

// Config holds the cutting-line generation parameters.
type Config struct {
	PrintOffsetMM   float64            `json:"print_offset_mm"`
	CuttingOffsetMM float64            `json:"cutting_offset_mm"`
	SmoothingFactor float64            `json:"smoothing_factor"`
	KeyringHole     KeyringHoleConfig  `json:"keyring_hole"`
	InternalHole    InternalHoleConfig `json:"internal_hole"`
	DrillingFee     int                `json:"drilling_fee"`
}

// DefaultConfig returns the standard production parameters.
func DefaultConfig() Config {
	return Config{
		PrintOffsetMM:   2.0,
		CuttingOffsetMM: 2.0,
		SmoothingFactor: 0.02,
		KeyringHole: KeyringHoleConfig{
			DiameterMM:     4.0,
			EdgeDistanceMM: 3.0,
			BridgeWidthMM:  2.5,
		},
		InternalHole: InternalHoleConfig{
			WidthMM:        3.214,
			HeightMM:       3.168,
			EdgeDistanceMM: 5.0,
		},
		DrillingFee: 100,
	}
}

// LoadConfig reads the cutting configuration from a JSON file, falling
// back to defaults when the file does not exist.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read cutting config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse cutting config: %w", err)
	}
	return cfg, nil
}

// KeyringSizeAdditionMM reports how much the hanging ring grows the
// overall part size: the ring and its bridge protrude past the cutting
// line on the chosen side.
func KeyringSizeAdditionMM(cfg Config, position HolePosition) (widthAddMM, heightAddMM float64) {
	protrusion := cfg.KeyringHole.EdgeDistanceMM + cfg.KeyringHole.DiameterMM + tabMarginMM

	switch position {
	case PositionLeft, PositionRight:
		return protrusion, 0
	default: // top, bottom
		return 0, protrusion
	}
}
