package config

import (
	_ "embed"
)

//go:embed defaults/blast.yaml
var defaultBlastYAML []byte

// DefaultBlastConfig returns the built-in configuration.
func DefaultBlastConfig() BlastConfig {
	return BlastConfig{
		Dispenser: DispenserConfig{
			WeightCap: 8,
			BagMin:    10,
		},
		Hint: HintConfig{
			Flashes:    7,
			IntervalMS: 120,
		},
		History: HistoryConfig{
			Limit: 0,
		},
		Save: SaveConfig{
			Enabled: true,
		},
	}
}
