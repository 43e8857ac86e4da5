// Package config provides YAML-based game configuration loading.
package config

import "time"

// BlastConfig contains all tunables for the block puzzle.
type BlastConfig struct {
	Dispenser DispenserConfig `yaml:"dispenser"`
	Hint      HintConfig      `yaml:"hint"`
	History   HistoryConfig   `yaml:"history"`
	Save      SaveConfig      `yaml:"save"`
}

// DispenserConfig controls piece frequency.
type DispenserConfig struct {
	WeightCap int `yaml:"weight_cap"` // copies per batch = max(1, weight_cap - cells)
	BagMin    int `yaml:"bag_min"`    // refill threshold
}

// HintConfig controls the hint highlight blink.
type HintConfig struct {
	Flashes    int `yaml:"flashes"`
	IntervalMS int `yaml:"interval_ms"`
}

// HistoryConfig controls undo.
type HistoryConfig struct {
	Limit int `yaml:"limit"` // 0 = unlimited
}

// SaveConfig controls autosave.
type SaveConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Normalize replaces out-of-range values with defaults.
func (c *BlastConfig) Normalize() {
	def := DefaultBlastConfig()

	if c.Dispenser.WeightCap < 2 {
		c.Dispenser.WeightCap = def.Dispenser.WeightCap
	}
	if c.Dispenser.BagMin < 1 {
		c.Dispenser.BagMin = def.Dispenser.BagMin
	}
	if c.Hint.Flashes < 0 {
		c.Hint.Flashes = def.Hint.Flashes
	}
	if c.Hint.IntervalMS <= 0 {
		c.Hint.IntervalMS = def.Hint.IntervalMS
	}
	if c.History.Limit < 0 {
		c.History.Limit = 0
	}
}

// HintInterval returns the blink interval.
func (c BlastConfig) HintInterval() time.Duration {
	return time.Duration(c.Hint.IntervalMS) * time.Millisecond
}
