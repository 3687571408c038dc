package config

import (
	"fmt"

	"github.com/kilianp07/ucga/pkg/export"
)

// OutputConfig defines where and how run results are written.
type OutputConfig struct {
	// Dir receives the result files.
	Dir string `json:"dir"`
	// Format is "json" or "csv".
	Format string `json:"format"`
	// Dispatch adds the elite's economic dispatch to the result.
	Dispatch bool `json:"dispatch"`
	// Chart writes convergence.html next to the result files.
	Chart bool `json:"chart"`
}

// SetDefaults applies sane defaults.
func (c *OutputConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "out"
	}
	if c.Format == "" {
		c.Format = export.FormatJSON
	}
}

// Validate checks the format.
func (c OutputConfig) Validate() error {
	if c.Format != export.FormatJSON && c.Format != export.FormatCSV {
		return fmt.Errorf("unknown format %s", c.Format)
	}
	return nil
}
