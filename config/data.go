package config

import "fmt"

// DataConfig locates the fleet and demand files.
type DataConfig struct {
	// Fleet is a CSV or YAML generator table.
	Fleet string `json:"fleet"`
	// Demand holds one whitespace-separated value per period.
	Demand string `json:"demand"`
	// DemandScale multiplies every demand value; 0 keeps the profile.
	DemandScale float64 `json:"demand_scale"`
}

// Validate checks mandatory fields.
func (c DataConfig) Validate() error {
	if c.Fleet == "" {
		return fmt.Errorf("fleet path is required")
	}
	if c.Demand == "" {
		return fmt.Errorf("demand path is required")
	}
	if c.DemandScale < 0 {
		return fmt.Errorf("demand_scale must not be negative")
	}
	return nil
}
