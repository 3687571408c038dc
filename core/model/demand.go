package model

import (
	"errors"
	"fmt"
	"math"
)

// Demand is the forecast load (MW) of every period; its length is the horizon.
type Demand []float64

// Validate rejects empty profiles and negative or non-finite values.
func (d Demand) Validate() error {
	if len(d) == 0 {
		return errors.New("demand profile is empty")
	}
	for t, v := range d {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("demand at period %d invalid: %v", t, v)
		}
	}
	return nil
}

// Scale returns a copy of the profile multiplied by f.
func (d Demand) Scale(f float64) Demand {
	out := make(Demand, len(d))
	for i, v := range d {
		out[i] = v * f
	}
	return out
}
