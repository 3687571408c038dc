package model

import (
	"errors"
	"fmt"
	"math"
)

// Generator describes a thermal unit participating in the commitment.
// Fuel cost for an output p (MW) over one hour is A*p^2 + B*p + C.
type Generator struct {
	MinOutput float64 `json:"min_output" yaml:"min_output"`
	MaxOutput float64 `json:"max_output" yaml:"max_output"`
	A         float64 `json:"a" yaml:"a"`
	B         float64 `json:"b" yaml:"b"`
	C         float64 `json:"c" yaml:"c"`
	MinUp     int     `json:"t_min_up" yaml:"t_min_up"`
	MinDown   int     `json:"t_min_down" yaml:"t_min_down"`
	HotCost   float64 `json:"hot_cost" yaml:"hot_cost"`
	ColdCost  float64 `json:"cold_cost" yaml:"cold_cost"`
	ColdHrs   int     `json:"cold_hrs" yaml:"cold_hrs"`
	// Status is the signed number of periods the unit has been online (>0)
	// or offline (<0) before the first period of the horizon.
	Status int `json:"status" yaml:"status"`
}

// Validate checks that the generator can be dispatched. A zero quadratic
// coefficient is rejected because lambda iteration divides by it.
func (g Generator) Validate() error {
	for _, v := range []float64{g.MinOutput, g.MaxOutput, g.A, g.B, g.C, g.HotCost, g.ColdCost} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("non-finite coefficient")
		}
	}
	if g.MinOutput < 0 {
		return fmt.Errorf("min_output must be non-negative, got %v", g.MinOutput)
	}
	if g.MaxOutput < g.MinOutput {
		return fmt.Errorf("max_output %v below min_output %v", g.MaxOutput, g.MinOutput)
	}
	if g.A <= 0 {
		return fmt.Errorf("quadratic coefficient a must be positive, got %v", g.A)
	}
	if g.MinUp < 0 || g.MinDown < 0 || g.ColdHrs < 0 {
		return errors.New("time constraints must be non-negative")
	}
	if g.HotCost < 0 || g.ColdCost < 0 {
		return errors.New("start costs must be non-negative")
	}
	if g.Status == 0 {
		return errors.New("status must be non-zero")
	}
	return nil
}

// Online reports whether the unit is committed in the period preceding the horizon.
func (g Generator) Online() bool { return g.Status > 0 }

// StartCost returns the cost of starting the unit after offFor periods offline.
func (g Generator) StartCost(offFor int) float64 {
	if offFor <= g.ColdHrs {
		return g.HotCost
	}
	return g.ColdCost
}

// Fleet is an index-stable ordered set of generators.
type Fleet []Generator

// Validate checks every unit of the fleet.
func (f Fleet) Validate() error {
	if len(f) == 0 {
		return errors.New("fleet is empty")
	}
	for i, g := range f {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("generator %d: %w", i, err)
		}
	}
	return nil
}

// InitStatus returns the signed initial status of every unit.
func (f Fleet) InitStatus() []int {
	st := make([]int, len(f))
	for i, g := range f {
		st[i] = g.Status
	}
	return st
}

// Capacity returns the summed maximum output of the units flagged online.
func (f Fleet) Capacity(online []int8) float64 {
	var total float64
	for i, on := range online {
		if on > 0 {
			total += f[i].MaxOutput
		}
	}
	return total
}
