package cost

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/ucga/core/model"
	"github.com/kilianp07/ucga/core/schedule"
)

// FuelCost prices a dispatch matrix with the quadratic cost curves. Units
// producing exactly zero cost nothing, even when committed.
func FuelCost(dispatch *mat.Dense, fleet model.Fleet, periodHours float64) float64 {
	periods, units := dispatch.Dims()
	var total float64
	for t := 0; t < periods; t++ {
		for n := 0; n < units; n++ {
			p := dispatch.At(t, n)
			if p <= 0 {
				continue
			}
			g := fleet[n]
			total += periodHours * (g.A*p*p + g.B*p + g.C)
		}
	}
	return total
}

// StartCost sums hot and cold start costs. A start is an off to on
// transition, including the boundary between initStatus and period 0; it is
// hot when the preceding offline run did not exceed the unit's cold threshold.
func StartCost(fleet model.Fleet, s schedule.Integer, initStatus []int) float64 {
	var total float64
	for t, row := range s {
		for n, cur := range row {
			prev := previous(s, initStatus, t, n)
			if cur > 0 && prev <= 0 {
				total += fleet[n].StartCost(abs(prev))
			}
		}
	}
	return total
}

// Violations counts, per period, starts that break minimum down time, stops
// that break minimum up time, and periods whose committed capacity is below
// (1+reserveMargin) times demand.
func Violations(fleet model.Fleet, s schedule.Integer, initStatus []int, reserveMargin float64, demand model.Demand) int {
	maxOut := make([]float64, len(fleet))
	for i, g := range fleet {
		maxOut[i] = g.MaxOutput
	}
	online := make([]float64, len(fleet))
	var count int
	for t, row := range s {
		for n, cur := range row {
			prev := previous(s, initStatus, t, n)
			switch {
			case cur > 0 && prev <= 0 && abs(prev) < fleet[n].MinDown:
				count++
			case cur <= 0 && prev > 0 && prev < fleet[n].MinUp:
				count++
			}
			online[n] = 0
			if cur > 0 {
				online[n] = 1
			}
		}
		if floats.Dot(online, maxOut) < (1+reserveMargin)*demand[t] {
			count++
		}
	}
	return count
}

// ConstraintCost is the number of violations times penalty.
func ConstraintCost(fleet model.Fleet, s schedule.Integer, initStatus []int, penalty, reserveMargin float64, demand model.Demand) float64 {
	return float64(Violations(fleet, s, initStatus, reserveMargin, demand)) * penalty
}

func previous(s schedule.Integer, initStatus []int, t, n int) int {
	if t == 0 {
		return initStatus[n]
	}
	return s[t-1][n]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
