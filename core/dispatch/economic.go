package dispatch

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/ucga/core/model"
	"github.com/kilianp07/ucga/core/schedule"
)

// PeriodResult is the dispatch of a single period.
type PeriodResult struct {
	// Output holds one value per generator of the fleet; offline units are 0.
	Output []float64
	// EnergyNotServed is the shortfall (or forced excess) when demand cannot
	// be matched by the committed units. It is 0 when lambda iteration runs.
	EnergyNotServed float64
	Lambda          float64
	Iterations      int
}

// Result is the dispatch of a whole schedule.
type Result struct {
	// Dispatch is a periods x units matrix of outputs.
	Dispatch        *mat.Dense
	EnergyNotServed float64
}

// Solver computes economic dispatch by lambda iteration.
type Solver struct {
	cfg Config
}

// NewSolver validates cfg and returns a Solver.
func NewSolver(cfg Config) (*Solver, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("dispatch config: %w", err)
	}
	return &Solver{cfg: cfg}, nil
}

// Config returns the effective settings.
func (s *Solver) Config() Config { return s.cfg }

type unit struct {
	idx      int
	a, b     float64
	min, max float64
}

// Period allocates demand among the online units. When the committed
// capacity cannot match demand every online unit is pinned at its maximum
// (shortfall) or minimum (forced oversupply) and the mismatch is returned as
// energy not served.
func (s *Solver) Period(fleet model.Fleet, online []int8, demand float64) (PeriodResult, error) {
	if len(online) != len(fleet) {
		return PeriodResult{}, fmt.Errorf("commitment has %d units, fleet has %d", len(online), len(fleet))
	}
	res := PeriodResult{Output: make([]float64, len(fleet))}
	units := make([]unit, 0, len(fleet))
	mins := make([]float64, 0, len(fleet))
	maxs := make([]float64, 0, len(fleet))
	for i, on := range online {
		if on <= 0 {
			continue
		}
		g := fleet[i]
		units = append(units, unit{idx: i, a: g.A, b: g.B, min: g.MinOutput, max: g.MaxOutput})
		mins = append(mins, g.MinOutput)
		maxs = append(maxs, g.MaxOutput)
	}
	sumMax, sumMin := floats.Sum(maxs), floats.Sum(mins)

	switch {
	case sumMax < demand:
		for _, u := range units {
			res.Output[u.idx] = u.max
		}
		res.EnergyNotServed = demand - sumMax
		infeasiblePeriods.WithLabelValues("shortfall").Inc()
		return res, nil
	case sumMin > demand:
		for _, u := range units {
			res.Output[u.idx] = u.min
		}
		res.EnergyNotServed = sumMin - demand
		infeasiblePeriods.WithLabelValues("oversupply").Inc()
		return res, nil
	}

	lambda, iters, err := s.lambdaIteration(units, demand)
	lambdaIterations.Observe(float64(iters))
	if err != nil {
		return PeriodResult{}, err
	}
	for _, u := range units {
		res.Output[u.idx] = u.load(lambda)
	}
	res.Lambda = lambda
	res.Iterations = iters
	return res, nil
}

// Schedule dispatches every period independently and sums energy not served.
func (s *Solver) Schedule(fleet model.Fleet, b schedule.Binary, demand model.Demand) (Result, error) {
	periods, units := b.Periods(), len(fleet)
	if periods == 0 || units == 0 {
		return Result{}, fmt.Errorf("empty schedule: %d periods, %d units", periods, units)
	}
	if len(demand) != periods {
		return Result{}, fmt.Errorf("demand has %d periods, schedule has %d", len(demand), periods)
	}
	out := mat.NewDense(periods, units, nil)
	var ens float64
	for t := 0; t < periods; t++ {
		pr, err := s.Period(fleet, b[t], demand[t])
		if err != nil {
			return Result{}, fmt.Errorf("period %d: %w", t, err)
		}
		out.SetRow(t, pr.Output)
		ens += pr.EnergyNotServed
	}
	return Result{Dispatch: out, EnergyNotServed: ens}, nil
}

// lambdaIteration bisects the marginal price until the clamped outputs sum
// to demand within epsilon.
func (s *Solver) lambdaIteration(units []unit, demand float64) (float64, int, error) {
	lo, hi := s.cfg.LambdaLow, s.cfg.LambdaHigh
	for i := 1; i <= s.cfg.MaxIterations; i++ {
		mid := (lo + hi) / 2
		var total float64
		for _, u := range units {
			total += u.load(mid)
		}
		if math.Abs(total-demand) <= s.cfg.Epsilon {
			return mid, i, nil
		}
		if total > demand {
			hi = mid
		} else {
			lo = mid
		}
	}
	return 0, s.cfg.MaxIterations, fmt.Errorf("%w: demand %.3f after %d iterations in [%v, %v]",
		ErrNoConvergence, demand, s.cfg.MaxIterations, s.cfg.LambdaLow, s.cfg.LambdaHigh)
}

// load is the unconstrained optimum (lambda-b)/a clamped to the unit limits.
func (u unit) load(lambda float64) float64 {
	p := (lambda - u.b) / u.a
	if p < u.min {
		return u.min
	}
	if p > u.max {
		return u.max
	}
	return p
}
