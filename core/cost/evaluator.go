package cost

import (
	"fmt"

	"github.com/kilianp07/ucga/core/dispatch"
	"github.com/kilianp07/ucga/core/model"
	"github.com/kilianp07/ucga/core/schedule"
)

// ScenarioOffsets are the demand deviations, in standard deviations, of the
// realisations used by Expected.
var ScenarioOffsets = [5]float64{-2, -1, 0, 1, 2}

// ScenarioWeights are the probabilities attached to ScenarioOffsets.
var ScenarioWeights = [5]float64{0.023, 0.136, 0.682, 0.136, 0.023}

// Breakdown itemises the cost of a schedule against the forecast demand.
type Breakdown struct {
	Fuel            float64 `json:"fuel"`
	Start           float64 `json:"start"`
	LostLoad        float64 `json:"lost_load"`
	Constraint      float64 `json:"constraint"`
	Violations      int     `json:"violations"`
	EnergyNotServed float64 `json:"energy_not_served"`
	// Expected is the probability-weighted operating cost over all realisations.
	Expected float64 `json:"expected"`
}

// Total is the deterministic cost against the forecast.
func (b Breakdown) Total() float64 {
	return b.Fuel + b.Start + b.LostLoad + b.Constraint
}

// Evaluator prices schedules for a fixed fleet and demand profile. It holds
// no mutable state and is safe for concurrent use.
type Evaluator struct {
	fleet     model.Fleet
	demand    model.Demand
	init      []int
	params    Params
	solver    *dispatch.Solver
	scenarios [5]model.Demand
}

// NewEvaluator validates the inputs and precomputes the demand realisations.
func NewEvaluator(fleet model.Fleet, demand model.Demand, params Params, solver *dispatch.Solver) (*Evaluator, error) {
	if err := fleet.Validate(); err != nil {
		return nil, fmt.Errorf("fleet: %w", err)
	}
	if err := demand.Validate(); err != nil {
		return nil, fmt.Errorf("demand: %w", err)
	}
	params.SetDefaults()
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("cost params: %w", err)
	}
	if solver == nil {
		return nil, fmt.Errorf("dispatch solver is nil")
	}
	e := &Evaluator{fleet: fleet, demand: demand, init: fleet.InitStatus(), params: params, solver: solver}
	for i, k := range ScenarioOffsets {
		e.scenarios[i] = demand.Scale(1 + params.Uncertainty*k)
	}
	return e, nil
}

// Fleet returns the evaluated fleet.
func (e *Evaluator) Fleet() model.Fleet { return e.fleet }

// Demand returns the forecast demand.
func (e *Evaluator) Demand() model.Demand { return e.demand }

// InitStatus returns the fleet status preceding the horizon.
func (e *Evaluator) InitStatus() []int { return append([]int(nil), e.init...) }

// Params returns the effective economic settings.
func (e *Evaluator) Params() Params { return e.params }

// Total returns fuel + VOLL*ENS + start + constraint cost against the
// forecast demand.
func (e *Evaluator) Total(s schedule.Integer, penalty float64) (float64, error) {
	b, err := e.deterministic(s, penalty)
	if err != nil {
		return 0, err
	}
	return b.Total(), nil
}

// Expected returns start cost plus the probability-weighted fuel and lost
// load cost over the demand realisations. Start cost does not depend on
// demand and is counted once.
func (e *Evaluator) Expected(s schedule.Integer) (float64, error) {
	if err := e.checkShape(s); err != nil {
		return 0, err
	}
	b := schedule.ToBinary(s)
	total := StartCost(e.fleet, s, e.init)
	for i, d := range e.scenarios {
		res, err := e.solver.Schedule(e.fleet, b, d)
		if err != nil {
			return 0, fmt.Errorf("scenario %+.0f sigma: %w", ScenarioOffsets[i], err)
		}
		fuel := FuelCost(res.Dispatch, e.fleet, e.params.PeriodHours)
		total += ScenarioWeights[i] * (fuel + e.params.VOLL*res.EnergyNotServed)
	}
	return total, nil
}

// Fitness is the value minimised by the search: the expected operating cost
// plus the constraint penalty against the forecast.
func (e *Evaluator) Fitness(s schedule.Integer, penalty float64) (float64, error) {
	exp, err := e.Expected(s)
	if err != nil {
		return 0, err
	}
	return exp + ConstraintCost(e.fleet, s, e.init, penalty, e.params.ReserveMargin, e.demand), nil
}

// Breakdown itemises the forecast cost and attaches the expected cost.
func (e *Evaluator) Breakdown(s schedule.Integer, penalty float64) (Breakdown, error) {
	b, err := e.deterministic(s, penalty)
	if err != nil {
		return Breakdown{}, err
	}
	if b.Expected, err = e.Expected(s); err != nil {
		return Breakdown{}, err
	}
	return b, nil
}

func (e *Evaluator) deterministic(s schedule.Integer, penalty float64) (Breakdown, error) {
	if err := e.checkShape(s); err != nil {
		return Breakdown{}, err
	}
	res, err := e.solver.Schedule(e.fleet, schedule.ToBinary(s), e.demand)
	if err != nil {
		return Breakdown{}, err
	}
	v := Violations(e.fleet, s, e.init, e.params.ReserveMargin, e.demand)
	return Breakdown{
		Fuel:            FuelCost(res.Dispatch, e.fleet, e.params.PeriodHours),
		Start:           StartCost(e.fleet, s, e.init),
		LostLoad:        e.params.VOLL * res.EnergyNotServed,
		Constraint:      float64(v) * penalty,
		Violations:      v,
		EnergyNotServed: res.EnergyNotServed,
	}, nil
}

func (e *Evaluator) checkShape(s schedule.Integer) error {
	if s.Periods() != len(e.demand) || s.Units() != len(e.fleet) {
		return fmt.Errorf("schedule shape %dx%d, want %dx%d", s.Periods(), s.Units(), len(e.demand), len(e.fleet))
	}
	return nil
}
