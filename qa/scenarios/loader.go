package scenarios

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/ucga/core/cost"
	"github.com/kilianp07/ucga/core/dispatch"
	"github.com/kilianp07/ucga/core/ga"
	"github.com/kilianp07/ucga/core/model"
	"github.com/kilianp07/ucga/core/schedule"
)

type DispatchDef struct {
	Epsilon       float64 `yaml:"epsilon"`
	MaxIterations int     `yaml:"max_iterations"`
}

func (d DispatchDef) ToConfig() dispatch.Config {
	cfg := dispatch.Config{Epsilon: d.Epsilon, MaxIterations: d.MaxIterations}
	cfg.SetDefaults()
	return cfg
}

type CostDef struct {
	VOLL          float64 `yaml:"voll"`
	ReserveMargin float64 `yaml:"reserve_margin"`
	PeriodHours   float64 `yaml:"period_hours"`
	Uncertainty   float64 `yaml:"uncertainty"`
}

func (c CostDef) ToParams() cost.Params {
	return cost.Params{VOLL: c.VOLL, ReserveMargin: c.ReserveMargin, PeriodHours: c.PeriodHours, Uncertainty: c.Uncertainty}
}

// GADef overrides ga.DefaultConfig; pointer fields distinguish an explicit 0.
type GADef struct {
	PopulationSize int      `yaml:"population_size"`
	Generations    int      `yaml:"generations"`
	Seed           uint64   `yaml:"seed"`
	Mutation       *float64 `yaml:"mutation_probability"`
	InitialPenalty *float64 `yaml:"initial_penalty"`
	MaxPenalty     *float64 `yaml:"max_penalty"`
}

func (g GADef) ToConfig() ga.Config {
	cfg := ga.DefaultConfig()
	if g.PopulationSize > 0 {
		cfg.PopulationSize = g.PopulationSize
	}
	if g.Generations > 0 {
		cfg.Generations = g.Generations
	}
	cfg.Seed = g.Seed
	if g.Mutation != nil {
		cfg.MutationProbability = *g.Mutation
	}
	if g.InitialPenalty != nil {
		cfg.InitialPenalty = *g.InitialPenalty
	}
	if g.MaxPenalty != nil {
		cfg.MaxPenalty = *g.MaxPenalty
	}
	return cfg
}

// Expected lists the checks applied to the run. Zero-valued checks are skipped
// except for the non-increasing convergence curve, which always holds.
type Expected struct {
	// Fitness is compared with Tolerance when set.
	Fitness   *float64 `yaml:"fitness"`
	Tolerance float64  `yaml:"tolerance"`
	// NoWorseThanSeeds requires the elite to beat or match every seed.
	NoWorseThanSeeds   bool     `yaml:"no_worse_than_seeds"`
	MaxViolations      *int     `yaml:"max_violations"`
	MaxEnergyNotServed *float64 `yaml:"max_energy_not_served"`
	Schedule           [][]int  `yaml:"schedule"`
}

type Scenario struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Units       []model.Generator `yaml:"units"`
	Demand      []float64         `yaml:"demand"`
	Dispatch    DispatchDef       `yaml:"dispatch"`
	Cost        CostDef           `yaml:"cost"`
	GA          GADef             `yaml:"ga"`
	// Seeds are binary schedules, rows are periods.
	Seeds    [][][]int8 `yaml:"seeds"`
	Expected Expected   `yaml:"expected"`
}

// SeedSchedules returns the seeds as binary schedules.
func (s Scenario) SeedSchedules() []schedule.Binary {
	out := make([]schedule.Binary, len(s.Seeds))
	for i, seed := range s.Seeds {
		out[i] = schedule.Binary(seed)
	}
	return out
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("%s: scenario name is required", path)
	}
	return &sc, nil
}
