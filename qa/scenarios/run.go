package scenarios

import (
	"context"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kilianp07/ucga/core/cost"
	"github.com/kilianp07/ucga/core/dispatch"
	"github.com/kilianp07/ucga/core/ga"
	"github.com/kilianp07/ucga/core/model"
	"github.com/kilianp07/ucga/core/schedule"
	"github.com/kilianp07/ucga/infra/logger"
	"github.com/kilianp07/ucga/infra/metrics"
)

func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	solver, err := dispatch.NewSolver(sc.Dispatch.ToConfig())
	if err != nil {
		t.Fatalf("solver: %v", err)
	}
	fleet := model.Fleet(sc.Units)
	ev, err := cost.NewEvaluator(fleet, model.Demand(sc.Demand), sc.Cost.ToParams(), solver)
	if err != nil {
		t.Fatalf("evaluator: %v", err)
	}
	cfg := sc.GA.ToConfig()
	eng, err := ga.NewEngine(cfg, ev, ga.WithLogger(logger.NopLogger{}), ga.WithSink(sink))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	seeds := sc.SeedSchedules()
	res, err := eng.Run(context.Background(), seeds)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := testutil.ToFloat64(sink.Generations()); int(got) != cfg.Generations {
		t.Errorf("scenario %s recorded %v generations, want %d", sc.Name, got, cfg.Generations)
	}
	for g := 1; g < len(res.BestFitness); g++ {
		if res.BestFitness[g] > res.BestFitness[g-1] {
			t.Errorf("scenario %s best fitness rose at generation %d: %v > %v", sc.Name, g, res.BestFitness[g], res.BestFitness[g-1])
		}
	}

	exp := sc.Expected
	fit := res.Elite.Fitness()
	if exp.Fitness != nil && math.Abs(fit-*exp.Fitness) > exp.Tolerance {
		t.Errorf("scenario %s fitness %.4f, want %.4f ± %v", sc.Name, fit, *exp.Fitness, exp.Tolerance)
	}
	if exp.NoWorseThanSeeds {
		for i, s := range seeds {
			sf, err := ev.Fitness(schedule.ToInteger(s, ev.InitStatus()), cfg.InitialPenalty)
			if err != nil {
				t.Fatalf("seed %d: %v", i, err)
			}
			if fit > sf {
				t.Errorf("scenario %s elite %.4f worse than seed %d (%.4f)", sc.Name, fit, i, sf)
			}
		}
	}
	if exp.MaxViolations != nil && res.Breakdown.Violations > *exp.MaxViolations {
		t.Errorf("scenario %s has %d violations, want at most %d", sc.Name, res.Breakdown.Violations, *exp.MaxViolations)
	}
	if exp.MaxEnergyNotServed != nil && res.Breakdown.EnergyNotServed > *exp.MaxEnergyNotServed {
		t.Errorf("scenario %s leaves %.3f MWh unserved, want at most %.3f", sc.Name, res.Breakdown.EnergyNotServed, *exp.MaxEnergyNotServed)
	}
	if exp.Schedule != nil {
		got := res.Elite.Schedule()
		if !equalSchedule(got, exp.Schedule) {
			t.Errorf("scenario %s schedule %v, want %v", sc.Name, got, exp.Schedule)
		}
	}
}

func equalSchedule(got schedule.Integer, want [][]int) bool {
	if len(got) != len(want) {
		return false
	}
	for t := range got {
		if len(got[t]) != len(want[t]) {
			return false
		}
		for n := range got[t] {
			if got[t][n] != want[t][n] {
				return false
			}
		}
	}
	return true
}
