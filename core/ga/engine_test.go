package ga

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/ucga/core/cost"
	"github.com/kilianp07/ucga/core/dispatch"
	"github.com/kilianp07/ucga/core/metrics"
	"github.com/kilianp07/ucga/core/model"
	"github.com/kilianp07/ucga/core/schedule"
	"github.com/kilianp07/ucga/internal/eventbus"
)

func threeUnits() model.Fleet {
	return model.Fleet{
		{MinOutput: 150, MaxOutput: 455, A: 0.00048, B: 16.19, C: 1000, MinUp: 8, MinDown: 8, HotCost: 4500, ColdCost: 9000, ColdHrs: 5, Status: 8},
		{MinOutput: 20, MaxOutput: 130, A: 0.002, B: 16.5, C: 700, MinUp: 5, MinDown: 5, HotCost: 550, ColdCost: 1100, ColdHrs: 4, Status: -5},
		{MinOutput: 25, MaxOutput: 162, A: 0.00398, B: 19.7, C: 450, MinUp: 6, MinDown: 6, HotCost: 900, ColdCost: 1800, ColdHrs: 4, Status: -6},
	}
}

func testEvaluator(t *testing.T) *cost.Evaluator {
	t.Helper()
	solver, err := dispatch.NewSolver(dispatch.Config{})
	require.NoError(t, err)
	demand := model.Demand{300, 380, 450, 520, 600, 560, 470, 350}
	ev, err := cost.NewEvaluator(threeUnits(), demand, cost.Params{VOLL: 1000, ReserveMargin: 0.05, Uncertainty: 0.05}, solver)
	require.NoError(t, err)
	return ev
}

func smallConfig(seed uint64) Config {
	cfg := DefaultConfig()
	cfg.PopulationSize = 12
	cfg.Generations = 6
	cfg.MutationProbability = 0.05
	cfg.Seed = seed
	return cfg
}

func randomSeeds(ev Evaluator, seed uint64, n int) []schedule.Binary {
	rng := testRNG(seed)
	out := make([]schedule.Binary, n)
	for i := range out {
		out[i] = schedule.Random(rng, len(ev.Demand()), len(ev.Fleet()))
	}
	return out
}

func TestEngineElitismIsMonotone(t *testing.T) {
	ev := testEvaluator(t)
	eng, err := NewEngine(smallConfig(42), ev)
	require.NoError(t, err)

	res, err := eng.Run(context.Background(), randomSeeds(ev, 1, 6))
	require.NoError(t, err)

	require.Len(t, res.BestFitness, 6)
	for g := 1; g < len(res.BestFitness); g++ {
		assert.LessOrEqual(t, res.BestFitness[g], res.BestFitness[g-1], "generation %d", g)
	}
	assert.Equal(t, res.BestFitness[5], res.Elite.Fitness())
	assert.Equal(t, 12, res.Population.Len())
	assert.Equal(t, res.Elite.Fitness(), res.Population.Best().Fitness())
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, uint64(42), res.Seed)
	assert.Positive(t, res.Evaluations)
	assert.InDelta(t, 1e4, res.Penalty, 1e-9)
	assert.Positive(t, res.Breakdown.Fuel)
	require.NoError(t, schedule.CheckShape(res.Elite.Binary(), 8, 3))
}

func TestEngineSeededRunIsReproducible(t *testing.T) {
	ev := testEvaluator(t)
	seeds := randomSeeds(ev, 9, 4)

	var runs []*Result
	for _, par := range []int{1, 4} {
		cfg := smallConfig(7)
		cfg.Parallelism = par
		eng, err := NewEngine(cfg, ev)
		require.NoError(t, err)
		res, err := eng.Run(context.Background(), seeds)
		require.NoError(t, err)
		runs = append(runs, res)
	}
	assert.Equal(t, runs[0].BestFitness, runs[1].BestFitness)
	assert.Equal(t, runs[0].Elite.Schedule(), runs[1].Elite.Schedule())
	assert.Equal(t, runs[0].Population.Fitnesses(), runs[1].Population.Fitnesses())
	assert.NotEqual(t, runs[0].RunID, runs[1].RunID)
}

func TestEngineSingleSeed(t *testing.T) {
	ev := testEvaluator(t)
	eng, err := NewEngine(smallConfig(3), ev)
	require.NoError(t, err)
	res, err := eng.Run(context.Background(), randomSeeds(ev, 2, 1))
	require.NoError(t, err)
	assert.Len(t, res.BestFitness, 6)
}

func TestEngineRejectsBadInput(t *testing.T) {
	ev := testEvaluator(t)

	cfg := smallConfig(1)
	cfg.MutationProbability = 2
	_, err := NewEngine(cfg, ev)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewEngine(smallConfig(1), nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	eng, err := NewEngine(smallConfig(1), ev)
	require.NoError(t, err)

	_, err = eng.Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = eng.Run(context.Background(), []schedule.Binary{schedule.NewBinary(8, 2)})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = eng.Run(context.Background(), []schedule.Binary{schedule.NewBinary(7, 3)})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestEngineHonoursCancellation(t *testing.T) {
	ev := testEvaluator(t)
	eng, err := NewEngine(smallConfig(1), ev)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = eng.Run(ctx, randomSeeds(ev, 1, 3))
	assert.ErrorIs(t, err, context.Canceled)
}

type recordingSink struct {
	mu     sync.Mutex
	events []metrics.GenerationEvent
	runs   []metrics.RunSummary
}

func (r *recordingSink) RecordGeneration(ev metrics.GenerationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingSink) RecordRun(sum metrics.RunSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, sum)
	return nil
}

func TestEnginePublishesGenerations(t *testing.T) {
	ev := testEvaluator(t)
	sink := &recordingSink{}
	bus := eventbus.NewTyped[metrics.GenerationEvent](eventbus.WithBuffer(16))
	sub := bus.Subscribe()

	eng, err := NewEngine(smallConfig(5), ev, WithSink(sink), WithBus(bus))
	require.NoError(t, err)
	res, err := eng.Run(context.Background(), randomSeeds(ev, 4, 5))
	require.NoError(t, err)
	bus.Close()

	require.Len(t, sink.events, 6)
	for g, e := range sink.events {
		assert.Equal(t, g, e.Generation)
		assert.Equal(t, res.RunID, e.RunID)
		assert.Equal(t, res.BestFitness[g], e.BestFitness)
		assert.LessOrEqual(t, e.BestFitness, e.MeanFitness+1e-6)
		assert.Equal(t, 12, e.PopulationSize)
		assert.InDelta(t, 1e4*float64(g+1)/6, e.Penalty, 1e-9)
	}
	require.Len(t, sink.runs, 1)
	assert.Equal(t, res.Elite.Fitness(), sink.runs[0].BestFitness)
	assert.Equal(t, res.Evaluations, sink.runs[0].Evaluations)

	var published int
	for range sub {
		published++
	}
	assert.Equal(t, 6, published)
}

func TestEngineSingleUnitFlatDemand(t *testing.T) {
	g := model.Generator{MinOutput: 20, MaxOutput: 100, A: 0.01, B: 2, C: 50, MinUp: 1, MinDown: 1, HotCost: 10, ColdCost: 20, ColdHrs: 1, Status: 3}
	fleet := model.Fleet{g}
	demand := model.Demand{60, 60, 60, 60}
	solver, err := dispatch.NewSolver(dispatch.Config{LambdaHigh: 30, Epsilon: 1e-6, MaxIterations: 200})
	require.NoError(t, err)
	ev, err := cost.NewEvaluator(fleet, demand, cost.Params{VOLL: 1000, PeriodHours: 1}, solver)
	require.NoError(t, err)

	cfg := smallConfig(8)
	cfg.PopulationSize = 4
	cfg.InitialPenalty = 0
	cfg.MaxPenalty = 0
	eng, err := NewEngine(cfg, ev)
	require.NoError(t, err)

	res, err := eng.Run(context.Background(), []schedule.Binary{{{1}, {1}, {1}, {1}}})
	require.NoError(t, err)

	fuel := 4 * (g.A*60*60 + g.B*60 + g.C)
	assert.InDelta(t, fuel, res.Elite.Fitness(), 1e-3)
	assert.InDelta(t, fuel, res.Breakdown.Fuel, 1e-3)
	assert.Equal(t, schedule.Integer{{4}, {5}, {6}, {7}}, res.Elite.Schedule())
}
