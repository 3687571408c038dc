package ga

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/ucga/core/cost"
	"github.com/kilianp07/ucga/core/logger"
	"github.com/kilianp07/ucga/core/metrics"
	"github.com/kilianp07/ucga/core/model"
	"github.com/kilianp07/ucga/core/schedule"
	"github.com/kilianp07/ucga/internal/eventbus"
)

// Evaluator prices schedules for the engine. *cost.Evaluator implements it.
type Evaluator interface {
	Fleet() model.Fleet
	Demand() model.Demand
	InitStatus() []int
	Total(s schedule.Integer, penalty float64) (float64, error)
	Fitness(s schedule.Integer, penalty float64) (float64, error)
	Breakdown(s schedule.Integer, penalty float64) (cost.Breakdown, error)
}

// Result is the outcome of a run.
type Result struct {
	RunID string
	// Seed is the value the random stream was initialised with.
	Seed  uint64
	Elite *Genotype
	// BestFitness holds the elite fitness after each generation.
	BestFitness []float64
	Population  *Population
	// Breakdown prices the elite against the forecast at the final penalty.
	Breakdown   cost.Breakdown
	Penalty     float64
	Evaluations int
	Duration    time.Duration
}

// Engine runs the generational search. An Engine may be reused; runs do not
// share state.
type Engine struct {
	cfg  Config
	eval Evaluator
	log  logger.Logger
	sink metrics.Sink
	bus  *eventbus.TypedBus[metrics.GenerationEvent]
}

// Option customises an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for progress lines.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithSink sets the metrics sink receiving one event per generation.
func WithSink(s metrics.Sink) Option {
	return func(e *Engine) {
		if s != nil {
			e.sink = s
		}
	}
}

// WithBus publishes generation events on bus.
func WithBus(bus *eventbus.TypedBus[metrics.GenerationEvent]) Option {
	return func(e *Engine) { e.bus = bus }
}

// NewEngine validates cfg and returns an engine pricing schedules with eval.
func NewEngine(cfg Config, eval Evaluator, opts ...Option) (*Engine, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if eval == nil {
		return nil, fmt.Errorf("%w: evaluator is nil", ErrInvalidConfig)
	}
	e := &Engine{cfg: cfg, eval: eval, log: logger.Nop{}, sink: metrics.NopSink{}}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// run carries the state of a single Run call.
type run struct {
	*Engine
	id          string
	rng         *rand.Rand
	init        []int
	evaluations int
}

// Run evolves the seed schedules for the configured number of generations
// and returns the elite. Cancellation is honoured between generations and
// during evaluation.
func (e *Engine) Run(ctx context.Context, seeds []schedule.Binary) (*Result, error) {
	if err := e.checkSeeds(seeds); err != nil {
		return nil, err
	}
	seed := e.cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	r := &run{
		Engine: e,
		id:     uuid.NewString(),
		rng:    rand.New(rand.NewPCG(seed, seed)),
		init:   e.eval.InitStatus(),
	}
	start := time.Now()
	e.log.Infof("run %s: %d units, %d periods, population %d, %d generations, seed %d",
		r.id, len(e.eval.Fleet()), len(e.eval.Demand()), e.cfg.PopulationSize, e.cfg.Generations, seed)

	pop, err := r.initial(ctx, seeds)
	if err != nil {
		return nil, err
	}
	elite := pop.Best()

	best := make([]float64, 0, e.cfg.Generations)
	for g := 0; g < e.cfg.Generations; g++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generation %d: %w", g, err)
		}
		began := time.Now()
		pop, elite, err = r.generation(ctx, g, pop, elite)
		if err != nil {
			return nil, fmt.Errorf("generation %d: %w", g, err)
		}
		best = append(best, elite.Fitness())
		e.log.Infof("best fitness at generation %d: %.2f", g, elite.Fitness())
		r.publish(g, pop, elite, time.Since(began))
	}

	penalty := e.cfg.Penalty(e.cfg.Generations - 1)
	breakdown, err := e.eval.Breakdown(elite.Schedule(), penalty)
	if err != nil {
		return nil, fmt.Errorf("elite breakdown: %w", err)
	}
	res := &Result{
		RunID:       r.id,
		Seed:        seed,
		Elite:       elite,
		BestFitness: best,
		Population:  pop,
		Breakdown:   breakdown,
		Penalty:     penalty,
		Evaluations: r.evaluations,
		Duration:    time.Since(start),
	}
	if rec, ok := e.sink.(metrics.RunRecorder); ok {
		if err := rec.RecordRun(metrics.RunSummary{
			RunID:       r.id,
			Generations: e.cfg.Generations,
			BestFitness: elite.Fitness(),
			Evaluations: r.evaluations,
			Duration:    res.Duration,
			Time:        time.Now(),
		}); err != nil {
			e.log.Warnf("record run %s: %v", r.id, err)
		}
	}
	return res, nil
}

func (e *Engine) checkSeeds(seeds []schedule.Binary) error {
	if len(seeds) == 0 {
		return fmt.Errorf("%w: no seed schedules", ErrInvalidConfig)
	}
	periods, units := len(e.eval.Demand()), len(e.eval.Fleet())
	for i, s := range seeds {
		if err := schedule.CheckShape(s, periods, units); err != nil {
			return fmt.Errorf("%w: seed %d: %v", ErrInvalidConfig, i, err)
		}
	}
	return nil
}

func (r *run) fitness(penalty float64) FitnessFunc {
	return func(s schedule.Integer) (float64, error) {
		return r.eval.Fitness(s, penalty)
	}
}

// initial wraps the seeds, padding with mutated copies of the first seed so
// that a parent pair can always be drawn.
func (r *run) initial(ctx context.Context, seeds []schedule.Binary) (*Population, error) {
	bins := make([]schedule.Binary, 0, max(len(seeds), 2))
	for _, s := range seeds {
		bins = append(bins, s.Clone())
	}
	for len(bins) < 2 {
		bins = append(bins, Mutate(r.rng, seeds[0], r.cfg.MutationProbability))
	}
	gts, err := evaluate(ctx, r.cfg.Parallelism, bins, r.init, r.fitness(r.cfg.InitialPenalty))
	if err != nil {
		return nil, fmt.Errorf("seed population: %w", err)
	}
	r.evaluations += len(gts)
	pop := NewPopulation(len(gts))
	for _, g := range gts {
		pop.Add(g)
	}
	return pop, nil
}

// generation builds the population of generation g from its predecessor and
// returns it together with the new elite.
func (r *run) generation(ctx context.Context, g int, prev *Population, elite *Genotype) (*Population, *Genotype, error) {
	penalty := r.cfg.Penalty(g)
	next := NewPopulation(r.cfg.PopulationSize)
	next.Add(elite)

	children, err := r.offspring(prev, next.Size()-next.Len())
	if err != nil {
		return nil, nil, err
	}
	gts, err := evaluate(ctx, r.cfg.Parallelism, children, r.init, r.fitness(penalty))
	if err != nil {
		return nil, nil, err
	}
	r.evaluations += len(gts)
	for _, gt := range gts {
		next.Add(gt)
	}

	top := next.Best()
	next.Remove(top)
	climbed, err := r.climb(top, penalty)
	if err != nil {
		return nil, nil, err
	}
	next.Add(climbed)
	return next, climbed, nil
}

// offspring draws n children from parent pairs of prev.
func (r *run) offspring(prev *Population, n int) ([]schedule.Binary, error) {
	out := make([]schedule.Binary, 0, n)
	for len(out) < n {
		p1, p2, err := prev.SelectPair(r.rng)
		if err != nil {
			return nil, err
		}
		c1, c2 := Crossover(r.rng, p1.Binary(), p2.Binary(), r.cfg.CrossoverProbability)
		kids := []schedule.Binary{
			Mutate(r.rng, c1, r.cfg.MutationProbability),
			Mutate(r.rng, c2, r.cfg.MutationProbability),
		}
		for i := range kids {
			if r.rng.Float64() < r.cfg.SwapWindowProbability {
				kids[i] = SwapWindow(r.rng, kids[i])
			}
		}
		for i := range kids {
			if r.rng.Float64() < r.cfg.WindowMutationProbability {
				kids[i] = WindowMutation(r.rng, kids[i])
			}
		}
		out = append(out, kids[0])
		if len(out) < n {
			out = append(out, kids[1])
		}
	}
	return out, nil
}

// climb applies the hill-climbing operators to g. The climbers judge moves
// by the deterministic cost; the result replaces g only if its fitness is
// not worse.
func (r *run) climb(g *Genotype, penalty float64) (*Genotype, error) {
	score := func(b schedule.Binary) (float64, error) {
		r.evaluations++
		return r.eval.Total(schedule.ToInteger(b, r.init), penalty)
	}
	b, _, err := SwapMutationHC(r.rng, g.Binary(), score)
	if err != nil {
		return nil, fmt.Errorf("swap-mutation hill-climb: %w", err)
	}
	if r.rng.Float64() < r.cfg.SwapWindowHCProbability {
		if b, _, err = SwapWindowHC(r.rng, b, score); err != nil {
			return nil, fmt.Errorf("swap-window hill-climb: %w", err)
		}
	}
	climbed, err := NewGenotype(schedule.ToInteger(b, r.init), r.fitness(penalty))
	if err != nil {
		return nil, err
	}
	r.evaluations++
	r.log.Debugw("hill climb", map[string]any{
		"run_id":  r.id,
		"before":  g.Fitness(),
		"after":   climbed.Fitness(),
		"penalty": penalty,
	})
	if climbed.Fitness() > g.Fitness() {
		return g, nil
	}
	return climbed, nil
}

func (r *run) publish(g int, pop *Population, elite *Genotype, took time.Duration) {
	mean, std := stat.MeanStdDev(pop.Fitnesses(), nil)
	ev := metrics.GenerationEvent{
		RunID:          r.id,
		Generation:     g,
		BestFitness:    elite.Fitness(),
		MeanFitness:    mean,
		StdDevFitness:  std,
		Penalty:        r.cfg.Penalty(g),
		PopulationSize: pop.Len(),
		Evaluations:    r.evaluations,
		Duration:       took,
		Time:           time.Now(),
	}
	if err := r.sink.RecordGeneration(ev); err != nil {
		r.log.Warnf("record generation %d of run %s: %v", g, r.id, err)
	}
	if r.bus != nil {
		r.bus.Publish(ev)
	}
}
