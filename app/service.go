package app

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/ucga/config"
	"github.com/kilianp07/ucga/core/cost"
	"github.com/kilianp07/ucga/core/dispatch"
	"github.com/kilianp07/ucga/core/ga"
	coremetrics "github.com/kilianp07/ucga/core/metrics"
	coremon "github.com/kilianp07/ucga/core/monitoring"
	"github.com/kilianp07/ucga/core/model"
	"github.com/kilianp07/ucga/core/schedule"
	"github.com/kilianp07/ucga/infra/dataset"
	"github.com/kilianp07/ucga/infra/logger"
	"github.com/kilianp07/ucga/infra/metrics"
	"github.com/kilianp07/ucga/infra/monitoring"
	"github.com/kilianp07/ucga/internal/eventbus"
	"github.com/kilianp07/ucga/pkg/export"
)

// Service wires the data, the cost model and the search for one configuration.
type Service struct {
	cfg      *config.Config
	fleet    model.Fleet
	demand   model.Demand
	solver   *dispatch.Solver
	eval     *cost.Evaluator
	engine   *ga.Engine
	sink     coremetrics.Sink
	bus      *eventbus.TypedBus[coremetrics.GenerationEvent]
	progress io.Writer
	monitor  coremon.Monitor
	log      logger.Logger
}

// Outcome is what Run produced.
type Outcome struct {
	Result *ga.Result
	// Paths lists the written result files.
	Paths []string
}

// Option customises a Service.
type Option func(*Service)

// WithProgress prints one line per generation to w.
func WithProgress(w io.Writer) Option {
	return func(s *Service) { s.progress = w }
}

// WithMonitor reports run failures to m instead of the configured Sentry
// project.
func WithMonitor(m coremon.Monitor) Option {
	return func(s *Service) { s.monitor = m }
}

// New loads the fleet and demand and builds the search from cfg.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	log := logger.NewWithConfig("service", cfg.Logging, os.Stdout)
	s := &Service{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}

	if s.monitor == nil {
		m, err := monitoring.NewSentryMonitor(cfg.Sentry)
		if err != nil {
			return nil, fmt.Errorf("sentry: %w", err)
		}
		s.monitor = m
	}

	fleet, err := dataset.LoadFleet(cfg.Data.Fleet)
	if err != nil {
		return nil, err
	}
	demand, err := dataset.LoadDemand(cfg.Data.Demand)
	if err != nil {
		return nil, err
	}
	if cfg.Data.DemandScale > 0 {
		demand = demand.Scale(cfg.Data.DemandScale)
	}
	solver, err := dispatch.NewSolver(cfg.Dispatch)
	if err != nil {
		return nil, fmt.Errorf("dispatch solver: %w", err)
	}
	eval, err := cost.NewEvaluator(fleet, demand, cfg.Cost, solver)
	if err != nil {
		return nil, fmt.Errorf("cost evaluator: %w", err)
	}
	metrics.SetLogger(log.With("module", "metrics"))
	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	s.fleet, s.demand, s.solver, s.eval, s.sink = fleet, demand, solver, eval, sink
	s.log = log
	engineOpts := []ga.Option{ga.WithLogger(log.With("module", "ga")), ga.WithSink(sink)}
	if s.progress != nil {
		s.bus = eventbus.NewTyped[coremetrics.GenerationEvent](eventbus.WithBuffer(cfg.GA.Generations))
		engineOpts = append(engineOpts, ga.WithBus(s.bus))
	}
	// the seed schedule and the search share this seed
	gaCfg := cfg.GA
	if gaCfg.Seed == 0 {
		gaCfg.Seed = rand.Uint64()
	}
	engine, err := ga.NewEngine(gaCfg, eval, engineOpts...)
	if err != nil {
		return nil, err
	}
	s.engine = engine
	return s, nil
}

// Evaluator returns the cost model of the loaded data.
func (s *Service) Evaluator() *cost.Evaluator { return s.eval }

// Solver returns the economic dispatch solver.
func (s *Service) Solver() *dispatch.Solver { return s.solver }

// Run seeds the search with one random schedule, evolves it and writes the
// result files. A Service runs once. Failures are reported to the monitor.
func (s *Service) Run(ctx context.Context) (*Outcome, error) {
	out, err := s.run(ctx)
	if err != nil && ctx.Err() == nil {
		s.monitor.CaptureException(err, map[string]string{
			"fleet":  s.cfg.Data.Fleet,
			"demand": s.cfg.Data.Demand,
		})
	}
	return out, err
}

func (s *Service) run(ctx context.Context) (*Outcome, error) {
	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr, nil, metrics.WithLogger(s.log)); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	var collected <-chan struct{}
	if s.bus != nil {
		collected = metrics.StartEventCollector(ctx, s.bus, progressSink{w: s.progress}, metrics.WithLogger(s.log))
	}

	seed := s.engine.Config().Seed
	// offset so the seed schedule does not mirror the search stream
	rng := rand.New(rand.NewPCG(seed, seed+1))
	seeds := []schedule.Binary{schedule.Random(rng, len(s.demand), len(s.fleet))}

	res, err := s.engine.Run(ctx, seeds)
	if s.bus != nil {
		s.bus.Close()
		<-collected
	}
	if err != nil {
		return nil, err
	}
	s.log.Infof("run %s finished: fitness %.2f after %d evaluations in %s",
		res.RunID, res.Elite.Fitness(), res.Evaluations, res.Duration)

	doc := export.FromResult(res, nil)
	var disp *mat.Dense
	if s.cfg.Output.Dispatch {
		d, err := s.solver.Schedule(s.fleet, res.Elite.Binary(), s.demand)
		if err != nil {
			return nil, fmt.Errorf("elite dispatch: %w", err)
		}
		disp = d.Dispatch
		doc = export.FromResult(res, disp)
	}
	paths, err := export.WriteFiles(s.cfg.Output.Dir, s.cfg.Output.Format, doc, disp)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	if s.cfg.Output.Chart {
		p, err := export.WriteChartFile(s.cfg.Output.Dir, doc)
		if err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
		paths = append(paths, p)
	}
	for _, p := range paths {
		s.log.Infof("wrote %s", p)
	}
	return &Outcome{Result: res, Paths: paths}, nil
}

// Close releases the metrics sinks and flushes pending error reports.
func (s *Service) Close() error {
	closeSink(s.sink)
	s.monitor.Flush(2 * time.Second)
	return nil
}

type closer interface{ Close() }

func closeSink(sink coremetrics.Sink) {
	if m, ok := sink.(*coremetrics.MultiSink); ok {
		for _, sub := range m.Sinks {
			closeSink(sub)
		}
		return
	}
	if c, ok := sink.(closer); ok {
		c.Close()
	}
}

type progressSink struct{ w io.Writer }

func (p progressSink) RecordGeneration(ev coremetrics.GenerationEvent) error {
	_, err := fmt.Fprintf(p.w, "generation %3d  best %14.2f  mean %14.2f  penalty %10.1f\n",
		ev.Generation, ev.BestFitness, ev.MeanFitness, ev.Penalty)
	return err
}
