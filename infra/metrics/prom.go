package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/ucga/core/metrics"
)

// PromSink exposes search progress as Prometheus metrics.
type PromSink struct {
	generations prometheus.Counter
	best        prometheus.Gauge
	mean        prometheus.Gauge
	penalty     prometheus.Gauge
	duration    prometheus.Histogram
	runs        prometheus.Counter
	runBest     prometheus.Gauge
}

// NewPromSink registers the search metrics on the default Prometheus registerer.
// The HTTP endpoint is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already present on reg are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		generations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ga_generations_total",
			Help: "Number of completed generations",
		}),
		best: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ga_best_fitness",
			Help: "Fitness of the elite after the last generation",
		}),
		mean: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ga_mean_fitness",
			Help: "Mean population fitness after the last generation",
		}),
		penalty: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ga_constraint_penalty",
			Help: "Constraint penalty applied in the last generation",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ga_generation_duration_seconds",
			Help:    "Wall time of one generation",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ga_runs_total",
			Help: "Number of completed runs",
		}),
		runBest: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ga_run_best_fitness",
			Help: "Elite fitness of the last completed run",
		}),
	}
	var err error
	if s.generations, err = register(reg, s.generations); err != nil {
		return nil, err
	}
	if s.best, err = register(reg, s.best); err != nil {
		return nil, err
	}
	if s.mean, err = register(reg, s.mean); err != nil {
		return nil, err
	}
	if s.penalty, err = register(reg, s.penalty); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, s.duration); err != nil {
		return nil, err
	}
	if s.runs, err = register(reg, s.runs); err != nil {
		return nil, err
	}
	if s.runBest, err = register(reg, s.runBest); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Generations exposes the generation counter.
func (s *PromSink) Generations() prometheus.Counter { return s.generations }

// RecordGeneration updates the gauges and counts the generation.
func (s *PromSink) RecordGeneration(ev coremetrics.GenerationEvent) error {
	s.generations.Inc()
	s.best.Set(ev.BestFitness)
	s.mean.Set(ev.MeanFitness)
	s.penalty.Set(ev.Penalty)
	s.duration.Observe(ev.Duration.Seconds())
	return nil
}

// RecordRun counts the run and keeps its elite fitness.
func (s *PromSink) RecordRun(sum coremetrics.RunSummary) error {
	s.runs.Inc()
	s.runBest.Set(sum.BestFitness)
	return nil
}
