package metrics

import "time"

// GenerationEvent summarises one generation of the search.
type GenerationEvent struct {
	RunID          string        `json:"run_id"`
	Generation     int           `json:"generation"`
	BestFitness    float64       `json:"best_fitness"`
	MeanFitness    float64       `json:"mean_fitness"`
	StdDevFitness  float64       `json:"stddev_fitness"`
	Penalty        float64       `json:"penalty"`
	PopulationSize int           `json:"population_size"`
	Evaluations    int           `json:"evaluations"`
	Duration       time.Duration `json:"duration"`
	Time           time.Time     `json:"time"`
}

// Sink records generation events for observability purposes.
type Sink interface {
	RecordGeneration(ev GenerationEvent) error
}

// RunSummary is emitted once a run completes.
type RunSummary struct {
	RunID       string        `json:"run_id"`
	Generations int           `json:"generations"`
	BestFitness float64       `json:"best_fitness"`
	Evaluations int           `json:"evaluations"`
	Duration    time.Duration `json:"duration"`
	Time        time.Time     `json:"time"`
}

// RunRecorder is implemented by sinks able to record run summaries.
type RunRecorder interface {
	RecordRun(sum RunSummary) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordGeneration(GenerationEvent) error { return nil }

// Ensure NopSink implements RunRecorder.
func (NopSink) RecordRun(RunSummary) error { return nil }
