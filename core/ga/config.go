package ga

import (
	"runtime"

	"github.com/kilianp07/ucga/internal/validate"
)

// Config enumerates every tunable of the search.
type Config struct {
	PopulationSize int `json:"population_size" validate:"gte=2"`
	Generations    int `json:"generations" validate:"gte=1"`

	// MutationProbability is the per-cell flip probability.
	MutationProbability float64 `json:"mutation_probability" validate:"gte=0,lte=1"`
	// CrossoverProbability is the per-unit probability of exchanging prefixes.
	CrossoverProbability      float64 `json:"crossover_probability" validate:"gte=0,lte=1"`
	SwapWindowProbability     float64 `json:"swap_window_probability" validate:"gte=0,lte=1"`
	WindowMutationProbability float64 `json:"window_mutation_probability" validate:"gte=0,lte=1"`
	SwapWindowHCProbability   float64 `json:"swap_window_hc_probability" validate:"gte=0,lte=1"`

	// InitialPenalty prices constraint violations of the seed population.
	InitialPenalty float64 `json:"initial_penalty" validate:"gte=0"`
	// MaxPenalty is reached in the last generation.
	MaxPenalty float64 `json:"max_penalty" validate:"gte=0"`

	// Seed initialises the random stream; 0 draws a random seed.
	Seed uint64 `json:"seed"`
	// Parallelism bounds concurrent fitness evaluations; 0 uses GOMAXPROCS.
	Parallelism int `json:"parallelism" validate:"gte=0"`
}

// DefaultConfig returns the settings of the reference ten-unit study.
func DefaultConfig() Config {
	return Config{
		PopulationSize:            50,
		Generations:               20,
		MutationProbability:       0.01,
		CrossoverProbability:      0.5,
		SwapWindowProbability:     0.3,
		WindowMutationProbability: 0.3,
		SwapWindowHCProbability:   0.3,
		InitialPenalty:            1e4,
		MaxPenalty:                1e4,
	}
}

// SetDefaults fills the fields for which zero is never meaningful.
func (c *Config) SetDefaults() {
	d := DefaultConfig()
	if c.PopulationSize == 0 {
		c.PopulationSize = d.PopulationSize
	}
	if c.Generations == 0 {
		c.Generations = d.Generations
	}
	if c.Parallelism == 0 {
		c.Parallelism = runtime.GOMAXPROCS(0)
	}
}

// Validate checks the configured ranges.
func (c Config) Validate() error {
	return validate.Struct(c)
}

// Penalty returns the annealed constraint penalty of generation g (0-based).
func (c Config) Penalty(g int) float64 {
	return c.MaxPenalty * float64(g+1) / float64(c.Generations)
}
