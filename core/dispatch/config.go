package dispatch

import "github.com/kilianp07/ucga/internal/validate"

// Config defines the lambda iteration settings of the economic dispatch.
type Config struct {
	// LambdaLow and LambdaHigh bound the marginal-cost multiplier search.
	LambdaLow  float64 `json:"lambda_low"`
	LambdaHigh float64 `json:"lambda_high" validate:"gtfield=LambdaLow"`
	// Epsilon is the accepted mismatch (MW) between dispatched output and demand.
	Epsilon float64 `json:"epsilon" validate:"gt=0"`
	// MaxIterations bounds the bisection; exceeding it is reported as ErrNoConvergence.
	MaxIterations int `json:"max_iterations" validate:"gt=0"`
}

// SetDefaults applies the bounds used for typical thermal fleets.
func (c *Config) SetDefaults() {
	if c.LambdaLow == 0 && c.LambdaHigh == 0 {
		c.LambdaHigh = 30
	}
	if c.Epsilon == 0 {
		c.Epsilon = 0.1
	}
	if c.MaxIterations == 0 {
		c.MaxIterations = 200
	}
}

// Validate checks the configured ranges.
func (c Config) Validate() error {
	return validate.Struct(c)
}
