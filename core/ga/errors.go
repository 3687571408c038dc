package ga

import "errors"

var (
	// ErrInvalidConfig wraps every input rejected before the search starts.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrPopulationTooSmall is returned when a parent pair cannot be drawn.
	ErrPopulationTooSmall = errors.New("population needs at least two genotypes")
)
