package ga

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/ucga/core/schedule"
)

// evaluate decodes and prices every binary schedule concurrently. The result
// keeps the input order regardless of completion order.
func evaluate(ctx context.Context, limit int, bins []schedule.Binary, initStatus []int, fit FitnessFunc) ([]*Genotype, error) {
	out := make([]*Genotype, len(bins))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, b := range bins {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			gt, err := NewGenotype(schedule.ToInteger(b, initStatus), fit)
			if err != nil {
				return err
			}
			out[i] = gt
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
