package ga

import (
	"math/rand/v2"

	"github.com/kilianp07/ucga/core/schedule"
)

// ScoreFunc prices a binary schedule; lower is better.
type ScoreFunc func(schedule.Binary) (float64, error)

// Mutate flips every cell independently with probability p.
func Mutate(rng *rand.Rand, b schedule.Binary, p float64) schedule.Binary {
	out := b.Clone()
	for t := range out {
		for n := range out[t] {
			if rng.Float64() < p {
				out[t][n] ^= 1
			}
		}
	}
	return out
}

// Crossover draws a cut period c and, for every unit with probability p,
// exchanges the periods before c between the parents. The first child takes
// the second parent's prefix and the first parent's suffix, the second child
// the opposite.
func Crossover(rng *rand.Rand, a, b schedule.Binary, p float64) (schedule.Binary, schedule.Binary) {
	c1, c2 := a.Clone(), b.Clone()
	periods, units := a.Periods(), a.Units()
	if periods == 0 {
		return c1, c2
	}
	cut := rng.IntN(periods)
	for n := 0; n < units; n++ {
		if rng.Float64() >= p {
			continue
		}
		for t := 0; t < cut; t++ {
			c1[t][n], c2[t][n] = c2[t][n], c1[t][n]
		}
	}
	return c1, c2
}

// SwapWindow exchanges the schedules of two distinct units inside a random
// non-empty period window. Fleets with a single unit are returned unchanged.
func SwapWindow(rng *rand.Rand, b schedule.Binary) schedule.Binary {
	out := b.Clone()
	if b.Periods() == 0 || b.Units() < 2 {
		return out
	}
	lo, hi := window(rng, b.Periods())
	u1, u2 := twoDistinct(rng, b.Units())
	swapUnits(out, u1, u2, lo, hi)
	return out
}

// WindowMutation forces one unit on or off over a random period window.
func WindowMutation(rng *rand.Rand, b schedule.Binary) schedule.Binary {
	out := b.Clone()
	if b.Periods() == 0 || b.Units() == 0 {
		return out
	}
	lo, hi := window(rng, b.Periods())
	u := rng.IntN(b.Units())
	v := int8(rng.IntN(2))
	for t := lo; t < hi; t++ {
		out[t][u] = v
	}
	return out
}

// SwapMutationHC walks the periods in order. In each period it either swaps
// the status of two units (probability 0.5) or flips one unit, and keeps the
// change only when score improves. It returns the best schedule and its score.
func SwapMutationHC(rng *rand.Rand, b schedule.Binary, score ScoreFunc) (schedule.Binary, float64, error) {
	best := b.Clone()
	bestScore, err := score(best)
	if err != nil {
		return nil, 0, err
	}
	units := b.Units()
	if units == 0 {
		return best, bestScore, nil
	}
	for t := 0; t < b.Periods(); t++ {
		cand := best.Clone()
		if rng.Float64() < 0.5 && units >= 2 {
			u1, u2 := twoDistinct(rng, units)
			cand[t][u1], cand[t][u2] = cand[t][u2], cand[t][u1]
		} else {
			cand[t][rng.IntN(units)] ^= 1
		}
		s, err := score(cand)
		if err != nil {
			return nil, 0, err
		}
		if s < bestScore {
			best, bestScore = cand, s
		}
	}
	return best, bestScore, nil
}

// SwapWindowHC draws a window width and two units once, then slides the
// window over every start position, swapping the two units inside it on the
// best schedule so far and keeping improvements.
func SwapWindowHC(rng *rand.Rand, b schedule.Binary, score ScoreFunc) (schedule.Binary, float64, error) {
	best := b.Clone()
	bestScore, err := score(best)
	if err != nil {
		return nil, 0, err
	}
	periods, units := b.Periods(), b.Units()
	if periods < 2 || units < 2 {
		return best, bestScore, nil
	}
	width := 1 + rng.IntN(periods-1)
	u1, u2 := twoDistinct(rng, units)
	for start := 0; start+width <= periods; start++ {
		cand := best.Clone()
		swapUnits(cand, u1, u2, start, start+width)
		s, err := score(cand)
		if err != nil {
			return nil, 0, err
		}
		if s < bestScore {
			best, bestScore = cand, s
		}
	}
	return best, bestScore, nil
}

// window draws two distinct bounds in [0, periods] and returns them ordered,
// so the half-open window [lo, hi) is never empty.
func window(rng *rand.Rand, periods int) (int, int) {
	lo := rng.IntN(periods + 1)
	hi := rng.IntN(periods)
	if hi >= lo {
		hi++
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo, hi
}

// twoDistinct draws two different indices in [0, n); n must be at least 2.
func twoDistinct(rng *rand.Rand, n int) (int, int) {
	a := rng.IntN(n)
	b := rng.IntN(n - 1)
	if b >= a {
		b++
	}
	return a, b
}

func swapUnits(b schedule.Binary, u1, u2, lo, hi int) {
	for t := lo; t < hi; t++ {
		b[t][u1], b[t][u2] = b[t][u2], b[t][u1]
	}
}
