package ga

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// nearBest is the relative distance to the population minimum under which a
// fitness is divided by nearBestScale before selection.
const (
	nearBest      = 0.01
	nearBestScale = 10.0
	minWeightBase = 1e-9
)

// Population holds the genotypes of one generation in insertion order.
type Population struct {
	size  int
	items []*Genotype
}

// NewPopulation returns an empty population targeting size genotypes.
func NewPopulation(size int) *Population {
	return &Population{size: size, items: make([]*Genotype, 0, size)}
}

// Size is the target number of genotypes.
func (p *Population) Size() int { return p.size }

func (p *Population) Len() int { return len(p.items) }

// Full reports whether the target size is reached.
func (p *Population) Full() bool { return len(p.items) >= p.size }

// Add appends g.
func (p *Population) Add(g *Genotype) { p.items = append(p.items, g) }

// Remove deletes g and reports whether it was present.
func (p *Population) Remove(g *Genotype) bool {
	for i, it := range p.items {
		if it == g {
			p.items = append(p.items[:i], p.items[i+1:]...)
			return true
		}
	}
	return false
}

// Genotypes returns the members in insertion order.
func (p *Population) Genotypes() []*Genotype {
	return append([]*Genotype(nil), p.items...)
}

// Fitnesses returns the member fitnesses in insertion order.
func (p *Population) Fitnesses() []float64 {
	out := make([]float64, len(p.items))
	for i, g := range p.items {
		out[i] = g.fitness
	}
	return out
}

// BestK returns the k lowest-fitness genotypes, ties kept in insertion order.
func (p *Population) BestK(k int) []*Genotype {
	sorted := p.Genotypes()
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].fitness < sorted[j].fitness })
	if k > len(sorted) {
		k = len(sorted)
	}
	return sorted[:k]
}

// Best returns the lowest-fitness genotype or nil for an empty population.
func (p *Population) Best() *Genotype {
	best := p.BestK(1)
	if len(best) == 0 {
		return nil
	}
	return best[0]
}

// SelectPair samples two distinct genotypes without replacement, each with
// probability proportional to the inverse of its transformed fitness.
func (p *Population) SelectPair(rng *rand.Rand) (*Genotype, *Genotype, error) {
	if len(p.items) < 2 {
		return nil, nil, ErrPopulationTooSmall
	}
	weights := selectionWeights(p.Fitnesses())
	cat := distuv.NewCategorical(weights, rng)
	first := int(cat.Rand())
	cat.Reweight(first, 0)
	second := int(cat.Rand())
	return p.items[first], p.items[second], nil
}

func selectionWeights(fitness []float64) []float64 {
	lowest := math.Inf(1)
	for _, f := range fitness {
		lowest = math.Min(lowest, f)
	}
	weights := make([]float64, len(fitness))
	for i, f := range fitness {
		if f-lowest <= nearBest*math.Abs(lowest) {
			f /= nearBestScale
		}
		weights[i] = 1 / math.Max(f, minWeightBase)
	}
	return weights
}
