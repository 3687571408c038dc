package ga

import "github.com/kilianp07/ucga/core/schedule"

// FitnessFunc prices an integer schedule; lower is better.
type FitnessFunc func(schedule.Integer) (float64, error)

// Genotype is one candidate schedule with its fitness, fixed at creation.
type Genotype struct {
	sched   schedule.Integer
	fitness float64
}

// NewGenotype copies s and evaluates it once.
func NewGenotype(s schedule.Integer, fit FitnessFunc) (*Genotype, error) {
	f, err := fit(s)
	if err != nil {
		return nil, err
	}
	return &Genotype{sched: s.Clone(), fitness: f}, nil
}

// Schedule returns a copy of the integer schedule.
func (g *Genotype) Schedule() schedule.Integer { return g.sched.Clone() }

// Binary returns the schedule in on/off form.
func (g *Genotype) Binary() schedule.Binary { return schedule.ToBinary(g.sched) }

func (g *Genotype) Fitness() float64 { return g.fitness }
