// Package ga searches commitment schedules with a genetic algorithm.
//
// Each generation keeps the previous elite, fills the population with
// offspring of fitness-proportionate parent pairs (crossover, bit mutation,
// and with configured probabilities swap-window and window mutation), then
// improves the best individual with two hill-climbing operators before it
// becomes the next elite. The constraint penalty grows linearly with the
// generation index so early generations may explore infeasible schedules.
//
// All randomness comes from a single math/rand/v2 PCG stream seeded from
// Config.Seed. Seed padding mutates the first seed before the first
// generation; afterwards the stream is consumed in this order per generation:
//
//  1. SelectPair: two categorical draws per parent pair.
//  2. Crossover: the cut period, then one draw per unit.
//  3. Mutate: one draw per cell, row by row, for each child in turn.
//  4. For each child in turn a draw deciding swap-window followed by the
//     operator draws, then the same for window mutation.
//  5. Swap-mutation hill-climb: per period one branch draw and the unit draws.
//  6. One draw deciding the swap-window hill-climb, then its width and units.
//
// Fitness evaluation consumes no randomness, which is why offspring can be
// evaluated concurrently without changing the outcome of a seeded run.
package ga
