// Package cost evaluates the operating cost of a commitment schedule: fuel
// cost of the economic dispatch, start-up cost, value of lost load, and the
// penalty for violated minimum up/down times and reserve requirements.
//
// Two evaluations are offered. Total prices a schedule against the forecast
// demand only and is used by the hill-climbing operators. Expected weights
// five demand realisations around the forecast to account for uncertainty.
package cost
