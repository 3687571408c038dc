package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	lambdaIterations  prometheus.Histogram
	infeasiblePeriods *prometheus.CounterVec
)

// newCollectors creates new metric collectors.
func newCollectors() (prometheus.Histogram, *prometheus.CounterVec) {
	iters := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "economic_dispatch_lambda_iterations",
			Help:    "Bisection steps needed by lambda iteration per period",
			Buckets: prometheus.LinearBuckets(5, 5, 10),
		},
	)
	infeasible := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "economic_dispatch_infeasible_periods_total",
			Help: "Periods where committed capacity could not match demand",
		},
		[]string{"kind"},
	)
	return iters, infeasible
}

func init() {
	lambdaIterations, infeasiblePeriods = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers dispatch metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(lambdaIterations, infeasiblePeriods)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	lambdaIterations, infeasiblePeriods = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
