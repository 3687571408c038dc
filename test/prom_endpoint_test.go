package test

import (
	"context"
	"fmt"
	"net"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/ucga/core/cost"
	"github.com/kilianp07/ucga/core/dispatch"
	"github.com/kilianp07/ucga/core/ga"
	"github.com/kilianp07/ucga/core/model"
	"github.com/kilianp07/ucga/core/schedule"
	"github.com/kilianp07/ucga/infra/logger"
	"github.com/kilianp07/ucga/infra/metrics"
	"github.com/kilianp07/ucga/test/util"
)

func smallProblem(t *testing.T) (*cost.Evaluator, []schedule.Binary) {
	t.Helper()
	fleet := model.Fleet{
		{MinOutput: 50, MaxOutput: 200, A: 0.002, B: 10, C: 100, MinUp: 2, MinDown: 2, HotCost: 200, ColdCost: 400, ColdHrs: 2, Status: 4},
		{MinOutput: 20, MaxOutput: 120, A: 0.006, B: 14, C: 60, MinUp: 1, MinDown: 1, HotCost: 80, ColdCost: 160, ColdHrs: 1, Status: -1},
		{MinOutput: 10, MaxOutput: 80, A: 0.01, B: 20, C: 40, MinUp: 1, MinDown: 1, HotCost: 50, ColdCost: 100, ColdHrs: 1, Status: -3},
	}
	demand := model.Demand{150, 180, 240, 300, 280, 220}
	solver, err := dispatch.NewSolver(dispatch.Config{})
	require.NoError(t, err)
	eval, err := cost.NewEvaluator(fleet, demand, cost.Params{VOLL: 1000, ReserveMargin: 0.05, Uncertainty: 0.05}, solver)
	require.NoError(t, err)
	seed := make(schedule.Binary, len(demand))
	for i := range seed {
		seed[i] = []int8{1, 1, 1}
	}
	return eval, []schedule.Binary{seed}
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestPromEndpointExposesRunMetrics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	addr := freeAddr(t)
	go func() { _ = metrics.StartPromServer(ctx, addr, reg) }()

	eval, seeds := smallProblem(t)
	cfg := ga.DefaultConfig()
	cfg.PopulationSize, cfg.Generations, cfg.Seed = 8, 3, 9
	eng, err := ga.NewEngine(cfg, eval, ga.WithLogger(logger.NopLogger{}), ga.WithSink(sink))
	require.NoError(t, err)
	_, err = eng.Run(ctx, seeds)
	require.NoError(t, err)

	waitCtx, waitCancel := context.WithTimeout(ctx, util.MetricTimeout)
	defer waitCancel()
	url := fmt.Sprintf("http://%s/metrics", addr)
	require.NoError(t, util.WaitForMetrics(waitCtx, url, "ga_generations_total 3", "ga_runs_total 1"))
}
