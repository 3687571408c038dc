package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/ucga/config"
	"github.com/kilianp07/ucga/pkg/export"
)

func testConfig(t *testing.T, format string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Data.Fleet = filepath.Join("..", "data", "kazarlis_units.csv")
	cfg.Data.Demand = filepath.Join("..", "data", "kazarlis_demand.txt")
	cfg.GA.PopulationSize = 10
	cfg.GA.Generations = 3
	cfg.GA.Seed = 11
	cfg.Output.Dir = t.TempDir()
	cfg.Output.Format = format
	cfg.Output.Dispatch = true
	cfg.Logging.Level = "warn"
	require.NoError(t, cfg.Validate())
	return &cfg
}

func TestServiceRunWritesJSON(t *testing.T) {
	cfg := testConfig(t, export.FormatJSON)
	var progress bytes.Buffer
	svc, err := New(cfg, WithProgress(&progress))
	require.NoError(t, err)
	defer func() { assert.NoError(t, svc.Close()) }()

	out, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, out.Paths, 1)
	assert.Len(t, out.Result.BestFitness, 3)

	raw, err := os.ReadFile(out.Paths[0])
	require.NoError(t, err)
	var doc export.Document
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, out.Result.RunID, doc.RunID)
	assert.Len(t, doc.Schedule, 24)
	assert.Len(t, doc.Dispatch, 24)
	assert.Len(t, doc.Dispatch[0], 10)

	lines := strings.Split(strings.TrimSpace(progress.String()), "\n")
	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "generation   0"))
}

func TestServiceRunWritesCSV(t *testing.T) {
	cfg := testConfig(t, export.FormatCSV)
	cfg.Output.Chart = true
	svc, err := New(cfg)
	require.NoError(t, err)

	out, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, out.Paths, 4)
	assert.Equal(t, export.ChartFile, filepath.Base(out.Paths[3]))
	assert.Equal(t, 10, len(svc.Evaluator().Fleet()))
}

func TestServiceRejectsMissingData(t *testing.T) {
	cfg := testConfig(t, export.FormatJSON)
	cfg.Data.Fleet = filepath.Join(t.TempDir(), "missing.csv")
	_, err := New(cfg)
	assert.Error(t, err)
}

type recordingMonitor struct {
	errs []error
	tags []map[string]string
}

func (m *recordingMonitor) CaptureException(err error, tags map[string]string) {
	m.errs = append(m.errs, err)
	m.tags = append(m.tags, tags)
}

func (m *recordingMonitor) Flush(time.Duration) {}

func TestServiceReportsFailedRun(t *testing.T) {
	cfg := testConfig(t, export.FormatJSON)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	cfg.Output.Dir = filepath.Join(blocker, "out")

	mon := &recordingMonitor{}
	svc, err := New(cfg, WithMonitor(mon))
	require.NoError(t, err)
	defer func() { assert.NoError(t, svc.Close()) }()

	_, err = svc.Run(context.Background())
	require.Error(t, err)
	require.Len(t, mon.errs, 1)
	assert.ErrorContains(t, mon.errs[0], "export")
	assert.Equal(t, cfg.Data.Fleet, mon.tags[0]["fleet"])
}

func TestServiceReportedSeedReproducesRun(t *testing.T) {
	cfg := testConfig(t, export.FormatJSON)
	cfg.GA.Seed = 0
	svc, err := New(cfg)
	require.NoError(t, err)
	first, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.NotZero(t, first.Result.Seed)
	assert.Zero(t, cfg.GA.Seed, "caller config is left untouched")

	again := testConfig(t, export.FormatJSON)
	again.GA.Seed = first.Result.Seed
	svc2, err := New(again)
	require.NoError(t, err)
	second, err := svc2.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Result.Seed, second.Result.Seed)
	assert.Equal(t, first.Result.BestFitness, second.Result.BestFitness)
	assert.Equal(t, first.Result.Elite.Schedule(), second.Result.Elite.Schedule())
}
