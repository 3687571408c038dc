package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/ucga/core/metrics"
	"github.com/kilianp07/ucga/infra/metrics"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		cfgPath = ""
		dispatchUnits = ""
		evalPenalty = -1
		runSeed = 0
		runProgress = false
		historyRun = ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func dataEnv(t *testing.T) {
	t.Helper()
	t.Setenv("UCGA_DATA__FLEET", filepath.Join("..", "data", "kazarlis_units.csv"))
	t.Setenv("UCGA_DATA__DEMAND", filepath.Join("..", "data", "kazarlis_demand.txt"))
	t.Setenv("UCGA_LOGGING__LEVEL", "error")
}

func TestParseUnits(t *testing.T) {
	all, err := parseUnits("", 3)
	require.NoError(t, err)
	assert.Equal(t, []int8{1, 1, 1}, all)

	some, err := parseUnits("0, 2", 3)
	require.NoError(t, err)
	assert.Equal(t, []int8{1, 0, 1}, some)

	_, err = parseUnits("3", 3)
	assert.Error(t, err)
	_, err = parseUnits("a", 3)
	assert.Error(t, err)
}

func TestDispatchCommand(t *testing.T) {
	dataEnv(t)
	out, err := execute(t, "dispatch", "700", "--units", "0,1")
	require.NoError(t, err)
	assert.Contains(t, out, "unit  online  output")
	assert.Contains(t, out, "energy not served 0.000")

	_, err = execute(t, "dispatch", "-5")
	assert.Error(t, err)
}

func TestEvalCommand(t *testing.T) {
	dataEnv(t)
	path := filepath.Join(t.TempDir(), "schedule.csv")
	var rows bytes.Buffer
	rows.WriteString("period,u0,u1,u2,u3,u4,u5,u6,u7,u8,u9\n")
	for p := 0; p < 24; p++ {
		rows.WriteString("0,1,1,1,1,1,1,1,1,1,1\n")
	}
	require.NoError(t, os.WriteFile(path, rows.Bytes(), 0o600))

	out, err := execute(t, "eval", path, "--penalty", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "fuel")
	assert.Contains(t, out, "fitness")
}

func TestRunCommand(t *testing.T) {
	dataEnv(t)
	t.Setenv("UCGA_GA__POPULATION_SIZE", "6")
	t.Setenv("UCGA_GA__GENERATIONS", "2")
	t.Setenv("UCGA_OUTPUT__DIR", t.TempDir())
	out, err := execute(t, "run", "--seed", "5", "--progress")
	require.NoError(t, err)
	assert.Contains(t, out, "generation   1")
	assert.Contains(t, out, "seed 5")
	assert.Contains(t, out, "result.json")
}

func TestHistoryCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	sink, err := metrics.NewJournalSink(metrics.JournalConfig{Path: path})
	require.NoError(t, err)
	require.NoError(t, sink.RecordGeneration(coremetrics.GenerationEvent{RunID: "r1", Generation: 0, BestFitness: 1234.5}))
	require.NoError(t, sink.RecordRun(coremetrics.RunSummary{RunID: "r1", Generations: 1, BestFitness: 1234.5, Evaluations: 40}))
	sink.Close()

	out, err := execute(t, "history", path)
	require.NoError(t, err)
	assert.Contains(t, out, "run r1")
	assert.Contains(t, out, "best 1234.50 after 40 evaluations")
	assert.Contains(t, out, "1234.50")

	_, err = execute(t, "history", path, "--run", "missing")
	assert.Error(t, err)
}
