package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/ucga/core/cost"
	"github.com/kilianp07/ucga/core/ga"
	"github.com/kilianp07/ucga/core/schedule"
)

func sampleResult(t *testing.T) *ga.Result {
	t.Helper()
	s := schedule.Integer{{3, -1}, {4, 1}}
	elite, err := ga.NewGenotype(s, func(schedule.Integer) (float64, error) { return 1234.5, nil })
	require.NoError(t, err)
	return &ga.Result{
		RunID:       "run-1",
		Seed:        9,
		Elite:       elite,
		BestFitness: []float64{1500, 1234.5},
		Breakdown:   cost.Breakdown{Fuel: 1000, Start: 234.5},
		Penalty:     1e4,
		Evaluations: 42,
		Duration:    1500 * time.Millisecond,
	}
}

func TestScheduleCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteScheduleCSV(&buf, schedule.Integer{{3, -1}, {4, 1}}))
	assert.Equal(t, "period,unit_0,unit_1\n0,3,-1\n1,4,1\n", buf.String())

	b, err := ReadScheduleCSV(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, schedule.Binary{{1, 0}, {1, 1}}, b)

	_, err = ReadScheduleCSV(strings.NewReader("period,unit_0\n"))
	assert.Error(t, err)
	_, err = ReadScheduleCSV(strings.NewReader("period,unit_0\n0,x\n"))
	assert.ErrorContains(t, err, "period 0 unit 0")
}

func TestConvergenceAndDispatchCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteConvergenceCSV(&buf, []float64{10.5, 9}))
	assert.Equal(t, "generation,best_fitness\n0,10.5\n1,9\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteDispatchCSV(&buf, mat.NewDense(2, 2, []float64{100, 0, 120.25, 30})))
	assert.Equal(t, "period,unit_0,unit_1\n0,100,0\n1,120.25,30\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	d := mat.NewDense(2, 2, []float64{100, 0, 120, 30})
	doc := FromResult(sampleResult(t), d)
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, doc))

	var got Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, 1234.5, got.Fitness)
	assert.Equal(t, int64(1500), got.DurationMS)
	assert.Equal(t, schedule.Integer{{3, -1}, {4, 1}}, got.Schedule)
	assert.Equal(t, [][]float64{{100, 0}, {120, 30}}, got.Dispatch)
	assert.Equal(t, 234.5, got.Breakdown.Start)
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	d := mat.NewDense(2, 2, []float64{100, 0, 120, 30})
	doc := FromResult(sampleResult(t), d)

	paths, err := WriteFiles(filepath.Join(dir, "csv"), FormatCSV, doc, d)
	require.NoError(t, err)
	assert.Len(t, paths, 3)
	for _, p := range paths {
		assert.FileExists(t, p)
	}

	paths, err = WriteFiles(dir, FormatJSON, doc, d)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	raw, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"run_id": "run-1"`)

	_, err = WriteFiles(dir, "xml", doc, d)
	assert.Error(t, err)
}
