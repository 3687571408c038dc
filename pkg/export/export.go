// Package export writes run results as JSON documents or CSV tables.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/ucga/core/cost"
	"github.com/kilianp07/ucga/core/ga"
	"github.com/kilianp07/ucga/core/schedule"
)

// Supported output formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Document is the serialised outcome of a run.
type Document struct {
	RunID       string           `json:"run_id"`
	Seed        uint64           `json:"seed"`
	Fitness     float64          `json:"fitness"`
	BestFitness []float64        `json:"best_fitness"`
	Schedule    schedule.Integer `json:"schedule"`
	Breakdown   cost.Breakdown   `json:"breakdown"`
	Penalty     float64          `json:"penalty"`
	Evaluations int              `json:"evaluations"`
	DurationMS  int64            `json:"duration_ms"`
	// Dispatch holds the unit outputs per period, when computed.
	Dispatch [][]float64 `json:"dispatch,omitempty"`
}

// FromResult builds the document of res. dispatch may be nil.
func FromResult(res *ga.Result, dispatch *mat.Dense) Document {
	doc := Document{
		RunID:       res.RunID,
		Seed:        res.Seed,
		Fitness:     res.Elite.Fitness(),
		BestFitness: append([]float64(nil), res.BestFitness...),
		Schedule:    res.Elite.Schedule(),
		Breakdown:   res.Breakdown,
		Penalty:     res.Penalty,
		Evaluations: res.Evaluations,
		DurationMS:  res.Duration.Milliseconds(),
	}
	if dispatch != nil {
		r, _ := dispatch.Dims()
		doc.Dispatch = make([][]float64, r)
		for t := 0; t < r; t++ {
			doc.Dispatch[t] = mat.Row(nil, t, dispatch)
		}
	}
	return doc
}

// WriteJSON encodes doc with indentation.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteScheduleCSV writes one row per period and one unit_<n> column per unit.
func WriteScheduleCSV(w io.Writer, s schedule.Integer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header("period", s.Units())); err != nil {
		return err
	}
	for t, row := range s {
		rec := make([]string, 0, len(row)+1)
		rec = append(rec, strconv.Itoa(t))
		for _, v := range row {
			rec = append(rec, strconv.Itoa(v))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteConvergenceCSV writes the best fitness of every generation.
func WriteConvergenceCSV(w io.Writer, best []float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"generation", "best_fitness"}); err != nil {
		return err
	}
	for g, f := range best {
		if err := cw.Write([]string{strconv.Itoa(g), formatFloat(f)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDispatchCSV writes the output matrix with the schedule's layout.
func WriteDispatchCSV(w io.Writer, d *mat.Dense) error {
	r, c := d.Dims()
	cw := csv.NewWriter(w)
	if err := cw.Write(header("period", c)); err != nil {
		return err
	}
	for t := 0; t < r; t++ {
		rec := make([]string, 0, c+1)
		rec = append(rec, strconv.Itoa(t))
		for n := 0; n < c; n++ {
			rec = append(rec, formatFloat(d.At(t, n)))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFiles stores doc under dir: result.json for FormatJSON, or
// schedule.csv, convergence.csv and, when present, dispatch.csv for
// FormatCSV. It returns the written paths.
func WriteFiles(dir, format string, doc Document, dispatch *mat.Dense) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var paths []string
	write := func(name string, fn func(io.Writer) error) error {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		paths = append(paths, path)
		return nil
	}

	switch format {
	case FormatJSON, "":
		err := write("result.json", func(w io.Writer) error { return WriteJSON(w, doc) })
		return paths, err
	case FormatCSV:
		if err := write("schedule.csv", func(w io.Writer) error { return WriteScheduleCSV(w, doc.Schedule) }); err != nil {
			return paths, err
		}
		if err := write("convergence.csv", func(w io.Writer) error { return WriteConvergenceCSV(w, doc.BestFitness) }); err != nil {
			return paths, err
		}
		if dispatch != nil {
			if err := write("dispatch.csv", func(w io.Writer) error { return WriteDispatchCSV(w, dispatch) }); err != nil {
				return paths, err
			}
		}
		return paths, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// ReadScheduleCSV parses a table written by WriteScheduleCSV. Cells may hold
// either signed run lengths or 0/1 flags; only the sign matters for the
// on/off pattern returned.
func ReadScheduleCSV(r io.Reader) (schedule.Binary, error) {
	recs, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) < 2 {
		return nil, fmt.Errorf("schedule: no periods")
	}
	units := len(recs[0]) - 1
	if units < 1 {
		return nil, fmt.Errorf("schedule: no unit columns")
	}
	b := schedule.NewBinary(len(recs)-1, units)
	for t, rec := range recs[1:] {
		if len(rec) != units+1 {
			return nil, fmt.Errorf("schedule: period %d has %d cells, want %d", t, len(rec)-1, units)
		}
		for n, cell := range rec[1:] {
			v, err := strconv.Atoi(cell)
			if err != nil {
				return nil, fmt.Errorf("schedule: period %d unit %d: %w", t, n, err)
			}
			if v > 0 {
				b[t][n] = 1
			}
		}
	}
	return b, nil
}

func header(first string, units int) []string {
	h := make([]string, 0, units+1)
	h = append(h, first)
	for n := 0; n < units; n++ {
		h = append(h, "unit_"+strconv.Itoa(n))
	}
	return h
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
