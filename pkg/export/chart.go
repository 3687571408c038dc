package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ChartFile is the name of the convergence chart written by WriteChartFile.
const ChartFile = "convergence.html"

// WriteConvergenceChart renders the best fitness per generation as an HTML
// line chart.
func WriteConvergenceChart(w io.Writer, doc Document) error {
	if len(doc.BestFitness) == 0 {
		return fmt.Errorf("no generations to plot")
	}
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Convergence", Subtitle: "run " + doc.RunID}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Generation"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Best fitness", Scale: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	xAxis := make([]string, len(doc.BestFitness))
	points := make([]opts.LineData, len(doc.BestFitness))
	for g, f := range doc.BestFitness {
		xAxis[g] = strconv.Itoa(g)
		points[g] = opts.LineData{Value: f}
	}
	line.SetXAxis(xAxis).AddSeries("best", points)
	return line.Render(w)
}

// WriteChartFile writes the convergence chart under dir and returns its path.
func WriteChartFile(dir string, doc Document) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, ChartFile)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := WriteConvergenceChart(f, doc); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, f.Close()
}
