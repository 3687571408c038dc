package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/ucga/infra/metrics"
)

var historyRun string

var historyCmd = &cobra.Command{
	Use:   "history JOURNAL",
	Short: "Print the convergence of runs recorded by the journal sink",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyRun, "run", "", "only show this run id")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	runs, err := metrics.ReadJournal(args[0], historyRun)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return fmt.Errorf("no runs in %s", args[0])
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, r := range runs {
		status := "incomplete"
		if r.Summary != nil {
			status = fmt.Sprintf("best %.2f after %d evaluations", r.Summary.BestFitness, r.Summary.Evaluations)
		}
		fmt.Fprintf(w, "run %s\t%s\n", r.RunID, status)
		fmt.Fprintln(w, "generation\tbest\tmean\tpenalty")
		for _, ev := range r.Generations {
			fmt.Fprintf(w, "%d\t%.2f\t%.2f\t%.1f\n", ev.Generation, ev.BestFitness, ev.MeanFitness, ev.Penalty)
		}
	}
	return w.Flush()
}
