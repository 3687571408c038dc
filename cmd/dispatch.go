package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/ucga/config"
	"github.com/kilianp07/ucga/core/dispatch"
	"github.com/kilianp07/ucga/infra/dataset"
)

var dispatchUnits string

var dispatchCmd = &cobra.Command{
	Use:   "dispatch DEMAND",
	Short: "Economic dispatch of one demand value over a set of online units",
	Args:  cobra.ExactArgs(1),
	RunE:  runDispatch,
}

func init() {
	dispatchCmd.Flags().StringVar(&dispatchUnits, "units", "", "comma-separated 0-based unit indices to commit; all units when empty")
	rootCmd.AddCommand(dispatchCmd)
}

func runDispatch(cmd *cobra.Command, args []string) error {
	demand, err := strconv.ParseFloat(args[0], 64)
	if err != nil || demand < 0 {
		return fmt.Errorf("demand %q must be a non-negative number", args[0])
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	fleet, err := dataset.LoadFleet(cfg.Data.Fleet)
	if err != nil {
		return err
	}
	online, err := parseUnits(dispatchUnits, len(fleet))
	if err != nil {
		return err
	}
	solver, err := dispatch.NewSolver(cfg.Dispatch)
	if err != nil {
		return err
	}
	res, err := solver.Period(fleet, online, demand)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "unit\tonline\toutput")
	for n, p := range res.Output {
		fmt.Fprintf(w, "%d\t%d\t%.3f\n", n, online[n], p)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "lambda %.4f after %d iterations, energy not served %.3f\n",
		res.Lambda, res.Iterations, res.EnergyNotServed)
	return nil
}

func parseUnits(list string, units int) ([]int8, error) {
	online := make([]int8, units)
	if strings.TrimSpace(list) == "" {
		for i := range online {
			online[i] = 1
		}
		return online, nil
	}
	for _, f := range strings.Split(list, ",") {
		i, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || i < 0 || i >= units {
			return nil, fmt.Errorf("unit %q is not in [0, %d)", f, units)
		}
		online[i] = 1
	}
	return online, nil
}
