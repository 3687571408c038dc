package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/ucga/config"
	"github.com/kilianp07/ucga/core/cost"
	"github.com/kilianp07/ucga/core/dispatch"
	"github.com/kilianp07/ucga/core/schedule"
	"github.com/kilianp07/ucga/infra/dataset"
	"github.com/kilianp07/ucga/pkg/export"
)

var evalPenalty float64

var evalCmd = &cobra.Command{
	Use:   "eval SCHEDULE.csv",
	Short: "Price a schedule table against the configured fleet and demand",
	Args:  cobra.ExactArgs(1),
	RunE:  runEval,
}

func init() {
	evalCmd.Flags().Float64Var(&evalPenalty, "penalty", -1, "constraint penalty; ga.max_penalty when negative")
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	fleet, err := dataset.LoadFleet(cfg.Data.Fleet)
	if err != nil {
		return err
	}
	demand, err := dataset.LoadDemand(cfg.Data.Demand)
	if err != nil {
		return err
	}
	if cfg.Data.DemandScale > 0 {
		demand = demand.Scale(cfg.Data.DemandScale)
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	b, err := export.ReadScheduleCSV(f)
	if err != nil {
		return err
	}
	if err := schedule.CheckShape(b, len(demand), len(fleet)); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	solver, err := dispatch.NewSolver(cfg.Dispatch)
	if err != nil {
		return err
	}
	ev, err := cost.NewEvaluator(fleet, demand, cfg.Cost, solver)
	if err != nil {
		return err
	}
	penalty := evalPenalty
	if penalty < 0 {
		penalty = cfg.GA.MaxPenalty
	}
	bd, err := ev.Breakdown(schedule.ToInteger(b, ev.InitStatus()), penalty)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "fuel         %14.2f\n", bd.Fuel)
	fmt.Fprintf(out, "start        %14.2f\n", bd.Start)
	fmt.Fprintf(out, "lost load    %14.2f  (%.2f MWh not served)\n", bd.LostLoad, bd.EnergyNotServed)
	fmt.Fprintf(out, "constraints  %14.2f  (%d violations)\n", bd.Constraint, bd.Violations)
	fmt.Fprintf(out, "total        %14.2f\n", bd.Total())
	fmt.Fprintf(out, "expected     %14.2f\n", bd.Expected)
	fmt.Fprintf(out, "fitness      %14.2f\n", bd.Expected+bd.Constraint)
	return nil
}
