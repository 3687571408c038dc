package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/ucga/app"
	"github.com/kilianp07/ucga/config"
	"github.com/kilianp07/ucga/infra/logger"
)

var (
	runSeed     uint64
	runProgress bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Search a commitment schedule and export the result",
	RunE:  runSearch,
}

func init() {
	runCmd.Flags().Uint64Var(&runSeed, "seed", 0, "random seed; overrides ga.seed when non-zero")
	runCmd.Flags().BoolVar(&runProgress, "progress", false, "print one line per generation")
	rootCmd.AddCommand(runCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if runSeed != 0 {
		cfg.GA.Seed = runSeed
	}
	var opts []app.Option
	if runProgress {
		opts = append(opts, app.WithProgress(cmd.OutOrStdout()))
	}
	svc, err := app.New(cfg, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	out, err := svc.Run(ctx)
	if err != nil {
		return err
	}
	b := out.Result.Breakdown
	fmt.Fprintf(cmd.OutOrStdout(), "run %s seed %d\nfitness %.2f (fuel %.2f, start %.2f, lost load %.2f, constraints %.2f, %d violations)\n",
		out.Result.RunID, out.Result.Seed, out.Result.Elite.Fitness(), b.Fuel, b.Start, b.LostLoad, b.Constraint, b.Violations)
	for _, p := range out.Paths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}
