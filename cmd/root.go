package cmd

import (
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "ucga",
	Short:         "Unit commitment by genetic algorithm",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json); defaults and UCGA_ environment overrides apply without one")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }
