package main

import (
	"os"

	"github.com/bpytools/rnagen/cmd/rnagen/commons"
	"github.com/bpytools/rnagen/cmd/rnagen/digest"
	"github.com/bpytools/rnagen/cmd/rnagen/drivers"
	"github.com/bpytools/rnagen/cmd/rnagen/eval"
	"github.com/bpytools/rnagen/cmd/rnagen/lex"
	"github.com/bpytools/rnagen/cmd/rnagen/nodes"
	"github.com/bpytools/rnagen/cmd/rnagen/preset"
	"github.com/bpytools/rnagen/cmd/rnagen/reverse"
	"github.com/bpytools/rnagen/pkg/version"
	"github.com/spf13/cobra"
)

var commands = []*cobra.Command{
	lex.Cmd,
	eval.Cmd,
	digest.Cmd,
	reverse.Cmd,
	drivers.Cmd,
	nodes.Cmd,
	preset.Cmd,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&commons.FlagLogLevel, "log-level", "INFO", "minimum log level: DEBUG, INFO, WARNING or ERROR.")
	rootCmd.PersistentFlags().StringVar(&commons.FlagLogFile, "log-file", "", "write logs to this file instead of stderr.")
	rootCmd.PersistentFlags().StringVar(&commons.FlagMetricsFile, "metrics-file", "", "write run metrics in the Prometheus text format to this file.")
	rootCmd.PersistentFlags().StringVar(&commons.FlagConfig, "config", "", "config file with sources and script defaults.")

	rootCmd.AddCommand(commands...)
	rootCmd.Version = version.GetUserAgent()
}

var rootCmd = &cobra.Command{
	Use:   "rnagen subcommand",
	Short: "rnagen turns scene data paths into presets and Python scripts",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return commons.Setup()
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return commons.Teardown()
	},
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
