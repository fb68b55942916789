// Package main provides the entry point for the bloomfang CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bloomfang/cmd/bloomfang/commands"
	"github.com/Sumatoshi-tech/bloomfang/pkg/version"
)

var verbose bool

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "bloomfang",
		Short: "Bloomfang - Bloom filter sizing and membership tooling",
		Long: `Bloomfang plans and probes Bloom filters.

Commands:
  plan      Compute an optimal filter geometry for a target load
  check     Build a filter from a corpus and probe membership`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add commands.
	rootCmd.AddCommand(commands.NewPlanCommand())
	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "bloomfang %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
