package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "insight",
	Short: "Kognisi Insight - learning analytics pipeline",
	Long: `Kognisi Insight Unified CLI

Reconciles learning activity from every platform against the HR roster
and serves the aggregated views to the dashboard.

Usage:
  go run ./cmd/insight [command]

Examples:
  go run ./cmd/insight api
  go run ./cmd/insight scheduler start
  go run ./cmd/insight fetch
  go run ./cmd/insight export --out events.csv`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}
