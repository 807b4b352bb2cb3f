package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/kognisi/insight/internal/contracts"
	"github.com/kognisi/insight/pkg/config"
	"github.com/kognisi/insight/pkg/logger"
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Run one reconciliation pass and print a summary",
	Long: `Fetches every configured source and the roster, runs the full
identity reconciliation, and prints the dataset summary. Useful for
verifying source connectivity and data quality before serving.

Example:
  go run ./cmd/insight fetch`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	ctx := context.Background()
	stack, err := buildStack(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	defer stack.close()

	ds, err := stack.pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}

	printDatasetSummary(ds)
	return nil
}

// printDatasetSummary renders the key dataset numbers to stdout
func printDatasetSummary(ds *contracts.Dataset) {
	var internal, external int
	for _, rec := range ds.Events {
		if rec.Status == contracts.StatusInternal {
			internal++
		} else {
			external++
		}
	}

	var active, passive int
	for _, c := range ds.Coverage {
		if c.Status == contracts.CoverageActive {
			active++
		} else {
			passive++
		}
	}

	fmt.Printf("Fetched at:     %s\n", ds.FetchedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Events:         %d (internal %d, external %d)\n", len(ds.Events), internal, external)
	fmt.Printf("Roster:         %d (active %d, passive %d)\n", len(ds.Roster), active, passive)

	if len(ds.SourceErrors) > 0 {
		fmt.Println("\nFailed sources:")
		names := make([]string, 0, len(ds.SourceErrors))
		for name := range ds.SourceErrors {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %-12s %s\n", name, ds.SourceErrors[name])
		}
	}

	if len(ds.Warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, warning := range ds.Warnings {
			fmt.Printf("  %s\n", warning)
		}
	}
}
