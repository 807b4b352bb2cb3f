package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kognisi/insight/internal/export"
	"github.com/kognisi/insight/pkg/config"
	"github.com/kognisi/insight/pkg/logger"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the reconciled event table as CSV",
	Long: `Runs one reconciliation pass and writes the full reconciled
event table as CSV.

Example:
  go run ./cmd/insight export --out events.csv
  go run ./cmd/insight export > events.csv`,
	RunE: runExport,
}

var exportOut string

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
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

	out := os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := export.WriteCSV(out, ds.Events); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	if exportOut != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d records to %s\n", len(ds.Events), exportOut)
	}
	return nil
}
