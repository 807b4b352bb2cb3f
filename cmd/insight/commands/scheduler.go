package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kognisi/insight/internal/scheduler"
	"github.com/kognisi/insight/internal/scheduler/jobs"
	"github.com/kognisi/insight/pkg/config"
	"github.com/kognisi/insight/pkg/logger"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage scheduled jobs",
	Long: `Starts the scheduler daemon or runs a job on demand.

Registered jobs:
  snapshot_refresh - top of every hour (rebuild the dataset snapshot)
  roster_audit     - daily at 06:00 (identity and source health report)

Example:
  go run ./cmd/insight scheduler start
  go run ./cmd/insight scheduler run roster_audit`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		RunE:  runScheduler,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run a specific job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runSchedulerJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

// buildScheduler wires the job set over a fresh pipeline stack
func buildScheduler(ctx context.Context, cfg *config.Config, log *logger.Logger) (*scheduler.Scheduler, *stack, error) {
	stack, err := buildStack(ctx, cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("build pipeline: %w", err)
	}

	sched := scheduler.New(log)

	if err := sched.AddJob(jobs.NewSnapshotRefreshJob(stack.store, nil, log)); err != nil {
		stack.close()
		return nil, nil, err
	}
	if err := sched.AddJob(jobs.NewRosterAuditJob(stack.store, log)); err != nil {
		stack.close()
		return nil, nil, err
	}

	return sched, stack, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	sched, stack, err := buildScheduler(context.Background(), cfg, log)
	if err != nil {
		return err
	}
	defer stack.close()

	sched.Start()
	fmt.Println("Scheduler running, press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}

func runSchedulerJob(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	sched, stack, err := buildScheduler(context.Background(), cfg, log)
	if err != nil {
		return err
	}
	defer stack.close()

	jobName := args[0]
	if err := sched.RunJob(jobName); err != nil {
		return err
	}

	// RunJob is asynchronous; wait for the result to land in history
	fmt.Printf("Running job %s...\n", jobName)
	for {
		time.Sleep(100 * time.Millisecond)

		history, err := sched.History(jobName)
		if err != nil {
			return err
		}
		if last := history.LastResult(); last != nil {
			if !last.Success {
				return fmt.Errorf("job %s failed: %s", jobName, last.Error)
			}
			fmt.Printf("Job %s completed in %s\n", jobName, last.Duration)
			return nil
		}
	}
}
