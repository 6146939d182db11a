package cli

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cohortlab/channelscout/internal/config"
	"github.com/cohortlab/channelscout/internal/output"
	"github.com/cohortlab/channelscout/internal/retry"
	"github.com/cohortlab/channelscout/internal/stats"
)

// StatsCmd creates the stats command.
func StatsCmd() *cobra.Command {
	var (
		idsPath  string
		watch    bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Snapshot statistics for the discovered cohort",
		Long: `Stats fetches current subscriber, view, and video counts for the cohort
and appends one row per channel to a dated stats CSV. Run it daily (cron, or
--watch) to build a longitudinal series.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runStats(cmd.Context(), cfg, idsPath, watch, interval)
		},
	}

	cmd.Flags().StringVar(&idsPath, "ids", "", "CSV file of channel IDs (default: every discovered channel)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Keep running, snapshotting on an interval")
	cmd.Flags().DurationVar(&interval, "interval", 24*time.Hour, "Snapshot interval with --watch")

	return cmd
}

func runStats(ctx context.Context, cfg *config.Config, idsPath string, watch bool, interval time.Duration) error {
	client, _, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	ids, err := cohortIDs(cfg, idsPath)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Println("No channels to snapshot.")
		return nil
	}

	collector := stats.NewCollector(client, retry.DefaultPolicy)
	job := snapshotJob{collector: collector, ids: ids, dir: cfg.OutputDir}

	if !watch {
		return job.RunOnce(ctx)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// First snapshot immediately; the worker handles the rest.
	if err := job.RunOnce(ctx); err != nil {
		log.Printf("stats: initial snapshot failed: %v", err)
	}

	worker := stats.NewWorker(job, interval)
	worker.Start(ctx)
	return nil
}

// cohortIDs resolves which channels to operate on: an explicit IDs file, or
// everything in the discovery output.
func cohortIDs(cfg *config.Config, idsPath string) ([]string, error) {
	if idsPath != "" {
		return output.ReadChannelIDs(idsPath)
	}
	return output.ScanChannelIDs(cfg.OutputDir)
}

type snapshotJob struct {
	collector *stats.Collector
	ids       []string
	dir       string
}

func (j snapshotJob) RunOnce(ctx context.Context) error {
	n, err := j.collector.Collect(ctx, j.ids, j.dir)
	if err != nil {
		return err
	}
	log.Printf("stats: snapshot wrote %d rows for %d channels", n, len(j.ids))
	return nil
}
