package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cohortlab/channelscout/internal/checkpoint"
	"github.com/cohortlab/channelscout/internal/config"
	"github.com/cohortlab/channelscout/internal/discovery"
	"github.com/cohortlab/channelscout/internal/domain"
	"github.com/cohortlab/channelscout/internal/output"
	"github.com/cohortlab/channelscout/internal/telemetry"
	"github.com/cohortlab/channelscout/internal/units"
)

// DiscoverCmd creates the discover command.
func DiscoverCmd() *cobra.Command {
	var (
		unitsPath      string
		strategies     []string
		limit          int
		dryRun         bool
		noSoftStop     bool
		checkpointPath string
		outputDir      string
	)

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Run keyword discovery over a stream definition",
		Long: `Discover expands a stream definition into search units (keyword x language
x strategy), runs each pending unit against the YouTube Data API, and appends
newly found channels to the output CSVs. Completed units are checkpointed, so
an interrupted run resumes where it left off.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if checkpointPath != "" {
				cfg.CheckpointFile = checkpointPath
			}
			if outputDir != "" {
				cfg.OutputDir = outputDir
			}
			return runDiscover(cmd.Context(), cfg, unitsPath, strategies, limit, dryRun, !noSoftStop)
		},
	}

	cmd.Flags().StringVarP(&unitsPath, "units", "u", "", "Stream definition YAML file (required)")
	_ = cmd.MarkFlagRequired("units")
	cmd.Flags().StringSliceVar(&strategies, "strategies", nil, "Only run these strategies (default: all in the file)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Process at most N pending units (0 = all)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List pending work and worst-case quota cost without calling the API")
	cmd.Flags().BoolVar(&noSoftStop, "no-soft-stop", false, "Keep running past the advisory daily quota ceiling")
	cmd.Flags().StringVar(&checkpointPath, "checkpoint", "", "Checkpoint file path (default: config)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Output directory (default: config)")

	return cmd
}

func runDiscover(ctx context.Context, cfg *config.Config, unitsPath string, strategies []string, limit int, dryRun, softStop bool) error {
	file, err := units.LoadFile(unitsPath)
	if err != nil {
		return err
	}

	all, err := file.Build(strategies)
	if err != nil {
		return err
	}

	store, err := checkpoint.Load(cfg.CheckpointFile, cfg.OutputDir)
	if err != nil {
		return err
	}

	var pending []domain.SearchUnit
	for _, u := range all {
		if !store.IsComplete(u.Key()) {
			pending = append(pending, u)
		}
	}

	if dryRun {
		fmt.Printf("Stream: %s\n", file.Stream)
		fmt.Printf("Units: %d total, %d pending, %d complete\n", len(all), len(pending), len(all)-len(pending))
		fmt.Printf("Known channels: %d\n", store.SeenCount())
		fmt.Printf("Worst-case quota cost: %d units\n", discovery.EstimateCost(pending, cfg.MaxPagesPerUnit))
		return nil
	}

	if len(pending) == 0 {
		fmt.Println("Nothing to do: every unit is already complete.")
		return nil
	}

	shutdown, err := telemetry.Init(telemetry.Config{DSN: cfg.SentryDSN, Debug: cfg.Debug})
	if err != nil {
		log.Printf("telemetry init failed (continuing without reporting): %v", err)
	} else {
		defer shutdown()
	}

	client, ledger, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	writer, err := output.NewWriter(cfg.OutputDir, time.Now().UTC())
	if err != nil {
		return err
	}
	defer writer.Close()

	runID := uuid.NewString()
	log.Printf("discover: run %s starting (%d pending units, stream %s)", runID, len(pending), file.Stream)
	telemetry.AddBreadcrumb(ctx, "discovery", fmt.Sprintf("run %s: %d pending units for stream %s", runID, len(pending), file.Stream))

	o := discovery.New(client, store, writer, ledger, runID, discovery.Options{
		MaxPagesPerUnit: cfg.MaxPagesPerUnit,
		Filter: discovery.QualityFilter{
			Cutoff:         file.Cutoff,
			CutoffDisabled: file.DisableCutoff,
		},
		Limit:    limit,
		SoftStop: softStop,
	})

	summary, runErr := o.Run(ctx, all)
	printSummary(summary, ledger.Total())

	if runErr != nil {
		telemetry.CaptureError(ctx, runErr)
		return runErr
	}
	if summary.Halted > 0 {
		return fmt.Errorf("%d units halted; rerun to retry them", summary.Halted)
	}
	return nil
}

func printSummary(s *discovery.Summary, quotaToday int64) {
	fmt.Printf("\nRun %s finished.\n", s.RunID)
	fmt.Printf("  Discovered: %d new channels\n", s.Discovered)
	fmt.Printf("  Units:      %d completed, %d skipped, %d halted\n", s.Completed, s.Skipped, s.Halted)
	fmt.Printf("  Quota:      %d units spent today\n", quotaToday)
	if s.QuotaExhausted {
		fmt.Println("  Daily quota exhausted; resume after the quota reset.")
	}
	if s.SoftStopped {
		fmt.Println("  Stopped at the advisory quota ceiling; remaining units stay pending.")
	}
}
