package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cohortlab/channelscout/internal/config"
	"github.com/cohortlab/channelscout/internal/retry"
	"github.com/cohortlab/channelscout/internal/videos"
)

// VideosCmd creates the videos command.
func VideosCmd() *cobra.Command {
	var (
		idsPath  string
		maxPages int
	)

	cmd := &cobra.Command{
		Use:   "videos",
		Short: "Enumerate the upload inventory of discovered channels",
		Long: `Videos resolves each channel's uploads playlist and pages through its
items into a dated inventory CSV. Channels that are gone or have no uploads
playlist are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runVideos(cmd.Context(), cfg, idsPath, maxPages)
		},
	}

	cmd.Flags().StringVar(&idsPath, "ids", "", "CSV file of channel IDs (default: every discovered channel)")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "Page cap per uploads playlist (0 = full inventory)")

	return cmd
}

func runVideos(ctx context.Context, cfg *config.Config, idsPath string, maxPages int) error {
	client, ledger, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	ids, err := cohortIDs(cfg, idsPath)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Println("No channels to enumerate.")
		return nil
	}

	e := videos.NewEnumerator(client, retry.DefaultPolicy, maxPages)
	n, err := e.EnumerateAll(ctx, ids, cfg.OutputDir)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %d video rows for %d channels (%d quota units spent today).\n", n, len(ids), ledger.Total())
	return nil
}
