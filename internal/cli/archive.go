package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/cohortlab/channelscout/internal/config"
	"github.com/cohortlab/channelscout/internal/storage"
)

// ArchiveCmd creates the archive command.
func ArchiveCmd() *cobra.Command {
	var (
		prefix    string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Upload output CSVs to S3-compatible object storage",
		Long: `Archive copies every CSV in the output directory to the configured
bucket under a date prefix. Local files stay in place; already-archived
objects are skipped unless --overwrite is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if prefix == "" {
				prefix = time.Now().UTC().Format("2006-01-02")
			}
			return runArchive(cmd.Context(), cfg, prefix, overwrite)
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "Object key prefix (default: today's date)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Re-upload files that are already archived")

	return cmd
}

func runArchive(ctx context.Context, cfg *config.Config, prefix string, overwrite bool) error {
	if !cfg.HasS3() {
		return fmt.Errorf("archive not configured: CHANNELSCOUT_S3_ENDPOINT, CHANNELSCOUT_S3_ACCESS_KEY_ID, and CHANNELSCOUT_S3_SECRET_ACCESS_KEY are required")
	}

	client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKey,
		SecretAccessKey: cfg.S3SecretKey,
		Bucket:          cfg.S3Bucket,
		UsePathStyle:    true,
	})
	if err != nil {
		return fmt.Errorf("failed to create S3 client: %w", err)
	}

	if err := client.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("failed to ensure S3 bucket: %w", err)
	}
	log.Printf("S3 bucket '%s' ready", cfg.S3Bucket)

	n, err := client.ArchiveDir(ctx, cfg.OutputDir, prefix, overwrite)
	if err != nil {
		return err
	}

	fmt.Printf("Archived %d files under %s/%s/.\n", n, cfg.S3Bucket, prefix)
	return nil
}
