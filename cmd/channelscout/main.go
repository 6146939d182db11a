package main

import (
	"fmt"
	"os"

	"github.com/cohortlab/channelscout/internal/cli"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "channelscout",
		Short: "Channelscout - YouTube channel cohort discovery",
		Long: `Channelscout discovers YouTube channels matching a stream definition and
maintains the cohort's longitudinal data: discovery CSVs, statistics
snapshots, and upload inventories.

Environment variables:
  CHANNELSCOUT_API_KEY      YouTube Data API v3 key (required for API commands)
  CHANNELSCOUT_OUTPUT_DIR   Output directory (default: data/discovered)`,
		Version: version,
	}

	rootCmd.AddCommand(cli.DiscoverCmd())
	rootCmd.AddCommand(cli.StatsCmd())
	rootCmd.AddCommand(cli.VideosCmd())
	rootCmd.AddCommand(cli.ValidateCmd())
	rootCmd.AddCommand(cli.ReportCmd())
	rootCmd.AddCommand(cli.ArchiveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
