package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cohortlab/channelscout/internal/checkpoint"
	"github.com/cohortlab/channelscout/internal/config"
	"github.com/cohortlab/channelscout/internal/quota"
	"github.com/cohortlab/channelscout/internal/report"
)

// ReportCmd creates the report command and its subcommands.
func ReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report quota spend and discovery progress",
	}

	cmd.AddCommand(reportQuotaCmd())
	cmd.AddCommand(reportProgressCmd())
	cmd.AddCommand(reportServeCmd())

	return cmd
}

func reportQuotaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quota",
		Short: "Show quota spend from the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			entries, err := quota.ReadEntries(cfg.LedgerFile)
			if err != nil {
				return err
			}

			report.Quota(entries, time.Now()).WriteText(os.Stdout)
			return nil
		},
	}
}

func reportProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show checkpoint progress and cohort size",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			store, err := checkpoint.Load(cfg.CheckpointFile, cfg.OutputDir)
			if err != nil {
				return err
			}

			report.Progress(store).WriteText(os.Stdout)
			return nil
		},
	}
}

func reportServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only report endpoints over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			portFlag, _ := cmd.Flags().GetString("port")
			if portFlag != "" {
				cfg.Port = portFlag
			}

			return runReportServe(cfg)
		},
	}

	cmd.Flags().StringP("port", "p", "", "Port to listen on (default: config)")

	return cmd
}

func runReportServe(cfg *config.Config) error {
	store, err := checkpoint.Load(cfg.CheckpointFile, cfg.OutputDir)
	if err != nil {
		return err
	}

	router := report.NewRouter(report.RouterConfig{
		LedgerPath: cfg.LedgerFile,
		Progress:   store,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("report server listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("report server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("report server exited")
	return nil
}
