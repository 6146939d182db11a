// Package cli implements the channelscout commands.
package cli

import (
	"github.com/cohortlab/channelscout/internal/config"
	"github.com/cohortlab/channelscout/internal/quota"
	"github.com/cohortlab/channelscout/internal/youtube"
)

// newAPIClient builds a ledger-charging API client from config. Every call
// the client makes is recorded in the quota ledger, attempts included.
func newAPIClient(cfg *config.Config) (*youtube.Client, *quota.Ledger, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, nil, err
	}

	ledger, err := quota.Open(cfg.LedgerFile, cfg.DailyQuotaCeiling)
	if err != nil {
		return nil, nil, err
	}

	client := youtube.NewClient(youtube.Config{
		APIKey:            cfg.APIKey,
		Timeout:           cfg.HTTPTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
	}, ledger)

	return client, ledger, nil
}
