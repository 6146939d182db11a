// Package stats collects daily channel statistics for an already-discovered
// cohort. One CSV row per channel per observation, append-only, so the
// longitudinal series is a plain concatenation of daily snapshots.
package stats

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cohortlab/channelscout/internal/domain"
	"github.com/cohortlab/channelscout/internal/retry"
)

var statsHeader = []string{"channel_id", "observed_at", "subscriber_count", "view_count", "video_count"}

// ChannelLister is the slice of the YouTube client the collector needs.
type ChannelLister interface {
	ListChannels(ctx context.Context, ids []string) ([]domain.Channel, error)
}

// Collector fetches one statistics snapshot for a set of channels and
// appends it to a dated stats CSV.
type Collector struct {
	lister ChannelLister
	policy retry.Policy
	now    func() time.Time
}

// NewCollector creates a Collector.
func NewCollector(lister ChannelLister, policy retry.Policy) *Collector {
	if policy.MaxAttempts <= 0 {
		policy = retry.DefaultPolicy
	}
	return &Collector{lister: lister, policy: policy, now: time.Now}
}

// Collect fetches current statistics for the given channel IDs and appends
// them to stats_YYYY-MM-DD.csv under dir. Returns the number of rows
// written. Channels the service no longer knows are logged and skipped.
func (c *Collector) Collect(ctx context.Context, ids []string, dir string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	channels, err := retry.Do(ctx, c.policy, "stats", func() ([]domain.Channel, error) {
		return c.lister.ListChannels(ctx, ids)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to fetch channel statistics: %w", err)
	}

	if missing := len(ids) - len(channels); missing > 0 {
		log.Printf("stats: %d of %d channels no longer resolvable, skipping them", missing, len(ids))
	}

	observedAt := c.now().UTC()
	path := filepath.Join(dir, fmt.Sprintf("stats_%s.csv", observedAt.Format("2006-01-02")))
	written, err := appendSnapshot(path, channels, observedAt)
	if err != nil {
		return written, err
	}
	log.Printf("stats: wrote %d rows to %s", written, path)
	return written, nil
}

func appendSnapshot(path string, channels []domain.Channel, observedAt time.Time) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("failed to create stats directory: %w", err)
	}

	info, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr) || (statErr == nil && info.Size() == 0)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open stats file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(statsHeader); err != nil {
			return 0, fmt.Errorf("failed to write stats header: %w", err)
		}
	}

	written := 0
	for _, ch := range channels {
		row := []string{
			ch.ID,
			observedAt.Format(time.RFC3339),
			strconv.FormatInt(ch.SubscriberCount, 10),
			strconv.FormatInt(ch.ViewCount, 10),
			strconv.FormatInt(ch.VideoCount, 10),
		}
		if err := w.Write(row); err != nil {
			return written, fmt.Errorf("failed to write stats row: %w", err)
		}
		written++
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return written, fmt.Errorf("failed to flush stats file: %w", err)
	}
	return written, nil
}
