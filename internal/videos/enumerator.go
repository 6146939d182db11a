// Package videos enumerates the upload inventory of discovered channels:
// for each channel it resolves the uploads playlist and pages through its
// items into an append-only inventory CSV.
package videos

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cohortlab/channelscout/internal/domain"
	"github.com/cohortlab/channelscout/internal/retry"
	"github.com/cohortlab/channelscout/internal/youtube"
)

var videosHeader = []string{"video_id", "channel_id", "title", "published_at", "position"}

// PlaylistService is the slice of the YouTube client the enumerator needs.
type PlaylistService interface {
	UploadsPlaylist(ctx context.Context, channelID string) (string, error)
	PlaylistItemsPage(ctx context.Context, playlistID, pageToken string) (*youtube.PlaylistPage, error)
}

// Enumerator walks channels' uploads playlists.
type Enumerator struct {
	svc      PlaylistService
	policy   retry.Policy
	maxPages int
	now      func() time.Time
}

// NewEnumerator creates an Enumerator. maxPages <= 0 walks each playlist
// to its end.
func NewEnumerator(svc PlaylistService, policy retry.Policy, maxPages int) *Enumerator {
	if policy.MaxAttempts <= 0 {
		policy = retry.DefaultPolicy
	}
	return &Enumerator{svc: svc, policy: policy, maxPages: maxPages, now: time.Now}
}

// EnumerateAll writes the upload inventory of every given channel into
// videos_YYYY-MM-DD.csv under dir. Channels that are gone or have no
// uploads playlist are logged and skipped; a quota error aborts the walk.
// Returns the number of video rows written.
func (e *Enumerator) EnumerateAll(ctx context.Context, channelIDs []string, dir string) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create videos directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("videos_%s.csv", e.now().UTC().Format("2006-01-02")))
	info, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr) || (statErr == nil && info.Size() == 0)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open videos file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(videosHeader); err != nil {
			return 0, fmt.Errorf("failed to write videos header: %w", err)
		}
	}

	written := 0
	for _, channelID := range channelIDs {
		n, err := e.enumerateChannel(ctx, channelID, w)
		written += n
		if err != nil {
			if errors.Is(err, domain.ErrChannelNotFound) || errors.Is(err, domain.ErrNoUploadsPlaylist) {
				log.Printf("videos: skipping channel %s: %v", channelID, err)
				continue
			}
			w.Flush()
			return written, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return written, fmt.Errorf("failed to flush videos file: %w", err)
	}
	log.Printf("videos: wrote %d rows to %s", written, path)
	return written, nil
}

func (e *Enumerator) enumerateChannel(ctx context.Context, channelID string, w *csv.Writer) (int, error) {
	uploads, err := retry.Do(ctx, e.policy, channelID+" uploads", func() (string, error) {
		return e.svc.UploadsPlaylist(ctx, channelID)
	})
	if err != nil {
		return 0, err
	}

	pager := youtube.NewPlaylistPager(e.svc, uploads, e.maxPages)
	written := 0
	for pager.HasMorePages() {
		page, err := retry.Do(ctx, e.policy, channelID+" playlist page", func() (*youtube.PlaylistPage, error) {
			return pager.NextPage(ctx)
		})
		if err != nil {
			return written, err
		}
		for _, item := range page.Items {
			row := []string{
				item.VideoID,
				channelID,
				item.Title,
				item.PublishedAt.UTC().Format(time.RFC3339),
				strconv.FormatInt(item.Position, 10),
			}
			if err := w.Write(row); err != nil {
				return written, fmt.Errorf("failed to write video row: %w", err)
			}
			written++
		}
	}
	return written, nil
}
