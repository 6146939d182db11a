// Package output manages the append-only discovery CSVs. Each run appends
// to a dated file; deduplication across files happens at read time via
// ScanChannelIDs. Rows are never mutated or deleted.
package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cohortlab/channelscout/internal/domain"
)

// Header is the discovery CSV column layout. The channel ID leads so the
// dedup scan can key on the first column.
var Header = []string{
	"channel_id",
	"title",
	"published_at",
	"video_count",
	"subscriber_count",
	"view_count",
	"country",
	"discovery_method",
	"discovery_language",
	"discovery_keyword",
	"discovered_at",
	"run_id",
}

// Writer appends discovered channel rows to one dated CSV file.
type Writer struct {
	path string
	file *os.File
	csv  *csv.Writer
}

// NewWriter opens (or creates) the dated output file for the given day
// inside dir, writing the header only when the file is new.
func NewWriter(dir string, day time.Time) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeOutputWrite, "failed to create output directory", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("discovered_%s.csv", day.UTC().Format("2006-01-02")))
	info, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr) || (statErr == nil && info.Size() == 0)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeOutputWrite, "failed to open output file", err)
	}

	w := &Writer{path: path, file: f, csv: csv.NewWriter(f)}
	if writeHeader {
		if err := w.csv.Write(Header); err != nil {
			f.Close()
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeOutputWrite, "failed to write header", err)
		}
	}
	return w, nil
}

// Path returns the output file path.
func (w *Writer) Path() string {
	return w.path
}

// Append buffers one channel row. Call Flush to make it durable.
func (w *Writer) Append(ch domain.Channel) error {
	row := []string{
		ch.ID,
		ch.Title,
		ch.PublishedAt.UTC().Format(time.RFC3339),
		strconv.FormatInt(ch.VideoCount, 10),
		strconv.FormatInt(ch.SubscriberCount, 10),
		strconv.FormatInt(ch.ViewCount, 10),
		ch.Country,
		ch.DiscoveryMethod,
		ch.DiscoveryLanguage,
		ch.DiscoveryKeyword,
		ch.DiscoveredAt.UTC().Format(time.RFC3339),
		ch.RunID,
	}
	if err := w.csv.Write(row); err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeOutputWrite, "failed to append row", err)
	}
	return nil
}

// Flush pushes buffered rows through the OS to disk. The checkpoint must
// not mark a unit complete until this has succeeded.
func (w *Writer) Flush() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeOutputWrite, "failed to flush rows", err)
	}
	if err := w.file.Sync(); err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeOutputWrite, "failed to sync output file", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// nonCohortPrefixes name the CSVs this tool writes into the output
// directory that are derived from the cohort rather than defining it.
// Scanning them back in would re-ingest stats rows and raw video IDs.
var nonCohortPrefixes = []string{"stats_", "videos_"}

// ScanChannelIDs reads the channel_id column from every cohort CSV in dir,
// including files written by runs that predate the checkpoint file. Stats
// and video inventory files are skipped. Each ID appears once, in
// deterministic first-seen order (sorted by filename, then row order).
func ScanChannelIDs(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	seen := make(map[string]struct{})
	var ids []string
	for _, path := range paths {
		if isNonCohortFile(filepath.Base(path)) {
			continue
		}
		fileIDs, err := readIDColumn(path)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", path, err)
		}
		for _, id := range fileIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func isNonCohortFile(name string) bool {
	for _, prefix := range nonCohortPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// ReadChannelIDs reads the first column of a single CSV file, skipping a
// channel_id header row when present.
func ReadChannelIDs(path string) ([]string, error) {
	return readIDColumn(path)
}

func readIDColumn(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	var ids []string
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if i == 0 && row[0] == "channel_id" {
			continue
		}
		if row[0] != "" {
			ids = append(ids, row[0])
		}
	}
	return ids, nil
}
