// Package quota keeps the advisory ledger of external API call costs.
// The ledger never gates control flow beyond an operator-configured soft
// ceiling; it exists so a human can see where the daily budget went.
package quota

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Advertised unit costs for YouTube Data API v3 call types.
const (
	CostSearchList        int64 = 100
	CostChannelsList      int64 = 1
	CostPlaylistItemsList int64 = 1
)

// Call type labels as written to the ledger.
const (
	CallSearchList        = "search.list"
	CallChannelsList      = "channels.list"
	CallPlaylistItemsList = "playlistItems.list"
)

var ledgerHeader = []string{"timestamp", "call_type", "cost", "running_daily_total"}

// Entry is one ledger row
type Entry struct {
	Timestamp    time.Time
	CallType     string
	Cost         int64
	RunningTotal int64
}

// Ledger appends call costs to a CSV file and tracks the running total for
// the current UTC day. The total carries across process restarts: opening
// the ledger re-sums today's rows.
type Ledger struct {
	path    string
	ceiling int64
	day     string
	total   int64
	now     func() time.Time
}

// Open loads the ledger at path, recomputing today's running total from
// existing rows. A missing file starts empty; ceiling <= 0 disables the
// soft ceiling.
func Open(path string, ceiling int64) (*Ledger, error) {
	l := &Ledger{path: path, ceiling: ceiling, now: time.Now}
	l.day = l.today()

	entries, err := ReadEntries(path)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Timestamp.UTC().Format("2006-01-02") == l.day {
			l.total += e.Cost
		}
	}
	return l, nil
}

func (l *Ledger) today() string {
	return l.now().UTC().Format("2006-01-02")
}

// Record appends one call to the ledger and advances the running total.
// The total resets when the UTC day rolls over.
func (l *Ledger) Record(callType string, cost int64) error {
	if day := l.today(); day != l.day {
		l.day = day
		l.total = 0
	}
	l.total += cost

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create ledger directory: %w", err)
	}

	writeHeader := false
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		writeHeader = true
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(ledgerHeader); err != nil {
			return fmt.Errorf("failed to write ledger header: %w", err)
		}
	}
	row := []string{
		l.now().UTC().Format(time.RFC3339),
		callType,
		strconv.FormatInt(cost, 10),
		strconv.FormatInt(l.total, 10),
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("failed to write ledger row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush ledger: %w", err)
	}
	return nil
}

// Total returns today's running cost total
func (l *Ledger) Total() int64 {
	if l.today() != l.day {
		return 0
	}
	return l.total
}

// OverCeiling reports whether today's total has crossed the soft ceiling.
// Advisory only; callers decide whether to stop.
func (l *Ledger) OverCeiling() bool {
	return l.ceiling > 0 && l.Total() >= l.ceiling
}

// ReadEntries parses all rows from a ledger file. A missing file yields an
// empty slice. Malformed rows are skipped with a warning rather than
// failing the caller; the ledger is advisory.
func ReadEntries(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	var entries []Entry
	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == "timestamp" {
			continue
		}
		if len(row) != len(ledgerHeader) {
			log.Printf("quota: skipping malformed ledger row %d (%d fields)", i+1, len(row))
			continue
		}
		ts, err := time.Parse(time.RFC3339, row[0])
		if err != nil {
			log.Printf("quota: skipping ledger row %d with bad timestamp %q", i+1, row[0])
			continue
		}
		cost, err := strconv.ParseInt(row[2], 10, 64)
		if err != nil {
			log.Printf("quota: skipping ledger row %d with bad cost %q", i+1, row[2])
			continue
		}
		total, _ := strconv.ParseInt(row[3], 10, 64)
		entries = append(entries, Entry{Timestamp: ts, CallType: row[1], Cost: cost, RunningTotal: total})
	}
	return entries, nil
}
