// Package report builds human-facing summaries of quota spend and
// discovery progress, as text and as a small read-only HTTP surface.
// Everything here is advisory; nothing feeds back into control flow.
package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/cohortlab/channelscout/internal/quota"
)

// DayTotal is one day's aggregated quota spend.
type DayTotal struct {
	Day   string `json:"day"`
	Total int64  `json:"total"`
	Calls int    `json:"calls"`
}

// QuotaSummary aggregates the ledger for reporting.
type QuotaSummary struct {
	Today      string           `json:"today"`
	TodayTotal int64            `json:"today_total"`
	ByCallType map[string]int64 `json:"by_call_type"`
	Days       []DayTotal       `json:"days"`
}

// Quota aggregates ledger entries. ByCallType covers today only; Days
// covers the whole ledger, oldest first.
func Quota(entries []quota.Entry, now time.Time) *QuotaSummary {
	today := now.UTC().Format("2006-01-02")
	s := &QuotaSummary{
		Today:      today,
		ByCallType: map[string]int64{},
	}

	dayTotals := map[string]*DayTotal{}
	for _, e := range entries {
		day := e.Timestamp.UTC().Format("2006-01-02")
		dt, ok := dayTotals[day]
		if !ok {
			dt = &DayTotal{Day: day}
			dayTotals[day] = dt
		}
		dt.Total += e.Cost
		dt.Calls++

		if day == today {
			s.TodayTotal += e.Cost
			s.ByCallType[e.CallType] += e.Cost
		}
	}

	for _, dt := range dayTotals {
		s.Days = append(s.Days, *dt)
	}
	sort.Slice(s.Days, func(i, j int) bool { return s.Days[i].Day < s.Days[j].Day })
	return s
}

// ProgressSummary reports discovery progress from the checkpoint store.
type ProgressSummary struct {
	CompletedUnits int `json:"completed_units"`
	SeenChannels   int `json:"seen_channels"`
}

// ProgressSource is the slice of the checkpoint store the report needs.
type ProgressSource interface {
	CompletedCount() int
	SeenCount() int
}

// Progress builds a progress summary.
func Progress(src ProgressSource) *ProgressSummary {
	return &ProgressSummary{
		CompletedUnits: src.CompletedCount(),
		SeenChannels:   src.SeenCount(),
	}
}

// WriteText renders the quota summary for a terminal.
func (s *QuotaSummary) WriteText(w io.Writer) {
	fmt.Fprintf(w, "Quota spend for %s: %d units\n", s.Today, s.TodayTotal)
	if len(s.ByCallType) > 0 {
		types := make([]string, 0, len(s.ByCallType))
		for t := range s.ByCallType {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Fprintf(w, "  %-20s %d\n", t, s.ByCallType[t])
		}
	}
	if len(s.Days) > 0 {
		fmt.Fprintln(w, "\nDaily totals:")
		for _, d := range s.Days {
			fmt.Fprintf(w, "  %s  %6d units  (%d calls)\n", d.Day, d.Total, d.Calls)
		}
	}
}

// WriteText renders the progress summary for a terminal.
func (p *ProgressSummary) WriteText(w io.Writer) {
	fmt.Fprintf(w, "Completed units: %d\n", p.CompletedUnits)
	fmt.Fprintf(w, "Known channels:  %d\n", p.SeenChannels)
}
