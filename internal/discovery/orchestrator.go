// Package discovery drives the channel discovery loop: it iterates search
// units strictly sequentially, pages each unit's results, filters candidates
// through the dedup set and quality predicates, appends survivors to the
// output store, and checkpoints each unit only after its rows are flushed.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/cohortlab/channelscout/internal/checkpoint"
	"github.com/cohortlab/channelscout/internal/domain"
	"github.com/cohortlab/channelscout/internal/output"
	"github.com/cohortlab/channelscout/internal/quota"
	"github.com/cohortlab/channelscout/internal/retry"
	"github.com/cohortlab/channelscout/internal/youtube"
)

// SearchService is the slice of the YouTube client the orchestrator needs.
// *youtube.Client satisfies it.
type SearchService interface {
	SearchPage(ctx context.Context, q youtube.SearchQuery, pageToken string) (*youtube.SearchPage, error)
	ListChannels(ctx context.Context, ids []string) ([]domain.Channel, error)
}

// QuotaMonitor exposes the advisory daily total for the soft stop.
// *quota.Ledger satisfies it.
type QuotaMonitor interface {
	Total() int64
	OverCeiling() bool
}

// Options configures a run.
type Options struct {
	MaxPagesPerUnit int
	Filter          QualityFilter

	// Limit caps how many pending units this run processes; 0 means all.
	// Skipped units do not count against the limit.
	Limit int

	// SoftStop stops the run cleanly (remaining units stay pending) when
	// the quota monitor reports the ceiling crossed. Convenience, not a
	// correctness requirement.
	SoftStop bool

	RetryPolicy retry.Policy
}

// UnitResult records what happened to one unit.
type UnitResult struct {
	Unit       domain.SearchUnit
	State      domain.UnitState
	Discovered int
	Err        error
}

// Summary aggregates a run's outcome.
type Summary struct {
	RunID      string
	Results    []UnitResult
	Discovered int
	Skipped    int
	Completed  int
	Halted     int

	// QuotaExhausted is set when the service reported the daily budget
	// gone; the run aborted immediately.
	QuotaExhausted bool

	// SoftStopped is set when the advisory ceiling ended the run early.
	SoftStopped bool
}

// Orchestrator coordinates the search service, checkpoint store, and output
// writer. Single-threaded: units are processed strictly sequentially so the
// write-output-then-mark-complete ordering only ever holds for one in-flight
// unit.
type Orchestrator struct {
	search  SearchService
	store   *checkpoint.Store
	writer  *output.Writer
	monitor QuotaMonitor
	opts    Options
	runID   string
	now     func() time.Time
}

// New creates an orchestrator. monitor may be nil when no soft stop is
// configured.
func New(search SearchService, store *checkpoint.Store, writer *output.Writer, monitor QuotaMonitor, runID string, opts Options) *Orchestrator {
	if opts.MaxPagesPerUnit <= 0 {
		opts.MaxPagesPerUnit = 4
	}
	if opts.RetryPolicy.MaxAttempts <= 0 {
		opts.RetryPolicy = retry.DefaultPolicy
	}
	return &Orchestrator{
		search:  search,
		store:   store,
		writer:  writer,
		monitor: monitor,
		opts:    opts,
		runID:   runID,
		now:     time.Now,
	}
}

// Pending returns the units the checkpoint does not yet mark complete.
func (o *Orchestrator) Pending(units []domain.SearchUnit) []domain.SearchUnit {
	var pending []domain.SearchUnit
	for _, u := range units {
		if !o.store.IsComplete(u.Key()) {
			pending = append(pending, u)
		}
	}
	return pending
}

// EstimateCost returns the worst-case quota cost of processing the given
// units: one search.list plus one channels.list batch per page.
func EstimateCost(units []domain.SearchUnit, maxPages int) int64 {
	perUnit := int64(maxPages) * (quota.CostSearchList + quota.CostChannelsList)
	return int64(len(units)) * perUnit
}

// Run processes the units in order. It returns an error only for conditions
// fatal to the whole run (quota exhaustion, output or checkpoint write
// failure); unit-level failures are recorded in the summary and the loop
// continues.
func (o *Orchestrator) Run(ctx context.Context, units []domain.SearchUnit) (*Summary, error) {
	summary := &Summary{RunID: o.runID}
	processed := 0

	for _, unit := range units {
		key := unit.Key()

		if o.store.IsComplete(key) {
			summary.Skipped++
			summary.Results = append(summary.Results, UnitResult{Unit: unit, State: domain.UnitSkipped})
			continue
		}

		if o.opts.Limit > 0 && processed >= o.opts.Limit {
			break
		}
		if o.opts.SoftStop && o.monitor != nil && o.monitor.OverCeiling() {
			log.Printf("discovery: soft quota ceiling reached (total=%d), stopping run; remaining units stay pending", o.monitor.Total())
			summary.SoftStopped = true
			break
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		processed++
		result := o.runUnit(ctx, unit)
		summary.Results = append(summary.Results, result)
		summary.Discovered += result.Discovered

		switch result.State {
		case domain.UnitComplete:
			summary.Completed++
		case domain.UnitHalted:
			summary.Halted++
			if errors.Is(result.Err, domain.ErrQuotaExceeded) {
				summary.QuotaExhausted = true
				return summary, result.Err
			}
			if errors.Is(result.Err, domain.ErrOutputWrite) {
				// Proceeding would break the write-before-mark invariant.
				return summary, result.Err
			}
			log.Printf("discovery: unit %s halted, continuing with next unit: %v", key, result.Err)
		}
	}

	return summary, nil
}

// runUnit executes one unit's full page loop and checkpoints it on success.
func (o *Orchestrator) runUnit(ctx context.Context, unit domain.SearchUnit) UnitResult {
	key := unit.Key()
	log.Printf("discovery: unit %s starting", key)

	pager := youtube.NewSearchPager(o.search, o.buildQuery(unit))
	discovered := 0

	for pager.HasMorePages() {
		page, err := retry.Do(ctx, o.opts.RetryPolicy, key, func() (*youtube.SearchPage, error) {
			return pager.NextPage(ctx)
		})
		if err != nil {
			return UnitResult{Unit: unit, State: domain.UnitHalted, Discovered: discovered, Err: err}
		}

		n, err := o.processPage(ctx, unit, page)
		discovered += n
		if err != nil {
			return UnitResult{Unit: unit, State: domain.UnitHalted, Discovered: discovered, Err: err}
		}
	}

	// Flush before marking complete: a crash between the two costs only
	// redundant API calls on resume, never lost rows.
	if err := o.writer.Flush(); err != nil {
		return UnitResult{Unit: unit, State: domain.UnitHalted, Discovered: discovered,
			Err: domain.NewDomainErrorWithCause(domain.ErrCodeOutputWrite, "flush before checkpoint failed", errors.Join(domain.ErrOutputWrite, err))}
	}
	if err := o.store.MarkComplete(key); err != nil {
		return UnitResult{Unit: unit, State: domain.UnitHalted, Discovered: discovered,
			Err: fmt.Errorf("failed to checkpoint unit %s: %w", key, err)}
	}

	log.Printf("discovery: unit %s complete (%d new channels)", key, discovered)
	return UnitResult{Unit: unit, State: domain.UnitComplete, Discovered: discovered}
}

// processPage filters one page of results and appends survivors.
func (o *Orchestrator) processPage(ctx context.Context, unit domain.SearchUnit, page *youtube.SearchPage) (int, error) {
	// Dedup before hydration: channels.list calls cost quota, so IDs the
	// store has already seen are dropped here.
	var candidates []string
	inPage := map[string]bool{}
	for _, item := range page.Items {
		if item.ChannelID == "" || o.store.HasSeen(item.ChannelID) || inPage[item.ChannelID] {
			continue
		}
		inPage[item.ChannelID] = true
		candidates = append(candidates, item.ChannelID)
	}
	if len(candidates) == 0 {
		return 0, nil
	}

	channels, err := retry.Do(ctx, o.opts.RetryPolicy, unit.Key()+" hydrate", func() ([]domain.Channel, error) {
		return o.search.ListChannels(ctx, candidates)
	})
	if err != nil {
		return 0, err
	}

	discovered := 0
	for _, ch := range channels {
		if o.store.HasSeen(ch.ID) || !o.opts.Filter.Keep(ch) {
			continue
		}
		ch.Tag(unit, o.runID, o.now())
		if err := o.writer.Append(ch); err != nil {
			return discovered, errors.Join(domain.ErrOutputWrite, err)
		}
		o.store.RecordSeen(ch.ID)
		discovered++
	}
	return discovered, nil
}

// buildQuery maps a search unit onto the API filter set.
func (o *Orchestrator) buildQuery(unit domain.SearchUnit) youtube.SearchQuery {
	q := youtube.SearchQuery{
		Query:             unit.Keyword,
		RelevanceLanguage: unit.Language,
		MaxPages:          o.opts.MaxPagesPerUnit,
	}
	switch unit.Strategy {
	case domain.StrategyTimeWindow:
		q.PublishedAfter = unit.WindowStart
		q.PublishedBefore = unit.WindowEnd
	case domain.StrategyRegional:
		q.RegionCode = unit.RegionCode
	}
	return q
}
