package discovery

import (
	"time"

	"github.com/cohortlab/channelscout/internal/domain"
)

// QualityFilter decides whether a hydrated candidate channel belongs in the
// cohort. The dedup check happens separately against the checkpoint store.
type QualityFilter struct {
	// Cutoff is the earliest acceptable channel creation time. A channel
	// created exactly at the cutoff is kept.
	Cutoff time.Time

	// CutoffDisabled turns the creation-date check off for streams whose
	// scope does not require it.
	CutoffDisabled bool
}

// Keep reports whether the channel passes the quality predicates.
func (f QualityFilter) Keep(ch domain.Channel) bool {
	if !f.CutoffDisabled && ch.PublishedAt.Before(f.Cutoff) {
		return false
	}
	// Empty shells with no content are not worth tracking.
	if ch.VideoCount < 1 {
		return false
	}
	return true
}
