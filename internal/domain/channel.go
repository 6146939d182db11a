package domain

import (
	"time"
)

// Channel represents a discovered YouTube channel with the metadata captured
// at discovery time. Records are append-only: written once, never mutated.
type Channel struct {
	ID              string
	Title           string
	PublishedAt     time.Time
	VideoCount      int64
	SubscriberCount int64
	ViewCount       int64
	Country         string

	// Provenance: which search unit surfaced this channel. Descriptive
	// metadata only, never used for control flow.
	DiscoveryMethod   string
	DiscoveryLanguage string
	DiscoveryKeyword  string
	DiscoveredAt      time.Time
	RunID             string
}

// Tag stamps provenance fields from the originating unit onto the record.
// First-seen wins: the orchestrator only tags channels that passed the
// dedup check, so a channel rediscovered by a later unit keeps its
// original provenance.
func (c *Channel) Tag(unit SearchUnit, runID string, at time.Time) {
	c.DiscoveryMethod = unit.Key()
	c.DiscoveryLanguage = unit.Language
	c.DiscoveryKeyword = unit.Keyword
	c.DiscoveredAt = at
	c.RunID = runID
}

// ChannelStats is one daily statistics observation for a channel
type ChannelStats struct {
	ChannelID       string
	ObservedAt      time.Time
	SubscriberCount int64
	ViewCount       int64
	VideoCount      int64
}

// Video is one entry from a channel's uploads playlist
type Video struct {
	VideoID     string
	ChannelID   string
	Title       string
	PublishedAt time.Time
	Position    int64
}
