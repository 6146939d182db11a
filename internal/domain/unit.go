package domain

import (
	"fmt"
	"strings"
	"time"
)

// Strategy identifies a search expansion strategy
type Strategy string

const (
	StrategyBase       Strategy = "base"
	StrategyTimeWindow Strategy = "timewindow"
	StrategyRegional   Strategy = "regional"
)

// ValidStrategies lists the recognized strategy names
var ValidStrategies = []Strategy{StrategyBase, StrategyTimeWindow, StrategyRegional}

// IsValidStrategy checks whether a strategy name is recognized
func IsValidStrategy(s Strategy) bool {
	for _, v := range ValidStrategies {
		if s == v {
			return true
		}
	}
	return false
}

// SearchUnit is one (keyword, language, strategy) combination processed as
// an atomic piece of discovery work. Immutable once built from configuration.
type SearchUnit struct {
	Keyword  string
	Language string
	Strategy Strategy

	// StrategyLabel disambiguates strategy instances that share a name,
	// e.g. "timewindow[2023-01-01..2023-06-30]". Empty for base.
	StrategyLabel string

	// Time window bounds for the timewindow strategy; zero otherwise.
	WindowStart time.Time
	WindowEnd   time.Time

	// Region code for the regional strategy; empty otherwise.
	RegionCode string
}

// Key returns the composite checkpoint key for the unit.
// Checkpoint granularity is per-unit: the strategy component carries the
// window label so two windows of the same keyword never collide.
func (u SearchUnit) Key() string {
	strategy := string(u.Strategy)
	if u.StrategyLabel != "" {
		strategy = u.StrategyLabel
	}
	return fmt.Sprintf("%s|%s|%s", u.Keyword, u.Language, strategy)
}

// Validate checks the unit is well formed
func (u SearchUnit) Validate() error {
	if strings.TrimSpace(u.Keyword) == "" {
		return ErrEmptyKeyword
	}
	if strings.Contains(u.Keyword, "|") {
		return NewDomainErrorWithCause(ErrCodeValidation, "keyword must not contain '|'", nil)
	}
	if strings.TrimSpace(u.Language) == "" {
		return ErrEmptyLanguage
	}
	if !IsValidStrategy(u.Strategy) {
		return ErrUnknownStrategy
	}
	if u.Strategy == StrategyTimeWindow && !u.WindowEnd.After(u.WindowStart) {
		return NewDomainErrorWithCause(ErrCodeValidation, "time window end must be after start", nil)
	}
	return nil
}

// UnitState tracks a unit's position in the discovery state machine
type UnitState string

const (
	UnitPending    UnitState = "PENDING"
	UnitSkipped    UnitState = "SKIPPED"
	UnitInProgress UnitState = "IN_PROGRESS"
	UnitComplete   UnitState = "COMPLETE"
	UnitHalted     UnitState = "HALTED"
)
