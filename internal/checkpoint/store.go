// Package checkpoint persists discovery progress: the set of completed
// search-unit keys and the global set of channel IDs already emitted.
// The file format is one unit key per line, human readable, so an operator
// can inspect or reset progress with a text editor.
package checkpoint

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/cohortlab/channelscout/internal/domain"
	"github.com/cohortlab/channelscout/internal/output"
)

// Store holds both durable sets. Written only by the single orchestrator
// process; run at most one discovery process per checkpoint file.
type Store struct {
	path      string
	completed map[string]struct{}
	seen      map[string]struct{}

	// recovered is set when a corrupt checkpoint file was discarded at
	// load time. Redundant API work will follow; data cannot be lost.
	recovered bool
}

// Load reads the checkpoint file at path and reconstructs the seen set by
// scanning every output CSV in outputDir, so output written before the
// checkpoint file existed still deduplicates correctly. A corrupt
// checkpoint is logged loudly and treated as "no units complete".
func Load(path, outputDir string) (*Store, error) {
	s := &Store{
		path:      path,
		completed: make(map[string]struct{}),
		seen:      make(map[string]struct{}),
	}

	if err := s.loadCompleted(); err != nil {
		log.Printf("checkpoint: WARNING: %v; treating all units as pending (redundant API calls will follow)", err)
		s.completed = make(map[string]struct{})
		s.recovered = true
	}

	ids, err := output.ScanChannelIDs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan prior output for seen channel ids: %w", err)
	}
	for _, id := range ids {
		s.seen[id] = struct{}{}
	}

	return s, nil
}

func (s *Store) loadCompleted() error {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return domain.NewDomainErrorWithCause(domain.ErrCodeCorruptCheckpoint,
			"checkpoint file unreadable",
			errors.Join(domain.ErrCorruptCheckpoint, err))
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !validKey(line) {
			return domain.NewDomainErrorWithCause(domain.ErrCodeCorruptCheckpoint,
				fmt.Sprintf("checkpoint file malformed at line %d: %q", lineNo, line),
				domain.ErrCorruptCheckpoint)
		}
		s.completed[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeCorruptCheckpoint,
			"checkpoint file unreadable",
			errors.Join(domain.ErrCorruptCheckpoint, err))
	}
	return nil
}

// validKey accepts "keyword|language|strategy" lines.
func validKey(line string) bool {
	if !utf8.ValidString(line) {
		return false
	}
	return strings.Count(line, "|") == 2
}

// IsComplete reports whether the unit has already finished. Pure lookup.
func (s *Store) IsComplete(unitKey string) bool {
	_, ok := s.completed[unitKey]
	return ok
}

// MarkComplete durably records a unit as finished. Idempotent: repeated
// calls for the same key do nothing. Callers must flush the unit's output
// rows first; a crash between flush and this call costs only redundant API
// work on resume.
func (s *Store) MarkComplete(unitKey string) error {
	if s.IsComplete(unitKey) {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create checkpoint directory: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open checkpoint file: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, unitKey); err != nil {
		return fmt.Errorf("failed to append checkpoint entry: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync checkpoint file: %w", err)
	}

	s.completed[unitKey] = struct{}{}
	return nil
}

// HasSeen reports whether a channel ID was already emitted, in this run or
// any prior one.
func (s *Store) HasSeen(channelID string) bool {
	_, ok := s.seen[channelID]
	return ok
}

// RecordSeen adds a channel ID to the in-memory dedup set. Durability comes
// from the output CSVs themselves, which Load rescans.
func (s *Store) RecordSeen(channelID string) {
	s.seen[channelID] = struct{}{}
}

// CompletedCount returns how many units are checkpointed.
func (s *Store) CompletedCount() int {
	return len(s.completed)
}

// SeenCount returns the size of the dedup set.
func (s *Store) SeenCount() int {
	return len(s.seen)
}

// Recovered reports whether a corrupt checkpoint file was discarded at load.
func (s *Store) Recovered() bool {
	return s.recovered
}
