// Package validate runs integrity checks over the discovery CSVs: column
// counts, required fields, and duplicate channel IDs within and across
// files. It reads only; fixing findings is the operator's job.
package validate

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/cohortlab/channelscout/internal/output"
)

// Finding is one violation in one file.
type Finding struct {
	File    string
	Line    int
	Problem string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s:%d: %s", f.File, f.Line, f.Problem)
}

// Report aggregates findings for a directory of output files.
type Report struct {
	FilesChecked int
	RowsChecked  int
	Findings     []Finding
}

// OK reports whether the directory passed every check.
func (r *Report) OK() bool {
	return len(r.Findings) == 0
}

// Dir validates every discovery CSV under dir.
func Dir(dir string) (*Report, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "discovered_*.csv"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	report := &Report{}
	seen := map[string]string{} // channel ID -> first file seen in

	for _, path := range paths {
		if err := checkFile(path, seen, report); err != nil {
			return nil, err
		}
		report.FilesChecked++
	}
	return report, nil
}

func checkFile(path string, seen map[string]string, report *Report) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	name := filepath.Base(path)
	for i, row := range rows {
		line := i + 1
		if i == 0 {
			if len(row) == 0 || row[0] != "channel_id" {
				report.Findings = append(report.Findings, Finding{name, line, "missing or wrong header row"})
			}
			continue
		}
		report.RowsChecked++

		if len(row) != len(output.Header) {
			report.Findings = append(report.Findings, Finding{name, line,
				fmt.Sprintf("expected %d columns, got %d", len(output.Header), len(row))})
			continue
		}
		id := row[0]
		if id == "" {
			report.Findings = append(report.Findings, Finding{name, line, "empty channel_id"})
			continue
		}
		if row[7] == "" {
			report.Findings = append(report.Findings, Finding{name, line, "empty discovery_method"})
		}
		if firstFile, dup := seen[id]; dup {
			report.Findings = append(report.Findings, Finding{name, line,
				fmt.Sprintf("duplicate channel_id %s (first seen in %s)", id, firstFile)})
			continue
		}
		seen[id] = name
	}
	return nil
}
