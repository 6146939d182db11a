// Package units loads search-unit definitions from a YAML stream file and
// expands them into the keyword × language × strategy cross product the
// orchestrator iterates.
package units

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cohortlab/channelscout/internal/domain"
)

// File is the typed form of a stream definition. Validated once at load;
// free-form strategy strings never travel past this package.
type File struct {
	Stream        string           `yaml:"stream"`
	Keywords      []string         `yaml:"keywords"`
	Languages     []string         `yaml:"languages"`
	Cutoff        time.Time        `yaml:"cutoff"`
	DisableCutoff bool             `yaml:"disable_cutoff"`
	Strategies    []StrategyConfig `yaml:"strategies"`
}

// StrategyConfig configures one expansion strategy block.
type StrategyConfig struct {
	Name    string            `yaml:"name"`
	Windows []Window          `yaml:"windows"`
	Regions map[string]string `yaml:"regions"`
}

// Window bounds a timewindow strategy pass.
type Window struct {
	Start time.Time `yaml:"start"`
	End   time.Time `yaml:"end"`
}

// LoadFile reads and validates a stream definition.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read units file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse units file: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the definition is complete and every strategy name is
// recognized.
func (f *File) Validate() error {
	if f.Stream == "" {
		return fmt.Errorf("units file: stream name is required")
	}
	if len(f.Keywords) == 0 {
		return fmt.Errorf("units file: at least one keyword is required")
	}
	if len(f.Languages) == 0 {
		return fmt.Errorf("units file: at least one language is required")
	}
	if len(f.Strategies) == 0 {
		return fmt.Errorf("units file: at least one strategy block is required")
	}
	if !f.DisableCutoff && f.Cutoff.IsZero() {
		return fmt.Errorf("units file: cutoff is required unless disable_cutoff is set")
	}
	for _, s := range f.Strategies {
		if !domain.IsValidStrategy(domain.Strategy(s.Name)) {
			return fmt.Errorf("units file: unknown strategy %q (valid: %v)", s.Name, domain.ValidStrategies)
		}
		if domain.Strategy(s.Name) == domain.StrategyTimeWindow && len(s.Windows) == 0 {
			return fmt.Errorf("units file: timewindow strategy requires at least one window")
		}
		if domain.Strategy(s.Name) == domain.StrategyRegional && len(s.Regions) == 0 {
			return fmt.Errorf("units file: regional strategy requires a language->region map")
		}
	}
	return nil
}

// Build expands the definition into concrete search units. enabled filters
// by strategy name; nil or empty enables every configured strategy. Units
// come out in a deterministic order: strategy block, then keyword, then
// language.
func (f *File) Build(enabled []string) ([]domain.SearchUnit, error) {
	enabledSet := map[string]bool{}
	for _, name := range enabled {
		enabledSet[name] = true
	}

	var units []domain.SearchUnit
	for _, sc := range f.Strategies {
		if len(enabledSet) > 0 && !enabledSet[sc.Name] {
			continue
		}
		strategy := domain.Strategy(sc.Name)

		for _, keyword := range f.Keywords {
			for _, language := range f.Languages {
				switch strategy {
				case domain.StrategyBase:
					units = append(units, domain.SearchUnit{
						Keyword:  keyword,
						Language: language,
						Strategy: strategy,
					})
				case domain.StrategyTimeWindow:
					for _, w := range sc.Windows {
						units = append(units, domain.SearchUnit{
							Keyword:  keyword,
							Language: language,
							Strategy: strategy,
							StrategyLabel: fmt.Sprintf("timewindow[%s..%s]",
								w.Start.UTC().Format("2006-01-02"), w.End.UTC().Format("2006-01-02")),
							WindowStart: w.Start,
							WindowEnd:   w.End,
						})
					}
				case domain.StrategyRegional:
					region, ok := sc.Regions[language]
					if !ok {
						continue
					}
					units = append(units, domain.SearchUnit{
						Keyword:       keyword,
						Language:      language,
						Strategy:      strategy,
						StrategyLabel: fmt.Sprintf("regional[%s]", region),
						RegionCode:    region,
					})
				}
			}
		}
	}

	for _, u := range units {
		if err := u.Validate(); err != nil {
			return nil, fmt.Errorf("unit %q: %w", u.Key(), err)
		}
	}
	return units, nil
}
