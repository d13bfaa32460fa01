// Package species holds the read-only per-species constants used by the
// progression and hunger calculators.
package species

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed species.yaml
var speciesYAML []byte

// Constants are the published numbers for one species. Nil fields are unknown.
type Constants struct {
	ID                     string   `yaml:"id" json:"id"`
	Name                   string   `yaml:"name" json:"name"`
	HungerCapacity         *float64 `yaml:"hunger_capacity" json:"hunger_capacity"`
	HungerDepletionMinutes *float64 `yaml:"hunger_depletion_minutes" json:"hunger_depletion_minutes"`
	MatureHours            *float64 `yaml:"mature_hours" json:"mature_hours"`
	XPPerLevel             *int64   `yaml:"xp_per_level" json:"xp_per_level"`
	MaxScale               *float64 `yaml:"max_scale" json:"max_scale"`
}

// Table is a case-insensitive species lookup.
type Table struct {
	byID map[string]Constants
}

// NewTable builds a table; duplicate ids are rejected.
func NewTable(entries []Constants) (*Table, error) {
	t := &Table{byID: make(map[string]Constants, len(entries))}
	for _, c := range entries {
		key := normalize(c.ID)
		if key == "" {
			return nil, fmt.Errorf("species %q has no id", c.Name)
		}
		if _, dup := t.byID[key]; dup {
			return nil, fmt.Errorf("duplicate species %s", c.ID)
		}
		t.byID[key] = c
	}
	return t, nil
}

// Lookup returns the constants for a species id. Unknown species report false
// rather than a default entry.
func (t *Table) Lookup(id string) (Constants, bool) {
	if t == nil {
		return Constants{}, false
	}
	c, ok := t.byID[normalize(id)]
	return c, ok
}

// IDs returns all species ids in sorted order.
func (t *Table) IDs() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.byID))
	for _, c := range t.byID {
		out = append(out, c.ID)
	}
	sort.Strings(out)
	return out
}

// ParseTable decodes a YAML species table.
func ParseTable(data []byte) (*Table, error) {
	var f struct {
		Species []Constants `yaml:"species"`
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing species table: %w", err)
	}
	return NewTable(f.Species)
}

// LoadDefault builds the table from the embedded species list.
func LoadDefault() (*Table, error) {
	return ParseTable(speciesYAML)
}

func MustLoadDefault() *Table {
	t, err := LoadDefault()
	if err != nil {
		panic(err)
	}
	return t
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
