package pet

import (
	"errors"
	"strings"
	"time"
)

// Snapshot is a read-only view of one active pet as reported by the game
// client. Nil fields were not reported and must be treated as unknown.
type Snapshot struct {
	ID            string    `json:"id"`
	Species       string    `json:"species"`
	Name          string    `json:"name,omitempty"`
	Strength      *int      `json:"strength"`
	XP            *int64    `json:"xp"`
	HungerValue   *float64  `json:"hunger"`
	HungerPercent *float64  `json:"hunger_percent"`
	Abilities     []string  `json:"abilities"`
	TargetScale   *float64  `json:"target_scale,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

var ErrMissingID = errors.New("pet snapshot has no id")

func (s Snapshot) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return ErrMissingID
	}
	return nil
}

// DisplayName falls back to the species when the pet is unnamed.
func (s Snapshot) DisplayName() string {
	if n := strings.TrimSpace(s.Name); n != "" {
		return n
	}
	if s.Species != "" {
		return s.Species
	}
	return s.ID
}

// Int returns a pointer to v; convenient for building snapshots.
func Int(v int) *int { return &v }

func Int64(v int64) *int64 { return &v }

func Float(v float64) *float64 { return &v }
