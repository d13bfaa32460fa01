// Package hunger derives depletion rates and feed schedules from species
// hunger constants.
package hunger

import (
	"math"

	"petlens/internal/domain/estimate"
	"petlens/internal/domain/progression"
	"petlens/internal/domain/species"
)

type Reason string

const (
	ReasonNone              Reason = ""
	ReasonNoCapacity        Reason = "capacity_unknown"
	ReasonNoDepletionMinute Reason = "depletion_time_unknown"
)

// State is the hunger picture for one pet. Rates are nil when the species
// constants are missing.
type State struct {
	Available bool   `json:"available"`
	Reason    Reason `json:"reason,omitempty"`

	Capacity         float64 `json:"capacity"`
	CapacityFallback bool    `json:"capacity_fallback"`
	DepletionMinutes float64 `json:"depletion_minutes"`

	DepletionPerMinute *float64 `json:"depletion_per_minute"`
	FeedsPerHour       *float64 `json:"feeds_per_hour"`

	Percent           *float64          `json:"percent"`
	MinutesToStarving *float64          `json:"minutes_to_starving"`
	TimeUntilStarving estimate.Estimate `json:"time_until_starving"`
}

// FeedCount is the number of feeds needed to cover some progress, or the
// reason there is no number.
type FeedCount struct {
	Status estimate.Status `json:"status"`
	Feeds  *int            `json:"feeds,omitempty"`
}

// ResolvePercent returns the hunger percentage, deriving it from the raw value
// when the snapshot only reports that. Results are clamped to [0, 100].
func ResolvePercent(pct, value *float64, capacity float64) *float64 {
	var p float64
	switch {
	case pct != nil:
		p = *pct
	case value != nil && capacity > 0:
		p = *value / capacity * 100
	default:
		return nil
	}
	if math.IsNaN(p) {
		return nil
	}
	p = math.Max(0, math.Min(100, p))
	return &p
}

// Calculate derives the hunger state. fallbackCapacity is used only when the
// species has no capacity entry, and the result is flagged when it is.
func Calculate(c species.Constants, pct *float64, fallbackCapacity *float64) State {
	var s State
	switch {
	case c.HungerCapacity != nil && *c.HungerCapacity > 0:
		s.Capacity = *c.HungerCapacity
	case fallbackCapacity != nil && *fallbackCapacity > 0:
		s.Capacity = *fallbackCapacity
		s.CapacityFallback = true
	default:
		return State{Reason: ReasonNoCapacity, TimeUntilStarving: estimate.Unavailable()}
	}
	if c.HungerDepletionMinutes == nil || *c.HungerDepletionMinutes <= 0 {
		return State{Reason: ReasonNoDepletionMinute, TimeUntilStarving: estimate.Unavailable()}
	}

	s.Available = true
	s.DepletionMinutes = *c.HungerDepletionMinutes
	rate := s.Capacity / s.DepletionMinutes
	// rate*60/C, reduced so whole-hour depletion times stay exact.
	feeds := 60 / s.DepletionMinutes
	s.DepletionPerMinute = &rate
	s.FeedsPerHour = &feeds

	s.TimeUntilStarving = estimate.Unavailable()
	if pct != nil && !math.IsNaN(*pct) {
		p := math.Max(0, math.Min(100, *pct))
		s.Percent = &p
		// pct/100 * C/rate collapses to pct/100 * T.
		minutes := p / 100 * s.DepletionMinutes
		s.MinutesToStarving = &minutes
		s.TimeUntilStarving = estimate.OK(minutes / 60)
	}
	return s
}

// FeedsForLevels counts the feeds needed while earning the next n levels at
// xpPerHour: hunger depleted over that time divided by capacity, plus one
// feed to top up first, rounded up.
func (s State) FeedsForLevels(p progression.State, n int, xpPerHour float64) FeedCount {
	switch {
	case !s.Available || !p.Available:
		return FeedCount{Status: estimate.StatusUnavailable}
	case p.AtCap:
		return FeedCount{Status: estimate.StatusAtCap}
	}
	xp, ok := p.XPForLevels(n)
	if !ok {
		return FeedCount{Status: estimate.StatusUnavailable}
	}
	t := estimate.FromRate(float64(xp), xpPerHour)
	minutes, ok := t.Minutes()
	if !ok {
		return FeedCount{Status: t.Status}
	}
	// depleted/C with depleted = minutes*C/T reduces to minutes/T.
	feeds := int(math.Ceil(minutes/s.DepletionMinutes)) + 1
	return FeedCount{Status: estimate.StatusOK, Feeds: &feeds}
}

func (s State) FeedsPerLevel(p progression.State, xpPerHour float64) FeedCount {
	return s.FeedsForLevels(p, 1, xpPerHour)
}

func (s State) FeedsToCap(p progression.State, xpPerHour float64) FeedCount {
	return s.FeedsForLevels(p, p.LevelsRemaining, xpPerHour)
}
