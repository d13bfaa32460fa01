// Package progression recovers a pet's dynamic level cap from its current
// strength and cumulative XP and derives the XP still needed to progress.
//
// The cap recovery is a best-effort heuristic: it assumes every observed
// XP-derived level-up has already been applied to strength. When XP has been
// reset or strength changed out of band the recovered cap is off.
package progression

import (
	"petlens/internal/domain/estimate"
)

const (
	DefaultLevelAllowance = 30
	DefaultMaxLevel       = 100
)

// Rules are the game's level constants.
type Rules struct {
	LevelAllowance int // levels a pet may gain above its hatch level
	MaxLevel       int // global strength ceiling
}

func DefaultRules() Rules {
	return Rules{LevelAllowance: DefaultLevelAllowance, MaxLevel: DefaultMaxLevel}
}

func (r Rules) normalized() Rules {
	if r.LevelAllowance <= 0 {
		r.LevelAllowance = DefaultLevelAllowance
	}
	if r.MaxLevel <= 0 {
		r.MaxLevel = DefaultMaxLevel
	}
	return r
}

// Reason explains why a state is unavailable.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonUnknownStrength Reason = "strength_unknown"
	ReasonUnknownXP       Reason = "xp_unknown"
	ReasonNoXPPerLevel    Reason = "xp_per_level_unknown"
)

// State is the derived progression of one pet. When Available is false every
// other field is zero and the pointer fields are nil.
type State struct {
	Available       bool   `json:"available"`
	Reason          Reason `json:"reason,omitempty"`
	Strength        int    `json:"strength"`
	XP              int64  `json:"xp"`
	XPPerLevel      int64  `json:"xp_per_level"`
	LevelsFromXP    int    `json:"levels_from_xp"`
	HatchLevel      int    `json:"hatch_level"`
	LevelCap        int    `json:"level_cap"`
	AtCap           bool   `json:"at_cap"`
	LevelsRemaining int    `json:"levels_remaining"`
	XPTowardNext    *int64 `json:"xp_toward_next"`
	XPNeededForNext *int64 `json:"xp_needed_for_next"`
	XPNeededForCap  *int64 `json:"xp_needed_for_cap"`
}

func unavailable(reason Reason) State {
	return State{Reason: reason}
}

// Calculate derives the progression state. Any missing input yields an
// unavailable state rather than zeros.
func Calculate(strength *int, xp *int64, xpPerLevel *int64, rules Rules) State {
	switch {
	case xpPerLevel == nil || *xpPerLevel <= 0:
		return unavailable(ReasonNoXPPerLevel)
	case strength == nil:
		return unavailable(ReasonUnknownStrength)
	case xp == nil:
		return unavailable(ReasonUnknownXP)
	}
	rules = rules.normalized()

	per := *xpPerLevel
	cur := *xp
	if cur < 0 {
		cur = 0
	}

	gained := cur / per
	if gained > int64(rules.LevelAllowance) {
		gained = int64(rules.LevelAllowance)
	}

	s := State{
		Available:    true,
		Strength:     *strength,
		XP:           cur,
		XPPerLevel:   per,
		LevelsFromXP: int(gained),
	}
	s.HatchLevel = s.Strength - s.LevelsFromXP
	s.LevelCap = min(s.HatchLevel+rules.LevelAllowance, rules.MaxLevel)

	if s.Strength >= s.LevelCap {
		s.AtCap = true
		return s
	}

	s.LevelsRemaining = s.LevelCap - s.Strength
	toward := cur % per
	next := per - toward
	total := next + per*int64(s.LevelsRemaining-1)
	s.XPTowardNext = &toward
	s.XPNeededForNext = &next
	s.XPNeededForCap = &total
	return s
}

// XPForLevels is the XP needed for the next n levels, clamped to the levels
// remaining before the cap. The bool is false when nothing can be computed.
func (s State) XPForLevels(n int) (int64, bool) {
	if !s.Available || s.AtCap || n <= 0 {
		return 0, false
	}
	if n > s.LevelsRemaining {
		n = s.LevelsRemaining
	}
	return *s.XPNeededForNext + s.XPPerLevel*int64(n-1), true
}

// TimeToNextLevel converts the XP still needed for one level into hours.
func (s State) TimeToNextLevel(xpPerHour float64) estimate.Estimate {
	return s.timeFor(s.XPNeededForNext, xpPerHour)
}

// TimeToCap converts the XP still needed to reach the cap into hours.
func (s State) TimeToCap(xpPerHour float64) estimate.Estimate {
	return s.timeFor(s.XPNeededForCap, xpPerHour)
}

func (s State) timeFor(need *int64, xpPerHour float64) estimate.Estimate {
	switch {
	case !s.Available:
		return estimate.Unavailable()
	case s.AtCap:
		return estimate.AtCap()
	case need == nil:
		return estimate.Unavailable()
	}
	return estimate.FromRate(float64(*need), xpPerHour)
}
