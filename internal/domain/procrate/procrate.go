// Package procrate turns an ability definition and a pet's strength into
// expected proc rates. All figures are expectations under a fixed one-roll-
// per-second model; nothing here is sampled.
package procrate

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"petlens/internal/domain/ability"
)

const (
	TicksPerMinute = 60
	TicksPerHour   = 3600
	HoursPerDay    = 24

	// MinMultiplier keeps weak pets at quarter strength instead of zero.
	MinMultiplier = 0.25

	DefaultMaxPerMinute     = 0.95
	DefaultBaselineStrength = 100
)

// Options tune the calculator. The zero value is usable and falls back to
// the defaults above.
type Options struct {
	// BaselineStrength is assumed when a snapshot does not report strength.
	BaselineStrength int
	// MaxPerMinute caps any single ability's per-minute proc chance.
	MaxPerMinute float64
	// EventsPerHour gives the expected trigger rate for event-driven abilities.
	// Kinds missing from the map have unknown hourly figures.
	EventsPerHour map[ability.TriggerKind]float64
}

func DefaultOptions() Options {
	return Options{
		BaselineStrength: DefaultBaselineStrength,
		MaxPerMinute:     DefaultMaxPerMinute,
	}
}

func (o Options) maxPerTick() float64 {
	maxPerMinute := o.MaxPerMinute
	if maxPerMinute <= 0 || maxPerMinute > 1 {
		maxPerMinute = DefaultMaxPerMinute
	}
	return maxPerMinute / TicksPerMinute
}

type ValueSource string

const (
	ValueNone        ValueSource = "none"
	ValueStatic      ValueSource = "static"      // currency magnitude from the catalog
	ValueDynamic     ValueSource = "dynamic"     // priced by the valuation bridge
	ValueUnavailable ValueSource = "unavailable" // dynamic ability, bridge had no answer
)

// Value is the coin worth of an ability's procs.
type Value struct {
	Source  ValueSource `json:"source"`
	PerProc *float64    `json:"per_proc"`
	PerHour *float64    `json:"per_hour"`
	PerDay  *float64    `json:"per_day"`
	Detail  string      `json:"detail,omitempty"`
}

// Stats are the derived rates for one (pet, ability) pair.
type Stats struct {
	AbilityID       string              `json:"ability_id"`
	Trigger         ability.TriggerKind `json:"trigger"`
	Strength        int                 `json:"strength"`
	StrengthAssumed bool                `json:"strength_assumed"`
	Multiplier      float64             `json:"multiplier"`
	// PerRoll is the chance per tick for continuous abilities and per trigger
	// event otherwise.
	PerRoll       float64            `json:"per_roll"`
	PerSecond     *float64           `json:"per_second"`
	PerMinute     *float64           `json:"per_minute"`
	Capped        bool               `json:"capped"`
	ProcsPerHour  *float64           `json:"procs_per_hour"`
	EffectPerHour *float64           `json:"effect_per_hour"`
	EffectUnit    ability.EffectUnit `json:"effect_unit,omitempty"`
	Value         Value              `json:"value"`
}

// Multiplier maps strength onto [MinMultiplier, 1].
func Multiplier(strength int) float64 {
	m := float64(strength) / 100
	if m < MinMultiplier {
		return MinMultiplier
	}
	if m > 1 {
		return 1
	}
	return m
}

// Calculate derives proc statistics for def at the given strength. A nil
// strength uses opts.BaselineStrength and marks the result as assumed.
func Calculate(def ability.Definition, strength *int, opts Options) Stats {
	s := Stats{
		AbilityID:  def.ID,
		Trigger:    def.Trigger,
		EffectUnit: def.Effect.Unit,
		Value:      Value{Source: ValueNone},
	}
	if strength != nil {
		s.Strength = *strength
	} else {
		s.Strength = opts.BaselineStrength
		s.StrengthAssumed = true
	}
	s.Multiplier = Multiplier(s.Strength)

	switch def.Trigger {
	case ability.TriggerContinuous:
		raw := def.BaseProbability / TicksPerMinute / 100 * s.Multiplier
		perTick := raw
		if limit := opts.maxPerTick(); raw > limit {
			perTick = limit
			s.Capped = true
		}
		s.PerRoll = perTick
		s.PerSecond = ptr(perTick)
		s.PerMinute = ptr(perTick * TicksPerMinute)
		s.ProcsPerHour = ptr(perTick * TicksPerHour)
	case ability.TriggerOnHarvest, ability.TriggerOnSellBatch, ability.TriggerOnSellSingle, ability.TriggerOnHatch:
		perEvent := def.BaseProbability / 100 * s.Multiplier
		if perEvent > 1 {
			perEvent = 1
			s.Capped = true
		}
		s.PerRoll = perEvent
		if rate, ok := opts.EventsPerHour[def.Trigger]; ok && rate >= 0 {
			s.ProcsPerHour = ptr(perEvent * rate)
		}
	}

	if def.Effect.Magnitude != nil && s.ProcsPerHour != nil {
		s.EffectPerHour = ptr(*s.ProcsPerHour * effectPerProc(def, s.Multiplier))
	}

	switch {
	case def.Dynamic:
		s.Value = Value{Source: ValueUnavailable}
	case def.Effect.Unit == ability.UnitCurrency && def.Effect.Magnitude != nil:
		s.Value = Value{Source: ValueStatic, PerProc: ptr(effectPerProc(def, s.Multiplier))}
		if s.EffectPerHour != nil {
			s.Value.PerHour = ptr(*s.EffectPerHour)
			s.Value.PerDay = ptr(*s.EffectPerHour * HoursPerDay)
		}
	}
	return s
}

func effectPerProc(def ability.Definition, multiplier float64) float64 {
	if def.Effect.ScalesWithStrength {
		return *def.Effect.Magnitude * multiplier
	}
	return *def.Effect.Magnitude
}

// WithDynamicValue attaches a bridge-supplied coin value per proc.
func (s Stats) WithDynamicValue(perProc float64, detail string) Stats {
	if math.IsNaN(perProc) || math.IsInf(perProc, 0) {
		s.Value = Value{Source: ValueUnavailable, Detail: detail}
		return s
	}
	s.Value = Value{Source: ValueDynamic, PerProc: ptr(perProc), Detail: detail}
	if s.ProcsPerHour != nil {
		perHour := *s.ProcsPerHour * perProc
		s.Value.PerHour = ptr(perHour)
		s.Value.PerDay = ptr(perHour * HoursPerDay)
	}
	return s
}

// CombineProbabilities is the chance that at least one of several independent
// events happens: 1 - Π(1 - p). Inputs are clamped to [0, 1].
func CombineProbabilities(ps ...float64) float64 {
	none := 1.0
	for _, p := range ps {
		switch {
		case math.IsNaN(p) || p <= 0:
			continue
		case p >= 1:
			return 1
		}
		none *= 1 - p
	}
	return 1 - none
}

// SumRates adds expected values of independent abilities. Valid by linearity
// of expectation; never use it on probabilities.
func SumRates(rs ...float64) float64 {
	if len(rs) == 0 {
		return 0
	}
	return floats.Sum(rs)
}

func ptr(v float64) *float64 { return &v }
