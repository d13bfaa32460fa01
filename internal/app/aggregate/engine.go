// Package aggregate combines per-ability and per-pet results into the team
// XP pool and comparison-ready bundles for each active pet.
package aggregate

import (
	"context"
	"fmt"
	"time"

	"petlens/internal/app/ports"
	"petlens/internal/app/valuation"
	"petlens/internal/domain/ability"
	"petlens/internal/domain/estimate"
	"petlens/internal/domain/hunger"
	"petlens/internal/domain/pet"
	"petlens/internal/domain/procrate"
	"petlens/internal/domain/progression"
	"petlens/internal/domain/species"
)

// DefaultBaseXPPerHour is one XP per second, earned by every active pet.
const DefaultBaseXPPerHour = 3600

const maxSuggestions = 3

type Options struct {
	Proc             procrate.Options
	Rules            progression.Rules
	BaseXPPerHour    float64
	FallbackCapacity *float64
}

func DefaultOptions() Options {
	return Options{
		Proc:          procrate.DefaultOptions(),
		Rules:         progression.DefaultRules(),
		BaseXPPerHour: DefaultBaseXPPerHour,
	}
}

// Engine is stateless apart from the valuation cache it is handed.
type Engine struct {
	Abilities ports.AbilitySource
	Species   ports.SpeciesSource
	Valuation *valuation.Cache
	Options   Options
	Now       func() time.Time
}

type IssueKind string

const (
	IssueUnknownAbility       IssueKind = "unknown_ability"
	IssueUnknownSpecies       IssueKind = "unknown_species"
	IssueStrengthAssumed      IssueKind = "strength_assumed"
	IssueValuationUnavailable IssueKind = "valuation_unavailable"
	IssueInvalidSnapshot      IssueKind = "invalid_snapshot"
	IssueInternal             IssueKind = "internal"
)

// Issue records a degraded input. Issues never stop a report from being built.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	PetID   string    `json:"pet_id,omitempty"`
	Subject string    `json:"subject,omitempty"`
	Detail  string    `json:"detail,omitempty"`
}

// AbilityStats is one granted ability of one pet. Unresolved abilities carry
// no stats and count as zero everywhere.
type AbilityStats struct {
	Raw         string           `json:"raw"`
	Resolved    bool             `json:"resolved"`
	ID          string           `json:"id,omitempty"`
	Name        string           `json:"name,omitempty"`
	Category    ability.Category `json:"category,omitempty"`
	Suggestions []string         `json:"suggestions,omitempty"`
	Stats       *procrate.Stats  `json:"stats,omitempty"`

	def ability.Definition
}

// Contribution is one (pet, ability) pair feeding the shared XP pool.
type Contribution struct {
	PetID        string  `json:"pet_id"`
	AbilityID    string  `json:"ability_id"`
	PerMinute    float64 `json:"per_minute"`
	ProcsPerHour float64 `json:"procs_per_hour"`
	XPPerHour    float64 `json:"xp_per_hour"`
}

// TeamRate is the shared XP pool. Every active pet earns XPPerHourPerPet no
// matter which pet produced the bonus.
type TeamRate struct {
	ActivePets                int            `json:"active_pets"`
	Contributors              []Contribution `json:"contributors"`
	ChanceAtLeastOnePerMinute float64        `json:"chance_at_least_one_per_minute"`
	ProcsPerHour              float64        `json:"procs_per_hour"`
	BonusXPPerHour            float64        `json:"bonus_xp_per_hour"`
	BaseXPPerHour             float64        `json:"base_xp_per_hour"`
	XPPerHourPerPet           float64        `json:"xp_per_hour_per_pet"`
}

type Totals struct {
	ProcsPerHour float64  `json:"procs_per_hour"`
	CoinsPerHour *float64 `json:"coins_per_hour"`
	CoinsPerDay  *float64 `json:"coins_per_day"`
}

// Bundle is everything derived for one pet in one refresh.
type Bundle struct {
	Pet             pet.Snapshot      `json:"pet"`
	DisplayName     string            `json:"display_name"`
	SpeciesKnown    bool              `json:"species_known"`
	Abilities       []AbilityStats    `json:"abilities"`
	Progression     progression.State `json:"progression"`
	Hunger          hunger.State      `json:"hunger"`
	XPPerHour       float64           `json:"xp_per_hour"`
	TimeToNextLevel estimate.Estimate `json:"time_to_next_level"`
	TimeToCap       estimate.Estimate `json:"time_to_cap"`
	FeedsPerLevel   hunger.FeedCount  `json:"feeds_per_level"`
	FeedsToCap      hunger.FeedCount  `json:"feeds_to_cap"`
	Totals          Totals            `json:"totals"`
	Issues          []Issue           `json:"issues,omitempty"`
}

type Report struct {
	GeneratedAt        time.Time `json:"generated_at"`
	Team               TeamRate  `json:"team"`
	Pets               []Bundle  `json:"pets"`
	Skipped            []Issue   `json:"skipped,omitempty"`
	// ValuationAvailable is nil when no pet needed the valuation bridge.
	ValuationAvailable *bool `json:"valuation_available,omitempty"`
}

type ValuationStatus string

const (
	ValuationNotNeeded   ValuationStatus = "not_needed"
	ValuationOK          ValuationStatus = "available"
	ValuationUnavailable ValuationStatus = "unavailable"
)

func (r Report) ValuationStatus() ValuationStatus {
	switch {
	case r.ValuationAvailable == nil:
		return ValuationNotNeeded
	case *r.ValuationAvailable:
		return ValuationOK
	}
	return ValuationUnavailable
}

// UnknownAbilities counts unresolved ability entries across the report.
func (r Report) UnknownAbilities() int {
	n := 0
	for _, b := range r.Pets {
		for _, a := range b.Abilities {
			if !a.Resolved {
				n++
			}
		}
	}
	return n
}

// Find returns the bundle for petID.
func (r Report) Find(petID string) (Bundle, bool) {
	for _, b := range r.Pets {
		if b.Pet.ID == petID {
			return b, true
		}
	}
	return Bundle{}, false
}

// valuationSession builds the valuation context lazily, once per Build.
type valuationSession struct {
	cache   *valuation.Cache
	ctx     context.Context
	tried   bool
	vc      ports.ValuationContext
	present bool
}

func (s *valuationSession) context() (ports.ValuationContext, bool) {
	if !s.tried {
		s.tried = true
		s.vc, s.present = s.cache.Context(s.ctx)
	}
	return s.vc, s.present
}

// Build derives the full report for the given active pets. Bundles keep the
// input order.
func (e Engine) Build(ctx context.Context, pets []pet.Snapshot) Report {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	report := Report{GeneratedAt: now()}
	session := &valuationSession{cache: e.Valuation, ctx: ctx}

	bundles := make([]Bundle, 0, len(pets))
	for _, p := range pets {
		if err := p.Validate(); err != nil {
			report.Skipped = append(report.Skipped, Issue{Kind: IssueInvalidSnapshot, Subject: p.Species, Detail: err.Error()})
			continue
		}
		bundles = append(bundles, e.abilityPass(p, session))
	}

	report.Team = e.teamRate(bundles)
	for i := range bundles {
		e.progressionPass(&bundles[i], report.Team.XPPerHourPerPet)
	}
	report.Pets = bundles
	if session.tried {
		present := session.present
		report.ValuationAvailable = &present
	}
	return report
}

func (e Engine) abilityPass(p pet.Snapshot, session *valuationSession) (b Bundle) {
	b = Bundle{Pet: p, DisplayName: p.DisplayName()}
	defer func() {
		if r := recover(); r != nil {
			b.Abilities = nil
			b.Totals = Totals{}
			b.Issues = append(b.Issues, Issue{Kind: IssueInternal, PetID: p.ID, Detail: fmt.Sprint(r)})
		}
	}()

	if p.Strength == nil && len(p.Abilities) > 0 {
		b.Issues = append(b.Issues, Issue{
			Kind:   IssueStrengthAssumed,
			PetID:  p.ID,
			Detail: fmt.Sprintf("strength unknown, rates use baseline %d", e.Options.Proc.BaselineStrength),
		})
	}

	var procs, coins []float64
	for _, raw := range p.Abilities {
		as := e.describe(raw, p.Strength)
		if !as.Resolved {
			b.Issues = append(b.Issues, Issue{Kind: IssueUnknownAbility, PetID: p.ID, Subject: raw})
			b.Abilities = append(b.Abilities, as)
			continue
		}
		if as.def.Dynamic {
			e.attachValue(&b, as.Stats, as.def, session)
		}
		if as.Stats.ProcsPerHour != nil {
			procs = append(procs, *as.Stats.ProcsPerHour)
		}
		if as.Stats.Value.PerHour != nil {
			coins = append(coins, *as.Stats.Value.PerHour)
		}
		b.Abilities = append(b.Abilities, as)
	}

	b.Totals.ProcsPerHour = procrate.SumRates(procs...)
	if len(coins) > 0 {
		perHour := procrate.SumRates(coins...)
		perDay := perHour * procrate.HoursPerDay
		b.Totals.CoinsPerHour = &perHour
		b.Totals.CoinsPerDay = &perDay
	}
	return b
}

func (e Engine) attachValue(b *Bundle, stats *procrate.Stats, def ability.Definition, session *valuationSession) {
	vc, ok := session.context()
	if ok {
		var effect ports.DynamicEffect
		if effect, ok = session.cache.Resolve(vc, def.ID, stats.Strength); ok {
			*stats = stats.WithDynamicValue(effect.EffectPerProc, effect.Detail)
			return
		}
	}
	b.Issues = append(b.Issues, Issue{Kind: IssueValuationUnavailable, PetID: b.Pet.ID, Subject: def.ID})
}

// Describe resolves one raw ability identifier at the given strength.
func (e Engine) Describe(raw string, strength *int) AbilityStats {
	return e.describe(raw, strength)
}

func (e Engine) describe(raw string, strength *int) AbilityStats {
	as := AbilityStats{Raw: raw}
	if e.Abilities == nil {
		return as
	}
	def, ok := e.Abilities.Resolve(raw)
	if !ok {
		as.Suggestions = e.Abilities.Suggest(raw, maxSuggestions)
		return as
	}
	stats := procrate.Calculate(def, strength, e.Options.Proc)
	as.Resolved = true
	as.def = def
	as.ID = def.ID
	as.Name = def.Name
	as.Category = def.Category
	as.Stats = &stats
	return as
}

func (e Engine) teamRate(bundles []Bundle) TeamRate {
	team := TeamRate{
		ActivePets:    len(bundles),
		BaseXPPerHour: e.Options.BaseXPPerHour,
		Contributors:  []Contribution{},
	}
	var perMinute, procs, xp []float64
	for _, b := range bundles {
		for _, as := range b.Abilities {
			if !as.Resolved {
				continue
			}
			def := as.def
			if !def.GrantsTeamXP() || as.Stats.EffectPerHour == nil {
				continue
			}
			c := Contribution{
				PetID:        b.Pet.ID,
				AbilityID:    def.ID,
				PerMinute:    *as.Stats.PerMinute,
				ProcsPerHour: *as.Stats.ProcsPerHour,
				XPPerHour:    *as.Stats.EffectPerHour,
			}
			team.Contributors = append(team.Contributors, c)
			perMinute = append(perMinute, c.PerMinute)
			procs = append(procs, c.ProcsPerHour)
			xp = append(xp, c.XPPerHour)
		}
	}
	team.ChanceAtLeastOnePerMinute = procrate.CombineProbabilities(perMinute...)
	team.ProcsPerHour = procrate.SumRates(procs...)
	team.BonusXPPerHour = procrate.SumRates(xp...)
	team.XPPerHourPerPet = team.BaseXPPerHour + team.BonusXPPerHour
	return team
}

func (e Engine) progressionPass(b *Bundle, xpPerHour float64) {
	b.XPPerHour = xpPerHour

	var sp species.Constants
	if e.Species != nil {
		sp, b.SpeciesKnown = e.Species.Lookup(b.Pet.Species)
	}
	if !b.SpeciesKnown {
		b.Issues = append(b.Issues, Issue{Kind: IssueUnknownSpecies, PetID: b.Pet.ID, Subject: b.Pet.Species})
	}

	b.Progression = progression.Calculate(b.Pet.Strength, b.Pet.XP, sp.XPPerLevel, e.Options.Rules)
	b.TimeToNextLevel = b.Progression.TimeToNextLevel(xpPerHour)
	b.TimeToCap = b.Progression.TimeToCap(xpPerHour)

	capacity := 0.0
	switch {
	case sp.HungerCapacity != nil:
		capacity = *sp.HungerCapacity
	case e.Options.FallbackCapacity != nil:
		capacity = *e.Options.FallbackCapacity
	}
	pct := hunger.ResolvePercent(b.Pet.HungerPercent, b.Pet.HungerValue, capacity)
	b.Hunger = hunger.Calculate(sp, pct, e.Options.FallbackCapacity)
	b.FeedsPerLevel = b.Hunger.FeedsPerLevel(b.Progression, xpPerHour)
	b.FeedsToCap = b.Hunger.FeedsToCap(b.Progression, xpPerHour)
}
