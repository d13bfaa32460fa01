package ability

import (
	"fmt"
	"strings"
)

// TriggerKind is the closed set of events an ability rolls on.
type TriggerKind uint8

const (
	TriggerContinuous TriggerKind = iota + 1
	TriggerOnHarvest
	TriggerOnSellBatch
	TriggerOnSellSingle
	TriggerOnHatch
)

var triggerNames = map[TriggerKind]string{
	TriggerContinuous:   "continuous",
	TriggerOnHarvest:    "onHarvest",
	TriggerOnSellBatch:  "onSellBatch",
	TriggerOnSellSingle: "onSellSingle",
	TriggerOnHatch:      "onHatch",
}

// TriggerKinds lists every trigger kind in declaration order.
func TriggerKinds() []TriggerKind {
	return []TriggerKind{TriggerContinuous, TriggerOnHarvest, TriggerOnSellBatch, TriggerOnSellSingle, TriggerOnHatch}
}

func (k TriggerKind) String() string {
	if name, ok := triggerNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TriggerKind(%d)", uint8(k))
}

func (k TriggerKind) Valid() bool {
	_, ok := triggerNames[k]
	return ok
}

// IsContinuous reports whether the ability is rolled every simulated tick.
func (k TriggerKind) IsContinuous() bool {
	return k == TriggerContinuous
}

// ParseTriggerKind accepts the canonical names case-insensitively.
func ParseTriggerKind(s string) (TriggerKind, error) {
	s = strings.TrimSpace(s)
	for k, name := range triggerNames {
		if strings.EqualFold(name, s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown trigger kind %q", s)
}

func (k TriggerKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid trigger kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *TriggerKind) UnmarshalText(b []byte) error {
	parsed, err := ParseTriggerKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

type Category string

const (
	CategoryGrowthBoost Category = "growth-boost"
	CategoryXP          Category = "xp"
	CategoryCoinFind    Category = "coin-find"
	CategoryScaleBoost  Category = "scale-boost"
	CategoryHunger      Category = "hunger"
	CategoryMutation    Category = "mutation"
	CategorySellBoost   Category = "sell-boost"
	CategoryMisc        Category = "misc"
)

type EffectUnit string

const (
	UnitNone       EffectUnit = ""
	UnitTime       EffectUnit = "time"       // minutes removed from a timer
	UnitExperience EffectUnit = "experience" // XP granted
	UnitCurrency   EffectUnit = "currency"   // coins
	UnitPercentage EffectUnit = "percentage" // percent points
)

func (u EffectUnit) Valid() bool {
	switch u {
	case UnitNone, UnitTime, UnitExperience, UnitCurrency, UnitPercentage:
		return true
	}
	return false
}

// Effect is what one proc does. A nil Magnitude means no numeric effect is defined,
// which is different from an effect of zero.
type Effect struct {
	Magnitude          *float64   `yaml:"magnitude" json:"magnitude"`
	Unit               EffectUnit `yaml:"unit" json:"unit,omitempty"`
	ScalesWithStrength bool       `yaml:"scales_with_strength" json:"scales_with_strength"`
}

// Definition is an immutable ability entry owned by a Registry.
type Definition struct {
	ID                string      `yaml:"id" json:"id"`
	Name              string      `yaml:"name" json:"name"`
	Aliases           []string    `yaml:"aliases" json:"aliases,omitempty"`
	Category          Category    `yaml:"category" json:"category"`
	Trigger           TriggerKind `yaml:"trigger" json:"trigger"`
	BaseProbability   float64     `yaml:"base_probability" json:"base_probability"` // percent; per minute when continuous
	RollPeriodMinutes float64     `yaml:"roll_period_minutes" json:"roll_period_minutes,omitempty"`
	Effect            Effect      `yaml:"effect" json:"effect"`
	Dynamic           bool        `yaml:"dynamic" json:"dynamic,omitempty"` // priced by the valuation bridge
	Notes             string      `yaml:"notes" json:"notes,omitempty"`
}

// GrantsTeamXP reports whether procs add to the shared XP pool.
func (d Definition) GrantsTeamXP() bool {
	return d.Category == CategoryXP && d.Effect.Unit == UnitExperience && d.Trigger.IsContinuous()
}

// HasMagnitude reports whether a numeric per-proc effect is defined.
func (d Definition) HasMagnitude() bool {
	return d.Effect.Magnitude != nil
}

func (d Definition) validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("ability with name %q has no id", d.Name)
	}
	if !d.Trigger.Valid() {
		return fmt.Errorf("ability %s: invalid trigger %d", d.ID, uint8(d.Trigger))
	}
	if d.BaseProbability < 0 {
		return fmt.Errorf("ability %s: negative base probability %v", d.ID, d.BaseProbability)
	}
	if !d.Effect.Unit.Valid() {
		return fmt.Errorf("ability %s: unknown effect unit %q", d.ID, d.Effect.Unit)
	}
	return nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
