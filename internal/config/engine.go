package config

import (
	"fmt"

	"petlens/internal/app/aggregate"
	"petlens/internal/domain/ability"
	"petlens/internal/domain/procrate"
	"petlens/internal/domain/progression"
)

// EngineOptions converts the engine, hunger and event sections into
// calculator options.
func (c *Config) EngineOptions() (aggregate.Options, error) {
	events := make(map[ability.TriggerKind]float64, len(c.EventsPerHour))
	for name, rate := range c.EventsPerHour {
		kind, err := ability.ParseTriggerKind(name)
		if err != nil {
			return aggregate.Options{}, fmt.Errorf("%w: events_per_hour: %v", ErrInvalidConfig, err)
		}
		if kind.IsContinuous() {
			return aggregate.Options{}, fmt.Errorf("%w: events_per_hour: %s abilities roll every tick", ErrInvalidConfig, name)
		}
		events[kind] = rate
	}

	opts := aggregate.Options{
		Proc: procrate.Options{
			BaselineStrength: c.Engine.BaselineStrength,
			MaxPerMinute:     c.Engine.MaxProcPerMinute,
			EventsPerHour:    events,
		},
		Rules: progression.Rules{
			LevelAllowance: c.Engine.LevelAllowance,
			MaxLevel:       c.Engine.MaxLevel,
		},
		BaseXPPerHour: c.Engine.BaseXPPerHour,
	}
	if c.Hunger.DefaultCapacity > 0 {
		capacity := c.Hunger.DefaultCapacity
		opts.FallbackCapacity = &capacity
	}
	return opts, nil
}
