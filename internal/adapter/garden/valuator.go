// Package gardenbridge prices mutation-granting abilities against the crops
// currently planted in the garden.
package gardenbridge

import (
	"context"
	"fmt"

	"petlens/internal/app/ports"
	"petlens/internal/domain/garden"
)

// DefaultGrants maps ability ids to the color mutation they apply.
func DefaultGrants() map[string]string {
	return map[string]string{
		"GoldGranter":    "Gold",
		"RainbowGranter": "Rainbow",
	}
}

var _ ports.ValuationBridge = (*Valuator)(nil)

type Valuator struct {
	garden ports.GardenSource
	prices *garden.PriceTable
	grants map[string]string
}

type Config struct {
	Garden ports.GardenSource
	Prices *garden.PriceTable
	// Grants defaults to DefaultGrants when nil.
	Grants map[string]string
}

func NewValuator(cfg Config) *Valuator {
	if cfg.Prices == nil {
		cfg.Prices = garden.MustLoadDefaultPrices()
	}
	if cfg.Grants == nil {
		cfg.Grants = DefaultGrants()
	}
	return &Valuator{garden: cfg.Garden, prices: cfg.Prices, grants: cfg.Grants}
}

type uplift struct {
	mean     float64
	eligible int
}

// snapshot is the context handed back to the valuation cache. It holds one
// precomputed uplift per granted mutation.
type snapshot struct {
	crops   int
	uplifts map[string]uplift
}

func (v *Valuator) BuildContext(ctx context.Context) (ports.ValuationContext, error) {
	if v.garden == nil {
		return nil, fmt.Errorf("garden source not configured: %w", ports.ErrUnavailable)
	}
	crops, err := v.garden.ListCrops(ctx)
	if err != nil {
		return nil, fmt.Errorf("list crops: %w", err)
	}
	snap := snapshot{crops: len(crops), uplifts: make(map[string]uplift, len(v.grants))}
	for _, mutation := range v.grants {
		if _, done := snap.uplifts[mutation]; done {
			continue
		}
		mean, eligible := v.prices.MeanUplift(crops, mutation)
		snap.uplifts[mutation] = uplift{mean: mean, eligible: eligible}
	}
	return snap, nil
}

// ResolveDynamicEffect reports the expected coins gained per proc. Strength
// only changes how often the ability fires, so it is ignored here.
func (v *Valuator) ResolveDynamicEffect(vc ports.ValuationContext, abilityID string, _ int) (ports.DynamicEffect, bool) {
	snap, ok := vc.(snapshot)
	if !ok {
		return ports.DynamicEffect{}, false
	}
	mutation, ok := v.grants[abilityID]
	if !ok {
		return ports.DynamicEffect{}, false
	}
	u := snap.uplifts[mutation]
	if u.eligible == 0 {
		return ports.DynamicEffect{}, false
	}
	return ports.DynamicEffect{
		EffectPerProc: u.mean,
		Detail:        fmt.Sprintf("mean %s uplift over %d of %d crops", mutation, u.eligible, snap.crops),
	}, true
}
