package ports

import "context"

// ValuationContext is an opaque, expensive-to-build snapshot owned by a
// ValuationBridge.
type ValuationContext any

type DynamicEffect struct {
	EffectPerProc float64 `json:"effect_per_proc"`
	Detail        string  `json:"detail,omitempty"`
}

// ValuationBridge prices abilities whose payout depends on live game state.
// Both calls may fail; the bool is false when no price applies.
type ValuationBridge interface {
	BuildContext(ctx context.Context) (ValuationContext, error)
	ResolveDynamicEffect(vc ValuationContext, abilityID string, strength int) (DynamicEffect, bool)
}
