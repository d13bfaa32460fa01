// Package valuation caches the expensive valuation context behind a short TTL
// so that one refresh, or several overlapping ones, build it at most once.
package valuation

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"petlens/internal/app/ports"
)

const DefaultTTL = 3 * time.Second

type Config struct {
	Bridge  ports.ValuationBridge
	TTL     time.Duration
	Now     func() time.Time
	Metrics ports.ValuationMetrics
}

type slot struct {
	vc      ports.ValuationContext
	builtAt time.Time
}

// Cache is a single shared slot holding the last built context and when it was
// built. A nil *Cache behaves as an unavailable bridge.
type Cache struct {
	cfg  Config
	mu   sync.Mutex
	slot *slot
	// gen is bumped by Invalidate; a build started under an older gen is
	// returned to its callers but never stored.
	gen   uint64
	group singleflight.Group
}

func NewCache(cfg Config) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Cache{cfg: cfg}
}

func (c *Cache) fresh() (ports.ValuationContext, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.slot == nil || c.cfg.Now().Sub(c.slot.builtAt) >= c.cfg.TTL {
		return nil, false
	}
	return c.slot.vc, true
}

// Context returns a context no older than the TTL, rebuilding it when needed.
// The bool is false when the bridge could not produce one; failures are not
// cached, so the next call tries again.
func (c *Cache) Context(ctx context.Context) (ports.ValuationContext, bool) {
	if c == nil || c.cfg.Bridge == nil {
		return nil, false
	}
	if vc, ok := c.fresh(); ok {
		c.record(ports.ValuationHit)
		return vc, true
	}

	v, err, _ := c.group.Do("context", func() (any, error) {
		if vc, ok := c.fresh(); ok {
			return vc, nil
		}
		c.mu.Lock()
		gen := c.gen
		c.mu.Unlock()

		vc, err := c.build(ctx)
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gen != gen {
			return vc, err
		}
		if err != nil {
			c.slot = nil
			return nil, err
		}
		c.slot = &slot{vc: vc, builtAt: c.cfg.Now()}
		return vc, nil
	})
	if err != nil {
		c.record(ports.ValuationFailure)
		return nil, false
	}
	c.record(ports.ValuationRebuild)
	return v, true
}

func (c *Cache) build(ctx context.Context) (vc ports.ValuationContext, err error) {
	defer func() {
		if r := recover(); r != nil {
			vc, err = nil, fmt.Errorf("%w: valuation bridge panicked: %v", ports.ErrUnavailable, r)
		}
	}()
	vc, err = c.cfg.Bridge.BuildContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrUnavailable, err)
	}
	if vc == nil {
		return nil, ports.ErrUnavailable
	}
	return vc, nil
}

// Resolve prices one dynamic ability against vc. Panics and non-finite values
// from the bridge are reported as false.
func (c *Cache) Resolve(vc ports.ValuationContext, abilityID string, strength int) (effect ports.DynamicEffect, ok bool) {
	if c == nil || c.cfg.Bridge == nil || vc == nil {
		return ports.DynamicEffect{}, false
	}
	defer func() {
		if r := recover(); r != nil {
			effect, ok = ports.DynamicEffect{}, false
		}
	}()
	effect, ok = c.cfg.Bridge.ResolveDynamicEffect(vc, abilityID, strength)
	if !ok || math.IsNaN(effect.EffectPerProc) || math.IsInf(effect.EffectPerProc, 0) {
		return ports.DynamicEffect{}, false
	}
	return effect, true
}

// Invalidate drops the cached context. A build already in flight still
// answers its own callers, but its result is discarded.
func (c *Cache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.slot = nil
	c.gen++
	c.mu.Unlock()
	c.group.Forget("context")
}

// BuiltAt reports when the cached context was built.
func (c *Cache) BuiltAt() (time.Time, bool) {
	if c == nil {
		return time.Time{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.slot == nil {
		return time.Time{}, false
	}
	return c.slot.builtAt, true
}

func (c *Cache) record(outcome ports.ValuationOutcome) {
	if c.cfg.Metrics != nil {
		c.cfg.Metrics.RecordValuation(outcome)
	}
}
