package hunger

import (
	"testing"

	"petlens/internal/domain/estimate"
	"petlens/internal/domain/progression"
	"petlens/internal/domain/species"
)

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }
func i64(v int64) *int64   { return &v }

func TestCalculate_FullHungerLastsDepletionTime(t *testing.T) {
	table := species.MustLoadDefault()
	for _, id := range table.IDs() {
		c, _ := table.Lookup(id)
		if c.HungerCapacity == nil || c.HungerDepletionMinutes == nil {
			continue
		}
		s := Calculate(c, f(100), nil)
		if !s.Available {
			t.Fatalf("%s: expected available, reason=%q", id, s.Reason)
		}
		if *s.MinutesToStarving != *c.HungerDepletionMinutes {
			t.Fatalf("%s: minutes to starving got=%v want=%v", id, *s.MinutesToStarving, *c.HungerDepletionMinutes)
		}
		if want := *c.HungerCapacity / *c.HungerDepletionMinutes; *s.DepletionPerMinute != want {
			t.Fatalf("%s: depletion rate got=%v want=%v", id, *s.DepletionPerMinute, want)
		}
	}
}

func TestCalculate_Rates(t *testing.T) {
	c := species.Constants{ID: "Bunny", HungerCapacity: f(750), HungerDepletionMinutes: f(45)}
	s := Calculate(c, f(50), nil)

	if *s.DepletionPerMinute != 750.0/45 {
		t.Fatalf("depletion/min got=%v", *s.DepletionPerMinute)
	}
	if *s.FeedsPerHour != 60.0/45 {
		t.Fatalf("feeds/hour got=%v want=%v", *s.FeedsPerHour, 60.0/45)
	}
	if *s.MinutesToStarving != 22.5 {
		t.Fatalf("minutes to starving got=%v want=22.5", *s.MinutesToStarving)
	}
	if s.TimeUntilStarving.Status != estimate.StatusOK || s.TimeUntilStarving.Hours != 22.5/60 {
		t.Fatalf("time until starving got=%+v", s.TimeUntilStarving)
	}
	if s.CapacityFallback {
		t.Fatalf("species capacity should not be flagged as fallback")
	}
}

func TestCalculate_MissingConstants(t *testing.T) {
	scarab := species.Constants{ID: "Scarab", XPPerLevel: i64(7200)}

	s := Calculate(scarab, f(80), nil)
	if s.Available || s.Reason != ReasonNoCapacity {
		t.Fatalf("got available=%v reason=%q want reason=%q", s.Available, s.Reason, ReasonNoCapacity)
	}
	if s.FeedsPerHour != nil || s.TimeUntilStarving.Status != estimate.StatusUnavailable {
		t.Fatalf("missing constants must not produce numbers")
	}

	// A fallback capacity cannot stand in for a missing depletion time.
	s = Calculate(scarab, f(80), f(1000))
	if s.Available || s.Reason != ReasonNoDepletionMinute {
		t.Fatalf("got available=%v reason=%q want reason=%q", s.Available, s.Reason, ReasonNoDepletionMinute)
	}
}

func TestCalculate_FallbackCapacityIsFlagged(t *testing.T) {
	c := species.Constants{ID: "Mystery", HungerDepletionMinutes: f(30)}
	s := Calculate(c, f(100), f(1000))

	if !s.Available || !s.CapacityFallback {
		t.Fatalf("expected fallback capacity, got available=%v fallback=%v", s.Available, s.CapacityFallback)
	}
	if s.Capacity != 1000 {
		t.Fatalf("capacity got=%v want=1000", s.Capacity)
	}
	if *s.MinutesToStarving != 30 {
		t.Fatalf("minutes to starving got=%v want=30", *s.MinutesToStarving)
	}
}

func TestCalculate_UnknownPercentKeepsRates(t *testing.T) {
	c := species.Constants{ID: "Worm", HungerCapacity: f(500), HungerDepletionMinutes: f(60)}
	s := Calculate(c, nil, nil)

	if !s.Available || s.FeedsPerHour == nil || *s.FeedsPerHour != 1 {
		t.Fatalf("rates should be known without a percentage, got=%+v", s)
	}
	if s.TimeUntilStarving.Status != estimate.StatusUnavailable {
		t.Fatalf("time until starving got=%s want=%s", s.TimeUntilStarving.Status, estimate.StatusUnavailable)
	}
}

func TestResolvePercent(t *testing.T) {
	if p := ResolvePercent(f(40), f(999), 500); *p != 40 {
		t.Fatalf("explicit percentage should win, got=%v", *p)
	}
	if p := ResolvePercent(nil, f(250), 500); *p != 50 {
		t.Fatalf("derived percentage got=%v want=50", *p)
	}
	if p := ResolvePercent(f(140), nil, 0); *p != 100 {
		t.Fatalf("percentage should clamp, got=%v", *p)
	}
	if p := ResolvePercent(nil, f(250), 0); p != nil {
		t.Fatalf("no capacity should yield nil, got=%v", *p)
	}
}

func TestFeedsForLevels(t *testing.T) {
	chicken := species.Constants{ID: "Chicken", HungerCapacity: f(3000), HungerDepletionMinutes: f(60), XPPerLevel: i64(7200)}
	s := Calculate(chicken, f(100), nil)
	p := progression.Calculate(i(70), i64(0), chicken.XPPerLevel, progression.DefaultRules())

	// 7200 XP at 3600/h is two hours: two full depletions plus the priming feed.
	got := s.FeedsPerLevel(p, 3600)
	if got.Status != estimate.StatusOK || *got.Feeds != 3 {
		t.Fatalf("feeds per level got=%+v want=3", got)
	}
	got = s.FeedsToCap(p, 3600)
	if got.Status != estimate.StatusOK || *got.Feeds != 61 {
		t.Fatalf("feeds to cap got=%+v want=61", got)
	}
	// Partial depletion still needs a whole feed.
	got = s.FeedsPerLevel(p, 5000)
	if got.Status != estimate.StatusOK || *got.Feeds != 3 {
		t.Fatalf("feeds per level at 5000xp/h got=%+v want=3", got)
	}

	if got := s.FeedsPerLevel(p, 0); got.Status != estimate.StatusIndeterminate || got.Feeds != nil {
		t.Fatalf("zero rate got=%+v want indeterminate", got)
	}

	capped := progression.Calculate(i(100), i64(0), chicken.XPPerLevel, progression.DefaultRules())
	if got := s.FeedsToCap(capped, 3600); got.Status != estimate.StatusAtCap {
		t.Fatalf("capped pet got=%s want=%s", got.Status, estimate.StatusAtCap)
	}

	noProgress := progression.Calculate(nil, i64(0), chicken.XPPerLevel, progression.DefaultRules())
	if got := s.FeedsPerLevel(noProgress, 3600); got.Status != estimate.StatusUnavailable {
		t.Fatalf("unknown strength got=%s want=%s", got.Status, estimate.StatusUnavailable)
	}

	missing := Calculate(species.Constants{ID: "Scarab"}, f(100), nil)
	if got := missing.FeedsPerLevel(p, 3600); got.Status != estimate.StatusUnavailable {
		t.Fatalf("missing hunger constants got=%s want=%s", got.Status, estimate.StatusUnavailable)
	}
}
