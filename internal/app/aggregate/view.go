package aggregate

import (
	"cmp"
	"slices"

	"petlens/internal/domain/estimate"
)

// NearCap keeps pets that are still progressing and within `within` levels of
// their recovered cap. Capped pets and pets without progression data are left
// out.
func NearCap(bundles []Bundle, within int) []Bundle {
	out := make([]Bundle, 0, len(bundles))
	for _, b := range bundles {
		p := b.Progression
		if !p.Available || p.AtCap {
			continue
		}
		if p.LevelsRemaining <= within {
			out = append(out, b)
		}
	}
	return out
}

// SortByTimeToCap orders pets soonest-to-cap first. Pets without a numeric
// estimate sort last, capped before indeterminate before unavailable.
func SortByTimeToCap(bundles []Bundle) {
	slices.SortStableFunc(bundles, func(a, b Bundle) int {
		ka, kb := a.TimeToCap.Known(), b.TimeToCap.Known()
		switch {
		case ka && kb:
			return cmp.Compare(a.TimeToCap.Hours, b.TimeToCap.Hours)
		case ka:
			return -1
		case kb:
			return 1
		}
		return cmp.Compare(statusRank(a), statusRank(b))
	})
}

func statusRank(b Bundle) int {
	switch b.TimeToCap.Status {
	case estimate.StatusAtCap:
		return 0
	case estimate.StatusIndeterminate:
		return 1
	}
	return 2
}

// SortByCoinsPerHour orders pets by total coin value, highest first. Pets with
// no coin-bearing abilities sort last.
func SortByCoinsPerHour(bundles []Bundle) {
	slices.SortStableFunc(bundles, func(a, b Bundle) int {
		ca, cb := a.Totals.CoinsPerHour, b.Totals.CoinsPerHour
		switch {
		case ca != nil && cb != nil:
			return cmp.Compare(*cb, *ca)
		case ca != nil:
			return -1
		case cb != nil:
			return 1
		}
		return 0
	})
}
