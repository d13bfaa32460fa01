package roster

import (
	"fmt"

	"petlens/internal/app/aggregate"
)

type SortKey string

const (
	SortNone         SortKey = ""
	SortTimeToCap    SortKey = "time_to_cap"
	SortCoinsPerHour SortKey = "coins_per_hour"
)

type Request struct {
	PetID         string
	NearCapWithin *int
	SortBy        SortKey
}

func (r Request) validate() error {
	if r.NearCapWithin != nil && *r.NearCapWithin < 0 {
		return fmt.Errorf("%w: near-cap window must not be negative", ErrInvalidRequest)
	}
	switch r.SortBy {
	case SortNone, SortTimeToCap, SortCoinsPerHour:
		return nil
	}
	return fmt.Errorf("%w: unknown sort key %q", ErrInvalidRequest, r.SortBy)
}

type Response struct {
	Report aggregate.Report  `json:"report"`
	Pet    *aggregate.Bundle `json:"pet,omitempty"`
}
