// Package ingest accepts the latest roster and garden pushed by the game
// bridge and swaps them into the snapshot stores.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"petlens/internal/app/ports"
	"petlens/internal/app/valuation"
	"petlens/internal/domain/garden"
	"petlens/internal/domain/pet"
	"petlens/internal/domain/progression"
)

var ErrInvalidRequest = errors.New("invalid ingest request")

type UseCase struct {
	TxManager ports.TxManager
	Pets      ports.PetSnapshotStore
	Garden    ports.GardenStore
	Valuation *valuation.Cache
	Metrics   ports.IngestMetrics
	Now       func() time.Time

	// MaxStrength bounds reported strength; zero means progression.DefaultMaxLevel.
	MaxStrength int
}

type Request struct {
	Pets []pet.Snapshot `json:"pets"`
	// Crops replaces the garden when non-nil; omit it to keep the current one.
	Crops []garden.Crop `json:"crops"`
}

type Response struct {
	Pets       int       `json:"pets"`
	Crops      int       `json:"crops"`
	ReceivedAt time.Time `json:"received_at"`
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	now := nowFn()

	maxStrength := u.MaxStrength
	if maxStrength <= 0 {
		maxStrength = progression.DefaultMaxLevel
	}
	pets, err := normalizePets(req.Pets, maxStrength, now)
	if err != nil {
		u.fail()
		return Response{}, err
	}
	crops := normalizeCrops(req.Crops, now)

	err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := u.Pets.ReplaceActive(txCtx, pets); err != nil {
			return fmt.Errorf("replace pets: %w", err)
		}
		if crops != nil && u.Garden != nil {
			if err := u.Garden.ReplaceCrops(txCtx, crops); err != nil {
				return fmt.Errorf("replace crops: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		u.fail()
		return Response{}, err
	}
	if crops != nil {
		u.Valuation.Invalidate()
	}
	if u.Metrics != nil {
		u.Metrics.RecordIngest(len(pets), len(crops))
	}
	return Response{Pets: len(pets), Crops: len(crops), ReceivedAt: now}, nil
}

func (u UseCase) fail() {
	if u.Metrics != nil {
		u.Metrics.RecordIngestFailure()
	}
}

func normalizePets(in []pet.Snapshot, maxStrength int, now time.Time) ([]pet.Snapshot, error) {
	out := make([]pet.Snapshot, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for i, p := range in {
		p.ID = strings.TrimSpace(p.ID)
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w: pet %d: %v", ErrInvalidRequest, i, err)
		}
		if p.Strength != nil && (*p.Strength < 0 || *p.Strength > maxStrength) {
			return nil, fmt.Errorf("%w: pet %q strength %d outside [0, %d]", ErrInvalidRequest, p.ID, *p.Strength, maxStrength)
		}
		if p.XP != nil && *p.XP < 0 {
			return nil, fmt.Errorf("%w: pet %q xp must not be negative", ErrInvalidRequest, p.ID)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate pet id %q", ErrInvalidRequest, p.ID)
		}
		seen[p.ID] = struct{}{}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = now
		}
		out = append(out, p)
	}
	return out, nil
}

func normalizeCrops(in []garden.Crop, now time.Time) []garden.Crop {
	if in == nil {
		return nil
	}
	out := make([]garden.Crop, len(in))
	for i, c := range in {
		if c.UpdatedAt.IsZero() {
			c.UpdatedAt = now
		}
		out[i] = c
	}
	return out
}
