package ports

import (
	"context"

	"petlens/internal/domain/ability"
	"petlens/internal/domain/garden"
	"petlens/internal/domain/pet"
	"petlens/internal/domain/species"
)

// PetSnapshotSource returns the latest snapshots of the active pets. Missing
// fields stay nil; sources never substitute zeros.
type PetSnapshotSource interface {
	ListActive(ctx context.Context) ([]pet.Snapshot, error)
	GetByID(ctx context.Context, petID string) (pet.Snapshot, error)
}

// PetSnapshotStore is the write side used when the game bridge pushes a new
// roster. ReplaceActive swaps the whole active set.
type PetSnapshotStore interface {
	PetSnapshotSource
	ReplaceActive(ctx context.Context, pets []pet.Snapshot) error
}

type GardenSource interface {
	ListCrops(ctx context.Context) ([]garden.Crop, error)
}

type GardenStore interface {
	GardenSource
	ReplaceCrops(ctx context.Context, crops []garden.Crop) error
}

// SpeciesSource reports false for species outside its table.
type SpeciesSource interface {
	Lookup(id string) (species.Constants, bool)
}

type AbilitySource interface {
	Resolve(raw string) (ability.Definition, bool)
	Suggest(raw string, max int) []string
}
