package memory

import (
	"context"

	"petlens/internal/domain/garden"
)

type GardenRepo struct {
	store *Store
}

func NewGardenRepo(store *Store) GardenRepo {
	return GardenRepo{store: store}
}

func (r GardenRepo) ListCrops(ctx context.Context) ([]garden.Crop, error) {
	defer r.store.read(ctx)()
	return cloneCrops(r.store.crops), nil
}

func (r GardenRepo) ReplaceCrops(ctx context.Context, crops []garden.Crop) error {
	defer r.store.write(ctx)()
	r.store.crops = cloneCrops(crops)
	return nil
}
