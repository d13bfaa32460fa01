package memory

import (
	"context"

	"petlens/internal/app/ports"
	"petlens/internal/domain/pet"
)

type PetSnapshotRepo struct {
	store *Store
}

func NewPetSnapshotRepo(store *Store) PetSnapshotRepo {
	return PetSnapshotRepo{store: store}
}

func (r PetSnapshotRepo) ListActive(ctx context.Context) ([]pet.Snapshot, error) {
	defer r.store.read(ctx)()
	out := make([]pet.Snapshot, 0, len(r.store.order))
	for _, id := range r.store.order {
		out = append(out, clonePet(r.store.pets[id]))
	}
	return out, nil
}

func (r PetSnapshotRepo) GetByID(ctx context.Context, petID string) (pet.Snapshot, error) {
	defer r.store.read(ctx)()
	p, ok := r.store.pets[petID]
	if !ok {
		return pet.Snapshot{}, ports.ErrNotFound
	}
	return clonePet(p), nil
}

func (r PetSnapshotRepo) ReplaceActive(ctx context.Context, pets []pet.Snapshot) error {
	defer r.store.write(ctx)()
	r.store.replacePets(pets)
	return nil
}
