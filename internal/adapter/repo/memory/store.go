package memory

import (
	"context"
	"sync"

	"petlens/internal/domain/garden"
	"petlens/internal/domain/pet"
)

// Store holds the latest pushed roster and garden. Repos lock it themselves
// unless they run inside TxManager.RunInTx, which already holds the lock.
type Store struct {
	mu    sync.RWMutex
	order []string
	pets  map[string]pet.Snapshot
	crops []garden.Crop
}

func NewStore() *Store {
	return &Store{
		pets: make(map[string]pet.Snapshot),
	}
}

type txKeyType struct{}

var txKey = txKeyType{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey).(bool)
	return v
}

func (s *Store) read(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) write(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// SeedPets replaces the roster outside any transaction.
func (s *Store) SeedPets(pets []pet.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replacePets(pets)
}

func (s *Store) replacePets(pets []pet.Snapshot) {
	s.order = make([]string, 0, len(pets))
	s.pets = make(map[string]pet.Snapshot, len(pets))
	for _, p := range pets {
		if _, dup := s.pets[p.ID]; !dup {
			s.order = append(s.order, p.ID)
		}
		s.pets[p.ID] = clonePet(p)
	}
}

func clonePet(p pet.Snapshot) pet.Snapshot {
	p.Abilities = append([]string(nil), p.Abilities...)
	return p
}

func cloneCrops(in []garden.Crop) []garden.Crop {
	out := make([]garden.Crop, len(in))
	for i, c := range in {
		c.Mutations = append([]string(nil), c.Mutations...)
		out[i] = c
	}
	return out
}
