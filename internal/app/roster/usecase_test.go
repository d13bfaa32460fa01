package roster

import (
	"context"
	"errors"
	"testing"

	"petlens/internal/app/aggregate"
	"petlens/internal/app/ports"
	"petlens/internal/domain/ability"
	"petlens/internal/domain/pet"
	"petlens/internal/domain/species"
)

type rosterSource struct {
	pets []pet.Snapshot
	err  error
}

var _ ports.PetSnapshotSource = rosterSource{}

func (s rosterSource) ListActive(context.Context) ([]pet.Snapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.pets, nil
}

func (s rosterSource) GetByID(_ context.Context, id string) (pet.Snapshot, error) {
	for _, p := range s.pets {
		if p.ID == id {
			return p, nil
		}
	}
	return pet.Snapshot{}, ports.ErrNotFound
}

type rosterMetrics struct {
	refreshes, failures, pets, unknown int
}

var _ ports.RefreshMetrics = (*rosterMetrics)(nil)

func (m *rosterMetrics) RecordRefresh(pets, unknown int) {
	m.refreshes++
	m.pets += pets
	m.unknown += unknown
}

func (m *rosterMetrics) RecordRefreshFailure() { m.failures++ }

func newUseCase(src rosterSource, m *rosterMetrics) UseCase {
	return UseCase{
		Pets: src,
		Engine: aggregate.Engine{
			Abilities: ability.MustLoadCatalog(),
			Species:   species.MustLoadDefault(),
			Options:   aggregate.DefaultOptions(),
		},
		Metrics: m,
	}
}

var team = []pet.Snapshot{
	{ID: "p1", Species: "Worm", Strength: pet.Int(97), XP: pet.Int64(3600 * 27), Abilities: []string{"PetXpBoost"}},
	{ID: "p2", Species: "Bee", Strength: pet.Int(50), XP: pet.Int64(0), Abilities: []string{"CoinFinderI", "Mystery"}},
	{ID: "p3", Species: "Chicken", Strength: pet.Int(70), XP: pet.Int64(0)},
}

func TestUseCase_BuildsFullReport(t *testing.T) {
	m := &rosterMetrics{}
	resp, err := newUseCase(rosterSource{pets: team}, m).Execute(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(resp.Report.Pets) != 3 {
		t.Fatalf("expected 3 pets, got %d", len(resp.Report.Pets))
	}
	if resp.Report.Team.BonusXPPerHour <= 0 {
		t.Fatalf("expected xp bonus from p1, got %v", resp.Report.Team.BonusXPPerHour)
	}
	if m.refreshes != 1 || m.pets != 3 || m.unknown != 1 {
		t.Fatalf("unexpected metrics %+v", *m)
	}
}

func TestUseCase_SinglePetKeepsTeamRate(t *testing.T) {
	uc := newUseCase(rosterSource{pets: team}, &rosterMetrics{})
	full, err := uc.Execute(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	one, err := uc.Execute(context.Background(), Request{PetID: "p3"})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if one.Pet == nil || one.Pet.Pet.ID != "p3" {
		t.Fatalf("expected pet p3, got %+v", one.Pet)
	}
	if one.Pet.XPPerHour != full.Report.Team.XPPerHourPerPet {
		t.Fatalf("single-pet view must use the team rate, got=%v want=%v", one.Pet.XPPerHour, full.Report.Team.XPPerHourPerPet)
	}
}

func TestUseCase_NearCapAndSort(t *testing.T) {
	uc := newUseCase(rosterSource{pets: team}, &rosterMetrics{})
	within := 5
	resp, err := uc.Execute(context.Background(), Request{NearCapWithin: &within, SortBy: SortTimeToCap})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(resp.Report.Pets) != 1 || resp.Report.Pets[0].Pet.ID != "p1" {
		t.Fatalf("expected only p1 near cap, got %d pets", len(resp.Report.Pets))
	}

	resp, err = uc.Execute(context.Background(), Request{SortBy: SortCoinsPerHour})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if resp.Report.Pets[0].Pet.ID != "p2" {
		t.Fatalf("expected coin finder first, got %s", resp.Report.Pets[0].Pet.ID)
	}
}

func TestUseCase_RejectsInvalidRequests(t *testing.T) {
	uc := newUseCase(rosterSource{pets: team}, &rosterMetrics{})
	neg := -1
	for _, req := range []Request{{NearCapWithin: &neg}, {SortBy: "name"}} {
		if _, err := uc.Execute(context.Background(), req); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("expected ErrInvalidRequest for %+v, got %v", req, err)
		}
	}
}

func TestUseCase_UnknownPet(t *testing.T) {
	uc := newUseCase(rosterSource{pets: team}, &rosterMetrics{})
	if _, err := uc.Execute(context.Background(), Request{PetID: "ghost"}); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUseCase_PropagatesSourceError(t *testing.T) {
	wantErr := errors.New("bridge down")
	m := &rosterMetrics{}
	uc := newUseCase(rosterSource{err: wantErr}, m)
	if _, err := uc.Execute(context.Background(), Request{}); !errors.Is(err, wantErr) {
		t.Fatalf("expected source error %v, got %v", wantErr, err)
	}
	if m.failures != 1 {
		t.Fatalf("expected one failure recorded, got %d", m.failures)
	}
}
