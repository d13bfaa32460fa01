package inmemory

import (
	"sync"

	"petlens/internal/app/ports"
)

type Snapshot struct {
	RefreshTotal     uint64            `json:"refresh_total"`
	RefreshFailure   uint64            `json:"refresh_failure"`
	PetsLastRefresh  int               `json:"pets_last_refresh"`
	UnknownAbilities uint64            `json:"unknown_abilities"`
	IngestTotal      uint64            `json:"ingest_total"`
	IngestFailure    uint64            `json:"ingest_failure"`
	Valuation        map[string]uint64 `json:"valuation"`
}

type Recorder struct {
	mu             sync.Mutex
	refresh        uint64
	refreshFailure uint64
	lastPets       int
	unknown        uint64
	ingest         uint64
	ingestFailure  uint64
	valuation      map[string]uint64
}

var (
	_ ports.RefreshMetrics   = (*Recorder)(nil)
	_ ports.IngestMetrics    = (*Recorder)(nil)
	_ ports.ValuationMetrics = (*Recorder)(nil)
)

func NewRecorder() *Recorder {
	return &Recorder{
		valuation: map[string]uint64{},
	}
}

func (r *Recorder) RecordRefresh(pets, unknownAbilities int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refresh++
	r.lastPets = pets
	r.unknown += uint64(unknownAbilities)
}

func (r *Recorder) RecordRefreshFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshFailure++
}

func (r *Recorder) RecordIngest(_, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ingest++
}

func (r *Recorder) RecordIngestFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ingestFailure++
}

func (r *Recorder) RecordValuation(outcome ports.ValuationOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.valuation[string(outcome)]++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		RefreshTotal:     r.refresh + r.refreshFailure,
		RefreshFailure:   r.refreshFailure,
		PetsLastRefresh:  r.lastPets,
		UnknownAbilities: r.unknown,
		IngestTotal:      r.ingest + r.ingestFailure,
		IngestFailure:    r.ingestFailure,
		Valuation:        make(map[string]uint64, len(r.valuation)),
	}
	for k, v := range r.valuation {
		out.Valuation[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
