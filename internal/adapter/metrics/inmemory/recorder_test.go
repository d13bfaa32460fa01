package inmemory

import (
	"testing"

	"petlens/internal/app/ports"
)

func TestRecorderSnapshot(t *testing.T) {
	r := NewRecorder()
	r.RecordRefresh(3, 1)
	r.RecordRefresh(4, 2)
	r.RecordRefreshFailure()
	r.RecordIngest(4, 10)
	r.RecordIngestFailure()
	r.RecordValuation(ports.ValuationHit)
	r.RecordValuation(ports.ValuationHit)
	r.RecordValuation(ports.ValuationFailure)

	s := r.Snapshot()
	if s.RefreshTotal != 3 {
		t.Fatalf("expected refresh total 3, got %d", s.RefreshTotal)
	}
	if s.RefreshFailure != 1 {
		t.Fatalf("expected refresh failure 1, got %d", s.RefreshFailure)
	}
	if s.PetsLastRefresh != 4 {
		t.Fatalf("expected last refresh pets 4, got %d", s.PetsLastRefresh)
	}
	if s.UnknownAbilities != 3 {
		t.Fatalf("expected unknown abilities 3, got %d", s.UnknownAbilities)
	}
	if s.IngestTotal != 2 || s.IngestFailure != 1 {
		t.Fatalf("expected ingest 2/1, got %d/%d", s.IngestTotal, s.IngestFailure)
	}
	if s.Valuation[string(ports.ValuationHit)] != 2 {
		t.Fatalf("expected valuation hit count 2")
	}
	if s.Valuation[string(ports.ValuationFailure)] != 1 {
		t.Fatalf("expected valuation failure count 1")
	}
}
