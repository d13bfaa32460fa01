package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"petlens/internal/app/aggregate"
	"petlens/internal/app/ports"
)

var ErrInvalidRequest = errors.New("invalid roster request")

type UseCase struct {
	Pets    ports.PetSnapshotSource
	Engine  aggregate.Engine
	Metrics ports.RefreshMetrics
	Logger  *slog.Logger
}

// Execute reads the active roster and builds the report. The team XP pool is
// always computed over every active pet, even when a single pet is requested.
func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if err := req.validate(); err != nil {
		return Response{}, err
	}
	petID := strings.TrimSpace(req.PetID)
	if petID != "" {
		if _, err := u.Pets.GetByID(ctx, petID); err != nil {
			return Response{}, err
		}
	}

	pets, err := u.Pets.ListActive(ctx)
	if err != nil {
		if u.Metrics != nil {
			u.Metrics.RecordRefreshFailure()
		}
		return Response{}, fmt.Errorf("list active pets: %w", err)
	}

	report := u.Engine.Build(ctx, pets)
	u.logIssues(report)
	if u.Metrics != nil {
		u.Metrics.RecordRefresh(len(report.Pets), report.UnknownAbilities())
	}

	resp := Response{Report: report}
	if petID != "" {
		b, ok := report.Find(petID)
		if !ok {
			return Response{}, ports.ErrNotFound
		}
		resp.Pet = &b
		resp.Report.Pets = []aggregate.Bundle{b}
		return resp, nil
	}

	if req.NearCapWithin != nil {
		resp.Report.Pets = aggregate.NearCap(report.Pets, *req.NearCapWithin)
	}
	switch req.SortBy {
	case SortTimeToCap:
		aggregate.SortByTimeToCap(resp.Report.Pets)
	case SortCoinsPerHour:
		aggregate.SortByCoinsPerHour(resp.Report.Pets)
	}
	return resp, nil
}

func (u UseCase) logger() *slog.Logger {
	if u.Logger != nil {
		return u.Logger
	}
	return slog.Default()
}

func (u UseCase) logIssues(r aggregate.Report) {
	log := u.logger()
	for _, issue := range r.Skipped {
		log.Warn("pet snapshot skipped", "kind", issue.Kind, "species", issue.Subject, "error", issue.Detail)
	}
	for _, b := range r.Pets {
		for _, issue := range b.Issues {
			log.Warn("degraded pet input", "pet_id", b.Pet.ID, "kind", issue.Kind, "subject", issue.Subject)
		}
	}
	log.Debug("roster refreshed",
		"pets", len(r.Pets),
		"xp_per_hour_per_pet", r.Team.XPPerHourPerPet,
		"valuation", r.ValuationStatus(),
	)
}
