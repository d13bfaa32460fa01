package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"petlens/internal/adapter/export"
	"petlens/internal/app/ingest"
	"petlens/internal/app/ports"
	"petlens/internal/app/roster"
)

type Handler struct {
	RosterUC roster.UseCase
	IngestUC ingest.UseCase
	KPI      kpiSnapshotProvider
	Logger   *slog.Logger
	// CORSOrigin defaults to "*".
	CORSOrigin string
	// NearCapWithin is the window used when /api/roster/near-cap has no query.
	NearCapWithin int
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(
		requestIDMiddleware(),
		recoverMiddleware(h.logger()),
		accessLogMiddleware(h.logger()),
		corsMiddleware(h.CORSOrigin),
	)

	api := s.Group("/api")
	api.GET("/roster", h.roster)
	api.GET("/roster.csv", h.rosterCSV)
	api.GET("/roster/near-cap", h.nearCap)
	api.GET("/pets/:id", h.pet)
	api.GET("/team", h.team)
	api.GET("/abilities/:name", h.ability)
	api.PUT("/snapshots", h.ingest)

	s.GET("/ops/kpi", h.kpi)
	s.GET("/healthz", h.healthz)
}

func (h Handler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

var errInvalidQuery = errors.New("invalid query parameter")

func (h Handler) roster(c context.Context, ctx *app.RequestContext) {
	req, err := rosterRequestFromQuery(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.RosterUC.Execute(c, req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp.Report)
}

func (h Handler) rosterCSV(c context.Context, ctx *app.RequestContext) {
	req, err := rosterRequestFromQuery(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.RosterUC.Execute(c, req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, resp.Report); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Response.Header.Set("Content-Disposition", `attachment; filename="roster.csv"`)
	ctx.Data(consts.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h Handler) nearCap(c context.Context, ctx *app.RequestContext) {
	within := h.NearCapWithin
	if raw := strings.TrimSpace(ctx.Query("within")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, fmt.Errorf("%w: within=%q", errInvalidQuery, raw))
			return
		}
		within = n
	}
	resp, err := h.RosterUC.Execute(c, roster.Request{NearCapWithin: &within, SortBy: roster.SortTimeToCap})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp.Report)
}

func (h Handler) pet(c context.Context, ctx *app.RequestContext) {
	resp, err := h.RosterUC.Execute(c, roster.Request{PetID: ctx.Param("id")})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{
		"pet":  resp.Pet,
		"team": resp.Report.Team,
	})
}

func (h Handler) team(c context.Context, ctx *app.RequestContext) {
	resp, err := h.RosterUC.Execute(c, roster.Request{})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp.Report.Team)
}

func (h Handler) ability(_ context.Context, ctx *app.RequestContext) {
	var strength *int
	if raw := strings.TrimSpace(ctx.Query("strength")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(ctx, fmt.Errorf("%w: strength=%q", errInvalidQuery, raw))
			return
		}
		strength = &n
	}
	name := ctx.Param("name")
	stats := h.RosterUC.Engine.Describe(name, strength)
	if !stats.Resolved {
		ctx.JSON(consts.StatusNotFound, map[string]any{
			"error": map[string]any{
				"code":        "unknown_ability",
				"message":     fmt.Sprintf("unknown ability %q", name),
				"suggestions": stats.Suggestions,
			},
		})
		return
	}
	ctx.JSON(consts.StatusOK, stats)
}

func (h Handler) ingest(c context.Context, ctx *app.RequestContext) {
	if len(bytes.TrimSpace(ctx.Request.Body())) == 0 {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "request body is required")
		return
	}
	var body ingest.Request
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.IngestUC.Execute(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func (h Handler) healthz(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]string{"status": "ok"})
}

func rosterRequestFromQuery(ctx *app.RequestContext) (roster.Request, error) {
	req := roster.Request{SortBy: roster.SortKey(strings.TrimSpace(ctx.Query("sort")))}
	if raw := strings.TrimSpace(ctx.Query("near_cap_within")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return roster.Request{}, fmt.Errorf("%w: near_cap_within=%q", errInvalidQuery, raw)
		}
		req.NearCapWithin = &n
	}
	return req, nil
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, errInvalidQuery),
		errors.Is(err, roster.ErrInvalidRequest),
		errors.Is(err, ingest.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrUnavailable):
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "unavailable", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
