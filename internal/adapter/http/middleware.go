package httpadapter

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"
const requestIDKey = "request_id"

// requestIDMiddleware echoes the caller's X-Request-Id or assigns a new one.
func requestIDMiddleware() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		rid := strings.TrimSpace(string(ctx.GetHeader(requestIDHeader)))
		if rid == "" {
			rid = uuid.NewString()
		}
		ctx.Set(requestIDKey, rid)
		ctx.Response.Header.Set(requestIDHeader, rid)
		ctx.Next(c)
	}
}

func requestID(ctx *app.RequestContext) string {
	return ctx.GetString(requestIDKey)
}

func recoverMiddleware(logger *slog.Logger) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic recovered",
					"request_id", requestID(ctx),
					"method", string(ctx.Method()),
					"path", string(ctx.Path()),
					"panic", fmt.Sprint(rec),
					"stack", string(debug.Stack()),
				)
				ctx.Abort()
				writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
			}
		}()
		ctx.Next(c)
	}
}

func accessLogMiddleware(logger *slog.Logger) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		ctx.Next(c)
		logger.Info("http request",
			"request_id", requestID(ctx),
			"method", string(ctx.Method()),
			"path", string(ctx.Path()),
			"status", ctx.Response.StatusCode(),
			"bytes", len(ctx.Response.Body()),
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_ip", ctx.ClientIP(),
		)
	}
}
