// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the diagnostic logger and carries the per-run
// trace ID through a context.
package logging

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/codex-curator/pkg/types"
)

type ctxKey string

const ctxTraceID ctxKey = "trace_id"

// New creates a zerolog logger writing to w. Level accepts trace, debug,
// info, warn and error (unknown values fall back to info); Format is
// "console" for human-readable output or "json".
func New(cfg types.LogConfig, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if strings.ToLower(cfg.Format) == "json" {
		return zerolog.New(w).Level(level).With().Timestamp().Logger()
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// WithTraceID stores id in ctx and attaches it to the context logger.
func WithTraceID(ctx context.Context, id string) context.Context {
	ctx = context.WithValue(ctx, ctxTraceID, id)
	logger := zerolog.Ctx(ctx).With().Str("trace_id", id).Logger()
	return logger.WithContext(ctx)
}

// TraceID returns the ID stored by WithTraceID, or "".
func TraceID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxTraceID).(string); ok {
		return v
	}
	return ""
}

// TraceDuration logs start and end of a stage with the elapsed duration at
// debug level.
// Usage: defer logging.TraceDuration(ctx, "fetch")()
func TraceDuration(ctx context.Context, name string) func() {
	logger := zerolog.Ctx(ctx)
	start := time.Now()
	logger.Debug().Str("stage", name).Msg("start")
	return func() {
		logger.Debug().Str("stage", name).Dur("duration", time.Since(start)).Msg("finish")
	}
}

// Redact hides all but a short prefix and suffix of a secret.
func Redact(s string) string {
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-2:]
}
