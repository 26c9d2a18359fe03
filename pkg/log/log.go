// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package log provides structured logging utilities and configuration for the service.
package log

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"

	slogotel "github.com/remychantenay/slog-otel"

	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/redaction"
)

type ctxKey string

const (
	slogFields      ctxKey = "slog_fields"
	logLevelDefault        = slog.LevelDebug

	debug      = "debug"
	warn       = "warn"
	info       = "info"
	errorLevel = "error"

	priorityCritical = "critical"
)

type contextHandler struct {
	slog.Handler
}

// Handle adds contextual attributes to the Record before calling the underlying handler
func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(slogFields).([]slog.Attr); ok {
		for _, v := range attrs {
			r.AddAttrs(v)
		}
	}

	return h.Handler.Handle(ctx, r)
}

// WithAttrs keeps the context handler in front of handlers derived with slog.With.
func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

// WithGroup keeps the context handler in front of grouped handlers.
func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}

// AppendCtx adds an slog attribute to the provided context so that it will be
// included in any Record created with such context
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}

	if v, ok := parent.Value(slogFields).([]slog.Attr); ok {
		// copy so sibling contexts never share a backing array
		attrs := make([]slog.Attr, 0, len(v)+1)
		attrs = append(attrs, v...)
		attrs = append(attrs, attr)
		return context.WithValue(parent, slogFields, attrs)
	}

	v := []slog.Attr{}
	v = append(v, attr)
	return context.WithValue(parent, slogFields, v)
}

// levelFromEnv resolves LOG_LEVEL, falling back to debug.
func levelFromEnv() slog.Level {
	switch os.Getenv("LOG_LEVEL") {
	case debug:
		return slog.LevelDebug
	case warn:
		return slog.LevelWarn
	case info:
		return slog.LevelInfo
	case errorLevel:
		return slog.LevelError
	default:
		return logLevelDefault
	}
}

// NewHandler builds the service handler chain writing JSON to w:
// context attributes, then trace correlation, then the JSON encoder.
func NewHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	h := slog.NewJSONHandler(w, opts)
	return contextHandler{slogotel.OtelHandler{Next: h}}
}

// InitStructureLogConfig sets the structured log behavior
func InitStructureLogConfig() {

	logOptions := &slog.HandlerOptions{}

	configurations := map[string]func(){
		"options-logLevel": func() {
			logOptions.Level = levelFromEnv()
			slog.Info("log config",
				"logLevel", logOptions.Level,
			)
		},
		"options-addSource": func() {

			addSourceBool := false

			addSource := os.Getenv("LOG_ADD_SOURCE")
			if addSource == "true" || addSource == "false" {
				addSourceBool = addSource == "true"
			}
			slog.Info("log config",
				"LOG_ADD_SOURCE", addSourceBool,
			)
			logOptions.AddSource = addSourceBool
		},
	}

	for name, f := range configurations {
		slog.Info("setting logging configuration",
			"name", name,
		)
		f()
	}
	log.SetFlags(log.Llongfile)
	slog.SetDefault(slog.New(NewHandler(os.Stdout, logOptions)))
}

// Priority creates a slog.Attr for error priority classification
func Priority(level string) slog.Attr {
	return slog.String("priority", level)
}

// PriorityCritical creates a slog.Attr for critical errors
// this is used to identify critical errors in the logs
// the ones that should be escalated to the team
func PriorityCritical() slog.Attr {
	return Priority(priorityCritical)
}

// Email creates an slog.Attr holding a redacted email address.
// Subscriber addresses are never logged in clear text.
//
// Example usage:
//
//	slog.InfoContext(ctx, "subscription relayed", log.Email(req.Email))
//
// Logs:
//
//	"email": "j***@example.com"
func Email(email string) slog.Attr {
	return slog.String("email", redaction.RedactEmail(email))
}
