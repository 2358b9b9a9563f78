package logging

import (
	"context"
	"log/slog"

	"dirsort/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for journal run identifiers.
	FieldRunID = "run_id"
	// FieldPass is the standardized structured logging key for sorter pass names.
	FieldPass = "pass"
	// FieldCategory is the standardized structured logging key for category names.
	FieldCategory = "category"
	// FieldEventType tags warnings and errors with a stable machine-readable event name.
	FieldEventType = "event_type"
	// FieldErrorHint carries the next step a user should take after a warning.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldDecisionType tags decision logs.
	FieldDecisionType = "decision_type"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if pass, ok := services.PassFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldPass, pass))
	}
	if cat, ok := services.CategoryFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCategory, cat))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
