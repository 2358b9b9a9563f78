package services

import "context"

type contextKey string

const (
	runIDKey    contextKey = "run_id"
	passKey     contextKey = "pass"
	categoryKey contextKey = "category"
)

// WithRunID annotates context with the journal run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithPass annotates context with the pass name (walk, reap, extract).
func WithPass(ctx context.Context, pass string) context.Context {
	if pass == "" {
		return ctx
	}
	return context.WithValue(ctx, passKey, pass)
}

// PassFromContext returns the pass name if present.
func PassFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(passKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithCategory annotates context with the category a worker is filing into.
func WithCategory(ctx context.Context, category string) context.Context {
	if category == "" {
		return ctx
	}
	return context.WithValue(ctx, categoryKey, category)
}

// CategoryFromContext returns the category if present.
func CategoryFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(categoryKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}
