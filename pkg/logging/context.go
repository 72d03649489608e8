package logging

import (
	"context"
)

type contextKey string

const runIDKey contextKey = "run_id"

// WithRunID attaches a search run identifier to the context. Log entries
// written with this context carry the identifier.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// GetRunID extracts the run identifier from the context, if present.
func GetRunID(ctx context.Context) (string, bool) {
	runID, ok := ctx.Value(runIDKey).(string)
	return runID, ok
}
