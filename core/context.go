package core

import "context"

// Context keys for command options
type contextKey string

const (
	suppressHeaderKey contextKey = "suppressHeader"
	runIDKey          contextKey = "runID"
)

// withSuppressHeader sets whether headers should be suppressed in the context
func withSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether headers should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	val := ctx.Value(suppressHeaderKey)
	if val == nil {
		return false // default: show headers
	}
	suppress, ok := val.(bool)
	return ok && suppress
}

// withRunID stores the ID of the recorded assessment run
func withRunID(ctx context.Context, runID int64) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// getRunID returns the recorded run ID, if any
func getRunID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(runIDKey).(int64)
	return id, ok && id > 0
}
