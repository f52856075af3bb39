package shared

import (
	"context"

	"github.com/google/uuid"
)

// ContextKey is the type of values stored in request contexts by this package.
type ContextKey string

const (
	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"

	// TraceIDHeader carries the trace ID on requests and responses
	TraceIDHeader = "X-Trace-ID"
)

// SetTraceID stores traceID in the context, generating a new one when empty.
func SetTraceID(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		traceID = NewTraceID()
	}
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// NewTraceID returns a random trace ID.
func NewTraceID() string {
	return uuid.NewString()
}

// ValidTraceID reports whether a client-supplied trace ID is acceptable.
func ValidTraceID(traceID string) bool {
	_, err := uuid.Parse(traceID)
	return err == nil
}
