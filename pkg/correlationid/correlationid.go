package correlationid

import (
	"context"
)

// Header is the HTTP header and message-queue header key carrying the
// correlation id across service boundaries.
const Header = "X-Correlation-Id"

type contextKey struct{}

// NewContext returns a copy of ctx carrying the given correlation id.
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext extracts the correlation id from ctx, if any.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok && id != ""
}
