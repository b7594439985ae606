// Package correlation carries the request correlation id through explicit
// context values. Nothing here is ambient: callers attach the id to their
// context and everything downstream (clients, publishers, loggers) reads it
// back out.
package correlation

import "context"

// Header is the wire header used to propagate the id between services.
const Header = "X-Correlation-ID"

type contextKey struct{}

// WithID returns a context carrying the correlation id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the correlation id, or "" when none was attached.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}
