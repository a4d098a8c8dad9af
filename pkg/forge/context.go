package forge

import "context"

// ContextKey is the context key for the forge client.
var ContextKey = struct{ string }{"forge"}

// FromContext returns the forge client from the given context.
func FromContext(ctx context.Context) Client {
	if c, ok := ctx.Value(ContextKey).(Client); ok {
		return c
	}
	return nil
}

// WithContext returns a new context with the given forge client.
func WithContext(ctx context.Context, c Client) context.Context {
	return context.WithValue(ctx, ContextKey, c)
}
