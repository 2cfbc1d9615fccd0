package logger

import "context"

type contextKey int

const (
	requestIDKey contextKey = iota
	repoKey
)

// WithRequestID returns a context carrying the request ID. Records logged
// with that context get a request_id attribute.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request ID on ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithRepo returns a context carrying the "owner/name" of the repository
// being documented. Records logged with that context get a repo attribute.
func WithRepo(ctx context.Context, fullName string) context.Context {
	return context.WithValue(ctx, repoKey, fullName)
}

// Repo returns the repository name on ctx, or "".
func Repo(ctx context.Context) string {
	r, _ := ctx.Value(repoKey).(string)
	return r
}
