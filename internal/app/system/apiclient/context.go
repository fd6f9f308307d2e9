package apiclient

import "context"

type ctxKey string

const (
	tokenKey     ctxKey = "bearer-token"
	criticalKey  ctxKey = "session-critical"
	requestIDKey ctxKey = "request-id"
)

// WithToken returns a context whose backend calls carry token.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFrom returns the bearer token carried by ctx, or "".
func TokenFrom(ctx context.Context) string {
	s, _ := ctx.Value(tokenKey).(string)
	return s
}

// WithoutToken strips the bearer token so calls go out unauthenticated.
func WithoutToken(ctx context.Context) context.Context {
	return context.WithValue(ctx, tokenKey, "")
}

// Critical marks calls made under ctx as session-critical: a 401 on such a
// call means the session itself is no longer valid.
func Critical(ctx context.Context) context.Context {
	return context.WithValue(ctx, criticalKey, true)
}

// IsCritical reports whether ctx was marked with Critical.
func IsCritical(ctx context.Context) bool {
	b, _ := ctx.Value(criticalKey).(bool)
	return b
}

// WithRequestID propagates an inbound request id to backend calls.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFrom returns the request id carried by ctx, or "".
func RequestIDFrom(ctx context.Context) string {
	s, _ := ctx.Value(requestIDKey).(string)
	return s
}
