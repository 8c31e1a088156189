package testutil

import (
	"context"
	"net/http"
	"time"

	id "treasury/pkg/domain"
	"treasury/pkg/requestcontext"
)

// WithPrincipal adds a principal ID to the request context. This simulates
// what the auth middleware would do for authenticated requests. An invalid
// UUID is silently ignored so the request stays unauthenticated.
func WithPrincipal(req *http.Request, principalID string) *http.Request {
	if parsed, err := id.ParsePrincipalID(principalID); err == nil {
		return req.WithContext(requestcontext.WithPrincipalID(req.Context(), parsed))
	}
	return req
}

// WithRequestTime pins the request-scoped clock.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}

// AuthedContext builds a context carrying a principal and a fixed clock, the
// shape service tests need most often.
func AuthedContext(principal id.PrincipalID, now time.Time) context.Context {
	ctx := requestcontext.WithPrincipalID(context.Background(), principal)
	return requestcontext.WithTime(ctx, now)
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
