package internal

import (
	"context"
	"strings"
	"time"
)

type identityKey struct{}

// UserIDFromContext returns the request-scoped identity (the caller's uid),
// or "" for anonymous requests and background work.
func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	uid, _ := ctx.Value(identityKey{}).(string)
	return uid
}

// ContextWithUserID attaches uid to ctx. A blank uid leaves ctx anonymous.
func ContextWithUserID(ctx context.Context, uid string) context.Context {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return ctx
	}
	return context.WithValue(ctx, identityKey{}, uid)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
