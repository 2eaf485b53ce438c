package middleware

import (
	"context"

	"crewhub/internal/domain/access"
	"crewhub/internal/platform/requestctx"
)

type ctxKey string

const ctxKeyPrincipal ctxKey = "principal"

type SessionContext struct {
	Principal access.Principal
	SessionID string
}

func WithSession(ctx context.Context, session SessionContext) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal, session)
}

func GetSession(ctx context.Context) (SessionContext, bool) {
	session, ok := ctx.Value(ctxKeyPrincipal).(SessionContext)
	return session, ok
}

// GetPrincipal returns the authenticated principal for the request, if any.
func GetPrincipal(ctx context.Context) (access.Principal, bool) {
	session, ok := GetSession(ctx)
	if !ok {
		return access.Principal{}, false
	}
	return session.Principal, true
}

func GetRequestID(ctx context.Context) string {
	return requestctx.GetRequestID(ctx)
}
