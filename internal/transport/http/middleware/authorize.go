package middleware

import (
	"context"
	"net/http"

	"crewhub/internal/domain/access"
	"crewhub/internal/transport/http/api"
)

// Authorizer answers permission checks for a principal. Backed by the access
// service in production, faked in tests.
type Authorizer interface {
	HasAny(ctx context.Context, p access.Principal, perms ...access.Permission) (bool, error)
}

// DenialRecorder captures authorization denials for the audit log.
type DenialRecorder interface {
	RecordDenial(ctx context.Context, p access.Principal, path, requestID, ip string)
}

// RequirePermission admits the request when the principal holds any of the
// given permissions. The forbidden response stays generic so callers learn
// nothing about the permission model.
func RequirePermission(authorizer Authorizer, denials DenialRecorder, perms ...access.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := GetPrincipal(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}

			allowed, err := authorizer.HasAny(r.Context(), principal, perms...)
			if err != nil {
				api.Fail(w, http.StatusInternalServerError, "permission_error", "permission check failed", GetRequestID(r.Context()))
				return
			}
			if !allowed {
				if denials != nil {
					denials.RecordDenial(r.Context(), principal, r.URL.Path, GetRequestID(r.Context()), clientIPKey(r))
				}
				api.Forbidden(w, GetRequestID(r.Context()))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
