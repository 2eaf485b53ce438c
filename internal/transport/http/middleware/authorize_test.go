package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"crewhub/internal/domain/access"
)

type fakeAuthorizer struct {
	allowed bool
	err     error
}

func (f fakeAuthorizer) HasAny(ctx context.Context, p access.Principal, perms ...access.Permission) (bool, error) {
	return f.allowed, f.err
}

type fakeDenials struct {
	recorded int
	lastPath string
}

func (f *fakeDenials) RecordDenial(ctx context.Context, p access.Principal, path, requestID, ip string) {
	f.recorded++
	f.lastPath = path
}

func authedRequest(t *testing.T) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	ctx := WithSession(req.Context(), SessionContext{
		Principal: access.Principal{UserID: "u1", Role: access.RoleEmployee},
		SessionID: "s1",
	})
	return req.WithContext(ctx)
}

func TestRequirePermissionUnauthenticated(t *testing.T) {
	mw := RequirePermission(fakeAuthorizer{allowed: true}, nil, "users:view")
	rec := httptest.NewRecorder()
	called := false
	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if called {
		t.Error("next handler ran without a principal")
	}
}

func TestRequirePermissionDenied(t *testing.T) {
	denials := &fakeDenials{}
	mw := RequirePermission(fakeAuthorizer{allowed: false}, denials, "users:view")
	rec := httptest.NewRecorder()
	called := false
	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })).
		ServeHTTP(rec, authedRequest(t))

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	if called {
		t.Error("next handler ran despite denial")
	}
	if denials.recorded != 1 {
		t.Errorf("denials recorded = %d, want 1", denials.recorded)
	}
	if denials.lastPath != "/api/v1/users" {
		t.Errorf("denial path = %q", denials.lastPath)
	}
}

func TestRequirePermissionAllowed(t *testing.T) {
	mw := RequirePermission(fakeAuthorizer{allowed: true}, nil, "users:view")
	rec := httptest.NewRecorder()
	called := false
	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })).
		ServeHTTP(rec, authedRequest(t))

	if !called {
		t.Error("next handler did not run")
	}
}

func TestRequirePermissionCheckError(t *testing.T) {
	mw := RequirePermission(fakeAuthorizer{err: errors.New("db down")}, nil, "users:view")
	rec := httptest.NewRecorder()
	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
		ServeHTTP(rec, authedRequest(t))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
