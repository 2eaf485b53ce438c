package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSensitiveRateScope(t *testing.T) {
	cases := []struct {
		method string
		path   string
		want   sensitiveScope
	}{
		{http.MethodPost, "/api/v1/auth/login", sensitiveScopeAuth},
		{http.MethodPost, "/api/v1/auth/refresh", sensitiveScopeAuth},
		{http.MethodPost, "/api/v1/auth/request-reset", sensitiveScopeAuth},
		{http.MethodPost, "/api/v1/leave/requests/abc/approve", sensitiveScopeActor},
		{http.MethodPost, "/api/v1/timesheets/abc/reject", sensitiveScopeActor},
		{http.MethodPut, "/api/v1/users/abc/overrides/users:view", sensitiveScopeActor},
		{http.MethodPut, "/api/v1/users/abc/role", sensitiveScopeActor},
		{http.MethodPut, "/api/v1/payroll/rows", sensitiveScopeActor},
		{http.MethodGet, "/api/v1/auth/login", sensitiveScopeNone},
		{http.MethodGet, "/api/v1/payroll/2026-01", sensitiveScopeNone},
		{http.MethodPost, "/api/v1/tasks", sensitiveScopeNone},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		if got := sensitiveRateScope(req); got != tc.want {
			t.Errorf("%s %s: scope = %q, want %q", tc.method, tc.path, got, tc.want)
		}
	}
}

func TestNormalizedAPIPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"/api/v1/auth/login", "/auth/login"},
		{"/auth/login", "/auth/login"},
		{"/api/v1", "/"},
		{"", "/"},
	}
	for _, tc := range cases {
		if got := normalizedAPIPath(tc.in); got != tc.want {
			t.Errorf("normalizedAPIPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRateLimiterEnforces(t *testing.T) {
	rl := newRateLimiter(2, time.Minute, clientIPKey)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		if !rl.enforce(rec, req) {
			t.Fatalf("request %d blocked below the limit", i+1)
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	if rl.enforce(rec, req) {
		t.Fatal("request above the limit admitted")
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}

	// A different client gets its own bucket.
	rec = httptest.NewRecorder()
	other := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	other.RemoteAddr = "10.0.0.2:5000"
	if !rl.enforce(rec, other) {
		t.Fatal("unrelated client blocked")
	}
}

func TestExtractJSONFieldRestoresBody(t *testing.T) {
	body := `{"email":"user@example.com","password":"x"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	if got := extractJSONField(req, "email"); got != "user@example.com" {
		t.Errorf("field = %q", got)
	}

	// The body must still be readable by the handler afterwards.
	again := extractJSONField(req, "email")
	if again != "user@example.com" {
		t.Errorf("second read = %q", again)
	}
}
