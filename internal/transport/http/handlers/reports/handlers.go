package reportshandler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"crewhub/internal/domain/access"
	"crewhub/internal/domain/audit"
	"crewhub/internal/domain/reports"
	"crewhub/internal/transport/http/api"
	"crewhub/internal/transport/http/middleware"
	"crewhub/internal/transport/http/shared"
)

type Handler struct {
	Service *reports.Service
	Authz   *access.Service
	Audit   *audit.Service
}

func NewHandler(service *reports.Service, authz *access.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Authz: authz, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	guard := middleware.RequirePermission(h.Authz, h.Audit, access.PermReportsView, access.PermDashboardView)
	r.With(guard).Get("/reports/dashboard", h.handleDashboard)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	to := time.Now().UTC()
	from := to.AddDate(0, -1, 0)
	if raw := r.URL.Query().Get("from"); raw != "" {
		if parsed, err := shared.ParseDate(raw); err == nil {
			from = parsed
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if parsed, err := shared.ParseDate(raw); err == nil {
			to = parsed
		}
	}

	dashboard, err := h.Service.Dashboard(r.Context(), principal, from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "dashboard_failed", "failed to build dashboard", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, dashboard, middleware.GetRequestID(r.Context()))
}
