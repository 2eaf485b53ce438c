package audithandler

import (
	"encoding/csv"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"crewhub/internal/domain/access"
	"crewhub/internal/domain/audit"
	"crewhub/internal/transport/http/api"
	"crewhub/internal/transport/http/middleware"
	"crewhub/internal/transport/http/shared"
)

type Handler struct {
	Service *audit.Service
	Authz   *access.Service
}

func NewHandler(service *audit.Service, authz *access.Service) *Handler {
	return &Handler{Service: service, Authz: authz}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	guard := middleware.RequirePermission(h.Authz, h.Service, access.PermAuditLogView)
	r.Route("/audit-log", func(r chi.Router) {
		r.With(guard).Get("/", h.handleList)
		r.With(guard).Get("/export", h.handleExport)
	})
}

func (h *Handler) filterFromQuery(r *http.Request) audit.Filter {
	f := audit.Filter{
		ActorID: r.URL.Query().Get("actorId"),
		Action:  r.URL.Query().Get("action"),
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		if parsed, err := shared.ParseDate(raw); err == nil {
			f.From = parsed
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if parsed, err := shared.ParseDate(raw); err == nil {
			f.To = parsed
		}
	}
	page := shared.ParsePagination(r, 100, 500)
	f.PerPage = page.Limit
	if page.Limit > 0 {
		f.Page = page.Offset/page.Limit + 1
	}
	return f
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	events, total, err := h.Service.List(r.Context(), h.filterFromQuery(r))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit events", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, events, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	f := h.filterFromQuery(r)
	f.Page = 0
	f.PerPage = 0
	events, err := h.Service.Store.List(r.Context(), f)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_export_failed", "failed to export audit events", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=audit-log.csv")
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "actor_id", "actor_name", "actor_role", "action", "entity_type", "entity_id", "detail", "request_id", "ip", "created_at"}); err != nil {
		slog.Warn("audit export header write failed", "error", err)
	}
	for _, ev := range events {
		row := []string{ev.ID, ev.ActorID, ev.ActorName, ev.ActorRole, ev.Action, ev.EntityType, ev.EntityID, ev.Detail, ev.RequestID, ev.IP, ev.CreatedAt.Format("2006-01-02T15:04:05Z07:00")}
		if err := writer.Write(row); err != nil {
			slog.Warn("audit export row write failed", "error", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		slog.Warn("audit export flush failed", "error", err)
	}
}
