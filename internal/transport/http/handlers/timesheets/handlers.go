package timesheetshandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"crewhub/internal/domain/access"
	"crewhub/internal/domain/audit"
	"crewhub/internal/domain/timesheets"
	"crewhub/internal/transport/http/api"
	"crewhub/internal/transport/http/middleware"
	"crewhub/internal/transport/http/shared"
)

type Handler struct {
	Service *timesheets.Service
	Authz   *access.Service
	Audit   *audit.Service
}

func NewHandler(service *timesheets.Service, authz *access.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Authz: authz, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	guard := func(perms ...access.Permission) func(http.Handler) http.Handler {
		return middleware.RequirePermission(h.Authz, h.Audit, perms...)
	}
	r.Route("/timesheets", func(r chi.Router) {
		r.With(guard(access.PermTimesheetsViewOwn, access.PermTimesheetsViewTeam, access.PermTimesheetsViewAll)).Get("/", h.handleList)
		r.With(guard(access.PermTimesheetsSubmit)).Post("/", h.handleSubmit)
		r.With(guard(access.PermTimesheetsApprove)).Post("/{entryID}/approve", h.handleApprove)
		r.With(guard(access.PermTimesheetsApprove)).Post("/{entryID}/reject", h.handleReject)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	entries, err := h.Service.ListVisible(r.Context(), principal)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "timesheets_list_failed", "failed to list timesheets", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, entries, middleware.GetRequestID(r.Context()))
}

type submitPayload struct {
	WeekStart string  `json:"weekStart" validate:"required"`
	Hours     float64 `json:"hours" validate:"min=0,max=168"`
	Notes     string  `json:"notes" validate:"max=1000"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload submitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	weekStart, okWeek := v.Date("weekStart", payload.WeekStart)
	if v.Reject(w, middleware.GetRequestID(r.Context())) || !okWeek {
		return
	}

	entry, err := h.Service.Submit(r.Context(), principal, weekStart, payload.Hours, payload.Notes)
	switch {
	case errors.Is(err, timesheets.ErrBadWeek), errors.Is(err, timesheets.ErrBadHours):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "timesheet_submit_failed", "failed to submit timesheet", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "timesheets.submit", "timesheet", entry.ID, payload.WeekStart, middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Created(w, entry, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "approve")
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "reject")
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, action string) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	entryID := chi.URLParam(r, "entryID")
	var entry timesheets.Entry
	var err error
	if action == "approve" {
		entry, err = h.Service.Approve(r.Context(), principal, entryID)
	} else {
		entry, err = h.Service.Reject(r.Context(), principal, entryID)
	}
	switch {
	case errors.Is(err, timesheets.ErrOwnEntry):
		api.Fail(w, http.StatusForbidden, "forbidden", "cannot decide your own entry", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, timesheets.ErrForbidden):
		api.Forbidden(w, middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, timesheets.ErrNotSubmitted):
		api.Fail(w, http.StatusConflict, "invalid_state", "entry is not submitted", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusNotFound, "not_found", "timesheet entry not found", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "timesheets."+action, "timesheet", entryID, "", middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Success(w, entry, middleware.GetRequestID(r.Context()))
}
