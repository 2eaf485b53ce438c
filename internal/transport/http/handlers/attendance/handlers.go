package attendancehandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"crewhub/internal/domain/access"
	"crewhub/internal/domain/attendance"
	"crewhub/internal/domain/audit"
	"crewhub/internal/transport/http/api"
	"crewhub/internal/transport/http/middleware"
	"crewhub/internal/transport/http/shared"
)

type Handler struct {
	Service *attendance.Service
	Authz   *access.Service
	Audit   *audit.Service
}

func NewHandler(service *attendance.Service, authz *access.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Authz: authz, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	guard := func(perms ...access.Permission) func(http.Handler) http.Handler {
		return middleware.RequirePermission(h.Authz, h.Audit, perms...)
	}
	r.Route("/attendance", func(r chi.Router) {
		r.With(guard(access.PermAttendanceViewOwn, access.PermAttendanceViewTeam, access.PermAttendanceViewAll)).Get("/", h.handleList)
		r.With(guard(access.PermAttendanceViewOwn)).Post("/clock-in", h.handleClockIn)
		r.With(guard(access.PermAttendanceViewOwn)).Post("/clock-out", h.handleClockOut)
		r.With(guard(access.PermAttendanceEdit)).Put("/{recordID}", h.handleCorrect)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	to := time.Now().UTC()
	from := to.AddDate(0, -1, 0)
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid from date", middleware.GetRequestID(r.Context()))
			return
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid to date", middleware.GetRequestID(r.Context()))
			return
		}
		to = parsed
	}

	records, err := h.Service.ListRange(r.Context(), principal, from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_list_failed", "failed to list attendance", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleClockIn(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	record, err := h.Service.ClockIn(r.Context(), principal)
	if errors.Is(err, attendance.ErrAlreadyClocked) {
		api.Fail(w, http.StatusConflict, "already_clocked_in", "an open record already exists for today", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "clock_in_failed", "failed to clock in", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "attendance.clock-in", "attendance", record.ID, "", middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Created(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleClockOut(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	record, err := h.Service.ClockOut(r.Context(), principal)
	if errors.Is(err, attendance.ErrNotClockedIn) {
		api.Fail(w, http.StatusConflict, "not_clocked_in", "no open record for today", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "clock_out_failed", "failed to clock out", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "attendance.clock-out", "attendance", record.ID, "", middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

type correctionPayload struct {
	ClockIn  string `json:"clockIn" validate:"required"`
	ClockOut string `json:"clockOut"`
	Note     string `json:"note" validate:"max=500"`
}

func (h *Handler) handleCorrect(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload correctionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	clockIn, okIn := v.Date("clockIn", payload.ClockIn)
	var clockOut *time.Time
	if payload.ClockOut != "" {
		if parsed, okOut := v.Date("clockOut", payload.ClockOut); okOut {
			clockOut = &parsed
		}
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) || !okIn {
		return
	}

	recordID := chi.URLParam(r, "recordID")
	record, err := h.Service.Correct(r.Context(), principal, recordID, clockIn, clockOut, payload.Note)
	if errors.Is(err, attendance.ErrForbidden) {
		api.Forbidden(w, middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "correction_failed", "failed to correct record", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "attendance.correct", "attendance", recordID, payload.Note, middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}
