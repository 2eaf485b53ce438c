package leavehandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"crewhub/internal/domain/access"
	"crewhub/internal/domain/audit"
	"crewhub/internal/domain/leave"
	"crewhub/internal/transport/http/api"
	"crewhub/internal/transport/http/middleware"
	"crewhub/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
	Authz   *access.Service
	Audit   *audit.Service
}

func NewHandler(service *leave.Service, authz *access.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Authz: authz, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	guard := func(perms ...access.Permission) func(http.Handler) http.Handler {
		return middleware.RequirePermission(h.Authz, h.Audit, perms...)
	}
	r.Route("/leave", func(r chi.Router) {
		r.With(guard(access.PermLeaveViewOwn, access.PermLeaveViewTeam, access.PermLeaveViewAll)).Get("/requests", h.handleList)
		r.With(guard(access.PermLeaveRequest)).Post("/requests", h.handleCreate)
		r.With(guard(access.PermLeaveApprove)).Post("/requests/{requestID}/approve", h.handleApprove)
		r.With(guard(access.PermLeaveApprove)).Post("/requests/{requestID}/reject", h.handleReject)
		r.With(guard(access.PermLeaveRequest)).Post("/requests/{requestID}/cancel", h.handleCancel)
		r.With(guard(access.PermLeaveViewOwn, access.PermLeaveViewAll)).Get("/balances/{userID}", h.handleBalances)
		r.With(guard(access.PermLeaveApprove)).Put("/balances/{userID}", h.handleSetAllocation)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	requests, err := h.Service.ListVisible(r.Context(), principal)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_list_failed", "failed to list requests", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, requests, middleware.GetRequestID(r.Context()))
}

type leaveRequestPayload struct {
	Type      string `json:"type" validate:"required,oneof=annual sick unpaid"`
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
	Reason    string `json:"reason" validate:"max=1000"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload leaveRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	start, okStart := v.Date("startDate", payload.StartDate)
	end, okEnd := v.Date("endDate", payload.EndDate)
	if okStart && okEnd {
		v.DateOrder("startDate", start, "endDate", end)
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	req, err := h.Service.Request(r.Context(), principal, payload.Type, start, end, payload.Reason)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "leave_request_failed", "failed to create request", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "leave.request.create", "leave_request", req.ID, payload.Type, middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Created(w, req, middleware.GetRequestID(r.Context()))
}

type decisionPayload struct {
	Note string `json:"note" validate:"max=1000"`
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

	var payload decisionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		payload = decisionPayload{}
	}

	requestID := chi.URLParam(r, "requestID")
	var req leave.Request
	var err error
	if action == "approve" {
		req, err = h.Service.Approve(r.Context(), principal, requestID, payload.Note)
	} else {
		req, err = h.Service.Reject(r.Context(), principal, requestID, payload.Note)
	}
	switch {
	case errors.Is(err, leave.ErrOwnRequest):
		api.Fail(w, http.StatusForbidden, "forbidden", "cannot decide your own request", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, leave.ErrForbidden):
		api.Forbidden(w, middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, leave.ErrNotPending):
		api.Fail(w, http.StatusConflict, "invalid_state", "request is not pending", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "leave.request."+action, "leave_request", requestID, payload.Note, middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	requestID := chi.URLParam(r, "requestID")
	req, err := h.Service.Cancel(r.Context(), principal, requestID)
	switch {
	case errors.Is(err, leave.ErrForbidden):
		api.Forbidden(w, middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, leave.ErrNotPending):
		api.Fail(w, http.StatusConflict, "invalid_state", "request is not pending", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "leave.request.cancel", "leave_request", requestID, "", middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleBalances(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid year", middleware.GetRequestID(r.Context()))
			return
		}
		year = parsed
	}

	balances, err := h.Service.Balances(r.Context(), principal, chi.URLParam(r, "userID"), year)
	if errors.Is(err, leave.ErrForbidden) {
		api.Forbidden(w, middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "balances_failed", "failed to list balances", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, balances, middleware.GetRequestID(r.Context()))
}

type allocationPayload struct {
	Year      int    `json:"year" validate:"required,min=2000,max=2100"`
	Type      string `json:"type" validate:"required,oneof=annual sick unpaid"`
	Allocated int    `json:"allocated" validate:"min=0,max=365"`
}

func (h *Handler) handleSetAllocation(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload allocationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	userID := chi.URLParam(r, "userID")
	err := h.Service.SetAllocation(r.Context(), principal, userID, payload.Year, payload.Type, payload.Allocated)
	switch {
	case errors.Is(err, leave.ErrForbidden):
		api.Forbidden(w, middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "allocation_failed", "failed to set allocation", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "leave.allocation.set", "leave_balance", userID, payload.Type, middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Success(w, map[string]string{"status": "allocation set"}, middleware.GetRequestID(r.Context()))
}
