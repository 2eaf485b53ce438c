package payrollhandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"crewhub/internal/domain/access"
	"crewhub/internal/domain/audit"
	"crewhub/internal/domain/payroll"
	"crewhub/internal/transport/http/api"
	"crewhub/internal/transport/http/middleware"
	"crewhub/internal/transport/http/shared"
)

type Handler struct {
	Service *payroll.Service
	Authz   *access.Service
	Audit   *audit.Service
}

func NewHandler(service *payroll.Service, authz *access.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Authz: authz, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	guard := func(perms ...access.Permission) func(http.Handler) http.Handler {
		return middleware.RequirePermission(h.Authz, h.Audit, perms...)
	}
	r.Route("/payroll", func(r chi.Router) {
		r.With(guard(access.PermPayrollViewOwn, access.PermPayrollViewAll)).Get("/{month}", h.handleListMonth)
		r.With(guard(access.PermPayrollEdit)).Put("/rows", h.handleUpsert)
		r.With(guard(access.PermPayrollEdit)).Put("/rows/{rowID}/status", h.handleSetStatus)
		r.With(guard(access.PermPayrollViewOwn, access.PermPayrollViewAll)).Get("/rows/{rowID}/payslip", h.handlePayslip)
	})
}

func (h *Handler) handleListMonth(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	rows, err := h.Service.ListMonth(r.Context(), principal, chi.URLParam(r, "month"))
	if errors.Is(err, payroll.ErrInvalidMonth) {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "month must be YYYY-MM", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_list_failed", "failed to list payroll", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, rows, middleware.GetRequestID(r.Context()))
}

type upsertPayload struct {
	UserID     string `json:"userId" validate:"required,uuid"`
	Month      string `json:"month" validate:"required"`
	Gross      int64  `json:"gross" validate:"min=0"`
	Deductions int64  `json:"deductions" validate:"min=0"`
	BankRef    string `json:"bankRef" validate:"max=64"`
}

func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload upsertPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	row, err := h.Service.Upsert(r.Context(), principal, payload.UserID, payload.Month, payload.Gross, payload.Deductions, payload.BankRef)
	switch {
	case errors.Is(err, payroll.ErrInvalidMonth), errors.Is(err, payroll.ErrBadAmounts):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, payroll.ErrForbidden):
		api.Forbidden(w, middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "payroll_upsert_failed", "failed to save payroll row", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "payroll.row.upsert", "payroll_row", row.ID, payload.Month, middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Success(w, row, middleware.GetRequestID(r.Context()))
}

type statusPayload struct {
	Status string `json:"status" validate:"required,oneof=draft finalized paid"`
}

func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload statusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	rowID := chi.URLParam(r, "rowID")
	row, err := h.Service.SetStatus(r.Context(), principal, rowID, payload.Status)
	switch {
	case errors.Is(err, payroll.ErrForbidden):
		api.Forbidden(w, middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusNotFound, "not_found", "payroll row not found", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "payroll.row.status", "payroll_row", rowID, payload.Status, middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Success(w, row, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	rowID := chi.URLParam(r, "rowID")
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "payslip-"+rowID+".pdf"))
	if err := h.Service.WritePayslipPDF(r.Context(), principal, rowID, w); err != nil {
		if errors.Is(err, payroll.ErrForbidden) {
			w.Header().Del("Content-Disposition")
			w.Header().Set("Content-Type", "application/json")
			api.Forbidden(w, middleware.GetRequestID(r.Context()))
			return
		}
		w.Header().Del("Content-Disposition")
		w.Header().Set("Content-Type", "application/json")
		api.Fail(w, http.StatusNotFound, "not_found", "payroll row not found", middleware.GetRequestID(r.Context()))
		return
	}
}
