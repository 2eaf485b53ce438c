package leadshandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"crewhub/internal/domain/access"
	"crewhub/internal/domain/audit"
	"crewhub/internal/domain/leads"
	"crewhub/internal/transport/http/api"
	"crewhub/internal/transport/http/middleware"
	"crewhub/internal/transport/http/shared"
)

type Handler struct {
	Service *leads.Service
	Authz   *access.Service
	Audit   *audit.Service
}

func NewHandler(service *leads.Service, authz *access.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Authz: authz, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	guard := func(perms ...access.Permission) func(http.Handler) http.Handler {
		return middleware.RequirePermission(h.Authz, h.Audit, perms...)
	}
	r.Route("/leads", func(r chi.Router) {
		r.With(guard(access.PermLeadsView)).Get("/", h.handleList)
		r.With(guard(access.PermLeadsEdit)).Post("/", h.handleCreate)
		r.With(guard(access.PermLeadsEdit)).Put("/{leadID}", h.handleUpdate)
		r.With(guard(access.PermLeadsEdit)).Delete("/{leadID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	list, err := h.Service.ListVisible(r.Context(), principal)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leads_list_failed", "failed to list leads", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

type leadPayload struct {
	Company string `json:"company" validate:"required,min=2,max=200"`
	Contact string `json:"contact" validate:"required,min=2,max=200"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"max=32"`
	Stage   string `json:"stage" validate:"omitempty,oneof=new contacted qualified proposal won lost"`
	Value   int64  `json:"value" validate:"min=0"`
	Notes   string `json:"notes" validate:"max=2000"`
}

func (p leadPayload) toLead() leads.Lead {
	return leads.Lead{
		Company: p.Company,
		Contact: p.Contact,
		Email:   p.Email,
		Phone:   p.Phone,
		Stage:   p.Stage,
		Value:   p.Value,
		Notes:   p.Notes,
	}
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload leadPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	lead, err := h.Service.Create(r.Context(), principal, payload.toLead())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "lead_create_failed", "failed to create lead", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "leads.create", "lead", lead.ID, payload.Company, middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Created(w, lead, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload leadPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.Stage == "" {
		payload.Stage = leads.StageNew
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	lead := payload.toLead()
	lead.ID = chi.URLParam(r, "leadID")
	updated, err := h.Service.Update(r.Context(), principal, lead)
	switch {
	case errors.Is(err, leads.ErrForbidden):
		api.Forbidden(w, middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusNotFound, "not_found", "lead not found", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "leads.update", "lead", lead.ID, payload.Stage, middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	leadID := chi.URLParam(r, "leadID")
	err := h.Service.Delete(r.Context(), principal, leadID)
	switch {
	case errors.Is(err, leads.ErrForbidden):
		api.Forbidden(w, middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusNotFound, "not_found", "lead not found", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "leads.delete", "lead", leadID, "", middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}
