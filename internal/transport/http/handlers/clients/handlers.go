package clientshandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"crewhub/internal/domain/access"
	"crewhub/internal/domain/audit"
	"crewhub/internal/domain/clients"
	"crewhub/internal/transport/http/api"
	"crewhub/internal/transport/http/middleware"
	"crewhub/internal/transport/http/shared"
)

type Handler struct {
	Service *clients.Service
	Authz   *access.Service
	Audit   *audit.Service
}

func NewHandler(service *clients.Service, authz *access.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Authz: authz, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	guard := func(perms ...access.Permission) func(http.Handler) http.Handler {
		return middleware.RequirePermission(h.Authz, h.Audit, perms...)
	}
	r.Route("/clients", func(r chi.Router) {
		r.With(guard(access.PermClientsView)).Get("/", h.handleListClients)
		r.With(guard(access.PermClientsEdit)).Post("/", h.handleCreateClient)
		r.With(guard(access.PermClientsEdit)).Put("/{clientID}", h.handleUpdateClient)
	})
	r.Route("/tickets", func(r chi.Router) {
		r.With(guard(access.PermTicketsView)).Get("/", h.handleListTickets)
		r.With(guard(access.PermTicketsEdit)).Post("/", h.handleCreateTicket)
		r.With(guard(access.PermTicketsEdit)).Put("/{ticketID}/status", h.handleTicketStatus)
		r.With(guard(access.PermTicketsEdit)).Put("/{ticketID}/owner", h.handleTicketOwner)
	})
}

func (h *Handler) handleListClients(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListClients(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "clients_list_failed", "failed to list clients", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

type clientPayload struct {
	Name        string `json:"name" validate:"required,min=2,max=200"`
	ContactName string `json:"contactName" validate:"max=200"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"max=32"`
}

func (h *Handler) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload clientPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Service.CreateClient(r.Context(), clients.Client{
		Name:        payload.Name,
		ContactName: payload.ContactName,
		Email:       payload.Email,
		Phone:       payload.Phone,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "client_create_failed", "failed to create client", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "clients.create", "client", id, payload.Name, middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload clientPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	clientID := chi.URLParam(r, "clientID")
	err := h.Service.UpdateClient(r.Context(), clients.Client{
		ID:          clientID,
		Name:        payload.Name,
		ContactName: payload.ContactName,
		Email:       payload.Email,
		Phone:       payload.Phone,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "client_update_failed", "failed to update client", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "clients.update", "client", clientID, payload.Name, middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Success(w, map[string]string{"status": "updated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListTickets(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	tickets, err := h.Service.ListTicketsVisible(r.Context(), principal)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "tickets_list_failed", "failed to list tickets", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, tickets, middleware.GetRequestID(r.Context()))
}

type ticketPayload struct {
	ClientID string `json:"clientId" validate:"required,uuid"`
	Subject  string `json:"subject" validate:"required,min=2,max=200"`
	Body     string `json:"body" validate:"max=5000"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
}

func (h *Handler) handleCreateTicket(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload ticketPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	ticket, err := h.Service.CreateTicket(r.Context(), principal, clients.Ticket{
		ClientID: payload.ClientID,
		Subject:  payload.Subject,
		Body:     payload.Body,
		Priority: payload.Priority,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "ticket_create_failed", "failed to create ticket", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "tickets.create", "ticket", ticket.ID, payload.Subject, middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Created(w, ticket, middleware.GetRequestID(r.Context()))
}

type ticketStatusPayload struct {
	Status string `json:"status" validate:"required,oneof=open pending escalated resolved closed"`
}

func (h *Handler) handleTicketStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload ticketStatusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	ticketID := chi.URLParam(r, "ticketID")
	ticket, err := h.Service.SetTicketStatus(r.Context(), principal, ticketID, payload.Status)
	switch {
	case errors.Is(err, clients.ErrForbidden):
		api.Forbidden(w, middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusNotFound, "not_found", "ticket not found", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "tickets.status", "ticket", ticketID, payload.Status, middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Success(w, ticket, middleware.GetRequestID(r.Context()))
}

type ticketOwnerPayload struct {
	OwnerID string `json:"ownerId" validate:"required,uuid"`
}

func (h *Handler) handleTicketOwner(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload ticketOwnerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	ticketID := chi.URLParam(r, "ticketID")
	ticket, err := h.Service.ReassignTicket(r.Context(), principal, ticketID, payload.OwnerID)
	switch {
	case errors.Is(err, clients.ErrForbidden):
		api.Forbidden(w, middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusNotFound, "not_found", "ticket not found", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "tickets.reassign", "ticket", ticketID, payload.OwnerID, middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Success(w, ticket, middleware.GetRequestID(r.Context()))
}
