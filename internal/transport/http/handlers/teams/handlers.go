package teamshandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"crewhub/internal/domain/access"
	"crewhub/internal/domain/audit"
	"crewhub/internal/domain/teams"
	"crewhub/internal/transport/http/api"
	"crewhub/internal/transport/http/middleware"
	"crewhub/internal/transport/http/shared"
)

type Handler struct {
	Service *teams.Service
	Authz   *access.Service
	Audit   *audit.Service
}

func NewHandler(service *teams.Service, authz *access.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Authz: authz, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	guard := func(perms ...access.Permission) func(http.Handler) http.Handler {
		return middleware.RequirePermission(h.Authz, h.Audit, perms...)
	}
	r.Route("/teams", func(r chi.Router) {
		r.With(guard(access.PermTeamsView)).Get("/", h.handleList)
		r.With(guard(access.PermTeamsEdit)).Post("/", h.handleCreate)
		r.With(guard(access.PermTeamsEdit)).Put("/{teamID}", h.handleUpdate)
		r.With(guard(access.PermTeamsEdit)).Delete("/{teamID}", h.handleDelete)
		r.With(guard(access.PermTeamsView)).Get("/{teamID}/members", h.handleMembers)
		r.With(guard(access.PermTeamsEdit)).Post("/{teamID}/members", h.handleAddMember)
		r.With(guard(access.PermTeamsEdit)).Delete("/{teamID}/members/{userID}", h.handleRemoveMember)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	list, err := h.Service.List(r.Context(), principal)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "teams_list_failed", "failed to list teams", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

type teamPayload struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=500"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload teamPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Service.Store.Create(r.Context(), payload.Name, payload.Description)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "team_create_failed", "failed to create team", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "teams.create", "team", id, payload.Name, middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload teamPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	teamID := chi.URLParam(r, "teamID")
	if err := h.Service.Store.Update(r.Context(), teamID, payload.Name, payload.Description); err != nil {
		api.Fail(w, http.StatusInternalServerError, "team_update_failed", "failed to update team", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "teams.update", "team", teamID, payload.Name, middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Success(w, map[string]string{"status": "updated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	teamID := chi.URLParam(r, "teamID")
	if err := h.Service.Store.Delete(r.Context(), teamID); err != nil {
		api.Fail(w, http.StatusInternalServerError, "team_delete_failed", "failed to delete team", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "teams.delete", "team", teamID, "", middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMembers(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	members, err := h.Service.Members(r.Context(), principal, chi.URLParam(r, "teamID"))
	if errors.Is(err, teams.ErrForbidden) {
		api.Forbidden(w, middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "team_members_failed", "failed to list members", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, members, middleware.GetRequestID(r.Context()))
}

type memberPayload struct {
	UserID string `json:"userId" validate:"required,uuid"`
	Role   string `json:"role" validate:"required,oneof=lead member"`
}

func (h *Handler) handleAddMember(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload memberPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	teamID := chi.URLParam(r, "teamID")
	if err := h.Service.Store.AddMember(r.Context(), teamID, payload.UserID, access.MembershipRole(payload.Role)); err != nil {
		api.Fail(w, http.StatusInternalServerError, "member_add_failed", "failed to add member", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "teams.member.add", "team", teamID, payload.UserID, middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Created(w, map[string]string{"status": "member added"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	teamID := chi.URLParam(r, "teamID")
	userID := chi.URLParam(r, "userID")
	if err := h.Service.Store.RemoveMember(r.Context(), teamID, userID); err != nil {
		api.Fail(w, http.StatusInternalServerError, "member_remove_failed", "failed to remove member", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "teams.member.remove", "team", teamID, userID, middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Success(w, map[string]string{"status": "member removed"}, middleware.GetRequestID(r.Context()))
}
