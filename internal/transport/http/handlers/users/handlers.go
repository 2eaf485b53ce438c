package usershandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"crewhub/internal/domain/access"
	"crewhub/internal/domain/audit"
	"crewhub/internal/domain/users"
	"crewhub/internal/transport/http/api"
	"crewhub/internal/transport/http/middleware"
	"crewhub/internal/transport/http/shared"
)

type Handler struct {
	Service *users.Service
	Authz   *access.Service
	Audit   *audit.Service
}

func NewHandler(service *users.Service, authz *access.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Authz: authz, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	guard := func(perms ...access.Permission) func(http.Handler) http.Handler {
		return middleware.RequirePermission(h.Authz, h.Audit, perms...)
	}
	r.Route("/users", func(r chi.Router) {
		r.With(guard(access.PermUsersView)).Get("/", h.handleList)
		r.With(guard(access.PermUsersView)).Get("/{userID}", h.handleGet)
		r.With(guard(access.PermRolesAssign)).Put("/{userID}/role", h.handleAssignRole)
		r.With(guard(access.PermOverridesEdit)).Get("/{userID}/overrides", h.handleListOverrides)
		r.With(guard(access.PermOverridesEdit)).Put("/{userID}/overrides", h.handleSetOverride)
		r.With(guard(access.PermOverridesEdit)).Delete("/{userID}/overrides/{permission}", h.handleDeleteOverride)
	})
	r.Get("/me", h.handleMe)
	r.Get("/me/permissions", h.handleMyPermissions)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	list, err := h.Service.ListVisible(r.Context(), principal)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "users_list_failed", "failed to list users", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	user, err := h.Service.Get(r.Context(), principal, chi.URLParam(r, "userID"))
	if errors.Is(err, users.ErrForbidden) {
		api.Forbidden(w, middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, user, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	user, err := h.Service.Store.Get(r.Context(), principal.UserID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, user, middleware.GetRequestID(r.Context()))
}

// handleMyPermissions returns the caller's effective permission keys so the
// frontend can shape its navigation.
func (h *Handler) handleMyPermissions(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	perms, err := h.Authz.EffectivePermissions(r.Context(), principal)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "permissions_failed", "failed to resolve permissions", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, perms.Keys(), middleware.GetRequestID(r.Context()))
}

type assignRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

func (h *Handler) handleAssignRole(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload assignRoleRequest
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
	err := h.Service.AssignRole(r.Context(), principal, userID, access.Role(payload.Role))
	switch {
	case errors.Is(err, users.ErrUnknownRole):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "unknown role", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, users.ErrForbidden):
		api.Forbidden(w, middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "role_assign_failed", "failed to assign role", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "users.role.assign", "user", userID, payload.Role, middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Success(w, map[string]string{"status": "role assigned"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListOverrides(w http.ResponseWriter, r *http.Request) {
	overrides, err := h.Service.ListOverrides(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "overrides_list_failed", "failed to list overrides", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, overrides, middleware.GetRequestID(r.Context()))
}

type overrideRequest struct {
	Permission string `json:"permission" validate:"required"`
	Grant      bool   `json:"grant"`
}

func (h *Handler) handleSetOverride(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload overrideRequest
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
	err := h.Service.SetOverride(r.Context(), userID, access.Permission(payload.Permission), payload.Grant)
	switch {
	case errors.Is(err, users.ErrUnknownPermission):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "unknown permission", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "override_set_failed", "failed to set override", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "users.override.set", "user", userID, payload.Permission, middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Success(w, map[string]string{"status": "override set"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteOverride(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	userID := chi.URLParam(r, "userID")
	perm := chi.URLParam(r, "permission")
	if err := h.Service.DeleteOverride(r.Context(), userID, access.Permission(perm)); err != nil {
		api.Fail(w, http.StatusInternalServerError, "override_delete_failed", "failed to delete override", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "users.override.delete", "user", userID, perm, middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Success(w, map[string]string{"status": "override removed"}, middleware.GetRequestID(r.Context()))
}
