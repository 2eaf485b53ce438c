package taskshandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"crewhub/internal/domain/access"
	"crewhub/internal/domain/audit"
	"crewhub/internal/domain/tasks"
	"crewhub/internal/transport/http/api"
	"crewhub/internal/transport/http/middleware"
	"crewhub/internal/transport/http/shared"
)

type Handler struct {
	Service *tasks.Service
	Authz   *access.Service
	Audit   *audit.Service
}

func NewHandler(service *tasks.Service, authz *access.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Authz: authz, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	guard := func(perms ...access.Permission) func(http.Handler) http.Handler {
		return middleware.RequirePermission(h.Authz, h.Audit, perms...)
	}
	r.Route("/tasks", func(r chi.Router) {
		r.With(guard(access.PermTasksViewOwn, access.PermTasksViewTeam, access.PermTasksViewAll)).Get("/", h.handleList)
		r.With(guard(access.PermTasksAssign)).Post("/", h.handleAssign)
		r.With(guard(access.PermTasksEdit)).Put("/{taskID}", h.handleUpdate)
		r.With(guard(access.PermTasksViewOwn)).Put("/{taskID}/status", h.handleSetStatus)
		r.With(guard(access.PermTasksEdit)).Delete("/{taskID}", h.handleDelete)
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
		api.Fail(w, http.StatusInternalServerError, "tasks_list_failed", "failed to list tasks", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

type taskPayload struct {
	AssigneeID  string `json:"assigneeId" validate:"required,uuid"`
	Title       string `json:"title" validate:"required,min=2,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     string `json:"dueDate"`
}

func parseDueDate(v *shared.Validator, raw string) *time.Time {
	if raw == "" {
		return nil
	}
	parsed, ok := v.Date("dueDate", raw)
	if !ok {
		return nil
	}
	return &parsed
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload taskPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	dueDate := parseDueDate(v, payload.DueDate)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	task, err := h.Service.Assign(r.Context(), principal, payload.AssigneeID, payload.Title, payload.Description, payload.Priority, dueDate)
	switch {
	case errors.Is(err, tasks.ErrForbidden):
		api.Forbidden(w, middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "task_assign_failed", "failed to assign task", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "tasks.assign", "task", task.ID, payload.Title, middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Created(w, task, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload taskPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.Priority == "" {
		payload.Priority = tasks.PriorityMedium
	}
	v := shared.NewValidator()
	v.Required("title", payload.Title, "title is required")
	dueDate := parseDueDate(v, payload.DueDate)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	taskID := chi.URLParam(r, "taskID")
	task, err := h.Service.Update(r.Context(), principal, taskID, payload.Title, payload.Description, payload.Priority, dueDate)
	switch {
	case errors.Is(err, tasks.ErrForbidden):
		api.Forbidden(w, middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, tasks.ErrUnknownPriority):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "unknown priority", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusNotFound, "not_found", "task not found", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "tasks.update", "task", taskID, payload.Title, middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Success(w, task, middleware.GetRequestID(r.Context()))
}

type taskStatusPayload struct {
	Status string `json:"status" validate:"required,oneof=open in-progress done"`
}

func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload taskStatusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	taskID := chi.URLParam(r, "taskID")
	task, err := h.Service.SetStatus(r.Context(), principal, taskID, payload.Status)
	switch {
	case errors.Is(err, tasks.ErrForbidden):
		api.Forbidden(w, middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusNotFound, "not_found", "task not found", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "tasks.status", "task", taskID, payload.Status, middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Success(w, task, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	taskID := chi.URLParam(r, "taskID")
	err := h.Service.Delete(r.Context(), principal, taskID)
	switch {
	case errors.Is(err, tasks.ErrForbidden):
		api.Forbidden(w, middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusNotFound, "not_found", "task not found", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), principal, "tasks.delete", "task", taskID, "", middleware.GetRequestID(r.Context()), shared.ClientIP(r))
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}
