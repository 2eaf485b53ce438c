package tasks

import (
	"context"
	"errors"
	"time"

	"crewhub/internal/domain/access"
	"crewhub/internal/domain/notifications"
)

var (
	ErrForbidden       = errors.New("tasks: forbidden")
	ErrUnknownStatus   = errors.New("tasks: unknown status")
	ErrUnknownPriority = errors.New("tasks: unknown priority")
)

type Notifier interface {
	Notify(ctx context.Context, userID, kind, title, body, entityID string)
}

type Service struct {
	Store    *Store
	Access   *access.Service
	Notifier Notifier
}

func NewService(store *Store, accessSvc *access.Service, notifier Notifier) *Service {
	return &Service{Store: store, Access: accessSvc, Notifier: notifier}
}

func (s *Service) ListVisible(ctx context.Context, p access.Principal) ([]Task, error) {
	all, err := s.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	memberships, err := s.Access.Scope(ctx, p)
	if err != nil {
		return nil, err
	}
	return access.VisibleRecords(p, all, Task.Owner, memberships), nil
}

// Assign creates a task. The assignee must be someone the caller could
// mutate, so a Team Lead assigns only within their teams.
func (s *Service) Assign(ctx context.Context, p access.Principal, assigneeID, title, description, priority string, dueDate *time.Time) (Task, error) {
	if priority == "" {
		priority = PriorityMedium
	}
	if !KnownPriority(priority) {
		return Task{}, ErrUnknownPriority
	}
	memberships, err := s.Access.Scope(ctx, p)
	if err != nil {
		return Task{}, err
	}
	assigneeRole, err := s.Store.AssigneeRole(ctx, assigneeID)
	if err != nil {
		return Task{}, err
	}
	owner := access.Owner{UserID: assigneeID, Role: access.Role(assigneeRole)}
	if assigneeID != p.UserID && !access.CanMutate(p, owner, memberships) {
		return Task{}, ErrForbidden
	}
	id, err := s.Store.Create(ctx, assigneeID, p.UserID, title, description, priority, dueDate)
	if err != nil {
		return Task{}, err
	}
	if s.Notifier != nil && assigneeID != p.UserID {
		s.Notifier.Notify(ctx, assigneeID, notifications.KindTaskAssigned, "New task: "+title, description, id)
	}
	return s.Store.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, p access.Principal, taskID, title, description, priority string, dueDate *time.Time) (Task, error) {
	if !KnownPriority(priority) {
		return Task{}, ErrUnknownPriority
	}
	task, err := s.mutable(ctx, p, taskID)
	if err != nil {
		return Task{}, err
	}
	if err := s.Store.Update(ctx, task.ID, title, description, priority, dueDate); err != nil {
		return Task{}, err
	}
	return s.Store.Get(ctx, task.ID)
}

// SetStatus lets the assignee move their own task; anyone else needs mutate
// rights over the assignee.
func (s *Service) SetStatus(ctx context.Context, p access.Principal, taskID, status string) (Task, error) {
	if !KnownStatus(status) {
		return Task{}, ErrUnknownStatus
	}
	task, err := s.Store.Get(ctx, taskID)
	if err != nil {
		return Task{}, err
	}
	if task.AssigneeID != p.UserID {
		if _, err := s.mutable(ctx, p, taskID); err != nil {
			return Task{}, err
		}
	}
	if err := s.Store.SetStatus(ctx, taskID, status); err != nil {
		return Task{}, err
	}
	return s.Store.Get(ctx, taskID)
}

func (s *Service) Delete(ctx context.Context, p access.Principal, taskID string) error {
	if _, err := s.mutable(ctx, p, taskID); err != nil {
		return err
	}
	return s.Store.Delete(ctx, taskID)
}

func (s *Service) mutable(ctx context.Context, p access.Principal, taskID string) (Task, error) {
	task, err := s.Store.Get(ctx, taskID)
	if err != nil {
		return Task{}, err
	}
	memberships, err := s.Access.Scope(ctx, p)
	if err != nil {
		return Task{}, err
	}
	if !access.CanMutate(p, task.Owner(), memberships) {
		return Task{}, ErrForbidden
	}
	return task, nil
}
