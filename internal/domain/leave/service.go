package leave

import (
	"context"
	"errors"
	"time"

	"crewhub/internal/domain/access"
	"crewhub/internal/domain/notifications"
)

var (
	ErrForbidden    = errors.New("leave: forbidden")
	ErrOwnRequest   = errors.New("leave: cannot decide own request")
	ErrNotPending   = errors.New("leave: request is not pending")
	ErrInvalidRange = errors.New("leave: end date before start date")
	ErrUnknownType  = errors.New("leave: unknown leave type")
)

// Notifier delivers the in-app decision notices; nil disables them.
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

func (s *Service) ListVisible(ctx context.Context, p access.Principal) ([]Request, error) {
	all, err := s.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	memberships, err := s.Access.Scope(ctx, p)
	if err != nil {
		return nil, err
	}
	return access.VisibleRecords(p, all, Request.Owner, memberships), nil
}

func (s *Service) Request(ctx context.Context, p access.Principal, leaveType string, start, end time.Time, reason string) (Request, error) {
	if !KnownType(leaveType) {
		return Request{}, ErrUnknownType
	}
	if end.Before(start) {
		return Request{}, ErrInvalidRange
	}
	days := int(end.Sub(start).Hours()/24) + 1
	id, err := s.Store.Create(ctx, p.UserID, leaveType, start, end, days, reason)
	if err != nil {
		return Request{}, err
	}
	return s.Store.Get(ctx, id)
}

// Approve and Reject share the decision path. Nobody decides their own
// request, whatever their role.
func (s *Service) Approve(ctx context.Context, p access.Principal, requestID, note string) (Request, error) {
	return s.decide(ctx, p, requestID, StatusApproved, note)
}

func (s *Service) Reject(ctx context.Context, p access.Principal, requestID, note string) (Request, error) {
	return s.decide(ctx, p, requestID, StatusRejected, note)
}

func (s *Service) decide(ctx context.Context, p access.Principal, requestID, status, note string) (Request, error) {
	req, err := s.Store.Get(ctx, requestID)
	if err != nil {
		return Request{}, err
	}
	if req.UserID == p.UserID {
		return Request{}, ErrOwnRequest
	}
	memberships, err := s.Access.Scope(ctx, p)
	if err != nil {
		return Request{}, err
	}
	if !access.CanMutate(p, req.Owner(), memberships) {
		return Request{}, ErrForbidden
	}
	done, err := s.Store.Decide(ctx, requestID, status, p.UserID, note)
	if err != nil {
		return Request{}, err
	}
	if !done {
		return Request{}, ErrNotPending
	}
	if s.Notifier != nil {
		s.Notifier.Notify(ctx, req.UserID, notifications.KindLeaveDecision,
			"Leave request "+status, note, requestID)
	}
	return s.Store.Get(ctx, requestID)
}

// Cancel withdraws the caller's own pending request.
func (s *Service) Cancel(ctx context.Context, p access.Principal, requestID string) (Request, error) {
	req, err := s.Store.Get(ctx, requestID)
	if err != nil {
		return Request{}, err
	}
	if req.UserID != p.UserID {
		return Request{}, ErrForbidden
	}
	done, err := s.Store.Cancel(ctx, requestID)
	if err != nil {
		return Request{}, err
	}
	if !done {
		return Request{}, ErrNotPending
	}
	return s.Store.Get(ctx, requestID)
}

// Balances returns the target user's allocations. Reading another user's
// balances follows the same visibility rule as their leave requests, so HR
// never sees Admin or Sub-Admin balances.
func (s *Service) Balances(ctx context.Context, p access.Principal, userID string, year int) ([]Balance, error) {
	if userID != p.UserID {
		owner, err := s.Access.ResolveOwner(ctx, userID)
		if err != nil {
			return nil, err
		}
		memberships, err := s.Access.Scope(ctx, p)
		if err != nil {
			return nil, err
		}
		if !access.CanView(p, owner, memberships) {
			return nil, ErrForbidden
		}
	}
	return s.Store.Balances(ctx, userID, year)
}

// SetAllocation writes a yearly allocation, gated like any other mutation of
// the target user's records.
func (s *Service) SetAllocation(ctx context.Context, p access.Principal, userID string, year int, leaveType string, allocated int) error {
	if !KnownType(leaveType) {
		return ErrUnknownType
	}
	owner, err := s.Access.ResolveOwner(ctx, userID)
	if err != nil {
		return err
	}
	memberships, err := s.Access.Scope(ctx, p)
	if err != nil {
		return err
	}
	if !access.CanMutate(p, owner, memberships) {
		return ErrForbidden
	}
	return s.Store.SetAllocation(ctx, userID, year, leaveType, allocated)
}
