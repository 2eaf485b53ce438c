package timesheets

import (
	"context"
	"errors"
	"time"

	"crewhub/internal/domain/access"
	"crewhub/internal/domain/notifications"
)

var (
	ErrForbidden    = errors.New("timesheets: forbidden")
	ErrOwnEntry     = errors.New("timesheets: cannot decide own entry")
	ErrNotSubmitted = errors.New("timesheets: entry is not submitted")
	ErrBadHours     = errors.New("timesheets: hours out of range")
	ErrBadWeek      = errors.New("timesheets: week must start on Monday")
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

func (s *Service) ListVisible(ctx context.Context, p access.Principal) ([]Entry, error) {
	all, err := s.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	memberships, err := s.Access.Scope(ctx, p)
	if err != nil {
		return nil, err
	}
	return access.VisibleRecords(p, all, Entry.Owner, memberships), nil
}

// Submit records the caller's hours for a week and puts the entry into the
// approval queue.
func (s *Service) Submit(ctx context.Context, p access.Principal, weekStart time.Time, hours float64, notes string) (Entry, error) {
	if hours < 0 || hours > 168 {
		return Entry{}, ErrBadHours
	}
	if weekStart.Weekday() != time.Monday {
		return Entry{}, ErrBadWeek
	}
	id, err := s.Store.Upsert(ctx, p.UserID, weekStart, hours, notes, StatusSubmitted)
	if err != nil {
		return Entry{}, err
	}
	return s.Store.Get(ctx, id)
}

func (s *Service) Approve(ctx context.Context, p access.Principal, entryID string) (Entry, error) {
	return s.decide(ctx, p, entryID, StatusApproved)
}

func (s *Service) Reject(ctx context.Context, p access.Principal, entryID string) (Entry, error) {
	return s.decide(ctx, p, entryID, StatusRejected)
}

func (s *Service) decide(ctx context.Context, p access.Principal, entryID, status string) (Entry, error) {
	entry, err := s.Store.Get(ctx, entryID)
	if err != nil {
		return Entry{}, err
	}
	if entry.UserID == p.UserID {
		return Entry{}, ErrOwnEntry
	}
	memberships, err := s.Access.Scope(ctx, p)
	if err != nil {
		return Entry{}, err
	}
	if !access.CanMutate(p, entry.Owner(), memberships) {
		return Entry{}, ErrForbidden
	}
	done, err := s.Store.Decide(ctx, entryID, status, p.UserID)
	if err != nil {
		return Entry{}, err
	}
	if !done {
		return Entry{}, ErrNotSubmitted
	}
	if s.Notifier != nil {
		s.Notifier.Notify(ctx, entry.UserID, notifications.KindTimesheetDecision,
			"Timesheet "+status, "Week of "+entry.WeekStart.Format("2006-01-02"), entryID)
	}
	return s.Store.Get(ctx, entryID)
}
