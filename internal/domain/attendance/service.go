package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"crewhub/internal/domain/access"
)

var (
	ErrForbidden      = errors.New("attendance: forbidden")
	ErrAlreadyClocked = errors.New("attendance: already clocked in today")
	ErrNotClockedIn   = errors.New("attendance: no open record today")
)

type Service struct {
	Store  *Store
	Access *access.Service
	Now    func() time.Time
}

func NewService(store *Store, accessSvc *access.Service) *Service {
	return &Service{Store: store, Access: accessSvc, Now: time.Now}
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *Service) ListRange(ctx context.Context, p access.Principal, from, to time.Time) ([]Record, error) {
	all, err := s.Store.ListRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	memberships, err := s.Access.Scope(ctx, p)
	if err != nil {
		return nil, err
	}
	return access.VisibleRecords(p, all, Record.Owner, memberships), nil
}

func (s *Service) ClockIn(ctx context.Context, p access.Principal) (Record, error) {
	now := s.Now().UTC()
	today := dayOf(now)
	if _, err := s.Store.OpenForUser(ctx, p.UserID, today); err == nil {
		return Record{}, ErrAlreadyClocked
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return Record{}, err
	}
	id, err := s.Store.ClockIn(ctx, p.UserID, today, now)
	if err != nil {
		return Record{}, err
	}
	return s.Store.Get(ctx, id)
}

func (s *Service) ClockOut(ctx context.Context, p access.Principal) (Record, error) {
	now := s.Now().UTC()
	open, err := s.Store.OpenForUser(ctx, p.UserID, dayOf(now))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotClockedIn
	}
	if err != nil {
		return Record{}, err
	}
	if err := s.Store.ClockOut(ctx, open.ID, now); err != nil {
		return Record{}, err
	}
	return s.Store.Get(ctx, open.ID)
}

// Correct lets a manager fix a record. Clock-out before clock-in is rejected.
func (s *Service) Correct(ctx context.Context, p access.Principal, recordID string, clockIn time.Time, clockOut *time.Time, note string) (Record, error) {
	rec, err := s.Store.Get(ctx, recordID)
	if err != nil {
		return Record{}, err
	}
	memberships, err := s.Access.Scope(ctx, p)
	if err != nil {
		return Record{}, err
	}
	if !access.CanMutate(p, rec.Owner(), memberships) {
		return Record{}, ErrForbidden
	}
	if clockOut != nil && clockOut.Before(clockIn) {
		return Record{}, errors.New("attendance: clock-out before clock-in")
	}
	if err := s.Store.Correct(ctx, recordID, clockIn, clockOut, note); err != nil {
		return Record{}, err
	}
	return s.Store.Get(ctx, recordID)
}

// AutoCloseOpen is run by the background sweep.
func (s *Service) AutoCloseOpen(ctx context.Context) (int64, error) {
	return s.Store.CloseOpenBefore(ctx, dayOf(s.Now().UTC()))
}
