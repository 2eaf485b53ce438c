package leads

import (
	"context"
	"errors"

	"crewhub/internal/domain/access"
)

var (
	ErrForbidden    = errors.New("leads: forbidden")
	ErrUnknownStage = errors.New("leads: unknown stage")
)

type Service struct {
	Store  *Store
	Access *access.Service
}

func NewService(store *Store, accessSvc *access.Service) *Service {
	return &Service{Store: store, Access: accessSvc}
}

func (s *Service) ListVisible(ctx context.Context, p access.Principal) ([]Lead, error) {
	all, err := s.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	memberships, err := s.Access.Scope(ctx, p)
	if err != nil {
		return nil, err
	}
	return access.VisibleRecords(p, all, Lead.Owner, memberships), nil
}

// Create records a lead owned by the caller.
func (s *Service) Create(ctx context.Context, p access.Principal, l Lead) (Lead, error) {
	if l.Stage == "" {
		l.Stage = StageNew
	}
	if !KnownStage(l.Stage) {
		return Lead{}, ErrUnknownStage
	}
	l.OwnerID = p.UserID
	id, err := s.Store.Create(ctx, l)
	if err != nil {
		return Lead{}, err
	}
	return s.Store.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, p access.Principal, l Lead) (Lead, error) {
	if !KnownStage(l.Stage) {
		return Lead{}, ErrUnknownStage
	}
	existing, err := s.Store.Get(ctx, l.ID)
	if err != nil {
		return Lead{}, err
	}
	memberships, err := s.Access.Scope(ctx, p)
	if err != nil {
		return Lead{}, err
	}
	if !access.CanMutate(p, existing.Owner(), memberships) {
		return Lead{}, ErrForbidden
	}
	if err := s.Store.Update(ctx, l); err != nil {
		return Lead{}, err
	}
	return s.Store.Get(ctx, l.ID)
}

func (s *Service) Delete(ctx context.Context, p access.Principal, leadID string) error {
	existing, err := s.Store.Get(ctx, leadID)
	if err != nil {
		return err
	}
	memberships, err := s.Access.Scope(ctx, p)
	if err != nil {
		return err
	}
	if !access.CanMutate(p, existing.Owner(), memberships) {
		return ErrForbidden
	}
	return s.Store.Delete(ctx, leadID)
}
