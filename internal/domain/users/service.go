package users

import (
	"context"
	"errors"

	"crewhub/internal/domain/access"
)

var (
	ErrForbidden         = errors.New("users: forbidden")
	ErrUnknownRole       = errors.New("users: unknown role")
	ErrUnknownPermission = errors.New("users: unknown permission")
)

type Service struct {
	Store     *Store
	Access    *access.Service
	Overrides *access.Store
}

func NewService(store *Store, accessSvc *access.Service, overrides *access.Store) *Service {
	return &Service{Store: store, Access: accessSvc, Overrides: overrides}
}

// ListVisible returns the user directory filtered by the visibility
// invariant: a user record is owned by the user it describes.
func (s *Service) ListVisible(ctx context.Context, p access.Principal) ([]User, error) {
	all, err := s.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	memberships, err := s.Access.Scope(ctx, p)
	if err != nil {
		return nil, err
	}
	return access.VisibleRecords(p, all, User.Owner, memberships), nil
}

func (s *Service) Get(ctx context.Context, p access.Principal, userID string) (User, error) {
	user, err := s.Store.Get(ctx, userID)
	if err != nil {
		return User{}, err
	}
	memberships, err := s.Access.Scope(ctx, p)
	if err != nil {
		return User{}, err
	}
	if !access.CanView(p, user.Owner(), memberships) {
		return User{}, ErrForbidden
	}
	return user, nil
}

// AssignRole changes a user's role. The caller must be allowed to mutate the
// target; Sub-Admin therefore cannot touch Admin or fellow Sub-Admin
// accounts.
func (s *Service) AssignRole(ctx context.Context, p access.Principal, userID string, role access.Role) error {
	if !access.KnownRole(role) {
		return ErrUnknownRole
	}
	target, err := s.Store.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !access.CanMutate(p, target.Owner(), nil) {
		return ErrForbidden
	}
	return s.Store.SetRole(ctx, userID, role)
}

// SetOverride records a per-user permission exception. The permission must
// exist in the catalog; overrides against unknown keys would silently do
// nothing at resolution time.
func (s *Service) SetOverride(ctx context.Context, userID string, perm access.Permission, grant bool) error {
	if _, ok := access.Catalog[perm]; !ok {
		return ErrUnknownPermission
	}
	if _, err := s.Store.Get(ctx, userID); err != nil {
		return err
	}
	return s.Overrides.UpsertOverride(ctx, access.Override{UserID: userID, Permission: perm, Grant: grant})
}

func (s *Service) DeleteOverride(ctx context.Context, userID string, perm access.Permission) error {
	return s.Overrides.DeleteOverride(ctx, userID, perm)
}

func (s *Service) ListOverrides(ctx context.Context, userID string) ([]access.Override, error) {
	return s.Overrides.ListOverrides(ctx, userID)
}
