package access

import "context"

// DataStore supplies the per-request data the resolver consumes: permission
// overrides and team memberships. Implementations issue the queries; the
// Resolver never does.
type DataStore interface {
	OverridesForUser(ctx context.Context, userID string) ([]Override, error)
	LeadScope(ctx context.Context, userID string) ([]TeamMembership, error)
	RoleOf(ctx context.Context, userID string) (Role, error)
}

// Service composes the pure Resolver with the store so HTTP middleware and
// handlers can ask authorization questions without touching the database
// layout. Overrides and memberships are fetched once per call, not cached
// across requests.
type Service struct {
	Resolver *Resolver
	Store    DataStore
}

func NewService(resolver *Resolver, store DataStore) *Service {
	return &Service{Resolver: resolver, Store: store}
}

func (s *Service) EffectivePermissions(ctx context.Context, p Principal) (PermissionSet, error) {
	overrides, err := s.Store.OverridesForUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return s.Resolver.EffectivePermissions(p, overrides), nil
}

// HasAny reports whether the principal holds at least one of the permissions.
func (s *Service) HasAny(ctx context.Context, p Principal, perms ...Permission) (bool, error) {
	overrides, err := s.Store.OverridesForUser(ctx, p.UserID)
	if err != nil {
		return false, err
	}
	return s.Resolver.HasPermission(p, overrides, perms...), nil
}

// Scope returns the team memberships relevant to the principal's visibility.
// Handlers fetch this once per request and pass it into CanView, CanMutate
// and VisibleRecords as plain data.
func (s *Service) Scope(ctx context.Context, p Principal) ([]TeamMembership, error) {
	if p.Role != RoleTeamLead {
		return nil, nil
	}
	return s.Store.LeadScope(ctx, p.UserID)
}

// ResolveOwner builds the ownership tuple for a target user so services can
// gate on CanView or CanMutate before touching a record that does not carry
// its owner's role.
func (s *Service) ResolveOwner(ctx context.Context, userID string) (Owner, error) {
	role, err := s.Store.RoleOf(ctx, userID)
	if err != nil {
		return Owner{}, err
	}
	return Owner{UserID: userID, Role: role}, nil
}
