package teams

import (
	"context"
	"errors"

	"crewhub/internal/domain/access"
)

var ErrForbidden = errors.New("teams: forbidden")

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

// List returns every team for Admin, Sub-Admin and HR; a Team Lead sees only
// the teams they lead, everyone else only the teams they belong to.
func (s *Service) List(ctx context.Context, p access.Principal) ([]Team, error) {
	all, err := s.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	switch p.Role {
	case access.RoleAdmin, access.RoleSubAdmin, access.RoleHR:
		return all, nil
	}
	memberships, err := s.Store.MembershipsForUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	mine := make(map[string]bool, len(memberships))
	for _, m := range memberships {
		if p.Role == access.RoleTeamLead && m.Role != access.MembershipLead {
			continue
		}
		mine[m.TeamID] = true
	}
	out := make([]Team, 0, len(mine))
	for _, t := range all {
		if mine[t.ID] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Service) Members(ctx context.Context, p access.Principal, teamID string) ([]Member, error) {
	switch p.Role {
	case access.RoleAdmin, access.RoleSubAdmin, access.RoleHR:
	default:
		memberships, err := s.Store.MembershipsForUser(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
		allowed := false
		for _, m := range memberships {
			if m.TeamID == teamID {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, ErrForbidden
		}
	}
	return s.Store.Members(ctx, teamID)
}
