package access

import (
	"fmt"
	"time"
)

// Principal is the resolved identity of the current actor. It is constructed
// per request from the session claims and threaded explicitly; there is no
// package-level current user.
type Principal struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName,omitempty"`
	Role        Role   `json:"role"`
	TeamID      string `json:"teamId,omitempty"`
}

func (p Principal) Validate() error {
	if p.UserID == "" {
		return fmt.Errorf("%w: missing user id", ErrInvalidPrincipal)
	}
	if !KnownRole(p.Role) {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidPrincipal, p.Role)
	}
	return nil
}

// Override is a per-user exception to the role defaults. Overrides are sparse
// and applied after the defaults; for the same permission the most recently
// written override wins.
type Override struct {
	UserID     string     `json:"userId"`
	Permission Permission `json:"permission"`
	Grant      bool       `json:"grant"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type MembershipRole string

const (
	MembershipLead   MembershipRole = "lead"
	MembershipMember MembershipRole = "member"
)

// TeamMembership scopes a Team Lead's visibility to the members of teams they
// lead. A lead may lead zero or more teams.
type TeamMembership struct {
	TeamID string         `json:"teamId"`
	UserID string         `json:"userId"`
	Role   MembershipRole `json:"role"`
}
