package access

// Owner identifies who a domain record belongs to. Role may be empty when the
// caller does not know the owner's role.
type Owner struct {
	UserID string
	Role   Role
}

// CanView applies the visibility invariant for a single record:
//   - Admin and Sub-Admin see everything.
//   - HR sees records whose owner is not Admin or Sub-Admin.
//   - Team Lead sees their own records and those owned by members of teams
//     they lead.
//   - Employee and Business Development see only their own records.
//
// A malformed principal sees nothing.
func CanView(p Principal, owner Owner, memberships []TeamMembership) bool {
	if p.Validate() != nil {
		return false
	}
	switch p.Role {
	case RoleAdmin, RoleSubAdmin:
		return true
	case RoleHR:
		return owner.UserID == p.UserID || (owner.Role != RoleAdmin && owner.Role != RoleSubAdmin)
	case RoleTeamLead:
		if owner.UserID == p.UserID {
			return true
		}
		_, ok := leadMemberIDs(p, memberships)[owner.UserID]
		return ok
	default:
		return owner.UserID == p.UserID
	}
}

// CanMutate is CanView with a narrower Sub-Admin rule: Sub-Admin may change
// only records owned by roles below Admin/Sub-Admin, plus their own.
func CanMutate(p Principal, owner Owner, memberships []TeamMembership) bool {
	if !CanView(p, owner, memberships) {
		return false
	}
	if p.Role == RoleSubAdmin && owner.UserID != p.UserID {
		return owner.Role != RoleAdmin && owner.Role != RoleSubAdmin
	}
	return true
}

// VisibleRecords filters records down to those the principal may see. The
// filter is pure and stable: input order is preserved and the input slice is
// never mutated.
func VisibleRecords[R any](p Principal, records []R, owner func(R) Owner, memberships []TeamMembership) []R {
	out := make([]R, 0, len(records))
	for _, record := range records {
		if CanView(p, owner(record), memberships) {
			out = append(out, record)
		}
	}
	return out
}

// leadMemberIDs resolves the union of member user IDs across every team the
// principal leads.
func leadMemberIDs(p Principal, memberships []TeamMembership) map[string]struct{} {
	led := map[string]struct{}{}
	for _, m := range memberships {
		if m.UserID == p.UserID && m.Role == MembershipLead {
			led[m.TeamID] = struct{}{}
		}
	}
	members := map[string]struct{}{}
	for _, m := range memberships {
		if _, ok := led[m.TeamID]; ok {
			members[m.UserID] = struct{}{}
		}
	}
	return members
}
