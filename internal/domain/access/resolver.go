package access

import (
	"log/slog"
	"sort"
)

// PermissionSet is an effective permission set derived for one principal.
type PermissionSet map[Permission]struct{}

func (s PermissionSet) Has(perm Permission) bool {
	_, ok := s[perm]
	return ok
}

func (s PermissionSet) Keys() []Permission {
	keys := make([]Permission, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Resolver answers "does principal P hold permission X" against the static
// catalog and role table. It holds no mutable state and performs no I/O, so a
// single instance is safe for concurrent use across requests. Overrides and
// team memberships are fetched by the caller once per request and passed in as
// plain data.
type Resolver struct {
	catalog  map[Permission]string
	defaults map[Role][]Permission
}

// NewResolver validates the static tables once. A malformed table is a boot
// failure, not a per-request error.
func NewResolver(catalog map[Permission]string, defaults map[Role][]Permission) (*Resolver, error) {
	if len(catalog) == 0 {
		return nil, configErrorf("permission catalog is empty")
	}
	for key := range catalog {
		if key == "" {
			return nil, configErrorf("permission catalog contains an empty key")
		}
	}
	for role, perms := range defaults {
		if !KnownRole(role) {
			return nil, configErrorf("role table references unknown role %q", role)
		}
		for _, perm := range perms {
			if _, ok := catalog[perm]; !ok {
				return nil, configErrorf("role %q grants permission %q not in the catalog", role, perm)
			}
		}
	}
	return &Resolver{catalog: catalog, defaults: defaults}, nil
}

// EffectivePermissions computes the principal's permission set: role defaults
// with the principal's overrides applied, most recently written override
// winning per key. It returns a fresh set on every call and fails closed on a
// malformed principal.
func (r *Resolver) EffectivePermissions(p Principal, overrides []Override) PermissionSet {
	set := PermissionSet{}
	if err := p.Validate(); err != nil {
		slog.Warn("access: resolving permissions for invalid principal", "userId", p.UserID, "role", p.Role)
		return set
	}
	for _, perm := range r.defaults[p.Role] {
		set[perm] = struct{}{}
	}

	applicable := make([]Override, 0, len(overrides))
	for _, ov := range overrides {
		if ov.UserID != p.UserID {
			continue
		}
		if _, ok := r.catalog[ov.Permission]; !ok {
			slog.Warn("access: override references unknown permission", "userId", ov.UserID, "permission", ov.Permission)
			continue
		}
		applicable = append(applicable, ov)
	}
	sort.SliceStable(applicable, func(i, j int) bool {
		return applicable[i].UpdatedAt.Before(applicable[j].UpdatedAt)
	})
	for _, ov := range applicable {
		if ov.Grant {
			set[ov.Permission] = struct{}{}
		} else {
			delete(set, ov.Permission)
		}
	}
	return set
}

// HasPermission reports whether the principal holds any of the given
// permissions (OR semantics, matching the view own/team/all pattern).
func (r *Resolver) HasPermission(p Principal, overrides []Override, perms ...Permission) bool {
	if len(perms) == 0 {
		return false
	}
	set := r.EffectivePermissions(p, overrides)
	for _, perm := range perms {
		if set.Has(perm) {
			return true
		}
	}
	return false
}
