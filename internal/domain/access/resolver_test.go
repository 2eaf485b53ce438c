package access

import (
	"testing"
	"time"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	resolver, err := NewResolver(Catalog, RolePermissions)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return resolver
}

func TestAdminHoldsFullCatalog(t *testing.T) {
	resolver := newTestResolver(t)
	set := resolver.EffectivePermissions(Principal{UserID: "u-admin-1", Role: RoleAdmin}, nil)

	if len(set) != len(Catalog) {
		t.Fatalf("admin set has %d permissions, catalog has %d", len(set), len(Catalog))
	}
	for perm := range Catalog {
		if !resolver.HasPermission(Principal{UserID: "u-admin-1", Role: RoleAdmin}, nil, perm) {
			t.Fatalf("admin missing %s", perm)
		}
	}
}

func TestFailClosedOnMalformedPrincipal(t *testing.T) {
	resolver := newTestResolver(t)
	cases := []Principal{
		{Role: RoleEmployee},
		{UserID: "u-1", Role: "Superuser"},
		{UserID: "u-1"},
		{},
	}
	for _, p := range cases {
		set := resolver.EffectivePermissions(p, nil)
		if len(set) != 0 {
			t.Fatalf("principal %+v resolved %d permissions, want 0", p, len(set))
		}
		for perm := range Catalog {
			if resolver.HasPermission(p, nil, perm) {
				t.Fatalf("principal %+v granted %s", p, perm)
			}
		}
	}
}

func TestOverrideGrantAndRevoke(t *testing.T) {
	resolver := newTestResolver(t)
	emp := Principal{UserID: "u-emp-1", Role: RoleEmployee}

	if resolver.HasPermission(emp, nil, PermAuditLogView) {
		t.Fatal("employee should not see the audit log by default")
	}

	grant := []Override{{UserID: "u-emp-1", Permission: PermAuditLogView, Grant: true}}
	if !resolver.HasPermission(emp, grant, PermAuditLogView) {
		t.Fatal("grant override not applied")
	}

	other := Principal{UserID: "u-emp-2", Role: RoleEmployee}
	if resolver.HasPermission(other, grant, PermAuditLogView) {
		t.Fatal("override leaked to another user")
	}

	revoke := []Override{{UserID: "u-emp-1", Permission: PermLeaveRequest, Grant: false}}
	if resolver.HasPermission(emp, revoke, PermLeaveRequest) {
		t.Fatal("revoke override not applied")
	}
	if !resolver.HasPermission(other, revoke, PermLeaveRequest) {
		t.Fatal("revoke affected a different user's defaults")
	}
}

func TestOverrideIdempotence(t *testing.T) {
	resolver := newTestResolver(t)
	emp := Principal{UserID: "u-emp-1", Role: RoleEmployee}
	ov := Override{UserID: "u-emp-1", Permission: PermAuditLogView, Grant: true}

	once := resolver.EffectivePermissions(emp, []Override{ov})
	twice := resolver.EffectivePermissions(emp, []Override{ov, ov})

	if len(once) != len(twice) {
		t.Fatalf("applying the same override twice changed the set: %d vs %d", len(once), len(twice))
	}
	for perm := range once {
		if !twice.Has(perm) {
			t.Fatalf("sets diverge on %s", perm)
		}
	}
}

func TestLastWrittenOverrideWins(t *testing.T) {
	resolver := newTestResolver(t)
	emp := Principal{UserID: "u-emp-1", Role: RoleEmployee}
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	overrides := []Override{
		{UserID: "u-emp-1", Permission: PermAuditLogView, Grant: false, UpdatedAt: base.Add(time.Hour)},
		{UserID: "u-emp-1", Permission: PermAuditLogView, Grant: true, UpdatedAt: base},
	}
	if resolver.HasPermission(emp, overrides, PermAuditLogView) {
		t.Fatal("older grant beat newer revoke")
	}

	overrides[0].UpdatedAt, overrides[1].UpdatedAt = overrides[1].UpdatedAt, overrides[0].UpdatedAt
	if !resolver.HasPermission(emp, overrides, PermAuditLogView) {
		t.Fatal("newer grant lost to older revoke")
	}
}

func TestUnknownOverridePermissionIgnored(t *testing.T) {
	resolver := newTestResolver(t)
	emp := Principal{UserID: "u-emp-1", Role: RoleEmployee}
	overrides := []Override{{UserID: "u-emp-1", Permission: "no:such:permission", Grant: true}}

	set := resolver.EffectivePermissions(emp, overrides)
	if set.Has("no:such:permission") {
		t.Fatal("override outside the catalog was granted")
	}
}

func TestHasPermissionOrSemantics(t *testing.T) {
	resolver := newTestResolver(t)
	emp := Principal{UserID: "u-emp-1", Role: RoleEmployee}

	if !resolver.HasPermission(emp, nil, PermAttendanceViewAll, PermAttendanceViewOwn) {
		t.Fatal("any-of check should pass on view:own")
	}
	if resolver.HasPermission(emp, nil, PermAttendanceViewAll, PermAttendanceViewTeam) {
		t.Fatal("any-of check passed without a matching grant")
	}
	if resolver.HasPermission(emp, nil) {
		t.Fatal("empty permission list should never pass")
	}
}

func TestEffectivePermissionsReturnsFreshSet(t *testing.T) {
	resolver := newTestResolver(t)
	emp := Principal{UserID: "u-emp-1", Role: RoleEmployee}

	first := resolver.EffectivePermissions(emp, nil)
	delete(first, PermDashboardView)

	second := resolver.EffectivePermissions(emp, nil)
	if !second.Has(PermDashboardView) {
		t.Fatal("mutating a returned set leaked into later resolutions")
	}
}

func TestNewResolverRejectsMalformedTables(t *testing.T) {
	if _, err := NewResolver(map[Permission]string{}, nil); err == nil {
		t.Fatal("empty catalog accepted")
	}

	catalog := map[Permission]string{PermDashboardView: "View the dashboard"}
	bad := map[Role][]Permission{RoleEmployee: {PermAuditLogView}}
	if _, err := NewResolver(catalog, bad); err == nil {
		t.Fatal("role table referencing an unknown permission accepted")
	}

	unknownRole := map[Role][]Permission{"Superuser": {PermDashboardView}}
	_, err := NewResolver(catalog, unknownRole)
	if err == nil {
		t.Fatal("unknown role accepted")
	}
	if _, ok := err.(*ConfigurationError); !ok {
		t.Fatalf("want *ConfigurationError, got %T", err)
	}
}
