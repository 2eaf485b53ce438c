package access

import "testing"

func TestRolePermissionsWithinCatalog(t *testing.T) {
	for role, perms := range RolePermissions {
		if len(perms) == 0 {
			t.Fatalf("role %s has no permissions", role)
		}
		for _, perm := range perms {
			if _, ok := Catalog[perm]; !ok {
				t.Fatalf("role %s grants unknown permission %s", role, perm)
			}
		}
	}
}

func TestEveryRoleHasDefaults(t *testing.T) {
	for _, role := range Roles() {
		if _, ok := RolePermissions[role]; !ok {
			t.Fatalf("role %s missing from the default table", role)
		}
	}
}

func TestCatalogKeysUniqueAndSorted(t *testing.T) {
	keys := CatalogKeys()
	if len(keys) != len(Catalog) {
		t.Fatalf("got %d keys, catalog has %d", len(keys), len(Catalog))
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			t.Fatalf("keys not strictly sorted at %d: %s >= %s", i, keys[i-1], keys[i])
		}
	}
}

func TestSubAdminExclusions(t *testing.T) {
	set := PermissionSet{}
	for _, perm := range RolePermissions[RoleSubAdmin] {
		set[perm] = struct{}{}
	}
	if set.Has(PermSettingsEdit) {
		t.Fatal("sub-admin must not hold settings:edit")
	}
	if set.Has(PermOverridesEdit) {
		t.Fatal("sub-admin must not hold users:overrides:edit")
	}
	if len(set) != len(Catalog)-2 {
		t.Fatalf("sub-admin holds %d permissions, want %d", len(set), len(Catalog)-2)
	}
}
