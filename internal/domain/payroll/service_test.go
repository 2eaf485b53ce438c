package payroll

import (
	"context"
	"errors"
	"testing"

	"crewhub/internal/domain/access"
)

func TestMonthValidation(t *testing.T) {
	svc := &Service{}

	cases := []struct {
		month string
		valid bool
	}{
		{"2026-01", true},
		{"2026-12", true},
		{"2026-00", false},
		{"2026-13", false},
		{"2026-1", false},
		{"202601", false},
		{"", false},
	}
	for _, tc := range cases {
		got := monthPattern.MatchString(tc.month)
		if got != tc.valid {
			t.Errorf("month %q: valid = %v, want %v", tc.month, got, tc.valid)
		}
	}

	if _, err := svc.ListMonth(context.Background(), access.Principal{UserID: "u1", Role: access.RoleAdmin}, "bad"); !errors.Is(err, ErrInvalidMonth) {
		t.Errorf("ListMonth with bad month: err = %v, want ErrInvalidMonth", err)
	}
}

func TestUpsertRejectsBadAmounts(t *testing.T) {
	svc := &Service{}
	p := access.Principal{UserID: "u1", Role: access.RoleAdmin}

	cases := []struct {
		name       string
		gross      int64
		deductions int64
	}{
		{"negative gross", -1, 0},
		{"negative deductions", 100, -1},
		{"deductions exceed gross", 100, 101},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Upsert(context.Background(), p, "u2", "2026-04", tc.gross, tc.deductions, "")
			if !errors.Is(err, ErrBadAmounts) {
				t.Errorf("err = %v, want ErrBadAmounts", err)
			}
		})
	}
}

func TestVisibleAppliesStricterSubAdminRule(t *testing.T) {
	svc := &Service{}

	adminRow := Row{UserID: "u-admin", OwnerRole: access.RoleAdmin}
	subRow := Row{UserID: "u-sub", OwnerRole: access.RoleSubAdmin}
	empRow := Row{UserID: "u-emp", OwnerRole: access.RoleEmployee}

	cases := []struct {
		name string
		p    access.Principal
		row  Row
		want bool
	}{
		{"admin sees admin row", access.Principal{UserID: "u-admin", Role: access.RoleAdmin}, adminRow, true},
		{"admin sees employee row", access.Principal{UserID: "u-admin", Role: access.RoleAdmin}, empRow, true},
		{"sub-admin blocked from admin row", access.Principal{UserID: "u-sub", Role: access.RoleSubAdmin}, adminRow, false},
		{"sub-admin sees own row", access.Principal{UserID: "u-sub", Role: access.RoleSubAdmin}, subRow, true},
		{"sub-admin sees employee row", access.Principal{UserID: "u-sub", Role: access.RoleSubAdmin}, empRow, true},
		{"hr blocked from sub-admin row", access.Principal{UserID: "u-hr", Role: access.RoleHR}, subRow, false},
		{"hr sees employee row", access.Principal{UserID: "u-hr", Role: access.RoleHR}, empRow, true},
		{"employee sees only own row", access.Principal{UserID: "u-emp", Role: access.RoleEmployee}, empRow, true},
		{"employee blocked from other rows", access.Principal{UserID: "u-other", Role: access.RoleEmployee}, empRow, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := svc.visible(tc.p, tc.row, nil); got != tc.want {
				t.Errorf("visible = %v, want %v", got, tc.want)
			}
		})
	}
}

type fakeAccessStore struct {
	roles map[string]access.Role
}

func (f fakeAccessStore) OverridesForUser(ctx context.Context, userID string) ([]access.Override, error) {
	return nil, nil
}

func (f fakeAccessStore) LeadScope(ctx context.Context, userID string) ([]access.TeamMembership, error) {
	return nil, nil
}

func (f fakeAccessStore) RoleOf(ctx context.Context, userID string) (access.Role, error) {
	role, ok := f.roles[userID]
	if !ok {
		return "", errors.New("user not found")
	}
	return role, nil
}

func TestUpsertGatesOnTargetOwner(t *testing.T) {
	svc := &Service{Access: &access.Service{Store: fakeAccessStore{
		roles: map[string]access.Role{
			"u-admin": access.RoleAdmin,
			"u-sub":   access.RoleSubAdmin,
			"u-emp":   access.RoleEmployee,
		},
	}}}

	// The gate must hold even when the target user has no row yet.
	cases := []struct {
		name   string
		p      access.Principal
		userID string
	}{
		{"hr cannot create a row for an admin", access.Principal{UserID: "u-hr", Role: access.RoleHR}, "u-admin"},
		{"hr cannot create a row for a sub-admin", access.Principal{UserID: "u-hr", Role: access.RoleHR}, "u-sub"},
		{"sub-admin cannot create a row for an admin", access.Principal{UserID: "u-sub", Role: access.RoleSubAdmin}, "u-admin"},
		{"employee cannot create a row for another user", access.Principal{UserID: "u-other", Role: access.RoleEmployee}, "u-emp"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Upsert(context.Background(), tc.p, tc.userID, "2026-04", 500000, 0, "")
			if !errors.Is(err, ErrForbidden) {
				t.Errorf("err = %v, want ErrForbidden", err)
			}
		})
	}
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	// Status validation runs before any store access.
	svc := &Service{}
	p := access.Principal{UserID: "u1", Role: access.RoleAdmin}
	if _, err := svc.SetStatus(context.Background(), p, "row-1", "pending"); err == nil {
		t.Fatal("want error for unknown status")
	}
}
