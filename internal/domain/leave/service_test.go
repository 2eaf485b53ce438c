package leave

import (
	"context"
	"errors"
	"testing"
	"time"

	"crewhub/internal/domain/access"
)

func TestRequestValidation(t *testing.T) {
	svc := &Service{}
	p := access.Principal{UserID: "u1", Role: access.RoleEmployee}
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Request(context.Background(), p, "sabbatical", start, start, "")
	if !errors.Is(err, ErrUnknownType) {
		t.Errorf("unknown type: err = %v, want ErrUnknownType", err)
	}

	_, err = svc.Request(context.Background(), p, TypeAnnual, start, start.AddDate(0, 0, -1), "")
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("end before start: err = %v, want ErrInvalidRange", err)
	}
}

type fakeAccessStore struct {
	roles       map[string]access.Role
	memberships []access.TeamMembership
}

func (f fakeAccessStore) OverridesForUser(ctx context.Context, userID string) ([]access.Override, error) {
	return nil, nil
}

func (f fakeAccessStore) LeadScope(ctx context.Context, userID string) ([]access.TeamMembership, error) {
	return f.memberships, nil
}

func (f fakeAccessStore) RoleOf(ctx context.Context, userID string) (access.Role, error) {
	role, ok := f.roles[userID]
	if !ok {
		return "", errors.New("user not found")
	}
	return role, nil
}

func scopedService() *Service {
	store := fakeAccessStore{
		roles: map[string]access.Role{
			"u-admin": access.RoleAdmin,
			"u-sub":   access.RoleSubAdmin,
			"u-emp":   access.RoleEmployee,
			"u-other": access.RoleEmployee,
		},
		memberships: []access.TeamMembership{
			{TeamID: "t1", UserID: "u-tl", Role: access.MembershipLead},
			{TeamID: "t1", UserID: "u-member", Role: access.MembershipMember},
		},
	}
	return &Service{Access: &access.Service{Store: store}}
}

func TestBalancesScope(t *testing.T) {
	svc := scopedService()

	cases := []struct {
		name   string
		p      access.Principal
		userID string
	}{
		{"hr blocked from admin balances", access.Principal{UserID: "u-hr", Role: access.RoleHR}, "u-admin"},
		{"hr blocked from sub-admin balances", access.Principal{UserID: "u-hr", Role: access.RoleHR}, "u-sub"},
		{"team lead blocked outside led teams", access.Principal{UserID: "u-tl", Role: access.RoleTeamLead}, "u-emp"},
		{"employee blocked from others", access.Principal{UserID: "u-emp", Role: access.RoleEmployee}, "u-other"},
		{"bd blocked from others", access.Principal{UserID: "u-bd", Role: access.RoleBusinessDevelopment}, "u-emp"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Balances(context.Background(), tc.p, tc.userID, 2026)
			if !errors.Is(err, ErrForbidden) {
				t.Errorf("err = %v, want ErrForbidden", err)
			}
		})
	}
}

func TestSetAllocationScope(t *testing.T) {
	svc := scopedService()

	cases := []struct {
		name   string
		p      access.Principal
		userID string
	}{
		{"team lead blocked outside led teams", access.Principal{UserID: "u-tl", Role: access.RoleTeamLead}, "u-emp"},
		{"hr blocked from admin allocation", access.Principal{UserID: "u-hr", Role: access.RoleHR}, "u-admin"},
		{"sub-admin blocked from admin allocation", access.Principal{UserID: "u-sub", Role: access.RoleSubAdmin}, "u-admin"},
		{"employee blocked from others", access.Principal{UserID: "u-emp", Role: access.RoleEmployee}, "u-other"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.SetAllocation(context.Background(), tc.p, tc.userID, 2026, TypeAnnual, 25)
			if !errors.Is(err, ErrForbidden) {
				t.Errorf("err = %v, want ErrForbidden", err)
			}
		})
	}
}

func TestSetAllocationRejectsUnknownType(t *testing.T) {
	svc := &Service{}
	p := access.Principal{UserID: "u-hr", Role: access.RoleHR}
	if err := svc.SetAllocation(context.Background(), p, "u1", 2026, "sabbatical", 10); !errors.Is(err, ErrUnknownType) {
		t.Errorf("err = %v, want ErrUnknownType", err)
	}
}

func TestKnownType(t *testing.T) {
	for _, leaveType := range []string{TypeAnnual, TypeSick, TypeUnpaid} {
		if !KnownType(leaveType) {
			t.Errorf("KnownType(%q) = false", leaveType)
		}
	}
	if KnownType("gardening") {
		t.Error("KnownType accepted unknown type")
	}
}
