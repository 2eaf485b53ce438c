package access

import "testing"

type testRecord struct {
	ID    string
	Owner Owner
}

func recordOwner(r testRecord) Owner { return r.Owner }

func sampleRecords() []testRecord {
	return []testRecord{
		{ID: "r1", Owner: Owner{UserID: "u-emp-1", Role: RoleEmployee}},
		{ID: "r2", Owner: Owner{UserID: "u-emp-2", Role: RoleEmployee}},
		{ID: "r3", Owner: Owner{UserID: "u-admin-1", Role: RoleAdmin}},
		{ID: "r4", Owner: Owner{UserID: "u-sub-1", Role: RoleSubAdmin}},
		{ID: "r5", Owner: Owner{UserID: "u-tl-1", Role: RoleTeamLead}},
	}
}

func sampleTeams() []TeamMembership {
	return []TeamMembership{
		{TeamID: "t1", UserID: "u-tl-1", Role: MembershipLead},
		{TeamID: "t1", UserID: "u-emp-1", Role: MembershipMember},
		{TeamID: "t2", UserID: "u-tl-2", Role: MembershipLead},
		{TeamID: "t2", UserID: "u-emp-2", Role: MembershipMember},
	}
}

func visibleIDs(p Principal, records []testRecord, teams []TeamMembership) []string {
	out := []string{}
	for _, r := range VisibleRecords(p, records, recordOwner, teams) {
		out = append(out, r.ID)
	}
	return out
}

func equalIDs(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestVisibilityByRole(t *testing.T) {
	records := sampleRecords()
	teams := sampleTeams()

	cases := []struct {
		name string
		p    Principal
		want []string
	}{
		{"admin sees all", Principal{UserID: "u-admin-1", Role: RoleAdmin}, []string{"r1", "r2", "r3", "r4", "r5"}},
		{"sub-admin sees all", Principal{UserID: "u-sub-1", Role: RoleSubAdmin}, []string{"r1", "r2", "r3", "r4", "r5"}},
		{"hr excludes admin and sub-admin owners", Principal{UserID: "u-hr-1", Role: RoleHR}, []string{"r1", "r2", "r5"}},
		{"team lead sees own and led members", Principal{UserID: "u-tl-1", Role: RoleTeamLead}, []string{"r1", "r5"}},
		{"employee sees own only", Principal{UserID: "u-emp-2", Role: RoleEmployee}, []string{"r2"}},
		{"business development sees own only", Principal{UserID: "u-emp-1", Role: RoleBusinessDevelopment}, []string{"r1"}},
		{"malformed principal sees nothing", Principal{Role: RoleAdmin}, []string{}},
	}

	for _, tc := range cases {
		got := visibleIDs(tc.p, records, teams)
		if !equalIDs(got, tc.want) {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestVisibleRecordsIsPureAndStable(t *testing.T) {
	records := sampleRecords()
	before := make([]testRecord, len(records))
	copy(before, records)

	got := VisibleRecords(Principal{UserID: "u-hr-1", Role: RoleHR}, records, recordOwner, nil)

	for i := range records {
		if records[i].ID != before[i].ID {
			t.Fatal("input slice was mutated")
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].ID >= got[i].ID {
			t.Fatal("filter reordered records")
		}
	}
}

func TestTeamLeadScopingAcrossTeams(t *testing.T) {
	// A lead of two teams sees the union of their members; an unrelated
	// member stays hidden.
	teams := []TeamMembership{
		{TeamID: "t1", UserID: "u-tl-1", Role: MembershipLead},
		{TeamID: "t1", UserID: "u-emp-1", Role: MembershipMember},
		{TeamID: "t2", UserID: "u-tl-1", Role: MembershipLead},
		{TeamID: "t2", UserID: "u-emp-2", Role: MembershipMember},
		{TeamID: "t3", UserID: "u-emp-3", Role: MembershipMember},
	}
	records := []testRecord{
		{ID: "r1", Owner: Owner{UserID: "u-emp-1", Role: RoleEmployee}},
		{ID: "r2", Owner: Owner{UserID: "u-emp-2", Role: RoleEmployee}},
		{ID: "r3", Owner: Owner{UserID: "u-emp-3", Role: RoleEmployee}},
		{ID: "r4", Owner: Owner{UserID: "u-tl-1", Role: RoleTeamLead}},
	}

	got := visibleIDs(Principal{UserID: "u-tl-1", Role: RoleTeamLead}, records, teams)
	if !equalIDs(got, []string{"r1", "r2", "r4"}) {
		t.Fatalf("got %v want [r1 r2 r4]", got)
	}

	// A lead who is merely a member elsewhere gains nothing from that team.
	if CanView(Principal{UserID: "u-emp-3", Role: RoleTeamLead}, Owner{UserID: "u-emp-1", Role: RoleEmployee}, teams) {
		t.Fatal("membership without lead role granted visibility")
	}
}

func TestHRExclusionScenario(t *testing.T) {
	records := []testRecord{
		{ID: "r1", Owner: Owner{UserID: "u-emp-1", Role: RoleEmployee}},
		{ID: "r2", Owner: Owner{UserID: "u-admin-1", Role: RoleAdmin}},
	}
	got := visibleIDs(Principal{UserID: "u-hr-1", Role: RoleHR}, records, nil)
	if !equalIDs(got, []string{"r1"}) {
		t.Fatalf("got %v want [r1]", got)
	}
}

func TestCanMutateSubAdminNarrowRule(t *testing.T) {
	sub := Principal{UserID: "u-sub-1", Role: RoleSubAdmin}

	if !CanMutate(sub, Owner{UserID: "u-emp-1", Role: RoleEmployee}, nil) {
		t.Fatal("sub-admin should mutate employee records")
	}
	if !CanMutate(sub, Owner{UserID: "u-tl-1", Role: RoleTeamLead}, nil) {
		t.Fatal("sub-admin should mutate team lead records")
	}
	if CanMutate(sub, Owner{UserID: "u-admin-1", Role: RoleAdmin}, nil) {
		t.Fatal("sub-admin mutated an admin record")
	}
	if CanMutate(sub, Owner{UserID: "u-sub-2", Role: RoleSubAdmin}, nil) {
		t.Fatal("sub-admin mutated another sub-admin's record")
	}
	if !CanMutate(sub, Owner{UserID: "u-sub-1", Role: RoleSubAdmin}, nil) {
		t.Fatal("sub-admin blocked from their own record")
	}
}

func TestCanMutateFollowsVisibility(t *testing.T) {
	teams := sampleTeams()

	if CanMutate(Principal{UserID: "u-emp-1", Role: RoleEmployee}, Owner{UserID: "u-emp-2", Role: RoleEmployee}, teams) {
		t.Fatal("employee mutated someone else's record")
	}
	if !CanMutate(Principal{UserID: "u-tl-1", Role: RoleTeamLead}, Owner{UserID: "u-emp-1", Role: RoleEmployee}, teams) {
		t.Fatal("team lead blocked from a led member's record")
	}
	if CanMutate(Principal{UserID: "u-tl-1", Role: RoleTeamLead}, Owner{UserID: "u-emp-2", Role: RoleEmployee}, teams) {
		t.Fatal("team lead mutated a record outside their teams")
	}
	if CanMutate(Principal{UserID: "u-hr-1", Role: RoleHR}, Owner{UserID: "u-admin-1", Role: RoleAdmin}, nil) {
		t.Fatal("hr mutated an admin record")
	}
}
