package auth

import (
	"testing"
	"time"

	"crewhub/internal/domain/access"
)

func TestTokenRoundTrip(t *testing.T) {
	claims := Claims{
		UserID:      "u1",
		Role:        access.RoleTeamLead,
		DisplayName: "Dana",
		TeamID:      "t1",
		SessionID:   "s1",
	}
	token, err := GenerateToken("secret", claims, time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	parsed, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.UserID != "u1" || parsed.Role != access.RoleTeamLead || parsed.SessionID != "s1" {
		t.Errorf("claims round trip lost data: %+v", parsed)
	}

	p := parsed.Principal()
	if p.UserID != "u1" || p.Role != access.RoleTeamLead || p.TeamID != "t1" {
		t.Errorf("principal mapping wrong: %+v", p)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: "u1", Role: access.RoleEmployee}, time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseToken("other", token); err == nil {
		t.Fatal("want error for wrong secret")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: "u1", Role: access.RoleEmployee}, -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseToken("secret", token); err == nil {
		t.Fatal("want error for expired token")
	}
}

func TestHashToken(t *testing.T) {
	a := HashToken("abc")
	b := HashToken("abc")
	if a != b {
		t.Error("hashing is not deterministic")
	}
	if a == "abc" {
		t.Error("token stored in the clear")
	}
	if len(a) != 64 {
		t.Errorf("digest length = %d, want 64", len(a))
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := CheckPassword(hash, "hunter22"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := CheckPassword(hash, "hunter23"); err == nil {
		t.Error("wrong password accepted")
	}
}
