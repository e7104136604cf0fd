package auth

import (
	"testing"
	"time"

	"github.com/deskflow/helpdesk/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)
	user := &domain.User{ID: "u-1", Role: domain.RoleAdmin}

	token, expiresAt, err := tm.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatal("token expires in the past")
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != "u-1" {
		t.Errorf("subject = %q, want u-1", claims.Subject)
	}
	if claims.Role != domain.RoleAdmin {
		t.Errorf("role = %q, want admin", claims.Role)
	}
	if claims.ID == "" {
		t.Error("token id missing; logout revocation needs a per-token id")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", 30)
	verifier := NewTokenManager("secret-b", 30)

	token, _, err := issuer.GenerateToken(&domain.User{ID: "u-1", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := verifier.ParseToken(token); err == nil {
		t.Fatal("token signed with a different secret should not verify")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)
	if _, err := tm.ParseToken("not.a.token"); err == nil {
		t.Fatal("malformed token should not verify")
	}
}

func TestDistinctTokenIDs(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)
	user := &domain.User{ID: "u-1", Role: domain.RoleUser}

	t1, _, err := tm.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	t2, _, err := tm.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	c1, err := tm.ParseToken(t1)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	c2, err := tm.ParseToken(t2)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if c1.ID == c2.ID {
		t.Error("two tokens for the same user share a token id")
	}
}
