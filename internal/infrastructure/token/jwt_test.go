package token

import (
	"strings"
	"testing"
	"time"

	"github.com/topcornerhq/topcorner/internal/domain/user"
)

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	manager, err := NewJWTManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	principal := user.Principal{UserID: "u1", Username: "ada", IsAdmin: true}
	raw, err := manager.IssueToken(principal)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	verified, err := manager.VerifyToken(raw)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if verified != principal {
		t.Fatalf("verified = %+v, want %+v", verified, principal)
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	manager, err := NewJWTManager("test-secret", time.Minute)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	manager.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }

	raw, err := manager.IssueToken(user.Principal{UserID: "u1", Username: "ada"})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	manager.now = time.Now
	if _, err := manager.VerifyToken(raw); err == nil {
		t.Fatal("expired token must not verify")
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	issuerSide, _ := NewJWTManager("secret-one", time.Hour)
	verifierSide, _ := NewJWTManager("secret-two", time.Hour)

	raw, err := issuerSide.IssueToken(user.Principal{UserID: "u1", Username: "ada"})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	if _, err := verifierSide.VerifyToken(raw); err == nil {
		t.Fatal("token signed with another secret must not verify")
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	manager, _ := NewJWTManager("test-secret", time.Hour)

	for _, raw := range []string{"", "   ", "not.a.token", strings.Repeat("x", 64)} {
		if _, err := manager.VerifyToken(raw); err == nil {
			t.Fatalf("token %q must not verify", raw)
		}
	}
}

func TestNewJWTManagerRequiresSecret(t *testing.T) {
	if _, err := NewJWTManager("  ", time.Hour); err == nil {
		t.Fatal("empty secret must be rejected")
	}
}
