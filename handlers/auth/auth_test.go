package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndParse(t *testing.T) {
	Init("test-secret")
	t.Cleanup(func() { Init("") })

	token, err := IssueJWT("artist-1", "Nuri", time.Hour)
	if err != nil {
		t.Fatalf("IssueJWT() failed: %v", err)
	}

	claims, err := ParseJWT(token)
	if err != nil {
		t.Fatalf("ParseJWT() failed: %v", err)
	}
	if claims.Subject != "artist-1" || claims.Name != "Nuri" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestParseJWT_WrongSecret(t *testing.T) {
	Init("first-secret")
	token, _ := IssueJWT("artist-1", "", time.Hour)

	Init("second-secret")
	t.Cleanup(func() { Init("") })

	if _, err := ParseJWT(token); err == nil {
		t.Error("expected error for token signed with another secret")
	}
}

func TestParseJWT_Expired(t *testing.T) {
	Init("test-secret")
	t.Cleanup(func() { Init("") })

	token, _ := IssueJWT("artist-1", "", -time.Minute)
	if _, err := ParseJWT(token); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseJWT_RejectsNoneAlgorithm(t *testing.T) {
	Init("test-secret")
	t.Cleanup(func() { Init("") })

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, AppClaims{})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build unsigned token: %v", err)
	}
	if _, err := ParseJWT(token); err == nil {
		t.Error("expected unsigned token to be rejected")
	}
}

func TestDisabled(t *testing.T) {
	Init("")
	if Enabled() {
		t.Fatal("Enabled() should be false without a secret")
	}
	if _, err := IssueJWT("x", "", time.Hour); !errors.Is(err, ErrAuthDisabled) {
		t.Errorf("expected ErrAuthDisabled, got %v", err)
	}
	if _, err := ParseJWT("anything"); !errors.Is(err, ErrAuthDisabled) {
		t.Errorf("expected ErrAuthDisabled, got %v", err)
	}
}
