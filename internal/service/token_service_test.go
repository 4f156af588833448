package service

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, err := svc.GenerateToken(42, "attendant")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.AttendantID != 42 {
		t.Errorf("attendant id = %d, want 42", claims.AttendantID)
	}
	if claims.Role != "attendant" {
		t.Errorf("role = %q, want attendant", claims.Role)
	}
}

func TestTokenRequiresAttendantID(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	if _, err := svc.GenerateToken(0, "attendant"); err == nil {
		t.Fatal("expected error for zero attendant id")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", time.Hour)
	verifier := NewTokenService("secret-b", time.Hour)

	token, err := issuer.GenerateToken(1, "attendant")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := verifier.ValidateToken(token); err == nil {
		t.Fatal("expected validation failure for mismatched secret")
	}
}

func TestTokenExpired(t *testing.T) {
	svc := NewTokenService("test-secret", time.Nanosecond)

	token, err := svc.GenerateToken(1, "attendant")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if _, err := svc.ValidateToken(token); err == nil {
		t.Fatal("expected validation failure for expired token")
	}
}

func TestTokenGarbageInput(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	if _, err := svc.ValidateToken("not-a-jwt"); err == nil {
		t.Fatal("expected validation failure for malformed token")
	}
}
