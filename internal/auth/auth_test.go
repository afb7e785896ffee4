package auth

import (
	"testing"
	"time"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPassword("correct-horse", hash) {
		t.Errorf("correct password rejected")
	}
	if CheckPassword("wrong-horse", hash) {
		t.Errorf("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	token, err := svc.GenerateToken(7, "scorer", true, false)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "scorer" || !claims.IsAdmin {
		t.Errorf("claims = %+v", claims)
	}
	if claims.PasswordChangeRequired {
		t.Errorf("password change flag should be false")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	svc := NewService("secret-a", time.Hour)
	other := NewService("secret-b", time.Hour)

	token, err := svc.GenerateToken(1, "scorer", false, false)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := other.ValidateToken(token); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenExpiry(t *testing.T) {
	svc := NewService("test-secret", -time.Minute)

	token, err := svc.GenerateToken(1, "scorer", false, false)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := svc.ValidateToken(token); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for an expired token, got %v", err)
	}
}

func TestGarbageToken(t *testing.T) {
	svc := NewService("test-secret", time.Hour)
	if _, err := svc.ValidateToken("not-a-jwt"); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}
