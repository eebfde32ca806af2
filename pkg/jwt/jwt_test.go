package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("secret", "memory-care", time.Minute)
	userID := uuid.New()

	token, err := m.GenerateAccessToken(userID, "user@example.com", "authenticated")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	got, _ := claims.UserID()
	if got != userID {
		t.Fatalf("user id = %s, want %s", got, userID)
	}
	if claims.Email != "user@example.com" || claims.Role != "authenticated" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestManager_RejectsWrongSecret(t *testing.T) {
	token, _ := NewManager("one", "", time.Minute).GenerateAccessToken(uuid.New(), "", "")
	if _, err := NewManager("two", "", time.Minute).ValidateAccessToken(token); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestManager_RejectsWrongIssuer(t *testing.T) {
	token, _ := NewManager("secret", "other", time.Minute).GenerateAccessToken(uuid.New(), "", "")
	if _, err := NewManager("secret", "memory-care", time.Minute).ValidateAccessToken(token); err == nil {
		t.Fatal("expected issuer error")
	}
}

func TestManager_Expired(t *testing.T) {
	m := NewManager("secret", "", -time.Minute)
	token, _ := m.GenerateAccessToken(uuid.New(), "", "")
	if _, err := m.ValidateAccessToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}
