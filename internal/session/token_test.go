package session

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	id, token, err := m.NewSession()
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if id == "" || token == "" {
		t.Fatal("expected session id and token")
	}

	got, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if got != id {
		t.Errorf("session id = %s, want %s", got, id)
	}
}

func TestValidateRejects(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	_, good, err := m.NewSession()
	if err != nil {
		t.Fatal(err)
	}

	other, err := NewTokenManager("other-secret", time.Hour).Generate("0b0e8f6c-3f54-4f2b-9f59-3c2a4f4c8f11")
	if err != nil {
		t.Fatal(err)
	}
	expired, err := NewTokenManager("test-secret", -time.Minute).Generate("0b0e8f6c-3f54-4f2b-9f59-3c2a4f4c8f11")
	if err != nil {
		t.Fatal(err)
	}
	notUUID, err := m.Generate("cart-1")
	if err != nil {
		t.Fatal(err)
	}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{SessionID: "x"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"wrong secret", other},
		{"expired", expired},
		{"non-uuid session", notUUID},
		{"unsigned", none},
		{"tampered", tamper(good)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Validate(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

// tamper flips one fully significant character of the signature.
func tamper(token string) string {
	b := []byte(token)
	i := len(b) - 10
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}
