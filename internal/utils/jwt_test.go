package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewAccessToken(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken("secret", 42, "OWNER", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if time.Until(tok.Exp) <= 59*time.Minute {
		t.Fatalf("unexpected expiry %v", tok.Exp)
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(tok.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sub, _ := claims.GetSubject(); sub != "42" {
		t.Fatalf("expected sub 42, got %q", sub)
	}
	if claims["role"] != "OWNER" {
		t.Fatalf("expected role OWNER, got %v", claims["role"])
	}

	if _, err := jwt.Parse(tok.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("other"), nil
	}); err == nil {
		t.Fatalf("expected a wrong secret to fail")
	}
}
