package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTRoundTrip(t *testing.T) {
	InitJWT("test-secret")

	id := NewPlayerID()
	token, err := GenerateJWT(id)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	got, err := ParseJWT(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != id {
		t.Fatalf("expected %s, got %s", id, got)
	}
}

func TestParseJWTRejects(t *testing.T) {
	InitJWT("test-secret")
	id := NewPlayerID()

	sign := func(claims jwt.Claims, secret string) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}
	past := time.Now().Add(-time.Hour)

	cases := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", sign(jwt.RegisteredClaims{Subject: id}, "other")},
		{"expired", sign(jwt.RegisteredClaims{Subject: id, ExpiresAt: jwt.NewNumericDate(past)}, "test-secret")},
		{"not yet valid", sign(jwt.RegisteredClaims{Subject: id, NotBefore: jwt.NewNumericDate(time.Now().Add(time.Hour))}, "test-secret")},
		{"not a player id", sign(jwt.RegisteredClaims{Subject: "42"}, "test-secret")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseJWT(tc.token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
