package jwt

import (
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

var secret = []byte("0123456789abcdef0123456789abcdef")

func TestGenerateAndValidate(t *testing.T) {
	raw, err := GenerateJWT(JWTParams{UserID: "7"}, secret, DefaultKID)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	parsed, err := ValidateJWT(raw, DefaultKID, secret)
	if err != nil {
		t.Fatalf("ValidateJWT() error = %v", err)
	}
	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		t.Fatalf("GetSubject() error = %v", err)
	}
	if sub != "7" {
		t.Errorf("sub = %q, want %q", sub, "7")
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	raw, err := GenerateJWT(JWTParams{UserID: "7"}, secret, DefaultKID)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	if _, err := ValidateJWT(raw, DefaultKID, []byte("another-secret-another-secret-xx")); err == nil {
		t.Error("expected validation to fail with the wrong secret")
	}
}

func TestValidate_WrongVersion(t *testing.T) {
	raw, err := GenerateJWT(JWTParams{UserID: "7"}, secret, "1")
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	if _, err := ValidateJWT(raw, "2", secret); err == nil {
		t.Error("expected validation to fail on a kid mismatch")
	}
}

func TestValidate_Expired(t *testing.T) {
	claims := jwt.MapClaims{
		"sub": "7",
		"iat": 1000000000,
		"exp": 1000000001,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = DefaultKID
	raw, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}

	if _, err := ValidateJWT(raw, DefaultKID, secret); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}
