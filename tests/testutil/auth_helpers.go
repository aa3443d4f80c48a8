package testutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestJWTSecret is the HS256 secret used by test routers
const TestJWTSecret = "test-secret-do-not-use-in-production"

// SignToken mints an HS256 bearer token for subject, the same shape the HMAC verifier accepts
func SignToken(t *testing.T, subject, email string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": subject,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	if email != "" {
		claims["email"] = email
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(TestJWTSecret))
	if err != nil {
		t.Fatalf("Failed to sign test token: %v", err)
	}
	return signed
}

// BearerHeader formats a token for the Authorization header
func BearerHeader(token string) string {
	return "Bearer " + token
}
