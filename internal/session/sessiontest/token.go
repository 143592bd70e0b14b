// Package sessiontest mints backend-shaped token cookies for tests.
package sessiontest

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hostelhub/hostel/pkg/domain"
)

// Secret signs test tokens. The client never verifies it.
const Secret = "sessiontest-secret"

// Token returns a signed token for role and subject that expires after ttl.
// A negative ttl yields an already expired token.
func Token(t testing.TB, role domain.Role, subject string, ttl time.Duration) string {
	t.Helper()
	return TokenWithType(t, role.UserType(), subject, ttl)
}

// TokenWithType is Token with a raw userType claim, for malformed-role cases.
func TokenWithType(t testing.TB, userType, subject string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"jti":      uuid.NewString(),
		"userId":   subject,
		"userType": userType,
		"iat":      now.Add(-time.Minute).Unix(),
		"exp":      now.Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(Secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}
