package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelhub/hostel/internal/session/sessiontest"
	"github.com/hostelhub/hostel/pkg/domain"
)

func TestDecodeToken(t *testing.T) {
	tok := sessiontest.Token(t, domain.RoleWarden, "42", time.Hour)

	sess, err := DecodeToken(tok, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "42", sess.SubjectID)
	assert.Equal(t, domain.RoleWarden, sess.Role)
	assert.Equal(t, domain.TransportToken, sess.Transport)
	assert.False(t, sess.ExpiresAt.IsZero())
	assert.False(t, sess.IssuedAt.IsZero())
}

func TestDecodeTokenNumericUserID(t *testing.T) {
	claims := jwt.MapClaims{"userId": 7, "userType": "Student", "exp": time.Now().Add(time.Hour).Unix()}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	sess, err := DecodeToken(tok, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "7", sess.SubjectID)
	assert.Equal(t, domain.RoleStudent, sess.Role)
}

func TestDecodeTokenFallsBackToSubject(t *testing.T) {
	claims := jwt.MapClaims{"sub": "s-9", "userType": "Warden"}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	sess, err := DecodeToken(tok, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "s-9", sess.SubjectID)
	assert.True(t, sess.ExpiresAt.IsZero())
}

func TestDecodeTokenRejects(t *testing.T) {
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userType": "Student"}).SignedString([]byte("k"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"empty", "", ErrInvalidToken},
		{"garbage", "not-a-jwt", ErrInvalidToken},
		{"unknown role", sessiontest.TokenWithType(t, "Admin", "1", time.Hour), ErrInvalidToken},
		{"missing role", sessiontest.TokenWithType(t, "", "1", time.Hour), ErrInvalidToken},
		{"no subject", noSubject, ErrInvalidToken},
		{"expired", sessiontest.Token(t, domain.RoleStudent, "1", -time.Minute), ErrExpiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeToken(tt.token, time.Now())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
