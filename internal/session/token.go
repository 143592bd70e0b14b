package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hostelhub/hostel/pkg/domain"
)

var (
	// ErrInvalidToken means the credential could not be decoded into a session.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrExpiredToken means the credential decoded but its exp claim has passed.
	ErrExpiredToken = errors.New("session token expired")
)

// Claims is the payload the backend signs into the token cookie.
type Claims struct {
	jwt.RegisteredClaims
	UserID   SubjectID `json:"userId"`
	UserType string    `json:"userType"`
}

// SubjectID accepts both numeric and string user ids.
type SubjectID string

func (id *SubjectID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = SubjectID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("userId: %w", err)
	}
	*id = SubjectID(n.String())
	return nil
}

// DecodeToken turns a token cookie into a typed Session. The signature is not
// checked here: the client never holds the signing key, and /auth/check is the
// authority on whether the server still honours the token.
func DecodeToken(raw string, now time.Time) (domain.Session, error) {
	if raw == "" {
		return domain.Session{}, fmt.Errorf("%w: empty", ErrInvalidToken)
	}

	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	role, err := domain.ParseRole(claims.UserType)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	subject := string(claims.UserID)
	if subject == "" {
		subject = claims.Subject
	}
	if subject == "" {
		return domain.Session{}, fmt.Errorf("%w: no subject", ErrInvalidToken)
	}

	sess := domain.Session{
		SubjectID: subject,
		Role:      role,
		Transport: domain.TransportToken,
	}
	if claims.IssuedAt != nil {
		sess.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	if sess.Expired(now) {
		return domain.Session{}, ErrExpiredToken
	}
	return sess, nil
}
