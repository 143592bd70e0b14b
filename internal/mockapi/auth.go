package mockapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hostelhub/hostel/pkg/domain"
)

var (
	ErrBadCredentials = errors.New("invalid credentials")
	ErrSessionRevoked = errors.New("session revoked")
)

// Claims is the token payload the portal decodes: userId and userType plus
// the registered jti/iat/exp.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"userId"`
	UserType string `json:"userType"`
}

// Role maps the userType claim onto a domain role.
func (c *Claims) Role() domain.Role {
	r, _ := domain.ParseRole(c.UserType)
	return r
}

// Authenticator issues and validates session tokens and keeps the jti registry
// that makes logout and revocation stick.
type Authenticator struct {
	secret   []byte
	expiry   time.Duration
	cost     int
	registry Registry
	now      func() time.Time
}

// NewAuthenticator creates an Authenticator signing HS256 with secret.
func NewAuthenticator(secret string, expiry time.Duration, bcryptCost int, registry Registry) *Authenticator {
	return &Authenticator{
		secret:   []byte(secret),
		expiry:   expiry,
		cost:     bcryptCost,
		registry: registry,
		now:      time.Now,
	}
}

// Expiry is the lifetime of issued tokens.
func (a *Authenticator) Expiry() time.Duration { return a.expiry }

// HashPassword hashes a password with the configured bcrypt cost.
func (a *Authenticator) HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), a.cost)
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (a *Authenticator) CheckPassword(hash []byte, password string) error {
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return ErrBadCredentials
	}
	return nil
}

// Issue signs a token for the user and registers its jti.
func (a *Authenticator) Issue(ctx context.Context, userID string, role domain.Role) (string, *Claims, error) {
	now := a.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.expiry)),
		},
		UserID:   userID,
		UserType: role.UserType(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	if err := a.registry.Register(ctx, claims.ID, userID, a.expiry); err != nil {
		return "", nil, fmt.Errorf("register session: %w", err)
	}
	return signed, claims, nil
}

// Validate checks signature, expiry and that the jti is still registered.
func (a *Authenticator) Validate(ctx context.Context, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	active, err := a.registry.Active(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check session: %w", err)
	}
	if !active {
		return nil, ErrSessionRevoked
	}
	return claims, nil
}

// Revoke ends the session behind claims.
func (a *Authenticator) Revoke(ctx context.Context, claims *Claims) error {
	return a.registry.Revoke(ctx, claims.ID)
}
