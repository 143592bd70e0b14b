package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hostelhub/hostel/pkg/domain"
)

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=80"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	UserType string `json:"userType" validate:"required,oneof=Student Warden"`
}

// LoginResult is what a successful login hands back to the session store.
type LoginResult struct {
	Token   string
	Role    domain.Role // from the response body; the token is authoritative when present
	UserID  string
	Message string
}

// CheckResult is the /auth/check answer for a live session.
type CheckResult struct {
	Role    domain.Role
	UserID  string
	Message string
}

type authPayload struct {
	Message  string `json:"message"`
	UserID   any    `json:"userId"`
	UserType string `json:"userType"`
	Token    string `json:"token"`
}

func (p authPayload) userID() string {
	switch v := p.UserID.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprint(v)
	}
}

// Login exchanges credentials for a session credential. The credential is read
// from the Set-Cookie token header, falling back to a token field in the body.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	var payload authPayload
	header, err := c.do(ctx, http.MethodPost, "/auth/login", req, &payload)
	if err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}

	res := &LoginResult{UserID: payload.userID(), Message: payload.Message}
	if role, err := domain.ParseRole(payload.UserType); err == nil {
		res.Role = role
	}
	res.Token = tokenFromHeader(header)
	if res.Token == "" {
		res.Token = payload.Token
	}
	if res.Token == "" {
		return nil, fmt.Errorf("client.Login: %w", ErrNoCredential)
	}
	return res, nil
}

// Check asks the server whether the current credential is still valid.
func (c *Client) Check(ctx context.Context) (*CheckResult, error) {
	var payload authPayload
	if err := c.get(ctx, "/auth/check", &payload); err != nil {
		return nil, fmt.Errorf("client.Check: %w", err)
	}
	role, err := domain.ParseRole(payload.UserType)
	if err != nil {
		return nil, fmt.Errorf("client.Check: %w", err)
	}
	return &CheckResult{Role: role, UserID: payload.userID(), Message: payload.Message}, nil
}

// Logout asks the server to drop the session.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.post(ctx, "/auth/logout", struct{}{}, nil); err != nil {
		return fmt.Errorf("client.Logout: %w", err)
	}
	return nil
}

// Register creates a new student or warden account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	if err := c.post(ctx, "/auth/register", req, nil); err != nil {
		return fmt.Errorf("client.Register: %w", err)
	}
	return nil
}

// ForgotPassword requests a password reset email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	if err := c.post(ctx, "/auth/forgot-password", map[string]string{"email": email}, nil); err != nil {
		return fmt.Errorf("client.ForgotPassword: %w", err)
	}
	return nil
}

// ResetPassword sets a new password using the token from a reset email.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	body := map[string]string{"token": token, "newPassword": newPassword}
	if err := c.post(ctx, "/auth/reset-password", body, nil); err != nil {
		return fmt.Errorf("client.ResetPassword: %w", err)
	}
	return nil
}

func tokenFromHeader(h http.Header) string {
	if h == nil {
		return ""
	}
	for _, ck := range (&http.Response{Header: h}).Cookies() {
		if ck.Name == CookieName && ck.Value != "" {
			return ck.Value
		}
	}
	return ""
}
