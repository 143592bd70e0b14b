package mockapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hostelhub/hostel/pkg/client"
	"github.com/hostelhub/hostel/pkg/domain"
)

// Login godoc
// POST /auth/login
// Sets the token cookie and echoes the identity.
func (h *handlers) Login(c *gin.Context) {
	var req client.LoginRequest
	if !bind(c, &req) {
		return
	}

	u, ok := h.store.userByEmail(req.Email)
	if !ok {
		fail(c, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}
	if err := h.auth.CheckPassword(u.hash, req.Password); err != nil {
		fail(c, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}

	token, claims, err := h.auth.Issue(c.Request.Context(), u.ID, u.Role)
	if err != nil {
		h.log.Error().Err(err).Msg("issue token")
		fail(c, http.StatusInternalServerError, ErrInternal)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(h.auth.Expiry().Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"message":  "login successful",
		"userId":   claims.UserID,
		"userType": claims.UserType,
	})
}

// Register godoc
// POST /auth/register
func (h *handlers) Register(c *gin.Context) {
	var req client.RegisterRequest
	if !bind(c, &req) {
		return
	}
	role, err := domain.ParseRole(req.UserType)
	if err != nil {
		failWithFields(c, http.StatusBadRequest, ErrValidation, map[string]string{"userType": err.Error()})
		return
	}
	hash, err := h.auth.HashPassword(req.Password)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrInternal)
		return
	}
	p, err := h.store.addUser(domain.Profile{Name: req.Name, Email: req.Email, Role: role}, hash)
	if err != nil {
		h.storeFail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "registered", "userId": p.ID, "userType": role.UserType()})
}

// Logout godoc
// POST /auth/logout
// Revokes the session if the token is still good and always clears the cookie.
func (h *handlers) Logout(c *gin.Context) {
	if tokenStr := tokenFromRequest(c); tokenStr != "" {
		if claims, err := h.auth.Validate(c.Request.Context(), tokenStr); err == nil {
			if err := h.auth.Revoke(c.Request.Context(), claims); err != nil {
				h.log.Error().Err(err).Msg("revoke session")
				fail(c, http.StatusInternalServerError, ErrInternal)
				return
			}
		}
	}
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Check godoc
// GET /auth/check
func (h *handlers) Check(c *gin.Context) {
	claims := GetClaims(c)
	c.JSON(http.StatusOK, gin.H{
		"message":  "valid session",
		"userId":   claims.UserID,
		"userType": claims.UserType,
	})
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPassword godoc
// POST /auth/forgot-password
// Answers the same way whether or not the account exists.
func (h *handlers) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if !bind(c, &req) {
		return
	}
	token := uuid.NewString()
	if h.store.setResetToken(req.Email, token) {
		// No mailer here; the log is the inbox.
		h.log.Info().Str("email", req.Email).Str("reset_token", token).Msg("password reset requested")
	}
	c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset link has been sent."})
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// ResetPassword godoc
// POST /auth/reset-password
func (h *handlers) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if !bind(c, &req) {
		return
	}
	hash, err := h.auth.HashPassword(req.NewPassword)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrInternal)
		return
	}
	if err := h.store.resetPassword(req.Token, hash); err != nil {
		if errors.Is(err, errNotFound) {
			fail(c, http.StatusBadRequest, ErrResetTokenInvalid)
			return
		}
		h.storeFail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
