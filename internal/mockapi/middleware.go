package mockapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hostelhub/hostel/pkg/domain"
)

const (
	// CookieName carries the session token, as the portal expects.
	CookieName = "token"

	// ContextKeyClaims is the Gin context key for token claims.
	ContextKeyClaims = "claims"
)

// RequireAuth validates the session token from the token cookie or a bearer
// header. Missing, invalid and revoked tokens all answer 401.
func RequireAuth(auth *Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := tokenFromRequest(c)
		if tokenStr == "" {
			abortFail(c, http.StatusUnauthorized, ErrTokenRequired)
			return
		}

		claims, err := auth.Validate(c.Request.Context(), tokenStr)
		if err != nil {
			code := ErrTokenInvalid
			if errors.Is(err, ErrSessionRevoked) {
				code = ErrSessionInvalidated
			}
			abortFail(c, http.StatusUnauthorized, code)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// RequireRole must run after RequireAuth. A valid session with the wrong role
// is a 403, never a 401.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			abortFail(c, http.StatusUnauthorized, ErrTokenRequired)
			return
		}
		if claims.Role() != role {
			code := ErrWardenAccessOnly
			if role == domain.RoleStudent {
				code = ErrStudentAccessOnly
			}
			abortFail(c, http.StatusForbidden, code)
			return
		}
		c.Next()
	}
}

// GetClaims retrieves the token claims from the Gin context.
func GetClaims(c *gin.Context) *Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*Claims)
	if !ok {
		return nil
	}
	return claims
}

func tokenFromRequest(c *gin.Context) string {
	if ck, err := c.Cookie(CookieName); err == nil && ck != "" {
		return ck
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	return ""
}

// RequestLogger logs one line per request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		if status >= http.StatusInternalServerError {
			ev = log.Error()
		} else if status >= http.StatusBadRequest {
			ev = log.Warn()
		}
		reqID, _ := c.Get(ContextKeyRequestID)
		ev.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("took", time.Since(start)).
			Interface("request_id", reqID).
			Msg("request")
	}
}
