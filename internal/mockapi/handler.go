package mockapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hostelhub/hostel/internal/validate"
	"github.com/hostelhub/hostel/pkg/domain"
)

// handlers serves every route; routes are split across *_handler.go files.
type handlers struct {
	store *Store
	auth  *Authenticator
	log   zerolog.Logger
}

// bind decodes the JSON body into dst and validates it.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		failWithFields(c, http.StatusBadRequest, ErrInvalidPayload, validate.TranslateErrors(err))
		return false
	}
	if fields := validate.Struct(dst); fields != nil {
		failWithFields(c, http.StatusBadRequest, ErrValidation, fields)
		return false
	}
	return true
}

func intParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, ErrInvalidID)
		return 0, false
	}
	return id, true
}

// storeFail maps a Store error onto a response.
func (h *handlers) storeFail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errNotFound):
		fail(c, http.StatusNotFound, ErrNotFound)
	case errors.Is(err, errConflict):
		fail(c, http.StatusConflict, ErrConflict)
	case errors.Is(err, errOccupied):
		fail(c, http.StatusConflict, ErrRoomOccupied)
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("store error")
		fail(c, http.StatusInternalServerError, ErrInternal)
	}
}

// ownerOrWarden lets a student reach only their own records.
func ownerOrWarden(c *gin.Context, studentID string) bool {
	claims := GetClaims(c)
	if claims == nil {
		fail(c, http.StatusUnauthorized, ErrTokenRequired)
		return false
	}
	if claims.Role() == domain.RoleWarden || claims.UserID == studentID {
		return true
	}
	fail(c, http.StatusForbidden, ErrForbidden)
	return false
}
