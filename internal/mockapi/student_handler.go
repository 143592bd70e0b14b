package mockapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hostelhub/hostel/pkg/domain"
)

// GetProfile godoc
// GET /students/:id/profile
func (h *handlers) GetProfile(c *gin.Context) {
	id := c.Param("id")
	if !ownerOrWarden(c, id) {
		return
	}
	p, err := h.store.profile(id)
	if err != nil {
		h.storeFail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdateProfile godoc
// PUT /students/:id/profile
// Only the student may edit their own profile.
func (h *handlers) UpdateProfile(c *gin.Context) {
	id := c.Param("id")
	if GetClaims(c).UserID != id {
		fail(c, http.StatusForbidden, ErrForbidden)
		return
	}
	var req domain.ProfileUpdate
	if !bind(c, &req) {
		return
	}
	p, err := h.store.updateProfile(id, req)
	if err != nil {
		h.storeFail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
