package mockapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hostelhub/hostel/pkg/domain"
)

// ListNotices godoc
// GET /notices/all
func (h *handlers) ListNotices(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.listNotices())
}

// GetNotice godoc
// GET /notices/:id
func (h *handlers) GetNotice(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	n, err := h.store.notice(id)
	if err != nil {
		h.storeFail(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

// CreateNotice godoc
// POST /notices/create
func (h *handlers) CreateNotice(c *gin.Context) {
	var req domain.NoticeRequest
	if !bind(c, &req) {
		return
	}
	c.JSON(http.StatusCreated, h.store.addNotice(req))
}

// UpdateNotice godoc
// PUT /notices/update/:id
func (h *handlers) UpdateNotice(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	var req domain.NoticeRequest
	if !bind(c, &req) {
		return
	}
	n, err := h.store.updateNotice(id, req)
	if err != nil {
		h.storeFail(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

// DeleteNotice godoc
// DELETE /notices/delete/:id
func (h *handlers) DeleteNotice(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.deleteNotice(id); err != nil {
		h.storeFail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notice deleted"})
}
