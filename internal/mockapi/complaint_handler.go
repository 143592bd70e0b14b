package mockapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hostelhub/hostel/pkg/domain"
)

// ListComplaints godoc
// GET /complaints/all
func (h *handlers) ListComplaints(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.listComplaints(""))
}

// ListStudentComplaints godoc
// GET /complaints/:studentId
func (h *handlers) ListStudentComplaints(c *gin.Context) {
	id := c.Param("studentId")
	if !ownerOrWarden(c, id) {
		return
	}
	c.JSON(http.StatusOK, h.store.listComplaints(id))
}

// AddComplaint godoc
// POST /complaints/add
func (h *handlers) AddComplaint(c *gin.Context) {
	var req domain.AddComplaintRequest
	if !bind(c, &req) {
		return
	}
	req.StudentID = GetClaims(c).UserID
	c.JSON(http.StatusCreated, h.store.addComplaint(req))
}

// DeleteComplaint godoc
// DELETE /complaints/:id
// Students may only withdraw their own complaints.
func (h *handlers) DeleteComplaint(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.deleteComplaint(id, GetClaims(c).UserID); err != nil {
		h.storeFail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "complaint deleted"})
}

// UpdateComplaintStatus godoc
// PUT /complaints/:id?status=Resolved
func (h *handlers) UpdateComplaintStatus(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	status := domain.ComplaintStatus(c.Query("status"))
	switch status {
	case domain.ComplaintPending, domain.ComplaintProcessing, domain.ComplaintResolved:
	default:
		failWithFields(c, http.StatusBadRequest, ErrValidation, map[string]string{"status": "status must be one of [Pending Processing Resolved]"})
		return
	}
	if err := h.store.setComplaintStatus(id, status); err != nil {
		h.storeFail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "complaint updated", "status": status})
}
