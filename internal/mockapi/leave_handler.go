package mockapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hostelhub/hostel/pkg/domain"
)

// ListLeaves godoc
// GET /leaves/all
func (h *handlers) ListLeaves(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.listLeaves(""))
}

// ListStudentLeaves godoc
// GET /leaves/student/:id
func (h *handlers) ListStudentLeaves(c *gin.Context) {
	id := c.Param("id")
	if !ownerOrWarden(c, id) {
		return
	}
	c.JSON(http.StatusOK, h.store.listLeaves(id))
}

// ApplyLeave godoc
// POST /leaves/add
// The applicant is always the caller, whatever the body says.
func (h *handlers) ApplyLeave(c *gin.Context) {
	var req domain.ApplyLeaveRequest
	if !bind(c, &req) {
		return
	}
	if req.EndDate < req.StartDate {
		failWithFields(c, http.StatusBadRequest, ErrValidation, map[string]string{"endDate": "endDate must not be before startDate"})
		return
	}
	req.StudentID = GetClaims(c).UserID
	c.JSON(http.StatusCreated, h.store.addLeave(req))
}

type leaveStatusRequest struct {
	Status domain.LeaveStatus `json:"status" validate:"required,oneof=Pending Approved Rejected"`
}

// UpdateLeaveStatus godoc
// PUT /leaves/:id/status
func (h *handlers) UpdateLeaveStatus(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	var req leaveStatusRequest
	if !bind(c, &req) {
		return
	}
	if err := h.store.setLeaveStatus(id, req.Status); err != nil {
		h.storeFail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "leave updated", "status": req.Status})
}
