package domain

import "time"

// LeaveStatus is the review state of a leave request.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "Pending"
	LeaveApproved LeaveStatus = "Approved"
	LeaveRejected LeaveStatus = "Rejected"
)

// Leave is a student's request to be away from the hostel.
type Leave struct {
	ID        int         `json:"leaveId"`
	StudentID string      `json:"studentId"`
	StartDate string      `json:"startDate"` // YYYY-MM-DD
	EndDate   string      `json:"endDate"`
	Reason    string      `json:"reason"`
	Status    LeaveStatus `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
}

// ApplyLeaveRequest is the payload for POST /leaves/add.
type ApplyLeaveRequest struct {
	StudentID string `json:"studentId"`
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" validate:"required,max=500"`
}
