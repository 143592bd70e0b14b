package domain

import "time"

// ComplaintStatus tracks a complaint from filing to resolution.
type ComplaintStatus string

const (
	ComplaintPending    ComplaintStatus = "Pending"
	ComplaintProcessing ComplaintStatus = "Processing"
	ComplaintResolved   ComplaintStatus = "Resolved"
)

// Next returns the status a warden moves the complaint to; Resolved stays put.
func (s ComplaintStatus) Next() ComplaintStatus {
	switch s {
	case ComplaintPending:
		return ComplaintProcessing
	case ComplaintProcessing:
		return ComplaintResolved
	}
	return ComplaintResolved
}

// Complaint is a maintenance or welfare issue raised by a student.
type Complaint struct {
	ID          int             `json:"compId"`
	StudentID   string          `json:"studentId"`
	Subject     string          `json:"subject"`
	Description string          `json:"description,omitempty"`
	Status      ComplaintStatus `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// AddComplaintRequest is the payload for POST /complaints/add.
type AddComplaintRequest struct {
	StudentID   string `json:"studentId"`
	Subject     string `json:"subject" validate:"required,max=120"`
	Description string `json:"description" validate:"max=1000"`
}
