package domain

import "time"

// Allocation records a student's occupancy of a room.
type Allocation struct {
	ID          string     `json:"allocationId"`
	StudentID   string     `json:"studentId"`
	StudentName string     `json:"studentName"`
	RoomNo      string     `json:"roomNo"`
	AllocatedAt time.Time  `json:"allocatedAt"`
	VacatedAt   *time.Time `json:"vacatedAt,omitempty"`
}

// Current reports whether the student still occupies the room.
func (a Allocation) Current() bool {
	return a.VacatedAt == nil
}

// AllocationFilter narrows allocation listings. Zero fields are ignored.
type AllocationFilter struct {
	StudentName string
	RoomNo      string
	Year        int
}
