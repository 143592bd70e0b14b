package domain

// Profile is the student-facing account record.
type Profile struct {
	ID    string `json:"stuId"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  Role   `json:"role"`
}

// ProfileUpdate is the editable part of a profile.
type ProfileUpdate struct {
	Name  string `json:"name" validate:"required,max=80"`
	Phone string `json:"phone" validate:"omitempty,numeric,len=10"`
}
