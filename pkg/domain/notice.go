package domain

import "time"

// Notice is a warden announcement shown on both dashboards.
type Notice struct {
	ID          int       `json:"noticeId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NoticeRequest is the payload for creating or updating a notice.
type NoticeRequest struct {
	Title       string `json:"title" validate:"required,max=120"`
	Description string `json:"description" validate:"required,max=2000"`
}
