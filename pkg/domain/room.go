package domain

// Room is a hostel room as listed by /rooms/rooms-view.
type Room struct {
	RoomNo   string   `json:"roomNo"`
	Category string   `json:"category"`
	Photos   []string `json:"photos,omitempty"`
	Size     int      `json:"size"`     // max occupancy
	CurrOccu int      `json:"currOccu"` // current occupancy
	Fees     int      `json:"fees"`
}

// Vacancies returns the number of free beds, never negative.
func (r Room) Vacancies() int {
	if r.CurrOccu >= r.Size {
		return 0
	}
	return r.Size - r.CurrOccu
}

// CreateRoomRequest is the payload for adding a room.
type CreateRoomRequest struct {
	RoomNo   string `json:"roomNo" validate:"required"`
	Category string `json:"category" validate:"required"`
	Size     int    `json:"size" validate:"required,min=1"`
	Fees     int    `json:"fees" validate:"min=0"`
}
