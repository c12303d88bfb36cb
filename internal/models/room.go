package models

// Room is a physical room schedules are booked into. Names are unique.
type Room struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// RoomRequest creates or updates a room.
type RoomRequest struct {
	Name string `json:"name" validate:"required"`
}
