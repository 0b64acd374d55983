package entity

import (
	"github.com/google/uuid"
)

type RoomType string

const (
	RoomTypeSingle RoomType = "single"
	RoomTypeDouble RoomType = "double"
	RoomTypeSuite  RoomType = "suite"
	RoomTypeDeluxe RoomType = "deluxe"
)

func (t RoomType) Valid() bool {
	switch t {
	case RoomTypeSingle, RoomTypeDouble, RoomTypeSuite, RoomTypeDeluxe:
		return true
	}
	return false
}

type Address struct {
	Street  string `db:"street" json:"street"`
	City    string `db:"city" json:"city"`
	State   string `db:"state" json:"state"`
	Country string `db:"country" json:"country"`
	ZipCode string `db:"zip_code" json:"zip_code"`
}

// Room is a priced room category at a hotel, not a physical room.
type Room struct {
	ID        uuid.UUID `db:"id"`
	HotelID   uuid.UUID `db:"hotel_id"`
	Type      RoomType  `db:"room_type"`
	Price     float64   `db:"price"`
	Capacity  int       `db:"capacity"`
	Available bool      `db:"available"`
}

type Hotel struct {
	Base
	Name         string  `db:"name"`
	Description  string  `db:"description"`
	Address      Address
	Rating       float64 `db:"rating"`
	ContactPhone *string `db:"contact_phone"`
	ContactEmail *string `db:"contact_email"`
	CheckInTime  string  `db:"check_in_time"`
	CheckOutTime string  `db:"check_out_time"`
	IsActive     bool    `db:"is_active"`

	Rooms []Room
}

// RoomByType returns the room category entry, or nil if the hotel
// does not offer it.
func (h *Hotel) RoomByType(t RoomType) *Room {
	for i := range h.Rooms {
		if h.Rooms[i].Type == t {
			return &h.Rooms[i]
		}
	}
	return nil
}
