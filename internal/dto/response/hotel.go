package response

import (
	"time"

	"hotel-booking/internal/data/entity"
)

type RoomResponse struct {
	Type      string  `json:"type"`
	Price     float64 `json:"price"`
	Capacity  int     `json:"capacity"`
	Available bool    `json:"available"`
}

type HotelResponse struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Address      entity.Address `json:"address"`
	Rating       float64        `json:"rating"`
	CheckInTime  string         `json:"check_in_time"`
	CheckOutTime string         `json:"check_out_time"`
	Rooms        []RoomResponse `json:"rooms"`
	CreatedAt    time.Time      `json:"created_at"`
}

func HotelToResponse(h *entity.Hotel) HotelResponse {
	rooms := make([]RoomResponse, len(h.Rooms))
	for i, room := range h.Rooms {
		rooms[i] = RoomResponse{
			Type:      string(room.Type),
			Price:     room.Price,
			Capacity:  room.Capacity,
			Available: room.Available,
		}
	}

	return HotelResponse{
		ID:           h.ID.String(),
		Name:         h.Name,
		Description:  h.Description,
		Address:      h.Address,
		Rating:       h.Rating,
		CheckInTime:  h.CheckInTime,
		CheckOutTime: h.CheckOutTime,
		Rooms:        rooms,
		CreatedAt:    h.CreatedAt,
	}
}
