package response

import (
	"time"

	"hotel-booking/internal/data/entity"
)

type ReviewResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	HotelID   string    `json:"hotel_id"`
	BookingID string    `json:"booking_id"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type HotelReviewStats struct {
	HotelID       string  `json:"hotel_id"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

func ReviewToResponse(r *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID.String(),
		UserID:    r.UserID.String(),
		HotelID:   r.HotelID.String(),
		BookingID: r.BookingID.String(),
		Rating:    r.Rating,
		Title:     r.Title,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}
