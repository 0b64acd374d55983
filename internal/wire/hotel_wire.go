package wire

import (
	"hotel-booking/internal/adaptor"
	"hotel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireHotel(
	r chi.Router,
	hotelHandler *adaptor.HotelHandler,
	reviewHandler *adaptor.ReviewHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/hotels - Browse the catalog
	r.Get("/api/hotels", hotelHandler.GetHotels)

	// GET /api/hotels/{id} - Hotel details with room categories
	r.Get("/api/hotels/{id}", hotelHandler.GetHotelByID)

	// GET /api/hotels/{id}/reviews - Reviews for a hotel
	r.Get("/api/hotels/{id}/reviews", reviewHandler.GetHotelReviews)

	// GET /api/hotels/{id}/reviews/stats - Running average and count
	r.Get("/api/hotels/{id}/reviews/stats", reviewHandler.GetHotelReviewStats)
}
