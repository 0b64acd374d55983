package wire

import (
	"hotel-booking/internal/adaptor"
	"hotel-booking/internal/data/repository"
	"hotel-booking/pkg/middleware"
	"hotel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))

		// POST /api/bookings - Create new booking
		r.Post("/api/bookings", bookingHandler.CreateBooking)

		// GET /api/bookings - View own booking history
		r.Get("/api/bookings", bookingHandler.GetUserBookings)

		// GET /api/bookings/{id} - View one booking (owner or admin)
		r.Get("/api/bookings/{id}", bookingHandler.GetBookingByID)

		// PUT /api/bookings/{id}/status - Request a status transition;
		// the state machine decides what the actor's role permits
		r.Put("/api/bookings/{id}/status", bookingHandler.UpdateBookingStatus)

		// DELETE /api/bookings/{id} - Cancel a booking (owner or admin)
		r.Delete("/api/bookings/{id}", bookingHandler.CancelBooking)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))
		r.Use(middleware.Admin(repo.User, log))

		// GET /api/admin/bookings - List bookings with status/hotel filters
		r.Get("/", bookingHandler.GetAllBookings)
	})
}
