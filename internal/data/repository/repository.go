package repository

import (
	"hotel-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User    UserRepository
	Hotel   HotelRepository
	Booking BookingRepository
	Review  ReviewRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, log),
		Hotel:   NewHotelRepository(db, log),
		Booking: NewBookingRepository(db, log),
		Review:  NewReviewRepository(db, log),
	}
}
