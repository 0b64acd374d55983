package usecase

import (
	"hotel-booking/internal/data/repository"
	"hotel-booking/pkg/notify"
	"hotel-booking/pkg/payment"
	"hotel-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Hotel   HotelService
	Booking BookingService
	Payment PaymentService
	Review  ReviewService
}

func NewService(repo *repository.Repository, provider payment.Provider, notifier notify.Notifier, config *utils.Config, log *zap.Logger) *Service {
	// One lock table shared by every path that mutates a booking, so
	// reconciliation, cancellation and admin confirmation serialize on
	// the same per-booking key.
	locks := &keyedMutex{}

	hotelSvc := NewHotelService(repo, log)
	paymentSvc := NewPaymentService(repo, provider, notifier, locks, config, log)

	return &Service{
		Hotel:   hotelSvc,
		Booking: NewBookingService(repo, hotelSvc, paymentSvc, notifier, locks, config, log),
		Payment: paymentSvc,
		Review:  NewReviewService(repo, log),
	}
}
