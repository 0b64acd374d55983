package usecase

import (
	"context"
	"fmt"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/dto/request"
	"hotel-booking/internal/dto/response"
	"hotel-booking/pkg/notify"
	"hotel-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	CreateBooking(ctx context.Context, actor Actor, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, actor Actor, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetBookingByID(ctx context.Context, actor Actor, bookingID string) (*response.BookingResponse, error)
	UpdateBookingStatus(ctx context.Context, actor Actor, bookingID string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, actor Actor, bookingID string, reason *string) (*response.BookingResponse, error)

	// Admin listing
	GetAllBookings(ctx context.Context, status, hotelID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
}

type bookingService struct {
	repo     *repository.Repository
	catalog  HotelService
	payments PaymentService
	notifier notify.Notifier
	locks    *keyedMutex
	pricing  utils.PricingConfig
	currency string
	log      *zap.Logger

	// now is replaceable in tests for the past-date check.
	now func() time.Time
}

func NewBookingService(
	repo *repository.Repository,
	catalog HotelService,
	payments PaymentService,
	notifier notify.Notifier,
	locks *keyedMutex,
	config *utils.Config,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:     repo,
		catalog:  catalog,
		payments: payments,
		notifier: notifier,
		locks:    locks,
		pricing:  config.Pricing,
		currency: config.Payment.Currency,
		log:      log.With(zap.String("service", "booking")),
		now:      time.Now,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, actor Actor, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, &ValidationError{Fields: errs}
	}

	userID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return nil, NewValidationError("user_id", "invalid user ID format")
	}

	hotelID, err := uuid.Parse(req.HotelID)
	if err != nil {
		return nil, NewValidationError("hotel_id", "invalid hotel ID format")
	}

	roomType := entity.RoomType(req.RoomType)
	if !roomType.Valid() {
		return nil, NewValidationError("room_type", "unknown room type")
	}

	checkIn, checkOut, err := parseStayDates(req.CheckIn, req.CheckOut, s.now())
	if err != nil {
		return nil, err
	}

	room, err := s.catalog.GetRoomRate(ctx, hotelID, roomType)
	if err != nil {
		return nil, err
	}

	if req.Guests.Adults+req.Guests.Children > room.Capacity {
		return nil, NewValidationError("guests", fmt.Sprintf("room capacity is %d guests", room.Capacity))
	}

	totals := CalculateTotal(room.Price*float64(Nights(checkIn, checkOut)), s.pricing.TaxRate, s.pricing.ServiceChargeRate)

	now := s.now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OrderID:  utils.GenerateOrderID(),
		UserID:   userID,
		HotelID:  hotelID,
		RoomType: roomType,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Adults:   req.Guests.Adults,
		Children: req.Guests.Children,

		BaseAmount:    totals.BaseAmount,
		TaxAmount:     totals.TaxAmount,
		ServiceCharge: totals.ServiceCharge,
		TotalAmount:   totals.TotalAmount,
		Currency:      s.currency,

		Status:        entity.BookingStatusPending,
		PaymentStatus: entity.PaymentStatusPending,

		GuestDetails: entity.GuestDetails{
			FirstName: req.GuestDetails.FirstName,
			LastName:  req.GuestDetails.LastName,
			Email:     req.GuestDetails.Email,
			Phone:     req.GuestDetails.Phone,
		},
		SpecialRequests: req.SpecialRequests,
	}

	// The conflict check and the insert must not interleave with another
	// create for the same room category, or two overlapping bookings
	// could both pass the check. Serialize on (hotel, room type).
	unlock := s.locks.lock(roomKey(hotelID, roomType))
	defer unlock()

	conflict, err := s.repo.Booking.ExistsOverlapping(ctx, hotelID, roomType, checkIn, checkOut, nil)
	if err != nil {
		return nil, fmt.Errorf("check booking conflict: %w", err)
	}
	if conflict {
		return nil, fmt.Errorf("%s %s to %s: %w", roomType, req.CheckIn, req.CheckOut, ErrConflict)
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("order_id", booking.OrderID),
		zap.String("hotel_id", req.HotelID),
		zap.String("room_type", req.RoomType),
		zap.Float64("total_amount", booking.TotalAmount),
	)

	s.dispatch(ctx, notify.KindBookingCreated, booking)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, actor Actor, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	userID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return nil, NewValidationError("user_id", "invalid user ID format")
	}

	bookings, err := s.repo.Booking.FindByUserID(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get user bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count user bookings: %w", err)
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		bookingResponses[i] = response.BookingToResponse(booking)
	}

	return response.NewPaginatedResponse(bookingResponses, req.Page, req.PerPage, total), nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, actor Actor, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.loadOwned(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) UpdateBookingStatus(ctx context.Context, actor Actor, bookingID string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	requested := entity.BookingStatus(req.Status)
	if requested == entity.BookingStatusCancelled {
		// Cancellation goes through the refund-aware path.
		return s.CancelBooking(ctx, actor, bookingID, req.Reason)
	}

	booking, err := s.loadOwned(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}

	isOwner := booking.UserID.String() == actor.UserID
	if err := CanTransition(booking.Status, requested, actor, isOwner); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(bookingKey(booking.ID))
	defer unlock()

	// Re-read and re-check under the lock; a racing reconciliation or
	// cancel may have moved the booking.
	booking, err = s.repo.Booking.FindByID(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("reload booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}
	if err := CanTransition(booking.Status, requested, actor, isOwner); err != nil {
		return nil, err
	}

	ApplyTransition(booking, requested, "", s.now())
	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	s.log.Info("Booking status updated",
		zap.String("booking_id", booking.ID.String()),
		zap.String("status", string(requested)),
		zap.String("actor", actor.UserID),
	)

	if requested == entity.BookingStatusConfirmed {
		s.dispatch(ctx, notify.KindBookingConfirmed, booking)
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, actor Actor, bookingID string, reason *string) (*response.BookingResponse, error) {
	booking, err := s.loadOwned(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}

	isOwner := booking.UserID.String() == actor.UserID
	if err := CanTransition(booking.Status, entity.BookingStatusCancelled, actor, isOwner); err != nil {
		return nil, err
	}

	cancelReason := "Cancelled by user"
	if reason != nil && *reason != "" {
		cancelReason = *reason
	}

	if booking.PaymentStatus == entity.PaymentStatusPaid {
		// Paid bookings are cancelled by the reconciliation coordinator
		// so the refund and the transition commit as one decision.
		booking, err = s.payments.RefundBooking(ctx, booking.ID, cancelReason)
		if err != nil {
			return nil, err
		}
	} else {
		unlock := s.locks.lock(bookingKey(booking.ID))

		booking, err = s.repo.Booking.FindByID(ctx, booking.ID)
		if err != nil || booking == nil {
			unlock()
			if err != nil {
				return nil, fmt.Errorf("reload booking: %w", err)
			}
			return nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
		}
		if err := CanTransition(booking.Status, entity.BookingStatusCancelled, actor, isOwner); err != nil {
			unlock()
			return nil, err
		}

		ApplyTransition(booking, entity.BookingStatusCancelled, cancelReason, s.now())
		err = s.repo.Booking.Update(ctx, booking)
		unlock()
		if err != nil {
			return nil, fmt.Errorf("cancel booking: %w", err)
		}
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", booking.ID.String()),
		zap.String("order_id", booking.OrderID),
		zap.String("reason", cancelReason),
	)

	s.dispatch(ctx, notify.KindBookingCancelled, booking)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) GetAllBookings(ctx context.Context, status, hotelID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	var filter repository.BookingFilter

	if status != "" {
		st := entity.BookingStatus(status)
		filter.Status = &st
	}
	if hotelID != "" {
		id, err := uuid.Parse(hotelID)
		if err != nil {
			return nil, NewValidationError("hotel_id", "invalid hotel ID format")
		}
		filter.HotelID = &id
	}

	bookings, err := s.repo.Booking.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get all bookings: %w", err)
	}

	total, err := s.repo.Booking.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count all bookings: %w", err)
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		bookingResponses[i] = response.BookingToResponse(booking)
	}

	return response.NewPaginatedResponse(bookingResponses, req.Page, req.PerPage, total), nil
}

// loadOwned fetches a booking and enforces owner-or-admin access.
func (s *bookingService) loadOwned(ctx context.Context, actor Actor, bookingID string) (*entity.Booking, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, NewValidationError("booking_id", "invalid booking ID format")
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}

	if booking.UserID.String() != actor.UserID && !actor.IsAdmin() {
		return nil, fmt.Errorf("booking %s: %w", bookingID, ErrPermission)
	}

	return booking, nil
}

// dispatch sends a notification and swallows failures. Notifications are
// best-effort and never on the commit path.
func (s *bookingService) dispatch(ctx context.Context, kind string, booking *entity.Booking) {
	payload := map[string]any{
		"booking_id":   booking.ID.String(),
		"order_id":     booking.OrderID,
		"hotel_id":     booking.HotelID.String(),
		"room_type":    string(booking.RoomType),
		"check_in":     booking.CheckIn.Format("2006-01-02"),
		"check_out":    booking.CheckOut.Format("2006-01-02"),
		"total_amount": booking.TotalAmount,
		"first_name":   booking.GuestDetails.FirstName,
	}

	if err := s.notifier.Notify(ctx, kind, booking.GuestDetails.Email, payload); err != nil {
		s.log.Warn("Notification dispatch failed",
			zap.Error(err),
			zap.String("kind", kind),
			zap.String("booking_id", booking.ID.String()),
		)
	}
}

// parseStayDates validates and normalizes the stay interval: dates at
// UTC midnight, at least one night, check-in not in the past.
func parseStayDates(checkInStr, checkOutStr string, now time.Time) (time.Time, time.Time, error) {
	checkIn, err := time.Parse("2006-01-02", checkInStr)
	if err != nil {
		return time.Time{}, time.Time{}, NewValidationError("check_in", "invalid date, expected YYYY-MM-DD")
	}
	checkOut, err := time.Parse("2006-01-02", checkOutStr)
	if err != nil {
		return time.Time{}, time.Time{}, NewValidationError("check_out", "invalid date, expected YYYY-MM-DD")
	}

	checkIn = NormalizeDate(checkIn)
	checkOut = NormalizeDate(checkOut)

	if !checkIn.Before(checkOut) {
		return time.Time{}, time.Time{}, NewValidationError("check_out", "check-out date must be after check-in date")
	}
	if checkIn.Before(NormalizeDate(now)) {
		return time.Time{}, time.Time{}, NewValidationError("check_in", "check-in date cannot be in the past")
	}

	return checkIn, checkOut, nil
}
