package repository

import (
	"context"
	"fmt"

	"hotel-booking/internal/data/entity"
	"hotel-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"time"
)

type BookingFilter struct {
	Status  *entity.BookingStatus
	HotelID *uuid.UUID
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByIntentID(ctx context.Context, intentID string) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	FindAll(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.Booking, error)
	CountAll(ctx context.Context, filter BookingFilter) (int64, error)
	Update(ctx context.Context, booking *entity.Booking) error

	// ExistsOverlapping reports whether an active (pending or confirmed)
	// booking for the same hotel and room category intersects the
	// half-open range [checkIn, checkOut). excludeID, when non-nil,
	// leaves one booking out of the check.
	ExistsOverlapping(ctx context.Context, hotelID uuid.UUID, roomType entity.RoomType, checkIn, checkOut time.Time, excludeID *uuid.UUID) (bool, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `
	id, order_id, user_id, hotel_id, room_type, check_in, check_out,
	adults, children,
	base_amount, tax_amount, service_charge, discount_amount, total_amount, amount_paid, currency,
	status, payment_status, payment_intent_id,
	guest_first_name, guest_last_name, guest_email, guest_phone,
	special_requests, cancellation_reason, cancellation_date,
	created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID, &b.OrderID, &b.UserID, &b.HotelID, &b.RoomType, &b.CheckIn, &b.CheckOut,
		&b.Adults, &b.Children,
		&b.BaseAmount, &b.TaxAmount, &b.ServiceCharge, &b.DiscountAmount, &b.TotalAmount, &b.AmountPaid, &b.Currency,
		&b.Status, &b.PaymentStatus, &b.PaymentIntentID,
		&b.GuestDetails.FirstName, &b.GuestDetails.LastName, &b.GuestDetails.Email, &b.GuestDetails.Phone,
		&b.SpecialRequests, &b.CancellationReason, &b.CancellationDate,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		        $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID, booking.OrderID, booking.UserID, booking.HotelID, booking.RoomType,
		booking.CheckIn, booking.CheckOut,
		booking.Adults, booking.Children,
		booking.BaseAmount, booking.TaxAmount, booking.ServiceCharge, booking.DiscountAmount,
		booking.TotalAmount, booking.AmountPaid, booking.Currency,
		booking.Status, booking.PaymentStatus, booking.PaymentIntentID,
		booking.GuestDetails.FirstName, booking.GuestDetails.LastName,
		booking.GuestDetails.Email, booking.GuestDetails.Phone,
		booking.SpecialRequests, booking.CancellationReason, booking.CancellationDate,
		booking.CreatedAt, booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("order_id", booking.OrderID),
			zap.String("user_id", booking.UserID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.OrderID, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByIntentID(ctx context.Context, intentID string) (*entity.Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings WHERE payment_intent_id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, intentID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by intent ID",
			zap.Error(err),
			zap.String("payment_intent_id", intentID),
		)
		return nil, fmt.Errorf("find booking by intent ID %s: %w", intentID, err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count bookings by user ID %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) FindAll(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT` + bookingColumns + `
		FROM bookings
		WHERE ($1::text IS NULL OR status = $1)
		  AND ($2::uuid IS NULL OR hotel_id = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, filter.Status, filter.HotelID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings", zap.Error(err))
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *bookingRepository) CountAll(ctx context.Context, filter BookingFilter) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE ($1::text IS NULL OR status = $1)
		  AND ($2::uuid IS NULL OR hotel_id = $2)
	`

	var count int64
	if err := r.db.QueryRow(ctx, query, filter.Status, filter.HotelID).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return count, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	query := `
		UPDATE bookings
		SET status = $2, payment_status = $3, payment_intent_id = $4, amount_paid = $5,
		    base_amount = $6, tax_amount = $7, service_charge = $8, discount_amount = $9,
		    total_amount = $10, cancellation_reason = $11, cancellation_date = $12,
		    updated_at = $13
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.Status,
		booking.PaymentStatus,
		booking.PaymentIntentID,
		booking.AmountPaid,
		booking.BaseAmount,
		booking.TaxAmount,
		booking.ServiceCharge,
		booking.DiscountAmount,
		booking.TotalAmount,
		booking.CancellationReason,
		booking.CancellationDate,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("update booking %s: %w", booking.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", booking.ID.String())
	}

	return nil
}

func (r *bookingRepository) ExistsOverlapping(ctx context.Context, hotelID uuid.UUID, roomType entity.RoomType, checkIn, checkOut time.Time, excludeID *uuid.UUID) (bool, error) {
	// Half-open intervals: [a, b) and [c, d) overlap iff a < d AND c < b,
	// so back-to-back stays sharing a turnover day do not collide.
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM bookings
			WHERE hotel_id = $1
			  AND room_type = $2
			  AND status IN ('pending', 'confirmed')
			  AND check_in < $4
			  AND $3 < check_out
			  AND ($5::uuid IS NULL OR id <> $5)
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, hotelID, roomType, checkIn, checkOut, excludeID).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check overlapping bookings",
			zap.Error(err),
			zap.String("hotel_id", hotelID.String()),
			zap.String("room_type", string(roomType)),
		)
		return false, fmt.Errorf("check overlapping bookings: %w", err)
	}

	return exists, nil
}

func collectBookings(rows pgx.Rows) ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}
