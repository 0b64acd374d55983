package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// IsTerminal reports whether no further status transition is legal.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCancelled || s == BookingStatusCompleted
}

// IsFinal reports whether the payment outcome may no longer be replaced
// by a pending observation. refunded can still follow paid.
func (p PaymentStatus) IsFinal() bool {
	return p == PaymentStatusPaid || p == PaymentStatusFailed || p == PaymentStatusRefunded
}

type GuestDetails struct {
	FirstName string `db:"guest_first_name" json:"first_name"`
	LastName  string `db:"guest_last_name" json:"last_name"`
	Email     string `db:"guest_email" json:"email"`
	Phone     string `db:"guest_phone" json:"phone"`
}

type Booking struct {
	Base
	OrderID  string    `db:"order_id"`
	UserID   uuid.UUID `db:"user_id"`
	HotelID  uuid.UUID `db:"hotel_id"`
	RoomType RoomType  `db:"room_type"`

	// Half-open interval [CheckIn, CheckOut), both normalized to UTC midnight.
	CheckIn  time.Time `db:"check_in"`
	CheckOut time.Time `db:"check_out"`

	Adults   int `db:"adults"`
	Children int `db:"children"`

	BaseAmount     float64 `db:"base_amount"`
	TaxAmount      float64 `db:"tax_amount"`
	ServiceCharge  float64 `db:"service_charge"`
	DiscountAmount float64 `db:"discount_amount"`
	TotalAmount    float64 `db:"total_amount"`
	AmountPaid     float64 `db:"amount_paid"`
	Currency       string  `db:"currency"`

	Status        BookingStatus `db:"status"`
	PaymentStatus PaymentStatus `db:"payment_status"`

	// Set once when the payment flow starts, immutable afterwards.
	PaymentIntentID *string `db:"payment_intent_id"`

	GuestDetails    GuestDetails
	SpecialRequests *string `db:"special_requests"`

	CancellationReason *string    `db:"cancellation_reason"`
	CancellationDate   *time.Time `db:"cancellation_date"`
}

// Nights returns the stay length of the half-open interval.
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}
