package response

import (
	"time"

	"hotel-booking/internal/data/entity"
)

type BookingResponse struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	UserID   string `json:"user_id"`
	HotelID  string `json:"hotel_id"`
	RoomType string `json:"room_type"`

	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Nights   int    `json:"nights"`

	Adults   int `json:"adults"`
	Children int `json:"children"`

	BaseAmount     float64 `json:"base_amount"`
	TaxAmount      float64 `json:"tax_amount"`
	ServiceCharge  float64 `json:"service_charge"`
	DiscountAmount float64 `json:"discount_amount"`
	TotalAmount    float64 `json:"total_amount"`
	AmountPaid     float64 `json:"amount_paid"`
	Currency       string  `json:"currency"`

	Status        entity.BookingStatus `json:"status"`
	PaymentStatus entity.PaymentStatus `json:"payment_status"`

	GuestDetails    entity.GuestDetails `json:"guest_details"`
	SpecialRequests *string             `json:"special_requests,omitempty"`

	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	CancellationDate   *time.Time `json:"cancellation_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:                 b.ID.String(),
		OrderID:            b.OrderID,
		UserID:             b.UserID.String(),
		HotelID:            b.HotelID.String(),
		RoomType:           string(b.RoomType),
		CheckIn:            b.CheckIn.Format("2006-01-02"),
		CheckOut:           b.CheckOut.Format("2006-01-02"),
		Nights:             b.Nights(),
		Adults:             b.Adults,
		Children:           b.Children,
		BaseAmount:         b.BaseAmount,
		TaxAmount:          b.TaxAmount,
		ServiceCharge:      b.ServiceCharge,
		DiscountAmount:     b.DiscountAmount,
		TotalAmount:        b.TotalAmount,
		AmountPaid:         b.AmountPaid,
		Currency:           b.Currency,
		Status:             b.Status,
		PaymentStatus:      b.PaymentStatus,
		GuestDetails:       b.GuestDetails,
		SpecialRequests:    b.SpecialRequests,
		CancellationReason: b.CancellationReason,
		CancellationDate:   b.CancellationDate,
		CreatedAt:          b.CreatedAt,
	}
}
