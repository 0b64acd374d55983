package request

type CreatePaymentIntentRequest struct {
	BookingID string  `json:"booking_id" validate:"required,uuid4"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}
