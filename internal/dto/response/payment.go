package response

type TotalsResponse struct {
	BaseAmount     float64 `json:"base_amount"`
	TaxAmount      float64 `json:"tax_amount"`
	ServiceCharge  float64 `json:"service_charge"`
	DiscountAmount float64 `json:"discount_amount"`
	TotalAmount    float64 `json:"total_amount"`
}

type PaymentIntentResponse struct {
	PaymentIntentID string         `json:"payment_intent_id"`
	ClientSecret    string         `json:"client_secret,omitempty"`
	Totals          TotalsResponse `json:"totals"`
}

type PaymentStatusResponse struct {
	PaymentIntentID string  `json:"payment_intent_id"`
	PaymentStatus   string  `json:"payment_status"`
	BookingStatus   string  `json:"booking_status"`
	AmountPaid      float64 `json:"amount_paid"`
}
