package wire

import (
	"hotel-booking/internal/adaptor"
	"hotel-booking/pkg/middleware"
	"hotel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePayment(
	r chi.Router,
	paymentHandler *adaptor.PaymentHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))

		// POST /api/payments/intent - Start the payment flow for a booking
		r.Post("/api/payments/intent", paymentHandler.CreateIntent)

		// POST /api/payments/confirm - Client-side confirmation path
		r.Post("/api/payments/confirm", paymentHandler.ConfirmPayment)

		// GET /api/payments/{intentID}/status - Reconciled payment state
		r.Get("/api/payments/{intentID}/status", paymentHandler.GetPaymentStatus)
	})

	// ==================== PUBLIC ROUTES ====================
	// POST /api/payments/webhook - Provider callbacks, authenticated by
	// signature rather than a bearer token.
	r.Post("/api/payments/webhook", paymentHandler.Webhook)
}
