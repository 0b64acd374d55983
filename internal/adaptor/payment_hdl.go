package adaptor

import (
	"encoding/json"
	"io"
	"net/http"

	"hotel-booking/internal/dto/request"
	"hotel-booking/internal/usecase"
	"hotel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Webhook payloads are small; anything past this is rejected unread.
const maxWebhookBody = 1 << 20

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// CreateIntent handles POST /api/payments/intent (protected)
func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreatePaymentIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	intent, err := h.service.CreateIntent(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create payment intent")
		return
	}

	utils.ResponseCreated(w, "success", intent)
}

// ConfirmPayment handles POST /api/payments/confirm (protected)
func (h *PaymentHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.ConfirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.ConfirmPayment(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "confirm payment")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// GetPaymentStatus handles GET /api/payments/{intentID}/status (protected)
func (h *PaymentHandler) GetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	intentID := chi.URLParam(r, "intentID")
	if intentID == "" {
		utils.ResponseBadRequest(w, "Payment intent ID is required", nil)
		return
	}

	status, err := h.service.GetPaymentStatus(r.Context(), actor, intentID)
	if err != nil {
		handleServiceError(w, h.log, err, "get payment status")
		return
	}

	utils.ResponseSuccess(w, "success", status)
}

// Webhook handles POST /api/payments/webhook (public, signature-authenticated).
// The raw body must reach signature verification untouched.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		utils.ResponseBadRequest(w, "Failed to read request body", nil)
		return
	}

	if err := h.service.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		handleServiceError(w, h.log, err, "handle webhook")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
