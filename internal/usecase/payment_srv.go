package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/dto/request"
	"hotel-booking/internal/dto/response"
	"hotel-booking/pkg/notify"
	"hotel-booking/pkg/payment"
	"hotel-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentService reconciles locally stored payment state with the
// provider's authoritative observations. Two independent channels report
// the same fact: the client confirm call and the provider webhook. Both
// funnel into reconcile, which is idempotent and order-independent, so
// duplicates and races are harmless.
type PaymentService interface {
	CreateIntent(ctx context.Context, actor Actor, req *request.CreatePaymentIntentRequest) (*response.PaymentIntentResponse, error)
	ConfirmPayment(ctx context.Context, actor Actor, req *request.ConfirmPaymentRequest) (*response.BookingResponse, error)
	GetPaymentStatus(ctx context.Context, actor Actor, intentID string) (*response.PaymentStatusResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error

	// RefundBooking refunds a paid booking and cancels it. Called by the
	// booking service on cancellation.
	RefundBooking(ctx context.Context, bookingID uuid.UUID, reason string) (*entity.Booking, error)
}

type paymentService struct {
	repo     *repository.Repository
	provider payment.Provider
	notifier notify.Notifier
	locks    *keyedMutex
	timeout  time.Duration
	currency string
	log      *zap.Logger

	now func() time.Time
}

func NewPaymentService(
	repo *repository.Repository,
	provider payment.Provider,
	notifier notify.Notifier,
	locks *keyedMutex,
	config *utils.Config,
	log *zap.Logger,
) PaymentService {
	return &paymentService{
		repo:     repo,
		provider: provider,
		notifier: notifier,
		locks:    locks,
		timeout:  config.Payment.Timeout,
		currency: config.Payment.Currency,
		log:      log.With(zap.String("service", "payment")),
		now:      time.Now,
	}
}

func (s *paymentService) CreateIntent(ctx context.Context, actor Actor, req *request.CreatePaymentIntentRequest) (*response.PaymentIntentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, NewValidationError("booking_id", "invalid booking ID format")
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", req.BookingID, ErrNotFound)
	}
	if booking.UserID.String() != actor.UserID {
		return nil, fmt.Errorf("booking %s: %w", req.BookingID, ErrPermission)
	}
	if booking.Status != entity.BookingStatusPending || booking.PaymentStatus != entity.PaymentStatusPending {
		return nil, fmt.Errorf("booking is %s/%s, cannot start payment: %w",
			booking.Status, booking.PaymentStatus, ErrIllegalTransition)
	}

	// Totals were computed by the pricing calculator at creation; the
	// client-supplied amount is advisory only.
	if req.Amount != booking.TotalAmount {
		s.log.Warn("Client amount differs from booking total, using booking total",
			zap.String("booking_id", req.BookingID),
			zap.Float64("client_amount", req.Amount),
			zap.Float64("booking_total", booking.TotalAmount),
		)
	}

	// The intent id binds once and never changes. Repeat requests return
	// the recorded reference.
	if booking.PaymentIntentID != nil {
		return &response.PaymentIntentResponse{
			PaymentIntentID: *booking.PaymentIntentID,
			Totals:          totalsOf(booking),
		}, nil
	}

	providerCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	intent, err := s.provider.CreateIntent(providerCtx, booking.TotalAmount, booking.Currency, map[string]string{
		"booking_id": booking.ID.String(),
		"order_id":   booking.OrderID,
		"user_id":    booking.UserID.String(),
	})
	if err != nil {
		return nil, s.mapProviderErr("create intent", err)
	}

	unlock := s.locks.lock(bookingKey(booking.ID))
	defer unlock()

	booking, err = s.repo.Booking.FindByID(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("reload booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", req.BookingID, ErrNotFound)
	}
	if booking.PaymentIntentID != nil {
		// Raced with another intent request; the recorded binding wins
		// and the intent created above is simply never confirmed.
		return &response.PaymentIntentResponse{
			PaymentIntentID: *booking.PaymentIntentID,
			Totals:          totalsOf(booking),
		}, nil
	}

	// The pending/pending precondition must still hold after the
	// provider round-trip: binding an intent to a booking cancelled in
	// the meantime would let a later confirmation pay a dead booking.
	if booking.Status != entity.BookingStatusPending || booking.PaymentStatus != entity.PaymentStatusPending {
		return nil, fmt.Errorf("booking is %s/%s, cannot start payment: %w",
			booking.Status, booking.PaymentStatus, ErrIllegalTransition)
	}

	booking.PaymentIntentID = &intent.ID
	booking.UpdatedAt = s.now()
	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("bind payment intent: %w", err)
	}

	s.log.Info("Payment intent created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("payment_intent_id", intent.ID),
		zap.Float64("amount", booking.TotalAmount),
	)

	return &response.PaymentIntentResponse{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Totals:          totalsOf(booking),
	}, nil
}

func (s *paymentService) ConfirmPayment(ctx context.Context, actor Actor, req *request.ConfirmPaymentRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	// Binding check before touching the provider: the intent must
	// resolve to a booking owned by the caller.
	booking, err := s.repo.Booking.FindByIntentID(ctx, req.PaymentIntentID)
	if err != nil {
		return nil, fmt.Errorf("resolve payment intent: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("payment intent %s: %w", req.PaymentIntentID, ErrNotFound)
	}
	if booking.UserID.String() != actor.UserID {
		return nil, fmt.Errorf("payment intent %s: %w", req.PaymentIntentID, ErrPermission)
	}

	// Authoritative status comes from the provider, never the client.
	providerCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	intent, err := s.provider.GetIntent(providerCtx, req.PaymentIntentID)
	if err != nil {
		return nil, s.mapProviderErr("get intent", err)
	}

	booking, err = s.reconcile(ctx, req.PaymentIntentID, intent.Status, intent.Amount)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *paymentService) GetPaymentStatus(ctx context.Context, actor Actor, intentID string) (*response.PaymentStatusResponse, error) {
	booking, err := s.repo.Booking.FindByIntentID(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("resolve payment intent: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("payment intent %s: %w", intentID, ErrNotFound)
	}
	if booking.UserID.String() != actor.UserID && !actor.IsAdmin() {
		return nil, fmt.Errorf("payment intent %s: %w", intentID, ErrPermission)
	}

	return &response.PaymentStatusResponse{
		PaymentIntentID: intentID,
		PaymentStatus:   string(booking.PaymentStatus),
		BookingStatus:   string(booking.Status),
		AmountPaid:      booking.AmountPaid,
	}, nil
}

func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	// Authenticate before any lookup. A payload that fails verification
	// must not touch the store.
	event, err := s.provider.VerifyWebhookSignature(payload, signatureHeader)
	if err != nil {
		s.log.Warn("Webhook signature rejected", zap.Error(err))
		return fmt.Errorf("verify webhook: %w", ErrSecurity)
	}

	switch event.Type {
	case payment.EventIntentSucceeded:
		_, err = s.reconcile(ctx, event.IntentID, payment.IntentStatusSucceeded, event.Amount)
	case payment.EventIntentFailed:
		_, err = s.reconcile(ctx, event.IntentID, payment.IntentStatusFailed, event.Amount)
	default:
		s.log.Debug("Ignoring webhook event", zap.String("type", event.Type), zap.String("event_id", event.ID))
		return nil
	}

	if err != nil {
		return fmt.Errorf("webhook %s: %w", event.ID, err)
	}

	s.log.Info("Webhook processed",
		zap.String("event_id", event.ID),
		zap.String("type", event.Type),
		zap.String("payment_intent_id", event.IntentID),
	)

	return nil
}

func (s *paymentService) RefundBooking(ctx context.Context, bookingID uuid.UUID, reason string) (*entity.Booking, error) {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID.String(), ErrNotFound)
	}
	if booking.PaymentStatus != entity.PaymentStatusPaid {
		return nil, fmt.Errorf("booking is not paid: %w", ErrIllegalTransition)
	}
	if booking.PaymentIntentID == nil {
		return nil, fmt.Errorf("booking %s has no payment intent: %w", bookingID.String(), ErrIllegalTransition)
	}

	// Provider call stays outside the lock; only decide-and-commit is
	// serialized.
	providerCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	refund, err := s.provider.CreateRefund(providerCtx, *booking.PaymentIntentID, nil)
	if err != nil {
		return nil, s.mapProviderErr("create refund", err)
	}

	unlock := s.locks.lock(bookingKey(booking.ID))
	defer unlock()

	booking, err = s.repo.Booking.FindByID(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("reload booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID.String(), ErrNotFound)
	}
	if booking.PaymentStatus == entity.PaymentStatusRefunded {
		// A concurrent refund already converged the record.
		return booking, nil
	}

	// The booking may have moved while the provider call was in flight;
	// a terminal status is never regressed to cancelled.
	if booking.Status.IsTerminal() {
		s.log.Warn("Refund issued but booking reached a terminal status during the provider call",
			zap.String("booking_id", booking.ID.String()),
			zap.String("status", string(booking.Status)),
			zap.String("refund_id", refund.ID),
		)
		return nil, fmt.Errorf("cannot cancel %s booking: %w", booking.Status, ErrIllegalTransition)
	}
	if booking.PaymentStatus != entity.PaymentStatusPaid {
		return nil, fmt.Errorf("booking is not paid: %w", ErrIllegalTransition)
	}

	now := s.now()
	booking.PaymentStatus = entity.PaymentStatusRefunded
	ApplyTransition(booking, entity.BookingStatusCancelled, reason, now)

	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("record refund: %w", err)
	}

	s.log.Info("Refund applied",
		zap.String("booking_id", booking.ID.String()),
		zap.String("refund_id", refund.ID),
		zap.Float64("amount", refund.Amount),
	)

	return booking, nil
}

// reconcile converges a booking with an observed payment outcome. It is
// the single mutation point for payment state: whichever channel gets
// here first applies the outcome; later duplicates see a final payment
// status and leave the record untouched, so no second notification goes
// out and a stale observation can never overwrite a terminal one.
func (s *paymentService) reconcile(ctx context.Context, intentID string, observed payment.IntentStatus, observedAmount float64) (*entity.Booking, error) {
	booking, err := s.repo.Booking.FindByIntentID(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("resolve payment intent: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("payment intent %s: %w", intentID, ErrNotFound)
	}

	if observed == payment.IntentStatusPending {
		// Nothing final to record yet.
		return booking, nil
	}

	unlock := s.locks.lock(bookingKey(booking.ID))

	booking, err = s.repo.Booking.FindByID(ctx, booking.ID)
	if err != nil {
		unlock()
		return nil, fmt.Errorf("reload booking: %w", err)
	}
	if booking == nil {
		unlock()
		return nil, fmt.Errorf("payment intent %s: %w", intentID, ErrNotFound)
	}

	if booking.PaymentStatus.IsFinal() {
		// Already reconciled by the other channel or an earlier retry.
		unlock()
		return booking, nil
	}

	now := s.now()
	var kind string

	switch observed {
	case payment.IntentStatusSucceeded:
		booking.PaymentStatus = entity.PaymentStatusPaid
		booking.AmountPaid = observedAmount
		switch booking.Status {
		case entity.BookingStatusPending:
			booking.Status = entity.BookingStatusConfirmed
			kind = notify.KindBookingConfirmed
		case entity.BookingStatusConfirmed:
			kind = notify.KindBookingConfirmed
		default:
			// The capture landed on a booking that is no longer active
			// (typically a webhook delivered after cancellation). Record
			// the money truthfully, never resurrect the status, and flag
			// it for a refund instead of mailing a confirmation.
			s.log.Warn("Payment captured for inactive booking, refund required",
				zap.String("booking_id", booking.ID.String()),
				zap.String("payment_intent_id", intentID),
				zap.String("status", string(booking.Status)),
				zap.Float64("amount", observedAmount),
			)
		}

	case payment.IntentStatusFailed:
		booking.PaymentStatus = entity.PaymentStatusFailed
		kind = notify.KindPaymentFailed
	}

	booking.UpdatedAt = now
	err = s.repo.Booking.Update(ctx, booking)
	unlock()
	if err != nil {
		return nil, fmt.Errorf("apply payment outcome: %w", err)
	}

	s.log.Info("Payment reconciled",
		zap.String("booking_id", booking.ID.String()),
		zap.String("payment_intent_id", intentID),
		zap.String("payment_status", string(booking.PaymentStatus)),
		zap.Float64("amount_paid", booking.AmountPaid),
	)

	// Commit first, notify after. Failures here never unwind the
	// reconciled state.
	if kind != "" {
		s.dispatch(ctx, kind, booking)
	}

	return booking, nil
}

func (s *paymentService) dispatch(ctx context.Context, kind string, booking *entity.Booking) {
	payload := map[string]any{
		"booking_id":   booking.ID.String(),
		"order_id":     booking.OrderID,
		"total_amount": booking.TotalAmount,
		"amount_paid":  booking.AmountPaid,
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

func (s *paymentService) mapProviderErr(op string, err error) error {
	if errors.Is(err, payment.ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		s.log.Warn("Provider call failed, retryable", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%s: %w", op, ErrTransientProvider)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func totalsOf(b *entity.Booking) response.TotalsResponse {
	return response.TotalsResponse{
		BaseAmount:     b.BaseAmount,
		TaxAmount:      b.TaxAmount,
		ServiceCharge:  b.ServiceCharge,
		DiscountAmount: b.DiscountAmount,
		TotalAmount:    b.TotalAmount,
	}
}
