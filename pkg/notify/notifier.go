package notify

import (
	"context"

	"go.uber.org/zap"
)

// Notification kinds dispatched by the booking core.
const (
	KindBookingCreated   = "booking.created"
	KindBookingConfirmed = "booking.confirmed"
	KindBookingCancelled = "booking.cancelled"
	KindPaymentFailed    = "payment.failed"
)

// Notifier delivers user-facing notifications. Dispatch is fire-and-forget:
// callers log failures and never propagate them into booking operations.
type Notifier interface {
	Notify(ctx context.Context, kind, recipient string, payload map[string]any) error
}

// LogNotifier writes notifications to the application log. Used when no
// message broker is configured.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log.With(zap.String("notifier", "log"))}
}

func (n *LogNotifier) Notify(_ context.Context, kind, recipient string, payload map[string]any) error {
	n.log.Info("Notification dispatched",
		zap.String("kind", kind),
		zap.String("recipient", recipient),
		zap.Any("payload", payload),
	)
	return nil
}
