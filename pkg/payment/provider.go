package payment

import (
	"context"
	"errors"
)

// IntentStatus is the provider's view of a payment attempt.
type IntentStatus string

const (
	IntentStatusPending   IntentStatus = "pending"
	IntentStatusSucceeded IntentStatus = "succeeded"
	IntentStatusFailed    IntentStatus = "failed"
)

// Intent is a provider payment intent. Amount is in the major currency
// unit (the provider wire format uses minor units; adapters convert).
type Intent struct {
	ID           string
	Status       IntentStatus
	Amount       float64
	Currency     string
	ClientSecret string
}

// Refund is a provider refund reference.
type Refund struct {
	ID     string
	Amount float64
	Status string
}

// Event is a verified webhook event.
type Event struct {
	ID       string
	Type     string
	IntentID string
	Amount   float64
	Currency string
}

// Webhook event types the reconciliation path consumes.
const (
	EventIntentSucceeded = "payment_intent.succeeded"
	EventIntentFailed    = "payment_intent.payment_failed"
)

var (
	// ErrSignature - the webhook payload could not be authenticated.
	ErrSignature = errors.New("invalid webhook signature")

	// ErrUnavailable - the provider API call failed or timed out;
	// safe to retry.
	ErrUnavailable = errors.New("payment provider unavailable")
)

// Provider is the capability set the reconciliation core depends on.
// One concrete adapter (Client) talks to the real API; tests use fakes.
type Provider interface {
	CreateIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*Intent, error)
	GetIntent(ctx context.Context, intentID string) (*Intent, error)
	CreateRefund(ctx context.Context, intentID string, amount *float64) (*Refund, error)
	VerifyWebhookSignature(payload []byte, signatureHeader string) (*Event, error)
}
