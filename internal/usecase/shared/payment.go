package shared

import (
	"context"

	"github.com/google/uuid"
)

type CreateIntentInput struct {
	BookingID    uuid.UUID
	UserID       uuid.UUID
	AmountCents  int64
	TargetStatus string
}

type PaymentIntent struct {
	ID           string
	ClientSecret string
	AmountCents  int64
}

// PaymentEvent is a verified provider callback.
type PaymentEvent struct {
	Type         string
	Succeeded    bool
	IntentID     string
	BookingID    uuid.UUID
	TargetStatus string
}

type PaymentGateway interface {
	CreateIntent(ctx context.Context, in CreateIntentInput) (*PaymentIntent, error)
	// ParseWebhook verifies the signature header before decoding.
	ParseWebhook(payload []byte, signature string) (*PaymentEvent, error)
}
