package payment

import (
	"context"
	"encoding/json"
	"errors"

	"rental-booking/internal/pkg/config"
	"rental-booking/internal/pkg/errs"
	"rental-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

const (
	metadataBookingID    = "bookingId"
	metadataUserID       = "userId"
	metadataTargetStatus = "targetStatus"

	eventIntentSucceeded = "payment_intent.succeeded"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedEvent   = errors.New("malformed webhook event")
)

type StripeGateway struct {
	api           *client.API
	currency      string
	webhookSecret string
}

// NewStripeGateway uses the default Stripe backends when backends is nil.
func NewStripeGateway(cfg config.StripeConfig, backends *stripe.Backends) *StripeGateway {
	return &StripeGateway{
		api:           client.New(cfg.SecretKey, backends),
		currency:      cfg.Currency,
		webhookSecret: cfg.WebhookSecret,
	}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, in shared.CreateIntentInput) (*shared.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(in.AmountCents),
		Currency: stripe.String(g.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata(metadataBookingID, in.BookingID.String())
	params.AddMetadata(metadataUserID, in.UserID.String())
	params.AddMetadata(metadataTargetStatus, in.TargetStatus)

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, errs.Wrap(err, "stripe: create payment intent")
	}

	return &shared.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		AmountCents:  pi.Amount,
	}, nil
}

func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*shared.PaymentEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "stripe: verify webhook"), ErrInvalidSignature)
	}

	out := &shared.PaymentEvent{Type: string(event.Type)}
	if out.Type != eventIntentSucceeded {
		return out, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, errs.Mark(errs.Wrap(err, "stripe: decode payment intent"), ErrMalformedEvent)
	}

	bookingID, err := uuid.Parse(pi.Metadata[metadataBookingID])
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "stripe: booking id metadata"), ErrMalformedEvent)
	}

	out.Succeeded = true
	out.IntentID = pi.ID
	out.BookingID = bookingID
	out.TargetStatus = pi.Metadata[metadataTargetStatus]
	return out, nil
}
