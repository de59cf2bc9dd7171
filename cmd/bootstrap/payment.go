package bootstrap

import (
	"log/slog"

	"rental-booking/internal/infra/payment"
	"rental-booking/internal/pkg/config"
	"rental-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var PaymentModule = fx.Module("payment",
	fx.Provide(
		NewPaymentGateway,
	),
)

func NewPaymentGateway(cfg config.Config) shared.PaymentGateway {
	if cfg.Stripe.SecretKey == "" {
		slog.Warn("STRIPE_SECRET_KEY is empty, payment intents will fail")
	}
	return payment.NewStripeGateway(cfg.Stripe, nil)
}
