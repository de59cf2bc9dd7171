package components

import (
	"context"

	"rental-booking/internal/handler"
	"rental-booking/internal/handler/api"
	"rental-booking/internal/handler/middleware"
	"rental-booking/internal/handler/validation"
	"rental-booking/internal/pkg/clock"
	"rental-booking/internal/pkg/config"
	"rental-booking/internal/pkg/metrics"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewBookingHandler,
		api.NewPaymentHandler,
		api.NewPropertyHandler,
		func(pool *pgxpool.Pool) *api.HealthHandler { return api.NewHealthHandler(pool) },
		middleware.NewAuthMiddleware,
		func(cfg config.Config, clk clock.Clock) *middleware.RateLimiter {
			return middleware.NewRateLimiter(cfg.RateLimit, clk)
		},
	),
	fx.Invoke(
		validation.Register,
		metrics.Register,
		handler.NewRouter,
		runLimiterSweep,
	),
)

func runLimiterSweep(lc fx.Lifecycle, limiter *middleware.RateLimiter) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go limiter.Run(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}
