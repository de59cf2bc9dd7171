package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"rental-booking/internal/infra/cache"
	"rental-booking/internal/pkg/config"
	"rental-booking/internal/usecase/commands"
	"rental-booking/internal/usecase/queries"

	"go.uber.org/fx"
)

const redisPingTimeout = 3 * time.Second

// bookedDatesCache is what both sides of the use case layer see.
type bookedDatesCache interface {
	queries.BookedDatesCache
	commands.BookedDatesInvalidator
}

var CacheModule = fx.Module("cache",
	fx.Provide(
		NewBookedDatesCache,
		func(c bookedDatesCache) queries.BookedDatesCache { return c },
		func(c bookedDatesCache) commands.BookedDatesInvalidator { return c },
	),
)

// NewBookedDatesCache falls back to a no-op cache when Redis is disabled or
// unreachable at startup; reads then always hit Postgres.
func NewBookedDatesCache(lc fx.Lifecycle, cfg config.Config) bookedDatesCache {
	if !cfg.Redis.Enabled {
		slog.Info("redis disabled, booked dates are read from postgres")
		return cache.NewNoopBookedDatesCache()
	}

	client := cache.NewRedisClient(cfg.Redis)
	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := cache.Ping(ctx, client); err != nil {
		slog.Warn("redis unavailable, booked dates cache disabled", "addr", cfg.Redis.Addr, "error", err.Error())
		_ = client.Close()
		return cache.NewNoopBookedDatesCache()
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	return cache.NewRedisBookedDatesCache(client, cfg.Redis.BookedDatesTTL)
}
