package bootstrap

import (
	"log/slog"

	"rental-booking/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		loadConfig,
	),
	fx.Invoke(logFeatures),
)

func loadConfig() (config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// logFeatures records which optional backends this instance runs with.
func logFeatures(cfg config.Config) {
	slog.Info("booking service configuration",
		"gin_mode", cfg.Server.GinMode,
		"redis_cache", cfg.Redis.Enabled,
		"kafka_relay", cfg.Kafka.Enabled(),
		"storage_timeout", cfg.Booking.StorageTimeout.String(),
		"lock_timeout", cfg.Booking.LockTimeout.String(),
		"rate_limit_rps", cfg.RateLimit.RPS)
}
