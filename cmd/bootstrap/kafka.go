package bootstrap

import (
	"context"
	"log/slog"

	"rental-booking/internal/infra/worker"
	"rental-booking/internal/pkg/config"

	"go.uber.org/fx"
)

var KafkaModule = fx.Module("kafka",
	fx.Provide(
		NewMessageWriter,
	),
)

// NewMessageWriter logs events instead of publishing when no brokers are set.
func NewMessageWriter(lc fx.Lifecycle, cfg config.Config) worker.MessageWriter {
	var writer worker.MessageWriter
	if cfg.Kafka.Enabled() {
		writer = worker.NewKafkaWriter(cfg.Kafka)
	} else {
		slog.Info("kafka brokers not configured, booking events are logged only")
		writer = worker.NewLogWriter()
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return writer.Close()
		},
	})
	return writer
}
