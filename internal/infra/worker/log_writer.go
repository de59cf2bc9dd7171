package worker

import (
	"context"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

// LogWriter stands in for Kafka when no brokers are configured, so the outbox
// still drains in local setups.
type LogWriter struct{}

func NewLogWriter() *LogWriter {
	return &LogWriter{}
}

func (LogWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		slog.Info("booking event", "topic", m.Topic, "key", string(m.Key), "payload", string(m.Value))
	}
	return nil
}

func (LogWriter) Close() error {
	return nil
}
