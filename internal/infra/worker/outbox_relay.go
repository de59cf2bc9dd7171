package worker

import (
	"context"
	"log/slog"
	"time"

	"rental-booking/internal/pkg/clock"
	"rental-booking/internal/pkg/config"
	"rental-booking/internal/pkg/errs"
	"rental-booking/internal/pkg/metrics"
	"rental-booking/internal/usecase/shared"

	"github.com/segmentio/kafka-go"
)

const maxErrorLength = 500

// MessageWriter is the subset of *kafka.Writer the relay needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewKafkaWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
		Logger:                 kafka.LoggerFunc(func(string, ...any) {}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			slog.Error("kafka writer error", "detail", msg, "args", args)
		}),
	}
}

// OutboxRelay publishes booking events written by the command side. Events
// are claimed with SKIP LOCKED, so several relays may run side by side.
type OutboxRelay struct {
	uow      shared.UnitOfWork
	writer   MessageWriter
	clock    clock.Clock
	retry    RetryPolicy
	prefix   string
	interval time.Duration
	batch    int
}

func NewOutboxRelay(uow shared.UnitOfWork, writer MessageWriter, clk clock.Clock, cfg config.KafkaConfig, retry RetryPolicy) *OutboxRelay {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 50
	}
	interval := cfg.RelayInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &OutboxRelay{
		uow:      uow,
		writer:   writer,
		clock:    clk,
		retry:    retry,
		prefix:   cfg.TopicPrefix,
		interval: interval,
		batch:    batch,
	}
}

// Run flushes on every tick until ctx is done.
func (r *OutboxRelay) Run(ctx context.Context) {
	slog.Info("outbox relay started", "interval", r.interval.String(), "batch", r.batch)
	defer slog.Info("outbox relay stopped")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.Flush(ctx); err != nil && ctx.Err() == nil {
				slog.Error("outbox flush failed", "error", err.Error())
			}
		}
	}
}

// Flush publishes one batch and returns how many events were sent. The
// claimed rows stay locked until their status is written back.
func (r *OutboxRelay) Flush(ctx context.Context) (int, error) {
	sent := 0
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sent = 0
		now := r.clock.Now()

		events, err := tx.Outbox().ClaimBatch(ctx, tx.DB(), r.batch, now)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}

		msgs := make([]kafka.Message, 0, len(events))
		for _, e := range events {
			msgs = append(msgs, r.toMessage(e))
		}

		if writeErr := r.writer.WriteMessages(ctx, msgs...); writeErr != nil {
			return r.markFailed(ctx, tx, events, writeErr, now)
		}

		for _, e := range events {
			if err := tx.Outbox().MarkSent(ctx, tx.DB(), e.ID); err != nil {
				return err
			}
			metrics.IncOutbox("sent")
		}
		sent = len(events)
		return nil
	})
	if err != nil {
		return 0, errs.Wrap(err, "flush outbox")
	}
	return sent, nil
}

func (r *OutboxRelay) markFailed(ctx context.Context, tx shared.Tx, events []shared.OutboxEvent, cause error, now time.Time) error {
	lastError := cause.Error()
	if len(lastError) > maxErrorLength {
		lastError = lastError[:maxErrorLength]
	}

	for _, e := range events {
		attempts := e.Attempts + 1
		giveUp := r.retry.Exhausted(attempts)
		retryAt := now.Add(r.retry.NextDelay(attempts))

		if err := tx.Outbox().MarkFailed(ctx, tx.DB(), e.ID, lastError, retryAt, giveUp); err != nil {
			return err
		}

		if giveUp {
			metrics.IncOutbox("dead")
			slog.Error("outbox event dropped after retries", "event_id", e.ID, "topic", e.Topic, "attempts", attempts)
		} else {
			metrics.IncOutbox("retry")
		}
	}

	slog.Warn("outbox publish failed", "events", len(events), "error", lastError)
	return nil
}

func (r *OutboxRelay) toMessage(e shared.OutboxEvent) kafka.Message {
	topic := e.Topic
	if r.prefix != "" {
		topic = r.prefix + "." + e.Topic
	}
	return kafka.Message{
		Topic: topic,
		Key:   []byte(e.Key),
		Value: e.Payload,
		Time:  e.RunAt,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(e.ID.String())},
		},
	}
}
