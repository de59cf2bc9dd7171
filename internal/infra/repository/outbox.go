package repository

import (
	"context"
	"time"

	"rental-booking/internal/infra"
	"rental-booking/internal/infra/db"
	"rental-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	outboxQueued = "queued"
	outboxSent   = "sent"
	outboxFailed = "failed"
)

type OutboxRepository struct{}

func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{}
}

func (r *OutboxRepository) Enqueue(ctx context.Context, tx db.DBTX, event shared.OutboxEvent) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO outbox_events (topic, event_key, payload, status, run_at)
		VALUES ($1, $2, $3, $4, $5)`,
		event.Topic, event.Key, event.Payload, outboxQueued, event.RunAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue outbox event", err)
	}
	return nil
}

// ClaimBatch locks due events so concurrent relays skip each other's rows.
func (r *OutboxRepository) ClaimBatch(ctx context.Context, tx db.DBTX, limit int, now time.Time) ([]shared.OutboxEvent, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, topic, event_key, payload, attempts, run_at
		FROM outbox_events
		WHERE status = $1 AND run_at <= $2
		ORDER BY run_at
		LIMIT $3
		FOR UPDATE SKIP LOCKED`,
		outboxQueued, now, limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim outbox events", err)
	}

	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (shared.OutboxEvent, error) {
		var e shared.OutboxEvent
		err := row.Scan(&e.ID, &e.Topic, &e.Key, &e.Payload, &e.Attempts, &e.RunAt)
		return e, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read outbox events", err)
	}
	return events, nil
}

func (r *OutboxRepository) MarkSent(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE outbox_events SET status = $2, attempts = attempts + 1, last_error = NULL, updated_at = now()
		WHERE id = $1`, id, outboxSent)
	if err != nil {
		return infra.WrapRepoErr("failed to mark outbox event sent", err)
	}
	return nil
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, tx db.DBTX, id uuid.UUID, lastError string, retryAt time.Time, giveUp bool) error {
	status := outboxQueued
	if giveUp {
		status = outboxFailed
	}
	_, err := tx.Exec(ctx, `
		UPDATE outbox_events
		SET status = $2, attempts = attempts + 1, last_error = $3, run_at = $4, updated_at = now()
		WHERE id = $1`, id, status, lastError, retryAt)
	if err != nil {
		return infra.WrapRepoErr("failed to mark outbox event failed", err)
	}
	return nil
}
