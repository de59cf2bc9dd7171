package repository

import (
	"context"
	"time"

	"rental-booking/internal/infra"
	"rental-booking/internal/infra/db"
	"rental-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type IdempotencyRepository struct{}

func NewIdempotencyRepository() *IdempotencyRepository {
	return &IdempotencyRepository{}
}

func (r *IdempotencyRepository) TryInsert(
	ctx context.Context,
	tx db.DBTX,
	key, userID uuid.UUID,
	endpoint, requestHash string,
	expiresAt time.Time,
) (bool, error) {
	tag, err := tx.Exec(ctx, `
		INSERT INTO idempotency_keys (key, user_id, endpoint, request_hash, status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (key, user_id) DO UPDATE
		SET endpoint = EXCLUDED.endpoint,
		    request_hash = EXCLUDED.request_hash,
		    status = EXCLUDED.status,
		    result_booking_id = NULL,
		    expires_at = EXCLUDED.expires_at,
		    updated_at = now()
		WHERE idempotency_keys.expires_at < now()`,
		key, userID, endpoint, requestHash, shared.IdempotencyProcessing, expiresAt,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to try insert idempotency key", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *IdempotencyRepository) MarkCompleted(ctx context.Context, tx db.DBTX, key, userID, bookingID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE idempotency_keys
		SET status = $3, result_booking_id = $4, updated_at = now()
		WHERE key = $1 AND user_id = $2`,
		key, userID, shared.IdempotencyCompleted, bookingID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update idempotency key status", err)
	}
	return nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context, tx db.DBTX, now time.Time) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM idempotency_keys WHERE expires_at < $1`, now)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency keys", err)
	}
	return tag.RowsAffected(), nil
}
