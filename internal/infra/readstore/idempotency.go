package readstore

import (
	"context"
	"time"

	"rental-booking/internal/infra"
	"rental-booking/internal/infra/db"
	"rental-booking/internal/pkg/pgconv"
	"rental-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type IdempotencyReadStore struct {
	db db.DBTX
}

func NewIdempotencyReadStore(db db.DBTX) *IdempotencyReadStore {
	return &IdempotencyReadStore{db: db}
}

func (r *IdempotencyReadStore) Get(ctx context.Context, key uuid.UUID, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	var (
		record   shared.IdempotencyRecord
		resultID pgtype.UUID
	)
	err := r.db.QueryRow(ctx, `
		SELECT key, user_id, status, request_hash, result_booking_id, expires_at
		FROM idempotency_keys WHERE key = $1 AND user_id = $2`, key, userID,
	).Scan(&record.Key, &record.UserID, &record.Status, &record.RequestHash, &resultID, &record.ExpiresAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}
	record.ResultBookingID = pgconv.UUIDPtrFromPgtype(resultID)

	if time.Now().After(record.ExpiresAt) {
		return nil, infra.WrapRepoErr("idempotency key expired", nil, infra.KindNotFound)
	}

	return &record, nil
}
