package repository

import (
	"context"
	"strconv"
	"time"

	"rental-booking/internal/infra"
	"rental-booking/internal/infra/db"

	"github.com/google/uuid"
)

type LockRepository struct{}

func NewLockRepository() *LockRepository {
	return &LockRepository{}
}

// LockProperty takes a transaction-scoped advisory lock keyed by the
// property id. lock_timeout bounds the wait; a timeout surfaces as
// KindLockTimeout.
func (r *LockRepository) LockProperty(ctx context.Context, tx db.DBTX, propertyID uuid.UUID, timeout time.Duration) error {
	if timeout > 0 {
		if _, err := tx.Exec(ctx, `SELECT set_config('lock_timeout', $1, true)`, strconv.FormatInt(timeout.Milliseconds(), 10)+"ms"); err != nil {
			return infra.WrapRepoErr("failed to set lock timeout", err)
		}
	}

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`, propertyID.String()); err != nil {
		return infra.WrapRepoErr("failed to lock property", err)
	}
	return nil
}
