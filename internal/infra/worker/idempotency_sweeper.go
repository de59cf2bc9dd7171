package worker

import (
	"context"
	"log/slog"
	"time"

	"rental-booking/internal/pkg/clock"
	"rental-booking/internal/pkg/errs"
	"rental-booking/internal/usecase/shared"
)

// IdempotencySweeper deletes expired idempotency keys. Expired keys are
// already reclaimable on insert; this only keeps the table small.
type IdempotencySweeper struct {
	uow      shared.UnitOfWork
	clock    clock.Clock
	interval time.Duration
}

func NewIdempotencySweeper(uow shared.UnitOfWork, clk clock.Clock, interval time.Duration) *IdempotencySweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &IdempotencySweeper{uow: uow, clock: clk, interval: interval}
}

func (s *IdempotencySweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
				slog.Error("idempotency sweep failed", "error", err.Error())
			}
		}
	}
}

func (s *IdempotencySweeper) Sweep(ctx context.Context) (int64, error) {
	var deleted int64
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, err := tx.Idempotency().DeleteExpired(ctx, tx.DB(), s.clock.Now())
		deleted = n
		return err
	})
	if err != nil {
		return 0, errs.Wrap(err, "sweep idempotency keys")
	}
	if deleted > 0 {
		slog.Info("expired idempotency keys removed", "count", deleted)
	}
	return deleted, nil
}
