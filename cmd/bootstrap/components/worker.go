package components

import (
	"context"
	"sync"

	"rental-booking/internal/infra/worker"
	"rental-booking/internal/pkg/clock"
	"rental-booking/internal/pkg/config"
	"rental-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		func(uow shared.UnitOfWork, w worker.MessageWriter, clk clock.Clock, cfg config.Config) *worker.OutboxRelay {
			return worker.NewOutboxRelay(uow, w, clk, cfg.Kafka, worker.DefaultRetryPolicy())
		},
		func(uow shared.UnitOfWork, clk clock.Clock, cfg config.Config) *worker.IdempotencySweeper {
			return worker.NewIdempotencySweeper(uow, clk, cfg.Booking.SweepInterval)
		},
	),
	fx.Invoke(runWorkers),
)

// runWorkers ties background loops to the app lifecycle. OnStop waits for
// in-flight flushes so the writer is not closed under them.
func runWorkers(lc fx.Lifecycle, relay *worker.OutboxRelay, sweeper *worker.IdempotencySweeper) {
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			wg.Add(2)
			go func() {
				defer wg.Done()
				relay.Run(ctx)
			}()
			go func() {
				defer wg.Done()
				sweeper.Run(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			done := make(chan struct{})
			go func() {
				wg.Wait()
				close(done)
			}()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
