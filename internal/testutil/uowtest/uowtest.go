//go:build unit

package uowtest

import (
	"context"

	sharedmock "rental-booking/internal/mock/shared"
	"rental-booking/internal/usecase/shared"

	"go.uber.org/mock/gomock"
)

// Mocks wires a mocked UnitOfWork whose transactions run the callback
// directly against mocked repositories.
type Mocks struct {
	UoW         *sharedmock.MockUnitOfWork
	Tx          *sharedmock.MockTx
	Reads       *sharedmock.MockCommandReads
	Bookings    *sharedmock.MockBookingRepository
	Properties  *sharedmock.MockPropertyRepository
	Users       *sharedmock.MockUserRepository
	Idempotency *sharedmock.MockIdempotencyRepository
	Outbox      *sharedmock.MockOutboxRepository
	Locks       *sharedmock.MockLockRepository
}

func New(ctrl *gomock.Controller) *Mocks {
	m := &Mocks{
		UoW:         sharedmock.NewMockUnitOfWork(ctrl),
		Tx:          sharedmock.NewMockTx(ctrl),
		Reads:       sharedmock.NewMockCommandReads(ctrl),
		Bookings:    sharedmock.NewMockBookingRepository(ctrl),
		Properties:  sharedmock.NewMockPropertyRepository(ctrl),
		Users:       sharedmock.NewMockUserRepository(ctrl),
		Idempotency: sharedmock.NewMockIdempotencyRepository(ctrl),
		Outbox:      sharedmock.NewMockOutboxRepository(ctrl),
		Locks:       sharedmock.NewMockLockRepository(ctrl),
	}

	m.UoW.EXPECT().Within(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, m.Tx)
		}).AnyTimes()
	m.UoW.EXPECT().CommandReads().Return(m.Reads).AnyTimes()

	m.Tx.EXPECT().DB().Return(nil).AnyTimes()
	m.Tx.EXPECT().Reads().Return(m.Reads).AnyTimes()
	m.Tx.EXPECT().Bookings().Return(m.Bookings).AnyTimes()
	m.Tx.EXPECT().Properties().Return(m.Properties).AnyTimes()
	m.Tx.EXPECT().Users().Return(m.Users).AnyTimes()
	m.Tx.EXPECT().Idempotency().Return(m.Idempotency).AnyTimes()
	m.Tx.EXPECT().Outbox().Return(m.Outbox).AnyTimes()
	m.Tx.EXPECT().Locks().Return(m.Locks).AnyTimes()

	return m
}
