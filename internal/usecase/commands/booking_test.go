//go:build unit

package commands_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"rental-booking/internal/domain/booking"
	reqdto "rental-booking/internal/handler/dto/request"
	"rental-booking/internal/infra"
	"rental-booking/internal/infra/db"
	commandsmock "rental-booking/internal/mock/commands"
	queriesmock "rental-booking/internal/mock/queries"
	"rental-booking/internal/pkg/config"
	"rental-booking/internal/pkg/errs"
	"rental-booking/internal/testutil/builder"
	"rental-booking/internal/testutil/uowtest"
	"rental-booking/internal/usecase/commands"
	"rental-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type bookingFixture struct {
	m           *uowtest.Mocks
	queries     *queriesmock.MockBookingQueries
	invalidator *commandsmock.MockBookedDatesInvalidator
	b           *builder.BookingBuilder
	sut         commands.BookingCommands
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &bookingFixture{
		m:           uowtest.New(ctrl),
		queries:     queriesmock.NewMockBookingQueries(ctrl),
		invalidator: commandsmock.NewMockBookedDatesInvalidator(ctrl),
		b:           builder.NewBookingBuilder(),
	}
	f.sut = commands.NewBookingCommands(f.m.UoW, f.queries, f.invalidator, f.b.Services(), config.NewTestConfig().Booking)
	return f
}

func pgErr(code, constraint string) error {
	return infra.WrapRepoErr("op failed", &pgconn.PgError{Code: code, ConstraintName: constraint})
}

func TestBookingCommands_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("prices the stay and writes booking and event in one transaction", func(t *testing.T) {
		f := newBookingFixture(t)
		req := f.b.BuildCreateRequestDTO()
		newID := uuid.New()

		f.m.Reads.EXPECT().PropertyByID(gomock.Any(), f.b.PropertyID).Return(f.b.BuildPropertySnapshot(), nil)
		f.m.Locks.EXPECT().LockProperty(gomock.Any(), gomock.Any(), f.b.PropertyID, 3*time.Second).Return(nil)
		f.m.Bookings.EXPECT().FindConflicts(gomock.Any(), gomock.Any(), f.b.PropertyID, gomock.Any(), (*uuid.UUID)(nil)).Return(nil, nil)
		f.m.Bookings.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.DBTX, b *booking.Booking) (uuid.UUID, error) {
				assert.Equal(t, int64(50000), b.TotalPrice().Cents())
				assert.Equal(t, booking.StatusPending, b.PaymentStatus())
				assert.Equal(t, f.b.UserID, b.UserID())
				return newID, nil
			})
		f.m.Outbox.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.DBTX, e shared.OutboxEvent) error {
				var payload map[string]any
				require.NoError(t, json.Unmarshal(e.Payload, &payload))
				assert.Equal(t, "booking.created", payload["type"])
				assert.Equal(t, newID.String(), e.Key)
				return nil
			})
		f.invalidator.EXPECT().Invalidate(gomock.Any(), f.b.PropertyID).Return(nil)
		f.queries.EXPECT().GetByIDSystem(gomock.Any(), newID).Return(f.b.BuildView(), nil)

		result, err := f.sut.Create(ctx, f.b.PropertyID, f.b.UserID, req, nil)
		require.NoError(t, err)
		assert.False(t, result.IsReplayed)
		assert.NotNil(t, result.Booking)
	})

	t.Run("overlapping dates are rejected and nothing is written", func(t *testing.T) {
		f := newBookingFixture(t)

		f.m.Reads.EXPECT().PropertyByID(gomock.Any(), f.b.PropertyID).Return(f.b.BuildPropertySnapshot(), nil)
		f.m.Locks.EXPECT().LockProperty(gomock.Any(), gomock.Any(), f.b.PropertyID, gomock.Any()).Return(nil)
		f.m.Bookings.EXPECT().FindConflicts(gomock.Any(), gomock.Any(), f.b.PropertyID, gomock.Any(), gomock.Any()).
			Return([]uuid.UUID{uuid.New()}, nil)

		_, err := f.sut.Create(ctx, f.b.PropertyID, f.b.UserID, f.b.BuildCreateRequestDTO(), nil)
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrDateConflict))
	})

	t.Run("exclusion constraint backstop maps to a date conflict", func(t *testing.T) {
		f := newBookingFixture(t)

		f.m.Reads.EXPECT().PropertyByID(gomock.Any(), gomock.Any()).Return(f.b.BuildPropertySnapshot(), nil)
		f.m.Locks.EXPECT().LockProperty(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.m.Bookings.EXPECT().FindConflicts(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		f.m.Bookings.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(uuid.Nil, pgErr("23P01", "bookings_no_overlap"))

		_, err := f.sut.Create(ctx, f.b.PropertyID, f.b.UserID, f.b.BuildCreateRequestDTO(), nil)
		assert.True(t, errs.Is(err, errs.ErrDateConflict))
	})

	t.Run("fails closed when availability cannot be checked", func(t *testing.T) {
		cases := []struct {
			name      string
			lockErr   error
			findErr   error
			expectRun bool
		}{
			{name: "lock timeout", lockErr: pgErr("55P03", "")},
			{name: "conflict query error", findErr: errors.New("connection reset"), expectRun: true},
			{name: "conflict query deadline", findErr: infra.WrapRepoErr("q", context.DeadlineExceeded), expectRun: true},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				f := newBookingFixture(t)
				f.m.Reads.EXPECT().PropertyByID(gomock.Any(), gomock.Any()).Return(f.b.BuildPropertySnapshot(), nil)
				f.m.Locks.EXPECT().LockProperty(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(tc.lockErr)
				if tc.expectRun {
					f.m.Bookings.EXPECT().FindConflicts(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
						Return(nil, tc.findErr)
				}

				_, err := f.sut.Create(ctx, f.b.PropertyID, f.b.UserID, f.b.BuildCreateRequestDTO(), nil)
				require.Error(t, err)
				assert.True(t, errs.Is(err, errs.ErrAvailabilityUnknown))
			})
		}
	})

	t.Run("validation failures never open a transaction", func(t *testing.T) {
		f := newBookingFixture(t)

		req := f.b.BuildCreateRequestDTO()
		req.EndDate = req.StartDate
		_, err := f.sut.Create(ctx, f.b.PropertyID, f.b.UserID, req, nil)
		assert.True(t, errs.Is(err, errs.ErrValidation))
		assert.True(t, errs.Is(err, booking.ErrInvalidDateRange))

		req = f.b.BuildCreateRequestDTO()
		req.PaymentType = "pay_twice"
		_, err = f.sut.Create(ctx, f.b.PropertyID, f.b.UserID, req, nil)
		assert.True(t, errs.Is(err, errs.ErrValidation))
	})

	t.Run("sale listings cannot be booked", func(t *testing.T) {
		f := newBookingFixture(t)
		f.b.AsSaleListing()
		f.m.Reads.EXPECT().PropertyByID(gomock.Any(), gomock.Any()).Return(f.b.BuildPropertySnapshot(), nil)

		_, err := f.sut.Create(ctx, f.b.PropertyID, f.b.UserID, f.b.BuildCreateRequestDTO(), nil)
		assert.True(t, errs.Is(err, errs.ErrValidation))
		assert.True(t, errs.Is(err, booking.ErrPropertyNotBookable))
	})

	t.Run("unknown property", func(t *testing.T) {
		f := newBookingFixture(t)
		f.m.Reads.EXPECT().PropertyByID(gomock.Any(), gomock.Any()).
			Return(nil, infra.WrapRepoErr("property not found", nil, infra.KindNotFound))

		_, err := f.sut.Create(ctx, f.b.PropertyID, f.b.UserID, f.b.BuildCreateRequestDTO(), nil)
		assert.True(t, errs.Is(err, errs.ErrPropertyNotFound))
	})
}

func TestBookingCommands_Create_Idempotency(t *testing.T) {
	ctx := context.Background()
	key := uuid.New()

	// first call stores the key and reports the request hash it used
	firstCall := func(t *testing.T, f *bookingFixture, req reqdto.CreateBookingRequest) (string, uuid.UUID) {
		var hash string
		newID := uuid.New()

		f.m.Idempotency.EXPECT().TryInsert(gomock.Any(), gomock.Any(), key, f.b.UserID, gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.DBTX, _, _ uuid.UUID, _, requestHash string, _ time.Time) (bool, error) {
				hash = requestHash
				return true, nil
			})
		f.m.Reads.EXPECT().PropertyByID(gomock.Any(), gomock.Any()).Return(f.b.BuildPropertySnapshot(), nil)
		f.m.Locks.EXPECT().LockProperty(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.m.Bookings.EXPECT().FindConflicts(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		f.m.Bookings.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(newID, nil)
		f.m.Outbox.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.m.Idempotency.EXPECT().MarkCompleted(gomock.Any(), gomock.Any(), key, f.b.UserID, newID).Return(nil)
		f.invalidator.EXPECT().Invalidate(gomock.Any(), gomock.Any()).Return(nil)
		f.queries.EXPECT().GetByIDSystem(gomock.Any(), newID).Return(f.b.BuildView(), nil)

		result, err := f.sut.Create(ctx, f.b.PropertyID, f.b.UserID, req, &key)
		require.NoError(t, err)
		require.False(t, result.IsReplayed)
		return hash, newID
	}

	t.Run("same key and payload replays the stored booking", func(t *testing.T) {
		f := newBookingFixture(t)
		req := f.b.BuildCreateRequestDTO()
		hash, id := firstCall(t, f, req)

		f.m.Idempotency.EXPECT().TryInsert(gomock.Any(), gomock.Any(), key, f.b.UserID, gomock.Any(), hash, gomock.Any()).Return(false, nil)
		f.m.Reads.EXPECT().IdempotencyByKey(gomock.Any(), key, f.b.UserID).Return(&shared.IdempotencyRecord{
			Key: key, UserID: f.b.UserID, Status: shared.IdempotencyCompleted, RequestHash: hash, ResultBookingID: &id,
		}, nil)
		f.queries.EXPECT().GetByIDSystem(gomock.Any(), id).Return(f.b.BuildView(), nil)

		result, err := f.sut.Create(ctx, f.b.PropertyID, f.b.UserID, req, &key)
		require.NoError(t, err)
		assert.True(t, result.IsReplayed)
	})

	t.Run("client amounts do not change the fingerprint", func(t *testing.T) {
		f := newBookingFixture(t)
		req := f.b.BuildCreateRequestDTO()
		hash, _ := firstCall(t, f, req)

		paid := 123.45
		req.PaidAmount = &paid
		f.m.Idempotency.EXPECT().TryInsert(gomock.Any(), gomock.Any(), key, f.b.UserID, gomock.Any(), hash, gomock.Any()).Return(false, nil)
		f.m.Reads.EXPECT().IdempotencyByKey(gomock.Any(), key, f.b.UserID).Return(&shared.IdempotencyRecord{
			Status: shared.IdempotencyProcessing, RequestHash: hash,
		}, nil)

		_, err := f.sut.Create(ctx, f.b.PropertyID, f.b.UserID, req, &key)
		assert.True(t, errs.Is(err, errs.ErrIdempotencyInProgress))
	})

	t.Run("same key with a different payload is rejected", func(t *testing.T) {
		f := newBookingFixture(t)
		f.m.Idempotency.EXPECT().TryInsert(gomock.Any(), gomock.Any(), key, f.b.UserID, gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
		f.m.Reads.EXPECT().IdempotencyByKey(gomock.Any(), key, f.b.UserID).Return(&shared.IdempotencyRecord{
			Status: shared.IdempotencyCompleted, RequestHash: "something-else",
		}, nil)

		_, err := f.sut.Create(ctx, f.b.PropertyID, f.b.UserID, f.b.BuildCreateRequestDTO(), &key)
		assert.True(t, errs.Is(err, errs.ErrIdempotencyMismatch))
	})
}

func TestBookingCommands_Reschedule(t *testing.T) {
	ctx := context.Background()

	t.Run("excludes itself from the conflict scan and keeps the quoted price", func(t *testing.T) {
		f := newBookingFixture(t)
		stored := f.b.BuildStored()
		priceBefore := stored.TotalPrice()
		self := stored.ID()

		req := reqdto.UpdateBookingRequest{StartDate: "2030-01-12", EndDate: "2030-01-22"}

		f.m.Bookings.EXPECT().FindForUpdate(gomock.Any(), gomock.Any(), self).Return(stored, nil)
		f.m.Locks.EXPECT().LockProperty(gomock.Any(), gomock.Any(), f.b.PropertyID, gomock.Any()).Return(nil)
		f.m.Bookings.EXPECT().FindConflicts(gomock.Any(), gomock.Any(), f.b.PropertyID, gomock.Any(), &self).Return(nil, nil)
		f.m.Bookings.EXPECT().UpdateSchedule(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.DBTX, b *booking.Booking) error {
				assert.Equal(t, "[2030-01-12,2030-01-22)", b.Stay().String())
				assert.Equal(t, priceBefore, b.TotalPrice(), "price is not recomputed on reschedule")
				return nil
			})
		f.m.Outbox.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.invalidator.EXPECT().Invalidate(gomock.Any(), f.b.PropertyID).Return(nil)
		f.queries.EXPECT().GetByIDSystem(gomock.Any(), self).Return(f.b.BuildView(), nil)

		_, err := f.sut.Reschedule(ctx, self, f.b.UserID, req)
		require.NoError(t, err)
	})

	t.Run("other users are rejected before any lock is taken", func(t *testing.T) {
		f := newBookingFixture(t)
		stored := f.b.BuildStored()
		f.m.Bookings.EXPECT().FindForUpdate(gomock.Any(), gomock.Any(), stored.ID()).Return(stored, nil)

		_, err := f.sut.Reschedule(ctx, stored.ID(), uuid.New(), f.b.BuildUpdateRequestDTO())
		assert.True(t, errs.Is(err, errs.ErrNotBookingOwner))
	})

	t.Run("missing booking is not found", func(t *testing.T) {
		f := newBookingFixture(t)
		f.m.Bookings.EXPECT().FindForUpdate(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound))

		_, err := f.sut.Reschedule(ctx, uuid.New(), f.b.UserID, f.b.BuildUpdateRequestDTO())
		assert.True(t, errs.Is(err, errs.ErrBookingNotFound))
	})

	t.Run("conflict with another booking", func(t *testing.T) {
		f := newBookingFixture(t)
		stored := f.b.BuildStored()
		f.m.Bookings.EXPECT().FindForUpdate(gomock.Any(), gomock.Any(), gomock.Any()).Return(stored, nil)
		f.m.Locks.EXPECT().LockProperty(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.m.Bookings.EXPECT().FindConflicts(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]uuid.UUID{uuid.New()}, nil)

		_, err := f.sut.Reschedule(ctx, stored.ID(), f.b.UserID, f.b.BuildUpdateRequestDTO())
		assert.True(t, errs.Is(err, errs.ErrDateConflict))
	})
}

func TestBookingCommands_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("owner deletes the booking", func(t *testing.T) {
		f := newBookingFixture(t)
		stored := f.b.BuildStored()

		f.m.Bookings.EXPECT().FindForUpdate(gomock.Any(), gomock.Any(), stored.ID()).Return(stored, nil)
		f.m.Bookings.EXPECT().Delete(gomock.Any(), gomock.Any(), stored.ID()).Return(nil)
		f.m.Outbox.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.invalidator.EXPECT().Invalidate(gomock.Any(), f.b.PropertyID).Return(errors.New("redis down"))

		require.NoError(t, f.sut.Cancel(ctx, stored.ID(), f.b.UserID), "cache failures do not fail the cancel")
	})

	t.Run("other users cannot cancel", func(t *testing.T) {
		f := newBookingFixture(t)
		stored := f.b.BuildStored()
		f.m.Bookings.EXPECT().FindForUpdate(gomock.Any(), gomock.Any(), stored.ID()).Return(stored, nil)

		err := f.sut.Cancel(ctx, stored.ID(), uuid.New())
		assert.True(t, errs.Is(err, errs.ErrNotBookingOwner))
	})

	t.Run("storage failure is reported as unavailable", func(t *testing.T) {
		f := newBookingFixture(t)
		stored := f.b.BuildStored()
		f.m.Bookings.EXPECT().FindForUpdate(gomock.Any(), gomock.Any(), stored.ID()).Return(stored, nil)
		f.m.Bookings.EXPECT().Delete(gomock.Any(), gomock.Any(), stored.ID()).Return(pgErr("08006", ""))

		err := f.sut.Cancel(ctx, stored.ID(), f.b.UserID)
		assert.True(t, errs.Is(err, errs.ErrStorageUnavailable))
	})
}

func TestBookingCommands_ConfirmPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("moves forward and records the intent", func(t *testing.T) {
		f := newBookingFixture(t)
		stored := f.b.BuildStored()

		f.m.Bookings.EXPECT().FindForUpdate(gomock.Any(), gomock.Any(), stored.ID()).Return(stored, nil)
		f.m.Bookings.EXPECT().UpdatePayment(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.DBTX, b *booking.Booking) error {
				assert.Equal(t, booking.StatusPaid, b.PaymentStatus())
				assert.Equal(t, "pi_123", *b.PaymentIntentID())
				return nil
			})
		f.m.Outbox.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.queries.EXPECT().GetByIDSystem(gomock.Any(), stored.ID()).Return(f.b.BuildView(), nil)

		_, err := f.sut.ConfirmPayment(ctx, stored.ID(), f.b.UserID, reqdto.ConfirmBookingRequest{PaymentIntentID: "pi_123", Status: "paid"})
		require.NoError(t, err)
	})

	t.Run("backwards transition leaves the booking untouched", func(t *testing.T) {
		f := newBookingFixture(t)
		stored := f.b.WithStatus(booking.StatusPaid).BuildStored()
		f.m.Bookings.EXPECT().FindForUpdate(gomock.Any(), gomock.Any(), stored.ID()).Return(stored, nil)

		_, err := f.sut.ConfirmPayment(ctx, stored.ID(), f.b.UserID, reqdto.ConfirmBookingRequest{PaymentIntentID: "pi_1", Status: "pending"})
		assert.True(t, errs.Is(err, booking.ErrInvalidTransition))
	})

	t.Run("unknown status is a validation error", func(t *testing.T) {
		f := newBookingFixture(t)
		_, err := f.sut.ConfirmPayment(ctx, uuid.New(), f.b.UserID, reqdto.ConfirmBookingRequest{PaymentIntentID: "pi_1", Status: "refunded"})
		assert.True(t, errs.Is(err, errs.ErrValidation))
	})

	t.Run("intent already used by another booking", func(t *testing.T) {
		f := newBookingFixture(t)
		stored := f.b.BuildStored()
		f.m.Bookings.EXPECT().FindForUpdate(gomock.Any(), gomock.Any(), stored.ID()).Return(stored, nil)
		f.m.Bookings.EXPECT().UpdatePayment(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(pgErr("23505", "bookings_payment_intent_key"))

		_, err := f.sut.ConfirmPayment(ctx, stored.ID(), f.b.UserID, reqdto.ConfirmBookingRequest{PaymentIntentID: "pi_dup", Status: "paid"})
		assert.True(t, errs.Is(err, errs.ErrDuplicatePaymentIntent))
	})

	t.Run("other users cannot confirm", func(t *testing.T) {
		f := newBookingFixture(t)
		stored := f.b.BuildStored()
		f.m.Bookings.EXPECT().FindForUpdate(gomock.Any(), gomock.Any(), stored.ID()).Return(stored, nil)

		_, err := f.sut.ConfirmPayment(ctx, stored.ID(), uuid.New(), reqdto.ConfirmBookingRequest{PaymentIntentID: "pi_1", Status: "paid"})
		assert.True(t, errs.Is(err, errs.ErrNotBookingOwner))
	})
}

func TestBookingCommands_ApplyPaymentEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("applies the same transition as the client path", func(t *testing.T) {
		f := newBookingFixture(t)
		stored := f.b.WithPaymentType(booking.PaymentDeposit).BuildStored()

		f.m.Bookings.EXPECT().FindForUpdate(gomock.Any(), gomock.Any(), stored.ID()).Return(stored, nil)
		f.m.Bookings.EXPECT().UpdatePayment(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.DBTX, b *booking.Booking) error {
				assert.Equal(t, booking.StatusPartiallyPaid, b.PaymentStatus())
				return nil
			})
		f.m.Outbox.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		err := f.sut.ApplyPaymentEvent(ctx, &shared.PaymentEvent{
			Succeeded: true, IntentID: "pi_9", BookingID: stored.ID(), TargetStatus: "partially_paid",
		})
		require.NoError(t, err)
	})

	t.Run("non success events are ignored", func(t *testing.T) {
		f := newBookingFixture(t)
		require.NoError(t, f.sut.ApplyPaymentEvent(ctx, &shared.PaymentEvent{Type: "payment_intent.created"}))
	})

	t.Run("cancelled bookings are acknowledged", func(t *testing.T) {
		f := newBookingFixture(t)
		f.m.Bookings.EXPECT().FindForUpdate(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound))

		err := f.sut.ApplyPaymentEvent(ctx, &shared.PaymentEvent{Succeeded: true, IntentID: "pi_1", BookingID: uuid.New(), TargetStatus: "paid"})
		require.NoError(t, err)
	})

	t.Run("intent without a target status is acknowledged untouched", func(t *testing.T) {
		f := newBookingFixture(t)

		for _, target := range []string{"", "refunded"} {
			err := f.sut.ApplyPaymentEvent(ctx, &shared.PaymentEvent{Succeeded: true, IntentID: "pi_2", BookingID: uuid.New(), TargetStatus: target})
			require.NoError(t, err, target)
		}
	})

	t.Run("stale event after the client already confirmed more", func(t *testing.T) {
		f := newBookingFixture(t)
		stored := f.b.WithStatus(booking.StatusPaid).BuildStored()
		f.m.Bookings.EXPECT().FindForUpdate(gomock.Any(), gomock.Any(), stored.ID()).Return(stored, nil)

		err := f.sut.ApplyPaymentEvent(ctx, &shared.PaymentEvent{Succeeded: true, IntentID: "pi_1", BookingID: stored.ID(), TargetStatus: "partially_paid"})
		require.NoError(t, err)
	})
}
