//go:build unit

package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/infra"
	queriesmock "rental-booking/internal/mock/queries"
	"rental-booking/internal/pkg/errs"
	"rental-booking/internal/testutil/builder"
	"rental-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type bookingQueriesFixture struct {
	store      *queriesmock.MockBookingReadStore
	properties *queriesmock.MockPropertyReadStore
	cache      *queriesmock.MockBookedDatesCache
	sut        queries.BookingQueries
}

func newBookingQueriesFixture(t *testing.T) *bookingQueriesFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &bookingQueriesFixture{
		store:      queriesmock.NewMockBookingReadStore(ctrl),
		properties: queriesmock.NewMockPropertyReadStore(ctrl),
		cache:      queriesmock.NewMockBookedDatesCache(ctrl),
	}
	f.sut = queries.NewBookingQueries(f.store, f.properties, f.cache, booking.NewFairPriceCalculator(), 5*time.Second)
	return f
}

func notFound() error {
	return infra.WrapRepoErr("not found", nil, infra.KindNotFound)
}

func TestBookingQueries_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("owner sees the booking", func(t *testing.T) {
		f := newBookingQueriesFixture(t)
		view := builder.NewBookingBuilder().BuildView()
		f.store.EXPECT().FindByID(gomock.Any(), view.ID).Return(view, nil)

		got, err := f.sut.GetByID(ctx, view.ID, view.UserID)
		require.NoError(t, err)
		assert.Equal(t, view, got)
	})

	t.Run("other users are forbidden", func(t *testing.T) {
		f := newBookingQueriesFixture(t)
		view := builder.NewBookingBuilder().BuildView()
		f.store.EXPECT().FindByID(gomock.Any(), view.ID).Return(view, nil)

		_, err := f.sut.GetByID(ctx, view.ID, uuid.New())
		assert.True(t, errs.Is(err, errs.ErrNotBookingOwner))
	})

	t.Run("missing booking", func(t *testing.T) {
		f := newBookingQueriesFixture(t)
		f.store.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(nil, notFound())

		_, err := f.sut.GetByID(ctx, uuid.New(), uuid.New())
		assert.True(t, errs.Is(err, errs.ErrBookingNotFound))
	})

	t.Run("storage failure", func(t *testing.T) {
		f := newBookingQueriesFixture(t)
		f.store.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(nil, errors.New("conn refused"))

		_, err := f.sut.GetByIDSystem(ctx, uuid.New())
		assert.True(t, errs.Is(err, errs.ErrStorageUnavailable))
	})
}

func TestBookingQueries_ListByUser(t *testing.T) {
	f := newBookingQueriesFixture(t)
	userID := uuid.New()
	f.store.EXPECT().ListByUser(gomock.Any(), userID).Return(nil, nil)

	got, err := f.sut.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBookingQueries_BookedDates(t *testing.T) {
	ctx := context.Background()
	propertyID := uuid.New()
	ranges := []queries.BookedRange{
		{StartDate: builder.BaseDate, EndDate: builder.BaseDate.AddDate(0, 0, 3)},
	}

	t.Run("cache hit skips the database", func(t *testing.T) {
		f := newBookingQueriesFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), propertyID).Return(queries.BookedDatesLookup{Ranges: ranges, Hit: true, Generation: 3}, nil)

		got, err := f.sut.BookedDates(ctx, propertyID)
		require.NoError(t, err)
		assert.Equal(t, ranges, got)
	})

	t.Run("miss loads and fills the cache", func(t *testing.T) {
		f := newBookingQueriesFixture(t)
		gomock.InOrder(
			f.cache.EXPECT().Get(gomock.Any(), propertyID).Return(queries.BookedDatesLookup{Generation: 4}, nil),
			f.store.EXPECT().BookedRanges(gomock.Any(), propertyID).Return(ranges, nil),
			f.cache.EXPECT().Set(gomock.Any(), propertyID, int64(4), ranges).Return(nil),
		)

		got, err := f.sut.BookedDates(ctx, propertyID)
		require.NoError(t, err)
		assert.Equal(t, ranges, got)
	})

	t.Run("cache read errors fall through to the database without a refill", func(t *testing.T) {
		f := newBookingQueriesFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), propertyID).Return(queries.BookedDatesLookup{}, errors.New("redis: connection refused"))
		f.store.EXPECT().BookedRanges(gomock.Any(), propertyID).Return(nil, nil)

		got, err := f.sut.BookedDates(ctx, propertyID)
		require.NoError(t, err)
		assert.Equal(t, []queries.BookedRange{}, got)
	})

	t.Run("database failure", func(t *testing.T) {
		f := newBookingQueriesFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), propertyID).Return(queries.BookedDatesLookup{}, nil)
		f.store.EXPECT().BookedRanges(gomock.Any(), propertyID).Return(nil, errors.New("timeout"))

		_, err := f.sut.BookedDates(ctx, propertyID)
		assert.True(t, errs.Is(err, errs.ErrStorageUnavailable))
	})

	t.Run("cache write errors still return the loaded ranges", func(t *testing.T) {
		f := newBookingQueriesFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), propertyID).Return(queries.BookedDatesLookup{}, nil)
		f.store.EXPECT().BookedRanges(gomock.Any(), propertyID).Return(ranges, nil)
		f.cache.EXPECT().Set(gomock.Any(), propertyID, int64(0), ranges).Return(errors.New("redis: connection refused"))

		got, err := f.sut.BookedDates(ctx, propertyID)
		require.NoError(t, err)
		assert.Equal(t, ranges, got)
	})
}

func TestBookingQueries_Quote(t *testing.T) {
	ctx := context.Background()
	propertyID := uuid.New()
	stay, err := booking.NewDateRange(builder.BaseDate, builder.BaseDate.AddDate(0, 0, 10))
	require.NoError(t, err)

	t.Run("weekly rate over ten nights", func(t *testing.T) {
		f := newBookingQueriesFixture(t)
		f.properties.EXPECT().FindByID(gomock.Any(), propertyID).Return(&queries.PropertyView{
			ID: propertyID, ListingType: "rent", PriceCents: 70000, PricingUnit: "Per Week",
		}, nil)

		got, err := f.sut.Quote(ctx, propertyID, stay, booking.PaymentDeposit)
		require.NoError(t, err)
		assert.Equal(t, 10, got.Nights)
		assert.Equal(t, int64(99100), got.TotalPriceCents)
		assert.Equal(t, int64(49550), got.DepositAmountCents)
		assert.Equal(t, int64(49550), got.RemainingBalanceCents)
	})

	t.Run("sale listing", func(t *testing.T) {
		f := newBookingQueriesFixture(t)
		total := int64(50000000)
		f.properties.EXPECT().FindByID(gomock.Any(), propertyID).Return(&queries.PropertyView{
			ID: propertyID, ListingType: "sale", TotalPriceCents: &total,
		}, nil)

		_, err := f.sut.Quote(ctx, propertyID, stay, booking.PaymentFull)
		assert.True(t, errs.Is(err, booking.ErrPropertyNotBookable))
		assert.True(t, errs.Is(err, errs.ErrValidation))
	})

	t.Run("unknown property", func(t *testing.T) {
		f := newBookingQueriesFixture(t)
		f.properties.EXPECT().FindByID(gomock.Any(), propertyID).Return(nil, notFound())

		_, err := f.sut.Quote(ctx, propertyID, stay, booking.PaymentFull)
		assert.True(t, errs.Is(err, errs.ErrPropertyNotFound))
	})
}
