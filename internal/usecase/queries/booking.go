package queries

import (
	"context"
	"log/slog"
	"time"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/domain/property"
	"rental-booking/internal/infra"
	"rental-booking/internal/pkg/errs"
	"rental-booking/internal/pkg/metrics"

	"github.com/google/uuid"
)

type BookingQueries interface {
	// GetByID returns the booking only to its owner.
	GetByID(ctx context.Context, bookingID, userID uuid.UUID) (*BookingView, error)
	// GetByIDSystem skips the owner check; used for read-after-write and replays.
	GetByIDSystem(ctx context.Context, bookingID uuid.UUID) (*BookingView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*BookingView, error)
	BookedDates(ctx context.Context, propertyID uuid.UUID) ([]BookedRange, error)
	Quote(ctx context.Context, propertyID uuid.UUID, stay booking.DateRange, paymentType booking.PaymentType) (*QuoteView, error)
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*BookingView, error)
	BookedRanges(ctx context.Context, propertyID uuid.UUID) ([]BookedRange, error)
}

// BookedDatesLookup carries the invalidation generation seen at read time.
type BookedDatesLookup struct {
	Ranges     []BookedRange
	Hit        bool
	Generation int64
}

// BookedDatesCache refills are conditional: Set drops the ranges when an
// invalidation happened after the Get that returned generation.
type BookedDatesCache interface {
	Get(ctx context.Context, propertyID uuid.UUID) (BookedDatesLookup, error)
	Set(ctx context.Context, propertyID uuid.UUID, generation int64, ranges []BookedRange) error
}

type bookingQueriesImpl struct {
	readStore      BookingReadStore
	propertyStore  PropertyReadStore
	cache          BookedDatesCache
	calculator     booking.PriceCalculator
	storageTimeout time.Duration
}

func NewBookingQueries(
	readStore BookingReadStore,
	propertyStore PropertyReadStore,
	cache BookedDatesCache,
	calculator booking.PriceCalculator,
	storageTimeout time.Duration,
) BookingQueries {
	return &bookingQueriesImpl{
		readStore:      readStore,
		propertyStore:  propertyStore,
		cache:          cache,
		calculator:     calculator,
		storageTimeout: storageTimeout,
	}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, bookingID, userID uuid.UUID) (*BookingView, error) {
	view, err := q.GetByIDSystem(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if view.UserID != userID {
		return nil, errs.ErrNotBookingOwner
	}

	return view, nil
}

func (q *bookingQueriesImpl) GetByIDSystem(ctx context.Context, bookingID uuid.UUID) (*BookingView, error) {
	ctx, cancel := context.WithTimeout(ctx, q.storageTimeout)
	defer cancel()

	view, err := q.readStore.FindByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, errs.Mark(err, errs.ErrStorageUnavailable)
	}

	return view, nil
}

func (q *bookingQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*BookingView, error) {
	ctx, cancel := context.WithTimeout(ctx, q.storageTimeout)
	defer cancel()

	views, err := q.readStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrStorageUnavailable)
	}
	if views == nil {
		views = []*BookingView{}
	}

	return views, nil
}

// BookedDates serves from the cache when it can. Cache failures fall through
// to the database.
func (q *bookingQueriesImpl) BookedDates(ctx context.Context, propertyID uuid.UUID) ([]BookedRange, error) {
	ctx, cancel := context.WithTimeout(ctx, q.storageTimeout)
	defer cancel()

	lookup, cacheErr := q.cache.Get(ctx, propertyID)
	switch {
	case cacheErr != nil:
		metrics.IncCache("error")
		slog.Warn("booked dates cache read failed", "property_id", propertyID, "error", cacheErr.Error())
	case lookup.Hit:
		metrics.IncCache("hit")
		return lookup.Ranges, nil
	default:
		metrics.IncCache("miss")
	}

	ranges, err := q.readStore.BookedRanges(ctx, propertyID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrStorageUnavailable)
	}
	if ranges == nil {
		ranges = []BookedRange{}
	}

	if cacheErr != nil {
		return ranges, nil
	}
	if err := q.cache.Set(ctx, propertyID, lookup.Generation, ranges); err != nil {
		slog.Warn("booked dates cache write failed", "property_id", propertyID, "error", err.Error())
	}

	return ranges, nil
}

func (q *bookingQueriesImpl) Quote(
	ctx context.Context,
	propertyID uuid.UUID,
	stay booking.DateRange,
	paymentType booking.PaymentType,
) (*QuoteView, error) {
	ctx, cancel := context.WithTimeout(ctx, q.storageTimeout)
	defer cancel()

	prop, err := q.propertyStore.FindByID(ctx, propertyID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrPropertyNotFound)
		}
		return nil, errs.Mark(err, errs.ErrStorageUnavailable)
	}

	if property.ListingType(prop.ListingType) != property.ListingRent {
		return nil, errs.Mark(booking.ErrPropertyNotBookable, errs.ErrValidation)
	}

	quote, err := q.calculator.Calculate(booking.RateSpec{
		PriceCents:  prop.PriceCents,
		PricingUnit: property.PricingUnit(prop.PricingUnit),
	}, stay, paymentType)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	return &QuoteView{
		PropertyID:            propertyID,
		StartDate:             stay.Start(),
		EndDate:               stay.End(),
		Nights:                quote.Nights,
		PaymentType:           paymentType.String(),
		TotalPriceCents:       quote.TotalPrice.Cents(),
		DepositAmountCents:    quote.DepositAmount.Cents(),
		RemainingBalanceCents: quote.RemainingBalance.Cents(),
		PaidAmountCents:       quote.PaidAmount.Cents(),
	}, nil
}
