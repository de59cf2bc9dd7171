//go:build unit || e2e

package builder

import (
	"time"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/domain/property"
	reqdto "rental-booking/internal/handler/dto/request"
	"rental-booking/internal/pkg/clock"
	"rental-booking/internal/usecase/queries"
	"rental-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

var BaseDate = time.Date(2030, time.January, 10, 0, 0, 0, 0, time.UTC)

type BookingBuilder struct {
	ID            uuid.UUID
	PropertyID    uuid.UUID
	PropertyTitle string
	UserID        uuid.UUID
	Start         time.Time
	End           time.Time
	PriceCents    int64
	PricingUnit   property.PricingUnit
	Bookable      bool
	PaymentType   booking.PaymentType
	PaymentStatus booking.PaymentStatus
	IntentID      *string
	Now           time.Time
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		ID:            uuid.New(),
		PropertyID:    uuid.New(),
		PropertyTitle: "Seaside Cottage",
		UserID:        uuid.New(),
		Start:         BaseDate,
		End:           BaseDate.AddDate(0, 0, 5),
		PriceCents:    10000,
		PricingUnit:   property.PerDay,
		Bookable:      true,
		PaymentType:   booking.PaymentFull,
		PaymentStatus: booking.StatusPending,
		Now:           BaseDate.AddDate(0, -1, 0),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) WithDates(start, end time.Time) *BookingBuilder {
	b.Start = start
	b.End = end
	return b
}

func (b *BookingBuilder) WithNights(n int) *BookingBuilder {
	b.End = b.Start.AddDate(0, 0, n)
	return b
}

func (b *BookingBuilder) WithRate(priceCents int64, unit property.PricingUnit) *BookingBuilder {
	b.PriceCents = priceCents
	b.PricingUnit = unit
	return b
}

func (b *BookingBuilder) WithPaymentType(t booking.PaymentType) *BookingBuilder {
	b.PaymentType = t
	return b
}

func (b *BookingBuilder) WithStatus(s booking.PaymentStatus) *BookingBuilder {
	b.PaymentStatus = s
	return b
}

func (b *BookingBuilder) WithUser(id uuid.UUID) *BookingBuilder {
	b.UserID = id
	return b
}

func (b *BookingBuilder) AsSaleListing() *BookingBuilder {
	b.Bookable = false
	return b
}

func (b *BookingBuilder) Services() *booking.Services {
	return &booking.Services{
		Clock:           clock.NewFakeClock(b.Now),
		PriceCalculator: booking.NewFairPriceCalculator(),
	}
}

func (b *BookingBuilder) PropertySpec() booking.PropertySpec {
	return booking.PropertySpec{
		ID:       b.PropertyID,
		Bookable: b.Bookable,
		Rate:     booking.RateSpec{PriceCents: b.PriceCents, PricingUnit: b.PricingUnit},
	}
}

// Build methods
func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	stay, err := booking.NewDateRange(b.Start, b.End)
	if err != nil {
		return nil, err
	}
	return booking.NewBooking(b.Services(), b.PropertySpec(), b.UserID, stay, b.PaymentType)
}

// BuildStored returns the booking as it would be loaded back from storage,
// keeping the builder's id and status.
func (b *BookingBuilder) BuildStored() *booking.Booking {
	stay, err := booking.NewDateRange(b.Start, b.End)
	if err != nil {
		panic(err)
	}
	quote, err := booking.NewFairPriceCalculator().Calculate(
		booking.RateSpec{PriceCents: b.PriceCents, PricingUnit: b.PricingUnit}, stay, b.PaymentType)
	if err != nil {
		panic(err)
	}
	return booking.ReconstructBooking(
		b.ID, b.PropertyID, b.UserID, stay,
		quote.TotalPrice, quote.DepositAmount, quote.RemainingBalance,
		b.PaymentType, b.PaymentStatus, b.IntentID, b.Now, b.Now,
	)
}

func (b *BookingBuilder) BuildPropertySnapshot() *shared.PropertySnapshot {
	listing := property.ListingRent
	if !b.Bookable {
		listing = property.ListingSale
	}
	return &shared.PropertySnapshot{
		ID:          b.PropertyID,
		OwnerID:     uuid.New(),
		Title:       b.PropertyTitle,
		ListingType: listing.String(),
		PriceCents:  b.PriceCents,
		PricingUnit: b.PricingUnit.String(),
	}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	stored := b.BuildStored()
	return &queries.BookingView{
		ID:                    stored.ID(),
		PropertyID:            stored.PropertyID(),
		PropertyTitle:         b.PropertyTitle,
		UserID:                stored.UserID(),
		StartDate:             stored.Stay().Start(),
		EndDate:               stored.Stay().End(),
		TotalPriceCents:       stored.TotalPrice().Cents(),
		DepositAmountCents:    stored.DepositAmount().Cents(),
		RemainingBalanceCents: stored.RemainingBalance().Cents(),
		PaymentType:           stored.PaymentType().String(),
		PaymentStatus:         stored.PaymentStatus().String(),
		PaymentIntentID:       stored.PaymentIntentID(),
		CreatedAt:             stored.CreatedAt(),
		UpdatedAt:             stored.UpdatedAt(),
	}
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		StartDate:   b.Start.Format(booking.DateLayout),
		EndDate:     b.End.Format(booking.DateLayout),
		PaymentType: b.PaymentType.String(),
	}
}

func (b *BookingBuilder) BuildUpdateRequestDTO() reqdto.UpdateBookingRequest {
	return reqdto.UpdateBookingRequest{
		StartDate: b.Start.Format(booking.DateLayout),
		EndDate:   b.End.Format(booking.DateLayout),
	}
}
