package converter

import (
	"fmt"
	"time"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// BookingRow mirrors the bookings table minus the generated stay column.
type BookingRow struct {
	ID              uuid.UUID
	PropertyID      uuid.UUID
	UserID          uuid.UUID
	StartDate       pgtype.Date
	EndDate         pgtype.Date
	TotalPriceCents int64
	DepositCents    int64
	RemainingCents  int64
	PaymentType     string
	PaymentStatus   string
	PaymentIntentID pgtype.Text
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func BookingToInfra(b *booking.Booking) BookingRow {
	return BookingRow{
		ID:              b.ID(),
		PropertyID:      b.PropertyID(),
		UserID:          b.UserID(),
		StartDate:       pgconv.DateToPgtype(b.Stay().Start()),
		EndDate:         pgconv.DateToPgtype(b.Stay().End()),
		TotalPriceCents: b.TotalPrice().Cents(),
		DepositCents:    b.DepositAmount().Cents(),
		RemainingCents:  b.RemainingBalance().Cents(),
		PaymentType:     b.PaymentType().String(),
		PaymentStatus:   b.PaymentStatus().String(),
		PaymentIntentID: pgconv.StringPtrToPgtype(b.PaymentIntentID()),
		CreatedAt:       b.CreatedAt(),
		UpdatedAt:       b.UpdatedAt(),
	}
}

func BookingToDomain(row BookingRow) (*booking.Booking, error) {
	stay, err := booking.NewDateRange(pgconv.DateFromPgtype(row.StartDate), pgconv.DateFromPgtype(row.EndDate))
	if err != nil {
		return nil, fmt.Errorf("stored booking %s has invalid dates: %w", row.ID, err)
	}
	paymentType, err := booking.NewPaymentType(row.PaymentType)
	if err != nil {
		return nil, fmt.Errorf("stored booking %s: %w", row.ID, err)
	}
	status, err := booking.NewPaymentStatus(row.PaymentStatus)
	if err != nil {
		return nil, fmt.Errorf("stored booking %s: %w", row.ID, err)
	}

	return booking.ReconstructBooking(
		row.ID, row.PropertyID, row.UserID, stay,
		booking.NewMoney(row.TotalPriceCents),
		booking.NewMoney(row.DepositCents),
		booking.NewMoney(row.RemainingCents),
		paymentType, status,
		pgconv.StringPtrFromPgtype(row.PaymentIntentID),
		row.CreatedAt, row.UpdatedAt,
	), nil
}
