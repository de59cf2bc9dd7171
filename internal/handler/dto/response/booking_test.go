//go:build unit

package response_test

import (
	"testing"
	"time"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/domain/property"
	resdto "rental-booking/internal/handler/dto/response"
	"rental-booking/internal/testutil/builder"
	"rental-booking/internal/usecase/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromBookingView(t *testing.T) {
	b := builder.NewBookingBuilder().WithRate(70000, property.PerWeek).WithNights(10).WithPaymentType(booking.PaymentDeposit)
	view := b.BuildView()

	got, err := resdto.FromBookingView(view)
	require.NoError(t, err)

	want := &resdto.BookingResponse{
		ID:               view.ID,
		Property:         resdto.PropertyRef{ID: b.PropertyID, Title: b.PropertyTitle},
		UserID:           b.UserID,
		StartDate:        "2030-01-10",
		EndDate:          "2030-01-20",
		TotalPrice:       991.0,
		DepositAmount:    495.5,
		RemainingBalance: 495.5,
		PaymentType:      "pay_deposit",
		PaymentStatus:    "pending",
		CreatedAt:        view.CreatedAt,
		UpdatedAt:        view.UpdatedAt,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BookingResponse mismatch (-want +got):\n%s", diff)
	}
}

func TestFromBookedRanges(t *testing.T) {
	got, err := resdto.FromBookedRanges([]queries.BookedRange{
		{StartDate: builder.BaseDate, EndDate: builder.BaseDate.AddDate(0, 0, 2)},
	})
	require.NoError(t, err)
	assert.Equal(t, []resdto.BookedRangeResponse{{StartDate: "2030-01-10", EndDate: "2030-01-12"}}, got.BookedDates)

	empty, err := resdto.FromBookedRanges(nil)
	require.NoError(t, err)
	assert.NotNil(t, empty.BookedDates)
}

func TestFromPropertyView(t *testing.T) {
	total := int64(25000000)
	view := &queries.PropertyView{
		ID:              uuid.New(),
		OwnerID:         uuid.New(),
		Title:           "Farmhouse",
		ListingType:     "sale",
		PriceCents:      0,
		TotalPriceCents: &total,
		CreatedAt:       time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	got, err := resdto.FromPropertyView(view)
	require.NoError(t, err)
	require.NotNil(t, got.TotalPrice)
	assert.InDelta(t, 250000.0, *got.TotalPrice, 0.001)
	assert.Equal(t, view.CreatedAt, got.CreatedAt)
	assert.Equal(t, "sale", got.ListingType)
}
