package response

import (
	"time"

	"rental-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type PropertyRef struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type BookingResponse struct {
	ID               uuid.UUID   `json:"id"`
	Property         PropertyRef `json:"property" copier:"-"`
	UserID           uuid.UUID   `json:"userId"`
	StartDate        string      `json:"startDate"`
	EndDate          string      `json:"endDate"`
	TotalPrice       float64     `json:"totalPrice" copier:"TotalPriceCents"`
	DepositAmount    float64     `json:"depositAmount" copier:"DepositAmountCents"`
	RemainingBalance float64     `json:"remainingBalance" copier:"RemainingBalanceCents"`
	PaymentType      string      `json:"paymentType"`
	PaymentStatus    string      `json:"paymentStatus"`
	PaymentIntentID  *string     `json:"paymentIntentId,omitempty"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

type BookingEnvelope struct {
	Booking *BookingResponse `json:"booking"`
}

type BookingUpdatedResponse struct {
	Message string           `json:"message"`
	Booking *BookingResponse `json:"booking"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
}

type BookedRangeResponse struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type BookedDatesResponse struct {
	BookedDates []BookedRangeResponse `json:"bookedDates"`
}

type QuoteResponse struct {
	PropertyID       uuid.UUID `json:"propertyId"`
	StartDate        string    `json:"startDate"`
	EndDate          string    `json:"endDate"`
	Nights           int       `json:"nights"`
	PaymentType      string    `json:"paymentType"`
	TotalPrice       float64   `json:"totalPrice" copier:"TotalPriceCents"`
	DepositAmount    float64   `json:"depositAmount" copier:"DepositAmountCents"`
	RemainingBalance float64   `json:"remainingBalance" copier:"RemainingBalanceCents"`
	PaidAmount       float64   `json:"paidAmount" copier:"PaidAmountCents"`
}

type QuoteEnvelope struct {
	Quote *QuoteResponse `json:"quote"`
}

func FromBookingView(v *queries.BookingView) (*BookingResponse, error) {
	var out BookingResponse
	if err := copyView(&out, v); err != nil {
		return nil, err
	}
	out.Property = PropertyRef{ID: v.PropertyID, Title: v.PropertyTitle}
	return &out, nil
}

func FromBookingViews(views []*queries.BookingView) (*BookingListResponse, error) {
	out := &BookingListResponse{Bookings: make([]*BookingResponse, 0, len(views))}
	for _, v := range views {
		item, err := FromBookingView(v)
		if err != nil {
			return nil, err
		}
		out.Bookings = append(out.Bookings, item)
	}
	return out, nil
}

func FromBookedRanges(ranges []queries.BookedRange) (*BookedDatesResponse, error) {
	out := &BookedDatesResponse{BookedDates: make([]BookedRangeResponse, 0, len(ranges))}
	if err := copyView(&out.BookedDates, ranges); err != nil {
		return nil, err
	}
	if out.BookedDates == nil {
		out.BookedDates = []BookedRangeResponse{}
	}
	return out, nil
}

func FromQuoteView(v *queries.QuoteView) (*QuoteResponse, error) {
	var out QuoteResponse
	if err := copyView(&out, v); err != nil {
		return nil, err
	}
	return &out, nil
}
