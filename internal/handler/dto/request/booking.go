package request

import (
	"rental-booking/internal/domain/booking"

	"github.com/google/uuid"
)

// CreateBookingRequest carries the client's view of the amounts as well. They
// are informational: the server prices the stay itself.
type CreateBookingRequest struct {
	StartDate        string   `json:"startDate" binding:"required,calendar_date"`
	EndDate          string   `json:"endDate" binding:"required,calendar_date"`
	PaymentType      string   `json:"paymentType" binding:"required,payment_type"`
	PaidAmount       *float64 `json:"paidAmount,omitempty" binding:"omitempty,gte=0"`
	DepositAmount    *float64 `json:"depositAmount,omitempty" binding:"omitempty,gte=0"`
	RemainingBalance *float64 `json:"remainingBalance,omitempty" binding:"omitempty,gte=0"`
}

func (r CreateBookingRequest) ToDomain() (booking.DateRange, booking.PaymentType, error) {
	stay, err := parseStay(r.StartDate, r.EndDate)
	if err != nil {
		return booking.DateRange{}, "", err
	}

	paymentType, err := booking.NewPaymentType(r.PaymentType)
	if err != nil {
		return booking.DateRange{}, "", err
	}

	return stay, paymentType, nil
}

// Fingerprint identifies the request for idempotency replays. Client amounts
// are left out since they never influence the stored booking.
type Fingerprint struct {
	PropertyID  uuid.UUID `json:"propertyId"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	PaymentType string    `json:"paymentType"`
}

func (r CreateBookingRequest) Fingerprint(propertyID uuid.UUID) Fingerprint {
	return Fingerprint{
		PropertyID:  propertyID,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		PaymentType: r.PaymentType,
	}
}

type UpdateBookingRequest struct {
	StartDate string `json:"startDate" binding:"required,calendar_date"`
	EndDate   string `json:"endDate" binding:"required,calendar_date"`
}

func (r UpdateBookingRequest) ToDomain() (booking.DateRange, error) {
	return parseStay(r.StartDate, r.EndDate)
}

type ConfirmBookingRequest struct {
	PaymentIntentID string `json:"paymentIntentId" binding:"required"`
	Status          string `json:"status" binding:"required,payment_status"`
}

func (r ConfirmBookingRequest) ToDomain() (booking.PaymentStatus, error) {
	return booking.NewPaymentStatus(r.Status)
}

type QuoteQuery struct {
	StartDate   string `form:"startDate" binding:"required,calendar_date"`
	EndDate     string `form:"endDate" binding:"required,calendar_date"`
	PaymentType string `form:"paymentType" binding:"omitempty,payment_type"`
}

func (q QuoteQuery) ToDomain() (booking.DateRange, booking.PaymentType, error) {
	stay, err := parseStay(q.StartDate, q.EndDate)
	if err != nil {
		return booking.DateRange{}, "", err
	}

	if q.PaymentType == "" {
		return stay, booking.PaymentFull, nil
	}
	paymentType, err := booking.NewPaymentType(q.PaymentType)
	if err != nil {
		return booking.DateRange{}, "", err
	}
	return stay, paymentType, nil
}

func parseStay(startStr, endStr string) (booking.DateRange, error) {
	start, err := booking.ParseDate(startStr)
	if err != nil {
		return booking.DateRange{}, err
	}
	end, err := booking.ParseDate(endStr)
	if err != nil {
		return booking.DateRange{}, err
	}
	return booking.NewDateRange(start, end)
}
