package request

import "github.com/google/uuid"

// CreatePaymentIntentRequest amount is in minor units. Zero lets the server
// pick the amount due.
type CreatePaymentIntentRequest struct {
	Amount    int64     `json:"amount" binding:"gte=0"`
	BookingID uuid.UUID `json:"bookingId" binding:"required"`
}
