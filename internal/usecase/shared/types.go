package shared

import (
	"time"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/domain/property"

	"github.com/google/uuid"
)

// Write-side snapshots prevent dependency on Read-side query types (CQRS separation)
type PropertySnapshot struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Title       string
	ListingType string
	PriceCents  int64
	PricingUnit string
}

func (p *PropertySnapshot) BookingSpec() booking.PropertySpec {
	return booking.PropertySpec{
		ID:       p.ID,
		Bookable: property.ListingType(p.ListingType) == property.ListingRent,
		Rate: booking.RateSpec{
			PriceCents:  p.PriceCents,
			PricingUnit: property.PricingUnit(p.PricingUnit),
		},
	}
}

type UserCredentials struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
}

const (
	IdempotencyProcessing = "processing"
	IdempotencyCompleted  = "completed"
)

type IdempotencyRecord struct {
	Key             uuid.UUID
	UserID          uuid.UUID
	Status          string
	RequestHash     string
	ResultBookingID *uuid.UUID
	ExpiresAt       time.Time
}

type OutboxEvent struct {
	ID       uuid.UUID
	Topic    string
	Key      string
	Payload  []byte
	Attempts int
	RunAt    time.Time
}
