package queries

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// BookingView is the read model for a single booking, joined with the
// property title.
type BookingView struct {
	ID                    uuid.UUID `json:"id"`
	PropertyID            uuid.UUID `json:"property_id"`
	PropertyTitle         string    `json:"property_title"`
	UserID                uuid.UUID `json:"user_id"`
	StartDate             time.Time `json:"start_date"`
	EndDate               time.Time `json:"end_date"`
	TotalPriceCents       int64     `json:"total_price_cents"`
	DepositAmountCents    int64     `json:"deposit_amount_cents"`
	RemainingBalanceCents int64     `json:"remaining_balance_cents"`
	PaymentType           string    `json:"payment_type"`
	PaymentStatus         string    `json:"payment_status"`
	PaymentIntentID       *string   `json:"payment_intent_id,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// BookedRange is a half-open [StartDate, EndDate) span already taken.
type BookedRange struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type PropertyView struct {
	ID              uuid.UUID `json:"id"`
	OwnerID         uuid.UUID `json:"owner_id"`
	Title           string    `json:"title"`
	ListingType     string    `json:"listing_type"`
	PriceCents      int64     `json:"price_cents"`
	PricingUnit     string    `json:"pricing_unit"`
	TotalPriceCents *int64    `json:"total_price_cents,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type QuoteView struct {
	PropertyID            uuid.UUID `json:"property_id"`
	StartDate             time.Time `json:"start_date"`
	EndDate               time.Time `json:"end_date"`
	Nights                int       `json:"nights"`
	PaymentType           string    `json:"payment_type"`
	TotalPriceCents       int64     `json:"total_price_cents"`
	DepositAmountCents    int64     `json:"deposit_amount_cents"`
	RemainingBalanceCents int64     `json:"remaining_balance_cents"`
	PaidAmountCents       int64     `json:"paid_amount_cents"`
}

// AuthorizedUserView represents read-optimized user data with authorization info
type AuthorizedUserView struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
}
