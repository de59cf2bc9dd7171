package property

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTitle       = errors.New("title must be between 1 and 200 characters")
	ErrInvalidPricingUnit = errors.New("invalid pricing unit")
	ErrInvalidListingType = errors.New("invalid listing type")
	ErrNegativePrice      = errors.New("price cannot be negative")
	ErrPriceTooHigh       = errors.New("price exceeds the maximum listing price")
	ErrMissingSalePrice   = errors.New("sale listings require a total price")
)

const maxTitleLength = 200

// MaxPriceCents caps listing prices at 100,000,000.00.
const MaxPriceCents int64 = 10_000_000_000

// Property is the listing a booking is made against. Rent listings carry a
// rate per pricing unit; sale listings carry a total price instead.
type Property struct {
	id              uuid.UUID
	ownerID         uuid.UUID
	title           string
	listingType     ListingType
	priceCents      int64
	pricingUnit     PricingUnit
	totalPriceCents *int64
	createdAt       time.Time
	updatedAt       time.Time
}

func NewProperty(
	ownerID uuid.UUID,
	title string,
	listingType ListingType,
	priceCents int64,
	pricingUnit PricingUnit,
	totalPriceCents *int64,
	now time.Time,
) (*Property, error) {
	title = strings.TrimSpace(title)
	if title == "" || len([]rune(title)) > maxTitleLength {
		return nil, ErrInvalidTitle
	}
	if !listingType.IsValid() {
		return nil, ErrInvalidListingType
	}
	if priceCents < 0 {
		return nil, ErrNegativePrice
	}
	if priceCents > MaxPriceCents {
		return nil, ErrPriceTooHigh
	}

	switch listingType {
	case ListingRent:
		if !pricingUnit.IsValid() {
			return nil, ErrInvalidPricingUnit
		}
		totalPriceCents = nil
	case ListingSale:
		if totalPriceCents == nil {
			return nil, ErrMissingSalePrice
		}
		if *totalPriceCents < 0 {
			return nil, ErrNegativePrice
		}
		if *totalPriceCents > MaxPriceCents {
			return nil, ErrPriceTooHigh
		}
	}

	return &Property{
		id:              uuid.New(),
		ownerID:         ownerID,
		title:           title,
		listingType:     listingType,
		priceCents:      priceCents,
		pricingUnit:     pricingUnit,
		totalPriceCents: totalPriceCents,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

func (p *Property) IsBookable() bool {
	return p.listingType == ListingRent
}

func (p *Property) ID() uuid.UUID            { return p.id }
func (p *Property) OwnerID() uuid.UUID       { return p.ownerID }
func (p *Property) Title() string            { return p.title }
func (p *Property) ListingType() ListingType { return p.listingType }
func (p *Property) PriceCents() int64        { return p.priceCents }
func (p *Property) PricingUnit() PricingUnit { return p.pricingUnit }
func (p *Property) TotalPriceCents() *int64  { return p.totalPriceCents }
func (p *Property) CreatedAt() time.Time     { return p.createdAt }
func (p *Property) UpdatedAt() time.Time     { return p.updatedAt }
