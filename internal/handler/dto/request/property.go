package request

import (
	"math"

	"rental-booking/internal/domain/property"
)

type CreatePropertyRequest struct {
	Title       string   `json:"title" binding:"required,max=200"`
	ListingType string   `json:"listingType" binding:"required,listing_type"`
	Price       float64  `json:"price" binding:"gte=0,lte=100000000"`
	PricingUnit string   `json:"pricingUnit" binding:"omitempty,pricing_unit"`
	TotalPrice  *float64 `json:"totalPrice,omitempty" binding:"omitempty,gte=0,lte=100000000"`
}

type PropertyInput struct {
	Title           string
	ListingType     property.ListingType
	PriceCents      int64
	PricingUnit     property.PricingUnit
	TotalPriceCents *int64
}

func (r CreatePropertyRequest) ToDomain() (PropertyInput, error) {
	listingType, err := property.NewListingType(r.ListingType)
	if err != nil {
		return PropertyInput{}, err
	}

	in := PropertyInput{
		Title:       r.Title,
		ListingType: listingType,
		PriceCents:  ToCents(r.Price),
		PricingUnit: property.PricingUnit(r.PricingUnit),
	}
	if r.TotalPrice != nil {
		cents := ToCents(*r.TotalPrice)
		in.TotalPriceCents = &cents
	}
	return in, nil
}

// ToCents rounds half away from zero, matching how totals are priced.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

type ListPropertiesQuery struct {
	Limit int    `form:"limit" binding:"omitempty,min=1,max=200"`
	After string `form:"after"`
}
