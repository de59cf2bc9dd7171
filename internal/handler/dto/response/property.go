package response

import (
	"time"

	"rental-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type PropertyResponse struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"ownerId"`
	Title       string    `json:"title"`
	ListingType string    `json:"listingType"`
	Price       float64   `json:"price" copier:"PriceCents"`
	PricingUnit string    `json:"pricingUnit,omitempty"`
	TotalPrice  *float64  `json:"totalPrice,omitempty" copier:"TotalPriceCents"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type PropertyListResponse struct {
	Properties []*PropertyResponse `json:"properties"`
	NextCursor string              `json:"nextCursor,omitempty"`
}

func FromPropertyView(v *queries.PropertyView) (*PropertyResponse, error) {
	var out PropertyResponse
	if err := copyView(&out, v); err != nil {
		return nil, err
	}
	return &out, nil
}

func FromPropertyPage(page *queries.PropertyPage) (*PropertyListResponse, error) {
	out := &PropertyListResponse{
		Properties: make([]*PropertyResponse, 0, len(page.Items)),
		NextCursor: page.NextCursor,
	}
	for _, v := range page.Items {
		item, err := FromPropertyView(v)
		if err != nil {
			return nil, err
		}
		out.Properties = append(out.Properties, item)
	}
	return out, nil
}
