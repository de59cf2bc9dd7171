package property

type PricingUnit string

const (
	PerDay   PricingUnit = "Per Day"
	PerWeek  PricingUnit = "Per Week"
	PerMonth PricingUnit = "Per Month"
)

func (u PricingUnit) String() string {
	return string(u)
}

func (u PricingUnit) IsValid() bool {
	switch u {
	case PerDay, PerWeek, PerMonth:
		return true
	default:
		return false
	}
}

// PeriodDays is the proration period; months are a flat 30 days.
func (u PricingUnit) PeriodDays() int {
	switch u {
	case PerWeek:
		return 7
	case PerMonth:
		return 30
	default:
		return 1
	}
}

func NewPricingUnit(s string) (PricingUnit, error) {
	u := PricingUnit(s)
	if !u.IsValid() {
		return "", ErrInvalidPricingUnit
	}
	return u, nil
}

type ListingType string

const (
	ListingRent ListingType = "rent"
	ListingSale ListingType = "sale"
)

func (t ListingType) String() string {
	return string(t)
}

func (t ListingType) IsValid() bool {
	return t == ListingRent || t == ListingSale
}

func NewListingType(s string) (ListingType, error) {
	t := ListingType(s)
	if !t.IsValid() {
		return "", ErrInvalidListingType
	}
	return t, nil
}
