package booking

import (
	"math"

	"rental-booking/internal/domain/property"
)

const partialPeriodDiscount = 0.03

// maxTotalCents is the largest total a float64 still holds to the cent.
const maxTotalCents = 1 << 53

// RateSpec is the property's pricing captured at booking time.
type RateSpec struct {
	PriceCents  int64
	PricingUnit property.PricingUnit
}

type Quote struct {
	Nights           int
	TotalPrice       Money
	DepositAmount    Money
	RemainingBalance Money
	PaidAmount       Money
}

type PriceCalculator interface {
	Calculate(rate RateSpec, stay DateRange, paymentType PaymentType) (Quote, error)
}

type FairPriceCalculator struct{}

func NewFairPriceCalculator() *FairPriceCalculator {
	return &FairPriceCalculator{}
}

func (FairPriceCalculator) Calculate(rate RateSpec, stay DateRange, paymentType PaymentType) (Quote, error) {
	if rate.PriceCents < 0 {
		return Quote{}, ErrInvalidPrice
	}
	if !rate.PricingUnit.IsValid() {
		return Quote{}, ErrInvalidPrice
	}
	if !paymentType.IsValid() {
		return Quote{}, ErrInvalidPaymentType
	}

	nights := stay.Nights()
	totalCents, err := TotalCents(rate, nights)
	if err != nil {
		return Quote{}, err
	}
	total := NewMoney(totalCents)
	q := Quote{Nights: nights, TotalPrice: total}

	switch paymentType {
	case PaymentDeposit:
		q.DepositAmount = total.Half()
		q.RemainingBalance = total.Sub(q.DepositAmount)
		q.PaidAmount = q.DepositAmount
	case PaymentFull:
		q.PaidAmount = total
	case PaymentLater:
		q.RemainingBalance = total
	}
	return q, nil
}

// TotalCents prices full periods at the unit rate and the leftover days at a
// prorated daily rate less 3%. The result is rounded half away from zero to
// the cent. Totals past maxTotalCents are rejected with ErrInvalidPrice
// rather than wrapped.
func TotalCents(rate RateSpec, nights int) (int64, error) {
	price := float64(rate.PriceCents)

	period := rate.PricingUnit.PeriodDays()
	if period == 1 {
		return roundCents(float64(nights) * price)
	}

	fullPeriods := nights / period
	partialDays := nights % period

	total := float64(fullPeriods) * price
	if partialDays > 0 {
		dailyRate := price / float64(period)
		partialRaw := dailyRate * float64(partialDays)
		discount := partialRaw * partialPeriodDiscount
		total += partialRaw - discount
	}
	return roundCents(total)
}

func roundCents(total float64) (int64, error) {
	rounded := math.Round(total)
	if math.IsNaN(rounded) || rounded < 0 || rounded > maxTotalCents {
		return 0, ErrInvalidPrice
	}
	return int64(rounded), nil
}
