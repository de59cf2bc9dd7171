package booking

import (
	"errors"
	"strings"
	"time"

	"rental-booking/internal/pkg/clock"

	"github.com/google/uuid"
)

var (
	ErrInvalidDate          = errors.New("date must be YYYY-MM-DD or RFC3339")
	ErrInvalidDateRange     = errors.New("start date must be before end date")
	ErrInvalidPaymentType   = errors.New("invalid payment type")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrInvalidPrice         = errors.New("price must be a non-negative amount with a known pricing unit")
	ErrPropertyNotBookable  = errors.New("property is not available for booking")
	ErrInvalidTransition    = errors.New("payment status cannot move backwards")
	ErrMissingIntentID      = errors.New("payment intent id is required")
	ErrAlreadyPaid          = errors.New("booking is already paid")
)

type PropertySpec struct {
	ID       uuid.UUID
	Bookable bool
	Rate     RateSpec
}

type Services struct {
	Clock           clock.Clock
	PriceCalculator PriceCalculator
}

type Booking struct {
	id               uuid.UUID
	propertyID       uuid.UUID
	userID           uuid.UUID
	stay             DateRange
	totalPrice       Money
	depositAmount    Money
	remainingBalance Money
	paymentType      PaymentType
	paymentStatus    PaymentStatus
	paymentIntentID  *string
	createdAt        time.Time
	updatedAt        time.Time
}

// NewBooking prices the stay against the property's current rate. Every
// booking starts pending.
func NewBooking(
	services *Services,
	prop PropertySpec,
	userID uuid.UUID,
	stay DateRange,
	paymentType PaymentType,
) (*Booking, error) {
	if !prop.Bookable {
		return nil, ErrPropertyNotBookable
	}

	quote, err := services.PriceCalculator.Calculate(prop.Rate, stay, paymentType)
	if err != nil {
		return nil, err
	}

	now := services.Clock.Now()
	return &Booking{
		id:               uuid.New(),
		propertyID:       prop.ID,
		userID:           userID,
		stay:             stay,
		totalPrice:       quote.TotalPrice,
		depositAmount:    quote.DepositAmount,
		remainingBalance: quote.RemainingBalance,
		paymentType:      paymentType,
		paymentStatus:    StatusPending,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

func ReconstructBooking(
	id, propertyID, userID uuid.UUID,
	stay DateRange,
	totalPrice, depositAmount, remainingBalance Money,
	paymentType PaymentType,
	paymentStatus PaymentStatus,
	paymentIntentID *string,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:               id,
		propertyID:       propertyID,
		userID:           userID,
		stay:             stay,
		totalPrice:       totalPrice,
		depositAmount:    depositAmount,
		remainingBalance: remainingBalance,
		paymentType:      paymentType,
		paymentStatus:    paymentStatus,
		paymentIntentID:  paymentIntentID,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

func (b *Booking) IsOwnedBy(userID uuid.UUID) bool {
	return b.userID == userID
}

// Reschedule moves the stay. Prices stay as they were quoted at creation.
func (b *Booking) Reschedule(stay DateRange, now time.Time) {
	b.stay = stay
	b.updatedAt = now
}

// ConfirmPayment records the intent and advances the status. Re-confirming
// the current status only refreshes the intent id and reports no change.
func (b *Booking) ConfirmPayment(intentID string, target PaymentStatus, now time.Time) (bool, error) {
	intentID = strings.TrimSpace(intentID)
	if intentID == "" {
		return false, ErrMissingIntentID
	}
	if !target.IsValid() {
		return false, ErrInvalidPaymentStatus
	}
	if !b.paymentStatus.CanTransitionTo(target) {
		return false, ErrInvalidTransition
	}

	changed := b.paymentStatus != target
	b.paymentStatus = target
	b.paymentIntentID = &intentID
	b.updatedAt = now
	return changed, nil
}

// AmountDue is what the next payment intent should charge and the status a
// successful charge moves the booking to.
func (b *Booking) AmountDue() (Money, PaymentStatus, error) {
	switch b.paymentStatus {
	case StatusPaid:
		return Money{}, "", ErrAlreadyPaid
	case StatusPartiallyPaid:
		return b.remainingBalance, StatusPaid, nil
	}

	if b.paymentType == PaymentDeposit {
		return b.depositAmount, StatusPartiallyPaid, nil
	}
	return b.totalPrice, StatusPaid, nil
}

func (b *Booking) ID() uuid.UUID                { return b.id }
func (b *Booking) PropertyID() uuid.UUID        { return b.propertyID }
func (b *Booking) UserID() uuid.UUID            { return b.userID }
func (b *Booking) Stay() DateRange              { return b.stay }
func (b *Booking) TotalPrice() Money            { return b.totalPrice }
func (b *Booking) DepositAmount() Money         { return b.depositAmount }
func (b *Booking) RemainingBalance() Money      { return b.remainingBalance }
func (b *Booking) PaymentType() PaymentType     { return b.paymentType }
func (b *Booking) PaymentStatus() PaymentStatus { return b.paymentStatus }
func (b *Booking) PaymentIntentID() *string     { return b.paymentIntentID }
func (b *Booking) CreatedAt() time.Time         { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time         { return b.updatedAt }
