package booking

type PaymentStatus string

const (
	StatusPending       PaymentStatus = "pending"
	StatusPartiallyPaid PaymentStatus = "partially_paid"
	StatusPaid          PaymentStatus = "paid"
)

var statusRank = map[PaymentStatus]int{
	StatusPending:       0,
	StatusPartiallyPaid: 1,
	StatusPaid:          2,
}

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) IsValid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransitionTo allows forward moves and re-confirming the current status.
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[target]
	if !ok {
		return false
	}
	return to >= from
}

func NewPaymentStatus(s string) (PaymentStatus, error) {
	status := PaymentStatus(s)
	if !status.IsValid() {
		return "", ErrInvalidPaymentStatus
	}
	return status, nil
}

type PaymentType string

const (
	PaymentFull    PaymentType = "pay_full"
	PaymentDeposit PaymentType = "pay_deposit"
	PaymentLater   PaymentType = "pay_later"
)

func (t PaymentType) String() string {
	return string(t)
}

func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentFull, PaymentDeposit, PaymentLater:
		return true
	default:
		return false
	}
}

func NewPaymentType(s string) (PaymentType, error) {
	t := PaymentType(s)
	if !t.IsValid() {
		return "", ErrInvalidPaymentType
	}
	return t, nil
}
