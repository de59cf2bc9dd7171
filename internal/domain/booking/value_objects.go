package booking

import (
	"math"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	day        = 24 * time.Hour
)

// DateRange is a half-open [start, end) span of calendar dates in UTC.
type DateRange struct {
	start time.Time
	end   time.Time
}

func NewDateRange(start, end time.Time) (DateRange, error) {
	if start.IsZero() || end.IsZero() {
		return DateRange{}, ErrInvalidDateRange
	}
	s, e := truncateToDate(start), truncateToDate(end)
	if !s.Before(e) {
		return DateRange{}, ErrInvalidDateRange
	}
	return DateRange{start: s, end: e}, nil
}

// ParseDate accepts a bare calendar date or an RFC3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return truncateToDate(t), nil
}

func (r DateRange) Start() time.Time { return r.start }
func (r DateRange) End() time.Time   { return r.end }

func (r DateRange) Nights() int {
	return CountNights(r.start, r.end)
}

// Overlaps treats ranges that only share a checkout/check-in day as disjoint.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.start.Before(other.end) && r.end.After(other.start)
}

func (r DateRange) Equal(other DateRange) bool {
	return r.start.Equal(other.start) && r.end.Equal(other.end)
}

func (r DateRange) String() string {
	return "[" + r.start.Format(DateLayout) + "," + r.end.Format(DateLayout) + ")"
}

// CountNights rounds partial days up and never returns less than one.
func CountNights(start, end time.Time) int {
	nights := int(math.Ceil(float64(end.Sub(start)) / float64(day)))
	if nights < 1 {
		return 1
	}
	return nights
}

func truncateToDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Money is an amount in minor currency units.
type Money struct {
	cents int64
}

func NewMoney(cents int64) Money {
	return Money{cents: cents}
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Dollars() float64 {
	return float64(m.cents) / 100.0
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Sub clamps at zero.
func (m Money) Sub(other Money) Money {
	if other.cents >= m.cents {
		return Money{}
	}
	return Money{cents: m.cents - other.cents}
}

// Half rounds half a cent up.
func (m Money) Half() Money {
	return Money{cents: (m.cents + 1) / 2}
}

func (m Money) IsZero() bool {
	return m.cents == 0
}
