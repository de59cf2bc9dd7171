//go:build unit

package booking_test

import (
	"testing"
	"time"

	"rental-booking/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2030, time.March, d, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, s, e int) booking.DateRange {
	t.Helper()
	r, err := booking.NewDateRange(day(s), day(e))
	require.NoError(t, err)
	return r
}

func TestDateRange_Overlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b [2]int
		want bool
	}{
		{name: "identical", a: [2]int{1, 5}, b: [2]int{1, 5}, want: true},
		{name: "partial overlap at the end", a: [2]int{1, 5}, b: [2]int{4, 8}, want: true},
		{name: "contained", a: [2]int{1, 10}, b: [2]int{3, 4}, want: true},
		{name: "checkout equals check-in", a: [2]int{1, 5}, b: [2]int{5, 8}, want: false},
		{name: "disjoint", a: [2]int{1, 3}, b: [2]int{10, 12}, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := mustRange(t, tc.a[0], tc.a[1])
			b := mustRange(t, tc.b[0], tc.b[1])

			assert.Equal(t, tc.want, a.Overlaps(b))
			assert.Equal(t, a.Overlaps(b), b.Overlaps(a), "overlap must be symmetric")
		})
	}
}

func TestNewDateRange(t *testing.T) {
	t.Run("truncates to UTC calendar dates", func(t *testing.T) {
		tokyo := time.FixedZone("JST", 9*60*60)
		r, err := booking.NewDateRange(
			time.Date(2030, time.March, 2, 8, 0, 0, 0, tokyo),
			time.Date(2030, time.March, 4, 23, 0, 0, 0, time.UTC),
		)
		require.NoError(t, err)
		assert.Equal(t, day(1), r.Start())
		assert.Equal(t, day(4), r.End())
		assert.Equal(t, 3, r.Nights())
		assert.Equal(t, "[2030-03-01,2030-03-04)", r.String())
	})

	t.Run("rejects empty and inverted ranges", func(t *testing.T) {
		_, err := booking.NewDateRange(time.Time{}, day(3))
		require.ErrorIs(t, err, booking.ErrInvalidDateRange)

		_, err = booking.NewDateRange(day(3), day(3))
		require.ErrorIs(t, err, booking.ErrInvalidDateRange)

		_, err = booking.NewDateRange(day(4), day(3))
		require.ErrorIs(t, err, booking.ErrInvalidDateRange)
	})
}

func TestParseDate(t *testing.T) {
	got, err := booking.ParseDate("2030-03-07")
	require.NoError(t, err)
	assert.Equal(t, day(7), got)

	got, err = booking.ParseDate("2030-03-07T15:04:05Z")
	require.NoError(t, err)
	assert.Equal(t, day(7), got)

	_, err = booking.ParseDate("07/03/2030")
	require.ErrorIs(t, err, booking.ErrInvalidDate)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, int64(0), booking.NewMoney(100).Sub(booking.NewMoney(250)).Cents())
	assert.Equal(t, int64(51), booking.NewMoney(101).Half().Cents())
	assert.Equal(t, int64(150), booking.NewMoney(100).Add(booking.NewMoney(50)).Cents())
	assert.InDelta(t, 991.0, booking.NewMoney(99100).Dollars(), 0.0001)
	assert.True(t, booking.Money{}.IsZero())
}

func TestPaymentStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, booking.StatusPending.CanTransitionTo(booking.StatusPaid))
	assert.True(t, booking.StatusPartiallyPaid.CanTransitionTo(booking.StatusPartiallyPaid))
	assert.False(t, booking.StatusPaid.CanTransitionTo(booking.StatusPartiallyPaid))
	assert.False(t, booking.StatusPending.CanTransitionTo("cancelled"))

	_, err := booking.NewPaymentStatus("cancelled")
	require.ErrorIs(t, err, booking.ErrInvalidPaymentStatus)
}
