package worker

import (
	"math"
	"time"
)

// RetryPolicy defines exponential backoff parameters.
type RetryPolicy struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:   8,
		InitialDelay:  2 * time.Second,
		MaxDelay:      5 * time.Minute,
		BackoffFactor: 2,
	}
}

// NextDelay returns the delay before retry number attempt (1-based).
func (r RetryPolicy) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if r.InitialDelay <= 0 {
		r.InitialDelay = time.Second
	}
	if r.BackoffFactor <= 0 {
		r.BackoffFactor = 2
	}

	d := time.Duration(float64(r.InitialDelay) * math.Pow(r.BackoffFactor, float64(attempt-1)))
	if r.MaxDelay > 0 && (d > r.MaxDelay || d <= 0) {
		d = r.MaxDelay
	}
	return d
}

// Exhausted reports whether attempts used so far leave no retry.
func (r RetryPolicy) Exhausted(attempts int) bool {
	return r.MaxAttempts > 0 && attempts >= r.MaxAttempts
}
