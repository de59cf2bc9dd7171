package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rental_booking"

var (
	once sync.Once

	bookingOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_operations_total",
			Help:      "Booking commands by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	outboxPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_total",
			Help:      "Outbox events handled by the relay.",
		},
		[]string{"result"},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booked_dates_cache_total",
			Help:      "Booked-dates cache lookups by result.",
		},
		[]string{"result"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingOps, httpDuration, outboxPublished, cacheLookups)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// IncBooking counts a booking command. outcome is "ok", "conflict",
// "rejected" or "error".
func IncBooking(operation, outcome string) {
	bookingOps.WithLabelValues(operation, outcome).Inc()
}

func ObserveHTTP(method, route, status string, seconds float64) {
	httpDuration.WithLabelValues(method, route, status).Observe(seconds)
}

func IncOutbox(result string) {
	outboxPublished.WithLabelValues(result).Inc()
}

func IncCache(result string) {
	cacheLookups.WithLabelValues(result).Inc()
}
