//go:build unit

package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rental-booking/internal/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIsIdempotentAndExposesCounters(t *testing.T) {
	metrics.Register()
	metrics.Register()

	metrics.IncBooking("create", "ok")
	metrics.IncOutbox("sent")
	metrics.IncCache("hit")
	metrics.ObserveHTTP("GET", "/health", "200", 0.01)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `rental_booking_booking_operations_total{operation="create",outcome="ok"}`))
	assert.True(t, strings.Contains(body, "rental_booking_outbox_events_total"))
	assert.True(t, strings.Contains(body, "rental_booking_http_request_duration_seconds"))
}
