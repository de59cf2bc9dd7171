//go:build unit

package api_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"rental-booking/internal/handler/api"
	"rental-booking/internal/handler/httperr"
	"rental-booking/internal/testutil/httptest"

	"github.com/gin-gonic/gin"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("database reachable", func(t *testing.T) {
		router := gin.New()
		router.GET("/health", api.NewHealthHandler(pingerFunc(func(context.Context) error { return nil })).Check)

		rec := httptest.PerformRequest(t, router, http.MethodGet, "/health", nil, "")
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, nil)
	})

	t.Run("database down", func(t *testing.T) {
		router := gin.New()
		router.GET("/health", api.NewHealthHandler(pingerFunc(func(context.Context) error {
			return errors.New("connection refused")
		})).Check)

		rec := httptest.PerformRequest(t, router, http.MethodGet, "/health", nil, "")
		httptest.AssertErrorCode(t, rec, http.StatusServiceUnavailable, httperr.CodeServiceUnavailable)
	})
}
