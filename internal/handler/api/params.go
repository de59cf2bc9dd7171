package api

import (
	"net/http"

	"rental-booking/internal/handler/httperr"
	"rental-booking/internal/handler/middleware"
	"rental-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	headerIdempotencyKey     = "Idempotency-Key"
	headerIdempotentReplayed = "Idempotent-Replayed"
	headerStripeSignature    = "Stripe-Signature"
)

var errMissingPrincipal = errs.New("authenticated principal missing from context")

// pathUUID aborts with 400 when the path segment is not a uuid.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeValidationFailed,
			errs.Wrap(err, "parse "+name), "invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

// currentUser is only reachable behind RequireAuth, so a miss is a wiring bug.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithCode(c, http.StatusUnauthorized, httperr.CodeUnauthorized,
			errMissingPrincipal, "authentication required", nil)
		return uuid.Nil, false
	}
	return userID, true
}

// idempotencyKey is optional; an absent header yields nil.
func idempotencyKey(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.GetHeader(headerIdempotencyKey)
	if raw == "" {
		return nil, true
	}

	key, err := uuid.Parse(raw)
	if err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeValidationFailed,
			errs.Wrap(err, "parse idempotency key"), "invalid Idempotency-Key header", nil)
		return nil, false
	}
	return &key, true
}
