package httperr

import (
	"log/slog"
	"net/http"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/handler/validation"
	"rental-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

const MsgNotOwner = "you do not have access to this booking"

type rule struct {
	target error
	status int
	code   string
	msg    string
}

// Order matters: the first matching sentinel wins, so the more specific
// markers sit above ErrValidation and the storage fallbacks.
var rules = []rule{
	{errs.ErrDateConflict, http.StatusBadRequest, CodeDatesUnavailable, "dates unavailable"},
	{errs.ErrAmountMismatch, http.StatusBadRequest, CodeValidationFailed, "amount does not match the amount due"},
	{errs.ErrInvalidWebhook, http.StatusBadRequest, CodeValidationFailed, "invalid webhook payload"},
	{errs.ErrValidation, http.StatusBadRequest, CodeValidationFailed, "invalid request"},
	{errs.ErrAuthentication, http.StatusUnauthorized, CodeUnauthorized, "invalid email or password"},
	{errs.ErrInactiveUser, http.StatusForbidden, CodeForbidden, "account is inactive"},
	{errs.ErrNotBookingOwner, http.StatusForbidden, CodeForbidden, MsgNotOwner},
	{errs.ErrBookingNotFound, http.StatusNotFound, CodeNotFound, "booking not found"},
	{errs.ErrPropertyNotFound, http.StatusNotFound, CodeNotFound, "property not found"},
	{errs.ErrUserNotFound, http.StatusNotFound, CodeNotFound, "user not found"},
	{booking.ErrInvalidTransition, http.StatusConflict, CodeConflict, "payment status cannot move backwards"},
	{booking.ErrAlreadyPaid, http.StatusConflict, CodeConflict, "booking is already paid"},
	{errs.ErrDuplicatePaymentIntent, http.StatusConflict, CodeConflict, "payment intent already used by another booking"},
	{errs.ErrIdempotencyMismatch, http.StatusConflict, CodeConflict, "idempotency key reused with a different request"},
	{errs.ErrIdempotencyInProgress, http.StatusConflict, CodeConflict, "request with this idempotency key is still in progress"},
	{errs.ErrEmailTaken, http.StatusConflict, CodeConflict, "email already registered"},
	{errs.ErrPaymentGateway, http.StatusBadGateway, CodePaymentGateway, "payment provider error"},
	{errs.ErrAvailabilityUnknown, http.StatusServiceUnavailable, CodeServiceUnavailable, "availability could not be verified, try again"},
	{errs.ErrStorageUnavailable, http.StatusInternalServerError, CodeInternal, "internal error"},
}

// Respond maps a use case error onto the HTTP taxonomy and aborts.
func Respond(c *gin.Context, err error) {
	for _, r := range rules {
		if !errs.Is(err, r.target) {
			continue
		}
		var detail any
		if r.code == CodeValidationFailed {
			detail = errs.Cause(err).Error()
		}
		if r.status >= http.StatusInternalServerError {
			slog.Error("request failed", "path", c.FullPath(), "error", err.Error())
		}
		AbortWithCode(c, r.status, r.code, err, r.msg, detail)
		return
	}

	slog.Error("unclassified error", "path", c.FullPath(), "error", err.Error())
	AbortWithCode(c, http.StatusInternalServerError, CodeInternal, err, "internal error", nil)
}

// BadRequest reports a binding failure with per-field details when the
// validator produced them.
func BadRequest(c *gin.Context, err error) {
	var detail any
	if fields := validation.FieldErrors(err); len(fields) > 0 {
		detail = fields
	}
	AbortWithCode(c, http.StatusBadRequest, CodeValidationFailed, err, "invalid request", detail)
}
