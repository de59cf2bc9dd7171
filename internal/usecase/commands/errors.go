package commands

import (
	"context"
	"errors"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/infra"
	"rental-booking/internal/pkg/errs"
)

const paymentIntentConstraint = "bookings_payment_intent_key"

// translateStorageErr maps repository failures onto the shared sentinels.
// notFound is used for KindNotFound; nil leaves those as storage errors.
func translateStorageErr(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case notFound != nil && infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(err, notFound)
	case infra.IsKind(err, infra.KindExclusionViolation):
		return errs.Mark(err, errs.ErrDateConflict)
	case infra.IsKind(err, infra.KindLockTimeout):
		return errs.Mark(err, errs.ErrAvailabilityUnknown)
	case infra.IsKind(err, infra.KindForeignKeyViolated):
		return errs.Mark(err, errs.ErrPropertyNotFound)
	case infra.IsKind(err, infra.KindDuplicateKey) && infra.ConstraintName(err) == paymentIntentConstraint:
		return errs.Mark(err, errs.ErrDuplicatePaymentIntent)
	case errors.Is(err, context.DeadlineExceeded):
		return errs.Mark(err, errs.ErrStorageUnavailable)
	default:
		return errs.Mark(err, errs.ErrStorageUnavailable)
	}
}

// classified reports whether err already carries a sentinel or a domain rule
// violation. Anything else leaving a transaction is a storage failure.
func classified(err error) bool {
	for _, s := range []error{
		errs.ErrBookingNotFound,
		errs.ErrNotBookingOwner,
		errs.ErrDateConflict,
		errs.ErrAvailabilityUnknown,
		errs.ErrPropertyNotFound,
		errs.ErrUserNotFound,
		errs.ErrEmailTaken,
		errs.ErrDuplicatePaymentIntent,
		errs.ErrIdempotencyMismatch,
		errs.ErrIdempotencyInProgress,
		errs.ErrValidation,
		errs.ErrStorageUnavailable,
		booking.ErrInvalidTransition,
		booking.ErrAlreadyPaid,
	} {
		if errs.Is(err, s) {
			return true
		}
	}
	return false
}

func finishTx(err error) error {
	if err == nil || classified(err) {
		return err
	}
	return errs.Mark(err, errs.ErrStorageUnavailable)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errs.Is(err, errs.ErrDateConflict):
		return "conflict"
	case errs.Is(err, errs.ErrStorageUnavailable), errs.Is(err, errs.ErrAvailabilityUnknown):
		return "error"
	default:
		return "rejected"
	}
}
