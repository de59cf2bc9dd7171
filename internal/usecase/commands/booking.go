package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"rental-booking/internal/domain/booking"
	reqdto "rental-booking/internal/handler/dto/request"
	"rental-booking/internal/infra"
	"rental-booking/internal/pkg/config"
	"rental-booking/internal/pkg/errs"
	"rental-booking/internal/pkg/metrics"
	"rental-booking/internal/usecase/queries"
	"rental-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	bookingTopic            = "bookings"
	createBookingEndpoint   = "POST /booking/book"
	eventBookingCreated     = "booking.created"
	eventBookingRescheduled = "booking.rescheduled"
	eventBookingPaid        = "booking.payment_confirmed"
	eventBookingCancelled   = "booking.cancelled"
)

type CreateBookingResult struct {
	Booking    *queries.BookingView
	IsReplayed bool
}

type BookingCommands interface {
	Create(ctx context.Context, propertyID, userID uuid.UUID, req reqdto.CreateBookingRequest, idempotencyKey *uuid.UUID) (*CreateBookingResult, error)
	ConfirmPayment(ctx context.Context, bookingID, userID uuid.UUID, req reqdto.ConfirmBookingRequest) (*queries.BookingView, error)
	Reschedule(ctx context.Context, bookingID, userID uuid.UUID, req reqdto.UpdateBookingRequest) (*queries.BookingView, error)
	Cancel(ctx context.Context, bookingID, userID uuid.UUID) error
	// ApplyPaymentEvent runs the confirm transition for a verified provider
	// event. There is no acting user on this path.
	ApplyPaymentEvent(ctx context.Context, event *shared.PaymentEvent) error
}

type bookingCommandsImpl struct {
	uow         shared.UnitOfWork
	queries     queries.BookingQueries
	invalidator BookedDatesInvalidator
	services    *booking.Services
	cfg         config.BookingConfig
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	bookingQueries queries.BookingQueries,
	invalidator BookedDatesInvalidator,
	services *booking.Services,
	cfg config.BookingConfig,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:         uow,
		queries:     bookingQueries,
		invalidator: invalidator,
		services:    services,
		cfg:         cfg,
	}
}

type bookingEvent struct {
	Type          string    `json:"type"`
	BookingID     uuid.UUID `json:"bookingId"`
	PropertyID    uuid.UUID `json:"propertyId"`
	UserID        uuid.UUID `json:"userId"`
	StartDate     string    `json:"startDate"`
	EndDate       string    `json:"endDate"`
	PaymentStatus string    `json:"paymentStatus"`
	OccurredAt    time.Time `json:"occurredAt"`
}

func (u *bookingCommandsImpl) Create(
	ctx context.Context,
	propertyID, userID uuid.UUID,
	req reqdto.CreateBookingRequest,
	idempotencyKey *uuid.UUID,
) (result *CreateBookingResult, err error) {
	defer func() { metrics.IncBooking("create", outcomeOf(err)) }()

	stay, paymentType, err := req.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, u.cfg.StorageTimeout)
	defer cancel()

	requestHash := calculateRequestHash(req.Fingerprint(propertyID))

	var (
		bookingID  uuid.UUID
		isReplayed bool
	)
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		bookingID, isReplayed = uuid.Nil, false

		if idempotencyKey != nil {
			replayID, claimErr := u.claimIdempotencyKey(ctx, tx, *idempotencyKey, userID, requestHash)
			if claimErr != nil {
				return claimErr
			}
			if replayID != nil {
				bookingID, isReplayed = *replayID, true
				return nil
			}
		}

		prop, readErr := tx.Reads().PropertyByID(ctx, propertyID)
		if readErr != nil {
			return translateStorageErr(readErr, errs.ErrPropertyNotFound)
		}

		entity, domainErr := booking.NewBooking(u.services, prop.BookingSpec(), userID, stay, paymentType)
		if domainErr != nil {
			return errs.Mark(domainErr, errs.ErrValidation)
		}

		if availErr := u.ensureAvailable(ctx, tx, propertyID, stay, nil); availErr != nil {
			return availErr
		}

		id, createErr := tx.Bookings().Create(ctx, tx.DB(), entity)
		if createErr != nil {
			return translateStorageErr(createErr, nil)
		}
		bookingID = id

		if outboxErr := u.enqueue(ctx, tx, eventBookingCreated, id, entity); outboxErr != nil {
			return outboxErr
		}

		if idempotencyKey != nil {
			if markErr := tx.Idempotency().MarkCompleted(ctx, tx.DB(), *idempotencyKey, userID, id); markErr != nil {
				return translateStorageErr(markErr, nil)
			}
		}
		return nil
	})
	if err != nil {
		return nil, finishTx(err)
	}

	if !isReplayed {
		u.invalidate(ctx, propertyID)
		slog.Info("booking created",
			"booking_id", bookingID,
			"property_id", propertyID,
			"user_id", userID)
	}

	view, err := u.queries.GetByIDSystem(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	return &CreateBookingResult{Booking: view, IsReplayed: isReplayed}, nil
}

// claimIdempotencyKey returns the stored booking id when the key was already
// completed with the same request.
func (u *bookingCommandsImpl) claimIdempotencyKey(
	ctx context.Context,
	tx shared.Tx,
	key, userID uuid.UUID,
	requestHash string,
) (*uuid.UUID, error) {
	expiresAt := u.services.Clock.Now().Add(u.cfg.IdempotencyTTL)
	inserted, err := tx.Idempotency().TryInsert(ctx, tx.DB(), key, userID, createBookingEndpoint, requestHash, expiresAt)
	if err != nil {
		return nil, translateStorageErr(err, nil)
	}
	if inserted {
		return nil, nil
	}

	existing, err := tx.Reads().IdempotencyByKey(ctx, key, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			// expired between the insert attempt and the read
			return nil, errs.ErrIdempotencyInProgress
		}
		return nil, translateStorageErr(err, nil)
	}

	if existing.RequestHash != requestHash {
		return nil, errs.ErrIdempotencyMismatch
	}

	switch existing.Status {
	case shared.IdempotencyCompleted:
		if existing.ResultBookingID == nil {
			return nil, errs.New("completed idempotency key missing result booking id")
		}
		return existing.ResultBookingID, nil
	case shared.IdempotencyProcessing:
		return nil, errs.ErrIdempotencyInProgress
	default:
		return nil, errs.New("invalid idempotency key status")
	}
}

func (u *bookingCommandsImpl) ConfirmPayment(
	ctx context.Context,
	bookingID, userID uuid.UUID,
	req reqdto.ConfirmBookingRequest,
) (view *queries.BookingView, err error) {
	defer func() { metrics.IncBooking("confirm", outcomeOf(err)) }()

	target, err := req.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, u.cfg.StorageTimeout)
	defer cancel()

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, loadErr := u.loadOwned(ctx, tx, bookingID, &userID)
		if loadErr != nil {
			return loadErr
		}
		return u.applyPayment(ctx, tx, entity, req.PaymentIntentID, target)
	})
	if err != nil {
		return nil, finishTx(err)
	}

	return u.queries.GetByIDSystem(ctx, bookingID)
}

func (u *bookingCommandsImpl) ApplyPaymentEvent(ctx context.Context, event *shared.PaymentEvent) (err error) {
	if event == nil || !event.Succeeded {
		return nil
	}
	defer func() { metrics.IncBooking("webhook", outcomeOf(err)) }()

	// The provider retries anything but a 2xx, and a retry carries the same
	// metadata, so an intent without a usable target is acknowledged.
	target, statusErr := booking.NewPaymentStatus(event.TargetStatus)
	if statusErr != nil {
		slog.Warn("payment event without a target status",
			"booking_id", event.BookingID,
			"intent_id", event.IntentID,
			"target_status", event.TargetStatus)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, u.cfg.StorageTimeout)
	defer cancel()

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, loadErr := u.loadOwned(ctx, tx, event.BookingID, nil)
		if loadErr != nil {
			return loadErr
		}
		return u.applyPayment(ctx, tx, entity, event.IntentID, target)
	})

	switch {
	case err == nil:
		return nil
	case errs.Is(err, errs.ErrBookingNotFound):
		slog.Warn("payment event for unknown booking", "booking_id", event.BookingID, "intent_id", event.IntentID)
		return nil
	case errs.Is(err, booking.ErrInvalidTransition):
		// a later status was already recorded by the client path
		slog.Info("stale payment event ignored", "booking_id", event.BookingID, "target_status", event.TargetStatus)
		return nil
	default:
		return finishTx(err)
	}
}

func (u *bookingCommandsImpl) applyPayment(
	ctx context.Context,
	tx shared.Tx,
	entity *booking.Booking,
	intentID string,
	target booking.PaymentStatus,
) error {
	changed, err := entity.ConfirmPayment(intentID, target, u.services.Clock.Now())
	if err != nil {
		if errs.Is(err, booking.ErrInvalidTransition) {
			return err
		}
		return errs.Mark(err, errs.ErrValidation)
	}

	if err := tx.Bookings().UpdatePayment(ctx, tx.DB(), entity); err != nil {
		return translateStorageErr(err, errs.ErrBookingNotFound)
	}

	if changed {
		if err := u.enqueue(ctx, tx, eventBookingPaid, entity.ID(), entity); err != nil {
			return err
		}
		slog.Info("booking payment confirmed",
			"booking_id", entity.ID(),
			"payment_status", entity.PaymentStatus().String())
	}
	return nil
}

func (u *bookingCommandsImpl) Reschedule(
	ctx context.Context,
	bookingID, userID uuid.UUID,
	req reqdto.UpdateBookingRequest,
) (view *queries.BookingView, err error) {
	defer func() { metrics.IncBooking("reschedule", outcomeOf(err)) }()

	stay, err := req.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, u.cfg.StorageTimeout)
	defer cancel()

	var propertyID uuid.UUID
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, loadErr := u.loadOwned(ctx, tx, bookingID, &userID)
		if loadErr != nil {
			return loadErr
		}
		propertyID = entity.PropertyID()

		self := entity.ID()
		if availErr := u.ensureAvailable(ctx, tx, propertyID, stay, &self); availErr != nil {
			return availErr
		}

		// price, deposit and balance keep their values from creation
		entity.Reschedule(stay, u.services.Clock.Now())
		if updateErr := tx.Bookings().UpdateSchedule(ctx, tx.DB(), entity); updateErr != nil {
			return translateStorageErr(updateErr, errs.ErrBookingNotFound)
		}

		return u.enqueue(ctx, tx, eventBookingRescheduled, self, entity)
	})
	if err != nil {
		return nil, finishTx(err)
	}

	u.invalidate(ctx, propertyID)
	return u.queries.GetByIDSystem(ctx, bookingID)
}

func (u *bookingCommandsImpl) Cancel(ctx context.Context, bookingID, userID uuid.UUID) (err error) {
	defer func() { metrics.IncBooking("cancel", outcomeOf(err)) }()

	ctx, cancel := context.WithTimeout(ctx, u.cfg.StorageTimeout)
	defer cancel()

	var propertyID uuid.UUID
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, loadErr := u.loadOwned(ctx, tx, bookingID, &userID)
		if loadErr != nil {
			return loadErr
		}
		propertyID = entity.PropertyID()

		if deleteErr := tx.Bookings().Delete(ctx, tx.DB(), bookingID); deleteErr != nil {
			return translateStorageErr(deleteErr, errs.ErrBookingNotFound)
		}

		return u.enqueue(ctx, tx, eventBookingCancelled, bookingID, entity)
	})
	if err != nil {
		return finishTx(err)
	}

	u.invalidate(ctx, propertyID)
	slog.Info("booking cancelled", "booking_id", bookingID, "user_id", userID)
	return nil
}

// loadOwned row-locks the booking. A nil userID skips the owner check.
func (u *bookingCommandsImpl) loadOwned(ctx context.Context, tx shared.Tx, bookingID uuid.UUID, userID *uuid.UUID) (*booking.Booking, error) {
	entity, err := tx.Bookings().FindForUpdate(ctx, tx.DB(), bookingID)
	if err != nil {
		return nil, translateStorageErr(err, errs.ErrBookingNotFound)
	}

	if userID != nil && !entity.IsOwnedBy(*userID) {
		return nil, errs.ErrNotBookingOwner
	}
	return entity, nil
}

// ensureAvailable holds the property lock until the transaction ends, so
// the conflict check and the following write cannot interleave with another
// booking for the same property. It fails closed.
func (u *bookingCommandsImpl) ensureAvailable(
	ctx context.Context,
	tx shared.Tx,
	propertyID uuid.UUID,
	stay booking.DateRange,
	excludeID *uuid.UUID,
) error {
	if err := tx.Locks().LockProperty(ctx, tx.DB(), propertyID, u.cfg.LockTimeout); err != nil {
		return errs.Mark(errs.Wrap(err, "lock property"), errs.ErrAvailabilityUnknown)
	}

	conflicts, err := tx.Bookings().FindConflicts(ctx, tx.DB(), propertyID, stay, excludeID)
	if err != nil {
		return errs.Mark(errs.Wrap(err, "check availability"), errs.ErrAvailabilityUnknown)
	}

	if len(conflicts) > 0 {
		slog.Info("booking dates unavailable",
			"property_id", propertyID,
			"stay", stay.String(),
			"conflicts", len(conflicts))
		return errs.ErrDateConflict
	}
	return nil
}

func (u *bookingCommandsImpl) enqueue(ctx context.Context, tx shared.Tx, eventType string, bookingID uuid.UUID, entity *booking.Booking) error {
	now := u.services.Clock.Now()
	payload, err := json.Marshal(bookingEvent{
		Type:          eventType,
		BookingID:     bookingID,
		PropertyID:    entity.PropertyID(),
		UserID:        entity.UserID(),
		StartDate:     entity.Stay().Start().Format(booking.DateLayout),
		EndDate:       entity.Stay().End().Format(booking.DateLayout),
		PaymentStatus: entity.PaymentStatus().String(),
		OccurredAt:    now,
	})
	if err != nil {
		return errs.Wrap(err, "marshal booking event")
	}

	err = tx.Outbox().Enqueue(ctx, tx.DB(), shared.OutboxEvent{
		Topic:   bookingTopic,
		Key:     bookingID.String(),
		Payload: payload,
		RunAt:   now,
	})
	return translateStorageErr(err, nil)
}

// invalidate is best effort; the cache TTL bounds staleness when it fails.
func (u *bookingCommandsImpl) invalidate(ctx context.Context, propertyID uuid.UUID) {
	if err := u.invalidator.Invalidate(ctx, propertyID); err != nil {
		slog.Warn("failed to invalidate booked dates cache", "property_id", propertyID, "error", err.Error())
	}
}

func calculateRequestHash(v any) string {
	data, _ := json.Marshal(v)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
