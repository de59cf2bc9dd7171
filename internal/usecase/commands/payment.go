package commands

import (
	"context"
	"log/slog"
	"time"

	reqdto "rental-booking/internal/handler/dto/request"
	"rental-booking/internal/pkg/errs"
	"rental-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type PaymentIntentResult struct {
	ClientSecret    string
	PaymentIntentID string
	AmountCents     int64
}

type PaymentCommands interface {
	CreateIntent(ctx context.Context, userID uuid.UUID, req reqdto.CreatePaymentIntentRequest) (*PaymentIntentResult, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type paymentCommandsImpl struct {
	uow            shared.UnitOfWork
	gateway        shared.PaymentGateway
	bookings       BookingCommands
	storageTimeout time.Duration
}

func NewPaymentCommands(
	uow shared.UnitOfWork,
	gateway shared.PaymentGateway,
	bookings BookingCommands,
	storageTimeout time.Duration,
) PaymentCommands {
	return &paymentCommandsImpl{
		uow:            uow,
		gateway:        gateway,
		bookings:       bookings,
		storageTimeout: storageTimeout,
	}
}

// CreateIntent charges what the booking currently owes. A non-zero client
// amount must match it exactly.
func (p *paymentCommandsImpl) CreateIntent(
	ctx context.Context,
	userID uuid.UUID,
	req reqdto.CreatePaymentIntentRequest,
) (*PaymentIntentResult, error) {
	readCtx, cancel := context.WithTimeout(ctx, p.storageTimeout)
	defer cancel()

	entity, err := p.uow.CommandReads().BookingByID(readCtx, req.BookingID)
	if err != nil {
		return nil, translateStorageErr(err, errs.ErrBookingNotFound)
	}

	if !entity.IsOwnedBy(userID) {
		return nil, errs.ErrNotBookingOwner
	}

	amount, target, err := entity.AmountDue()
	if err != nil {
		return nil, err
	}

	if req.Amount != 0 && req.Amount != amount.Cents() {
		return nil, errs.Mark(errs.ErrAmountMismatch, errs.ErrValidation)
	}

	intent, err := p.gateway.CreateIntent(ctx, shared.CreateIntentInput{
		BookingID:    entity.ID(),
		UserID:       userID,
		AmountCents:  amount.Cents(),
		TargetStatus: target.String(),
	})
	if err != nil {
		slog.Error("payment intent creation failed", "booking_id", entity.ID(), "error", err.Error())
		return nil, errs.Mark(err, errs.ErrPaymentGateway)
	}

	return &PaymentIntentResult{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		AmountCents:     intent.AmountCents,
	}, nil
}

func (p *paymentCommandsImpl) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := p.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return errs.Mark(err, errs.ErrInvalidWebhook)
	}

	if !event.Succeeded {
		slog.Debug("ignoring payment event", "type", event.Type)
		return nil
	}

	return p.bookings.ApplyPaymentEvent(ctx, event)
}
