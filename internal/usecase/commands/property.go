package commands

import (
	"context"
	"log/slog"
	"time"

	"rental-booking/internal/domain/property"
	reqdto "rental-booking/internal/handler/dto/request"
	"rental-booking/internal/pkg/clock"
	"rental-booking/internal/pkg/errs"
	"rental-booking/internal/usecase/queries"
	"rental-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type PropertyCommands interface {
	Create(ctx context.Context, ownerID uuid.UUID, req reqdto.CreatePropertyRequest) (*queries.PropertyView, error)
}

type propertyCommandsImpl struct {
	uow            shared.UnitOfWork
	queries        queries.PropertyQueries
	clock          clock.Clock
	storageTimeout time.Duration
}

func NewPropertyCommands(
	uow shared.UnitOfWork,
	propertyQueries queries.PropertyQueries,
	clock clock.Clock,
	storageTimeout time.Duration,
) PropertyCommands {
	return &propertyCommandsImpl{
		uow:            uow,
		queries:        propertyQueries,
		clock:          clock,
		storageTimeout: storageTimeout,
	}
}

func (p *propertyCommandsImpl) Create(ctx context.Context, ownerID uuid.UUID, req reqdto.CreatePropertyRequest) (*queries.PropertyView, error) {
	in, err := req.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	entity, err := property.NewProperty(ownerID, in.Title, in.ListingType, in.PriceCents, in.PricingUnit, in.TotalPriceCents, p.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, p.storageTimeout)
	defer cancel()

	var propertyID uuid.UUID
	err = p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, createErr := tx.Properties().Create(ctx, tx.DB(), entity)
		if createErr != nil {
			return translateStorageErr(createErr, nil)
		}
		propertyID = id
		return nil
	})
	if err != nil {
		return nil, finishTx(err)
	}

	slog.Info("property listed", "property_id", propertyID, "owner_id", ownerID)
	return p.queries.GetByID(ctx, propertyID)
}
