package repository

import (
	"context"

	"rental-booking/internal/domain/property"
	"rental-booking/internal/infra"
	"rental-booking/internal/infra/db"
	"rental-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type PropertyRepository struct{}

func NewPropertyRepository() *PropertyRepository {
	return &PropertyRepository{}
}

func (r *PropertyRepository) Create(ctx context.Context, tx db.DBTX, p *property.Property) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, `
		INSERT INTO properties (id, owner_id, title, listing_type, price_cents, pricing_unit, total_price_cents, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		p.ID(), p.OwnerID(), p.Title(), p.ListingType().String(), p.PriceCents(),
		p.PricingUnit().String(), pgconv.Int64PtrToPgtype(p.TotalPriceCents()),
		p.CreatedAt(), p.UpdatedAt(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create property", err)
	}
	return id, nil
}
