package readstore

import (
	"context"
	"time"

	"rental-booking/internal/infra"
	"rental-booking/internal/infra/db"
	"rental-booking/internal/pkg/pgconv"
	"rental-booking/internal/usecase/queries"
	"rental-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const propertySelect = `
	SELECT id, owner_id, title, listing_type, price_cents, pricing_unit, total_price_cents, created_at, updated_at
	FROM properties`

type PropertyReadStore struct {
	db db.DBTX
}

func NewPropertyReadStore(db db.DBTX) *PropertyReadStore {
	return &PropertyReadStore{db: db}
}

func (r *PropertyReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.PropertyView, error) {
	view, err := scanPropertyView(r.db.QueryRow(ctx, propertySelect+` WHERE id = $1`, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("property not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get property by id", err)
	}
	return view, nil
}

// FindSnapshot is the write-side view used when pricing a booking.
func (r *PropertyReadStore) FindSnapshot(ctx context.Context, id uuid.UUID) (*shared.PropertySnapshot, error) {
	view, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &shared.PropertySnapshot{
		ID:          view.ID,
		OwnerID:     view.OwnerID,
		Title:       view.Title,
		ListingType: view.ListingType,
		PriceCents:  view.PriceCents,
		PricingUnit: view.PricingUnit,
	}, nil
}

func (r *PropertyReadStore) ListFirstPage(ctx context.Context, limit int32) ([]*queries.PropertyView, error) {
	return r.list(ctx, propertySelect+` ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
}

func (r *PropertyReadStore) ListKeyset(ctx context.Context, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.PropertyView, error) {
	return r.list(ctx, propertySelect+`
		WHERE (created_at, id) < ($2, $3)
		ORDER BY created_at DESC, id DESC LIMIT $1`, limit, lastCreatedAt, lastID)
}

func (r *PropertyReadStore) list(ctx context.Context, sql string, args ...any) ([]*queries.PropertyView, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list properties", err)
	}
	views, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*queries.PropertyView, error) {
		return scanPropertyView(row)
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read properties", err)
	}
	return views, nil
}

func scanPropertyView(row pgx.Row) (*queries.PropertyView, error) {
	var (
		v     queries.PropertyView
		total pgtype.Int8
	)
	err := row.Scan(&v.ID, &v.OwnerID, &v.Title, &v.ListingType, &v.PriceCents, &v.PricingUnit, &total, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	v.TotalPriceCents = pgconv.Int64PtrFromPgtype(total)
	return &v, nil
}
