package repository

import (
	"context"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/infra"
	"rental-booking/internal/infra/db"
	"rental-booking/internal/infra/repository/converter"
	"rental-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const bookingColumns = `id, property_id, user_id, start_date, end_date,
	total_price_cents, deposit_cents, remaining_cents,
	payment_type, payment_status, payment_intent_id, created_at, updated_at`

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

func (r *BookingRepository) Create(ctx context.Context, tx db.DBTX, b *booking.Booking) (uuid.UUID, error) {
	row := converter.BookingToInfra(b)

	var id uuid.UUID
	err := tx.QueryRow(ctx, `
		INSERT INTO bookings (`+bookingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`,
		row.ID, row.PropertyID, row.UserID, row.StartDate, row.EndDate,
		row.TotalPriceCents, row.DepositCents, row.RemainingCents,
		row.PaymentType, row.PaymentStatus, row.PaymentIntentID, row.CreatedAt, row.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create booking", err)
	}

	return id, nil
}

func (r *BookingRepository) FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	return r.findOne(ctx, tx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
}

func (r *BookingRepository) FindForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	return r.findOne(ctx, tx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
}

func (r *BookingRepository) findOne(ctx context.Context, tx db.DBTX, sql string, id uuid.UUID) (*booking.Booking, error) {
	row, err := scanBookingRow(tx.QueryRow(ctx, sql, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}

	b, err := converter.BookingToDomain(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to map booking", err, infra.KindDBFailure)
	}
	return b, nil
}

// FindConflicts uses the same half-open overlap as the exclusion
// constraint, so a checkout day may be another booking's check-in day.
func (r *BookingRepository) FindConflicts(
	ctx context.Context,
	tx db.DBTX,
	propertyID uuid.UUID,
	stay booking.DateRange,
	excludeID *uuid.UUID,
) ([]uuid.UUID, error) {
	rows, err := tx.Query(ctx, `
		SELECT id FROM bookings
		WHERE property_id = $1
		  AND stay && daterange($2::date, $3::date, '[)')
		  AND ($4::uuid IS NULL OR id <> $4::uuid)
		ORDER BY start_date`,
		propertyID,
		pgconv.DateToPgtype(stay.Start()),
		pgconv.DateToPgtype(stay.End()),
		pgconv.UUIDPtrToPgtype(excludeID),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to check booking conflicts", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read booking conflicts", err)
	}
	return ids, nil
}

func (r *BookingRepository) UpdateSchedule(ctx context.Context, tx db.DBTX, b *booking.Booking) error {
	row := converter.BookingToInfra(b)
	tag, err := tx.Exec(ctx, `
		UPDATE bookings SET start_date = $2, end_date = $3, updated_at = $4
		WHERE id = $1`,
		row.ID, row.StartDate, row.EndDate, row.UpdatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking dates", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) UpdatePayment(ctx context.Context, tx db.DBTX, b *booking.Booking) error {
	row := converter.BookingToInfra(b)
	tag, err := tx.Exec(ctx, `
		UPDATE bookings SET payment_status = $2, payment_intent_id = $3, updated_at = $4
		WHERE id = $1`,
		row.ID, row.PaymentStatus, row.PaymentIntentID, row.UpdatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking payment", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func scanBookingRow(row pgx.Row) (converter.BookingRow, error) {
	var r converter.BookingRow
	err := row.Scan(
		&r.ID, &r.PropertyID, &r.UserID, &r.StartDate, &r.EndDate,
		&r.TotalPriceCents, &r.DepositCents, &r.RemainingCents,
		&r.PaymentType, &r.PaymentStatus, &r.PaymentIntentID, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}
