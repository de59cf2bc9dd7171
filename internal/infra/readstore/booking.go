package readstore

import (
	"context"

	"rental-booking/internal/infra"
	"rental-booking/internal/infra/db"
	"rental-booking/internal/pkg/pgconv"
	"rental-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const bookingViewSelect = `
	SELECT b.id, b.property_id, p.title, b.user_id, b.start_date, b.end_date,
	       b.total_price_cents, b.deposit_cents, b.remaining_cents,
	       b.payment_type, b.payment_status, b.payment_intent_id, b.created_at, b.updated_at
	FROM bookings b
	JOIN properties p ON p.id = b.property_id`

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(db db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: db}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	view, err := scanBookingView(r.db.QueryRow(ctx, bookingViewSelect+` WHERE b.id = $1`, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get booking view by id", err)
	}
	return view, nil
}

func (r *BookingReadStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*queries.BookingView, error) {
	rows, err := r.db.Query(ctx, bookingViewSelect+` WHERE b.user_id = $1 ORDER BY b.start_date DESC, b.id`, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by user", err)
	}

	views, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*queries.BookingView, error) {
		return scanBookingView(row)
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read bookings by user", err)
	}
	return views, nil
}

func (r *BookingReadStore) BookedRanges(ctx context.Context, propertyID uuid.UUID) ([]queries.BookedRange, error) {
	rows, err := r.db.Query(ctx, `
		SELECT start_date, end_date FROM bookings
		WHERE property_id = $1
		ORDER BY start_date`, propertyID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list booked dates", err)
	}

	ranges, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (queries.BookedRange, error) {
		var start, end pgtype.Date
		if err := row.Scan(&start, &end); err != nil {
			return queries.BookedRange{}, err
		}
		return queries.BookedRange{
			StartDate: pgconv.DateFromPgtype(start),
			EndDate:   pgconv.DateFromPgtype(end),
		}, nil
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read booked dates", err)
	}
	return ranges, nil
}

func scanBookingView(row pgx.Row) (*queries.BookingView, error) {
	var (
		v          queries.BookingView
		start, end pgtype.Date
		intentID   pgtype.Text
	)
	err := row.Scan(
		&v.ID, &v.PropertyID, &v.PropertyTitle, &v.UserID, &start, &end,
		&v.TotalPriceCents, &v.DepositAmountCents, &v.RemainingBalanceCents,
		&v.PaymentType, &v.PaymentStatus, &intentID, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.StartDate = pgconv.DateFromPgtype(start)
	v.EndDate = pgconv.DateFromPgtype(end)
	v.PaymentIntentID = pgconv.StringPtrFromPgtype(intentID)
	return &v, nil
}
