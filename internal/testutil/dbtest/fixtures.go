//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"rental-booking/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// DefaultPassword is the plain-text password of every fixture user.
const DefaultPassword = "password123"

var (
	hashOnce    sync.Once
	defaultHash string
	hashErr     error
)

func defaultPasswordHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		defaultHash, hashErr = password.HashPassword(DefaultPassword)
	})
	require.NoError(t, hashErr)
	return defaultHash
}

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, "INSERT INTO users (id, email, name, password_hash, role, is_active) VALUES ($1, $2, $3, $4, $5, true) ON CONFLICT (email) DO NOTHING",
		userID, email, strings.Split(email, "@")[0], defaultPasswordHash(t), role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	}

	return userID
}

func DeactivateUser(t *testing.T, db DBLike, userID uuid.UUID) {
	t.Helper()

	_, err := db.Exec(context.Background(), "UPDATE users SET is_active = false WHERE id = $1", userID)
	require.NoError(t, err)
}

// CreateTestRental inserts a rent listing priced per unit.
func CreateTestRental(t *testing.T, db DBLike, ownerID uuid.UUID, title string, priceCents int64, unit string) uuid.UUID {
	t.Helper()

	propertyID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO properties (id, owner_id, title, listing_type, price_cents, pricing_unit) VALUES ($1, $2, $3, 'rent', $4, $5)",
		propertyID, ownerID, title, priceCents, unit)
	require.NoError(t, err)

	return propertyID
}

func CreateTestSaleListing(t *testing.T, db DBLike, ownerID uuid.UUID, title string, totalCents int64) uuid.UUID {
	t.Helper()

	propertyID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO properties (id, owner_id, title, listing_type, price_cents, total_price_cents) VALUES ($1, $2, $3, 'sale', $4, $4)",
		propertyID, ownerID, title, totalCents)
	require.NoError(t, err)

	return propertyID
}

// CreateTestBooking writes a row directly, bypassing pricing. Dates are YYYY-MM-DD.
func CreateTestBooking(t *testing.T, db DBLike, propertyID, userID uuid.UUID, start, end string, totalCents int64) uuid.UUID {
	t.Helper()

	bookingID := uuid.New()
	_, err := db.Exec(context.Background(),
		`INSERT INTO bookings (id, property_id, user_id, start_date, end_date, total_price_cents, remaining_cents, payment_type)
		 VALUES ($1, $2, $3, $4::date, $5::date, $6, $6, 'pay_later')`,
		bookingID, propertyID, userID, start, end, totalCents)
	require.NoError(t, err)

	return bookingID
}

func CountOutboxEvents(t *testing.T, db DBLike, topic string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), "SELECT count(*) FROM outbox_events WHERE topic = $1", topic).Scan(&n)
	require.NoError(t, err)
	return n
}

// StoredStays lists the bookings of a property in date order, read straight
// from the table so tests see what the exclusion constraint saw.
func StoredStays(t *testing.T, db DBLike, propertyID uuid.UUID) []StoredStay {
	t.Helper()

	rows, err := db.Query(context.Background(),
		"SELECT to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD') FROM bookings WHERE property_id = $1 ORDER BY start_date",
		propertyID)
	require.NoError(t, err)

	stays, err := pgx.CollectRows(rows, pgx.RowToStructByPos[StoredStay])
	require.NoError(t, err)
	return stays
}

// BookingExists reports whether the row survived, for hard-delete checks.
func BookingExists(t *testing.T, db DBLike, bookingID uuid.UUID) bool {
	t.Helper()

	var exists bool
	err := db.QueryRow(context.Background(), "SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)", bookingID).Scan(&exists)
	require.NoError(t, err)
	return exists
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('atlas_schema_revisions')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
