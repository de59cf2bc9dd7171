package shared

import (
	"context"
	"time"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/domain/property"
	"rental-booking/internal/domain/user"
	"rental-booking/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Properties() PropertyRepository
	Users() UserRepository
	Idempotency() IdempotencyRepository
	Outbox() OutboxRepository
	Locks() LockRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	PropertyByID(ctx context.Context, id uuid.UUID) (*PropertySnapshot, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error)
	UserByEmail(ctx context.Context, email string) (*UserCredentials, error)
}

type BookingRepository interface {
	Create(ctx context.Context, tx db.DBTX, b *booking.Booking) (uuid.UUID, error)
	// FindForUpdate row-locks the booking until the transaction ends.
	FindForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*booking.Booking, error)
	// FindConflicts returns ids of bookings on the property whose stay
	// overlaps the given range. excludeID skips the booking being moved.
	FindConflicts(ctx context.Context, tx db.DBTX, propertyID uuid.UUID, stay booking.DateRange, excludeID *uuid.UUID) ([]uuid.UUID, error)
	UpdateSchedule(ctx context.Context, tx db.DBTX, b *booking.Booking) error
	UpdatePayment(ctx context.Context, tx db.DBTX, b *booking.Booking) error
	Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error
}

type LockRepository interface {
	// LockProperty serializes booking writes per property for the rest of
	// the transaction.
	LockProperty(ctx context.Context, tx db.DBTX, propertyID uuid.UUID, timeout time.Duration) error
}

type PropertyRepository interface {
	Create(ctx context.Context, tx db.DBTX, p *property.Property) (uuid.UUID, error)
}

type UserRepository interface {
	Create(ctx context.Context, tx db.DBTX, u *user.User) (uuid.UUID, error)
	UpdateLastLogin(ctx context.Context, tx db.DBTX, userID uuid.UUID, at time.Time) error
}

type IdempotencyRepository interface {
	// TryInsert reports false when a live key already exists. Expired keys
	// are reclaimed.
	TryInsert(ctx context.Context, tx db.DBTX, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	MarkCompleted(ctx context.Context, tx db.DBTX, key, userID uuid.UUID, bookingID uuid.UUID) error
	DeleteExpired(ctx context.Context, tx db.DBTX, now time.Time) (int64, error)
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, tx db.DBTX, event OutboxEvent) error
	ClaimBatch(ctx context.Context, tx db.DBTX, limit int, now time.Time) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, tx db.DBTX, id uuid.UUID) error
	MarkFailed(ctx context.Context, tx db.DBTX, id uuid.UUID, lastError string, retryAt time.Time, giveUp bool) error
}
