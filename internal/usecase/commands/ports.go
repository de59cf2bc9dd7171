package commands

import (
	"context"

	"rental-booking/internal/domain/user"

	"github.com/google/uuid"
)

// BookedDatesInvalidator drops cached availability once a booking write has
// committed.
type BookedDatesInvalidator interface {
	Invalidate(ctx context.Context, propertyID uuid.UUID) error
}

type TokenIssuer interface {
	GenerateToken(userID uuid.UUID, role user.Role) (string, error)
}
