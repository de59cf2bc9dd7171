package repository

import (
	"context"
	"time"

	"rental-booking/internal/domain/user"
	"rental-booking/internal/infra"
	"rental-booking/internal/infra/db"

	"github.com/google/uuid"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) Create(ctx context.Context, tx db.DBTX, u *user.User) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, `
		INSERT INTO users (id, email, name, password_hash, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		u.ID(), u.Email().Value(), u.Name(), u.PasswordHash(), u.Role().String(),
		u.IsActive(), u.CreatedAt(), u.UpdatedAt(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create user", err)
	}
	return id, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, tx db.DBTX, userID uuid.UUID, at time.Time) error {
	_, err := tx.Exec(ctx, `UPDATE users SET last_login = $2, updated_at = $2 WHERE id = $1`, userID, at)
	if err != nil {
		return infra.WrapRepoErr("failed to update user last login", err)
	}
	return nil
}
