package readstore

import (
	"context"

	"rental-booking/internal/infra"
	"rental-booking/internal/infra/db"
	"rental-booking/internal/pkg/pgconv"
	"rental-booking/internal/usecase/queries"
	"rental-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type UserReadStore struct {
	db db.DBTX
}

func NewUserReadStore(db db.DBTX) *UserReadStore {
	return &UserReadStore{db: db}
}

func (r *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	var v queries.AuthorizedUserView
	err := r.db.QueryRow(ctx, `
		SELECT id, email, name, role, is_active FROM users WHERE id = $1`, id,
	).Scan(&v.ID, &v.Email, &v.Name, &v.Role, &v.IsActive)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}
	return &v, nil
}

// FindCredentials returns the password hash alongside the identity; only the
// login path should call it.
func (r *UserReadStore) FindCredentials(ctx context.Context, email string) (*shared.UserCredentials, error) {
	var c shared.UserCredentials
	err := r.db.QueryRow(ctx, `
		SELECT id, email, password_hash, role, is_active FROM users WHERE email = $1`, email,
	).Scan(&c.ID, &c.Email, &c.PasswordHash, &c.Role, &c.IsActive)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by email", err)
	}
	return &c, nil
}
