//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"rental-booking/internal/domain/user"
	"rental-booking/internal/infra"
	"rental-booking/internal/infra/db"
	commandsmock "rental-booking/internal/mock/commands"
	"rental-booking/internal/pkg/clock"
	"rental-booking/internal/pkg/errs"
	"rental-booking/internal/pkg/password"
	"rental-booking/internal/testutil/builder"
	"rental-booking/internal/testutil/uowtest"
	"rental-booking/internal/usecase/commands"
	"rental-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type authFixture struct {
	m      *uowtest.Mocks
	issuer *commandsmock.MockTokenIssuer
	sut    commands.AuthCommands
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &authFixture{
		m:      uowtest.New(ctrl),
		issuer: commandsmock.NewMockTokenIssuer(ctrl),
	}
	f.sut = commands.NewAuthCommands(f.m.UoW, f.issuer, clock.NewFakeClock(builder.BaseDate))
	return f
}

func storedCredentials(t *testing.T, u *builder.UserBuilder) *shared.UserCredentials {
	t.Helper()
	hash, err := password.HashPassword(u.Password)
	require.NoError(t, err)
	return &shared.UserCredentials{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: hash,
		Role:         u.Role,
		IsActive:     u.IsActive,
	}
}

func TestAuthCommands_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a hashed password", func(t *testing.T) {
		f := newAuthFixture(t)
		u := builder.NewUserBuilder()
		newID := uuid.New()

		f.m.Users.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.DBTX, entity *user.User) (uuid.UUID, error) {
				assert.Equal(t, u.Email, entity.Email().Value())
				assert.NotEqual(t, u.Password, entity.PasswordHash())
				assert.NoError(t, password.ComparePassword(entity.PasswordHash(), u.Password))
				return newID, nil
			})

		got, err := f.sut.Register(ctx, u.BuildRegisterDTO())
		require.NoError(t, err)
		assert.Equal(t, newID, got.ID)
		assert.Equal(t, "user", got.Role)
		assert.True(t, got.IsActive)
	})

	t.Run("taken email", func(t *testing.T) {
		f := newAuthFixture(t)
		f.m.Users.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(uuid.Nil, infra.WrapRepoErr("insert user", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}))

		_, err := f.sut.Register(ctx, builder.NewUserBuilder().BuildRegisterDTO())
		assert.True(t, errs.Is(err, errs.ErrEmailTaken))
	})

	t.Run("weak password", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.sut.Register(ctx, builder.NewUserBuilder().WithPassword("short").BuildRegisterDTO())
		assert.True(t, errs.Is(err, errs.ErrValidation))
	})
}

func TestAuthCommands_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a token and records the login", func(t *testing.T) {
		f := newAuthFixture(t)
		u := builder.NewUserBuilder()

		f.m.Reads.EXPECT().UserByEmail(gomock.Any(), u.Email).Return(storedCredentials(t, u), nil)
		f.issuer.EXPECT().GenerateToken(u.ID, user.RoleUser).Return("token", nil)
		f.m.Users.EXPECT().UpdateLastLogin(gomock.Any(), gomock.Any(), u.ID, builder.BaseDate).Return(nil)

		got, err := f.sut.Login(ctx, u.BuildLoginDTO())
		require.NoError(t, err)
		assert.Equal(t, &commands.LoginResult{UserID: u.ID, AccessToken: "token"}, got)
	})

	t.Run("last login failure does not fail the login", func(t *testing.T) {
		f := newAuthFixture(t)
		u := builder.NewUserBuilder()

		f.m.Reads.EXPECT().UserByEmail(gomock.Any(), u.Email).Return(storedCredentials(t, u), nil)
		f.issuer.EXPECT().GenerateToken(u.ID, user.RoleUser).Return("token", nil)
		f.m.Users.EXPECT().UpdateLastLogin(gomock.Any(), gomock.Any(), u.ID, gomock.Any()).Return(errors.New("conn reset"))

		_, err := f.sut.Login(ctx, u.BuildLoginDTO())
		require.NoError(t, err)
	})

	t.Run("unknown email and wrong password look the same", func(t *testing.T) {
		f := newAuthFixture(t)
		u := builder.NewUserBuilder()

		f.m.Reads.EXPECT().UserByEmail(gomock.Any(), u.Email).
			Return(nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound))
		_, err := f.sut.Login(ctx, u.BuildLoginDTO())
		assert.True(t, errs.Is(err, errs.ErrAuthentication))

		f.m.Reads.EXPECT().UserByEmail(gomock.Any(), u.Email).Return(storedCredentials(t, u), nil)
		_, err = f.sut.Login(ctx, u.WithPassword("not-the-password").BuildLoginDTO())
		assert.True(t, errs.Is(err, errs.ErrAuthentication))
	})

	t.Run("inactive account", func(t *testing.T) {
		f := newAuthFixture(t)
		u := builder.NewUserBuilder().AsInactive()
		f.m.Reads.EXPECT().UserByEmail(gomock.Any(), u.Email).Return(storedCredentials(t, u), nil)

		_, err := f.sut.Login(ctx, u.BuildLoginDTO())
		assert.True(t, errs.Is(err, errs.ErrInactiveUser))
	})
}
