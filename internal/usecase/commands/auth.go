package commands

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"rental-booking/internal/domain/user"
	reqdto "rental-booking/internal/handler/dto/request"
	"rental-booking/internal/infra"
	"rental-booking/internal/pkg/clock"
	"rental-booking/internal/pkg/errs"
	"rental-booking/internal/pkg/password"
	"rental-booking/internal/usecase/queries"
	"rental-booking/internal/usecase/shared"
)

var ErrTokenGeneration = errs.New("token generation failed")

type LoginResult struct {
	UserID      uuid.UUID
	AccessToken string
}

type AuthCommands interface {
	Register(ctx context.Context, req reqdto.RegisterRequest) (*queries.AuthorizedUserView, error)
	Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error)
}

type authCommandsImpl struct {
	uow         shared.UnitOfWork
	tokenIssuer TokenIssuer
	clock       clock.Clock
}

func NewAuthCommands(uow shared.UnitOfWork, tokenIssuer TokenIssuer, clock clock.Clock) AuthCommands {
	return &authCommandsImpl{
		uow:         uow,
		tokenIssuer: tokenIssuer,
		clock:       clock,
	}
}

func (a *authCommandsImpl) Register(ctx context.Context, req reqdto.RegisterRequest) (*queries.AuthorizedUserView, error) {
	email, pw, err := req.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	hash, err := password.HashPassword(pw.Value())
	if err != nil {
		return nil, errs.Wrap(err, "hash password")
	}

	entity, err := user.NewUser(email, req.Name, hash, user.RoleUser, a.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	var userID uuid.UUID
	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, createErr := tx.Users().Create(ctx, tx.DB(), entity)
		if createErr != nil {
			if infra.IsKind(createErr, infra.KindDuplicateKey) {
				return errs.Mark(createErr, errs.ErrEmailTaken)
			}
			return translateStorageErr(createErr, nil)
		}
		userID = id
		return nil
	})
	if err != nil {
		return nil, finishTx(err)
	}

	slog.Info("user registered", "user_id", userID)
	return &queries.AuthorizedUserView{
		ID:       userID,
		Email:    entity.Email().Value(),
		Name:     entity.Name(),
		Role:     entity.Role().String(),
		IsActive: entity.IsActive(),
	}, nil
}

func (a *authCommandsImpl) Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error) {
	credentials, err := req.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, errs.ErrAuthentication)
	}

	stored, err := a.validateUser(ctx, credentials)
	if err != nil {
		return nil, err
	}

	role, err := user.NewRole(stored.Role)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrAuthentication)
	}

	accessToken, err := a.tokenIssuer.GenerateToken(stored.ID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().UpdateLastLogin(ctx, tx.DB(), stored.ID, a.clock.Now())
	})
	if err != nil {
		// login already succeeded; only last_login is stale
		slog.Warn("failed to update last login", "user_id", stored.ID, "error", err.Error())
	}

	return &LoginResult{
		UserID:      stored.ID,
		AccessToken: accessToken,
	}, nil
}

// validateUser answers every lookup or password failure the same way so the
// response does not reveal which emails are registered.
func (a *authCommandsImpl) validateUser(ctx context.Context, credentials user.Credentials) (*shared.UserCredentials, error) {
	stored, err := a.uow.CommandReads().UserByEmail(ctx, credentials.Email().Value())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrAuthentication)
		}
		return nil, errs.Mark(err, errs.ErrStorageUnavailable)
	}

	if err := password.ComparePassword(stored.PasswordHash, credentials.Password().Value()); err != nil {
		return nil, errs.Mark(err, errs.ErrAuthentication)
	}

	if !stored.IsActive {
		return nil, errs.ErrInactiveUser
	}

	return stored, nil
}
