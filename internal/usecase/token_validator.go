package usecase

import (
	"rental-booking/internal/domain/user"
	"rental-booking/internal/pkg/errs"
	"rental-booking/internal/pkg/jwt"

	"github.com/google/uuid"
)

// Principal is the caller resolved from an access token.
type Principal struct {
	UserID uuid.UUID
	Role   user.Role
}

// TokenValidator resolves bearer tokens for the auth middleware.
type TokenValidator interface {
	ValidateToken(tokenString string) (Principal, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (Principal, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return Principal{}, errs.Mark(err, errs.ErrAuthentication)
	}

	if claims.UserID == uuid.Nil {
		return Principal{}, errs.Mark(jwt.ErrInvalidToken, errs.ErrAuthentication)
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return Principal{}, errs.Mark(err, errs.ErrAuthentication)
	}

	return Principal{UserID: claims.UserID, Role: role}, nil
}
