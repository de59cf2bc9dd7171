package password

import (
	"errors"

	"rental-booking/internal/pkg/errs"

	"golang.org/x/crypto/bcrypt"
)

// MaxLength is bcrypt's input limit in bytes.
const MaxLength = 72

var (
	ErrHashingFailed    = errors.New("password hashing failed")
	ErrComparisonFailed = errors.New("password comparison failed")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrPasswordTooLong  = errors.New("password exceeds 72 bytes")
)

// Cost is the bcrypt work factor for new account hashes. Existing hashes keep
// the cost they were created with.
const Cost = bcrypt.DefaultCost

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrInvalidPassword
	}
	if len(password) > MaxLength {
		return "", ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", errs.Mark(errs.Wrap(err, "bcrypt"), ErrHashingFailed)
	}
	return string(hashed), nil
}

// ComparePassword reports ErrComparisonFailed for a wrong password and
// ErrInvalidPassword for input that can never match, such as a missing hash
// on an account.
func ComparePassword(hashedPassword, password string) error {
	if hashedPassword == "" || password == "" || len(password) > MaxLength {
		return ErrInvalidPassword
	}

	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrComparisonFailed
	default:
		return errs.Mark(errs.Wrap(err, "bcrypt"), ErrInvalidPassword)
	}
}
