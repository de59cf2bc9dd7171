//go:build unit

package password_test

import (
	"strings"
	"testing"

	"rental-booking/internal/pkg/errs"
	"rental-booking/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	hash, err := password.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	require.NoError(t, password.ComparePassword(hash, "correct horse"))
	assert.ErrorIs(t, password.ComparePassword(hash, "wrong horse"), password.ErrComparisonFailed)

	t.Run("each hash is salted", func(t *testing.T) {
		again, err := password.HashPassword("correct horse")
		require.NoError(t, err)
		assert.NotEqual(t, hash, again)
	})
}

func TestHashPassword_Rejects(t *testing.T) {
	_, err := password.HashPassword("")
	assert.ErrorIs(t, err, password.ErrInvalidPassword)

	_, err = password.HashPassword(strings.Repeat("a", password.MaxLength+1))
	assert.ErrorIs(t, err, password.ErrPasswordTooLong)

	_, err = password.HashPassword(strings.Repeat("a", password.MaxLength))
	assert.NoError(t, err)
}

func TestComparePassword_Rejects(t *testing.T) {
	hash, err := password.HashPassword("password123")
	require.NoError(t, err)

	cases := map[string]struct{ hash, pw string }{
		"missing hash":    {"", "password123"},
		"empty password":  {hash, ""},
		"corrupt hash":    {"not-a-bcrypt-hash", "password123"},
		"over bcrypt max": {hash, strings.Repeat("a", password.MaxLength+1)},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := password.ComparePassword(tc.hash, tc.pw)
			assert.True(t, errs.Is(err, password.ErrInvalidPassword), "got %v", err)
		})
	}
}
