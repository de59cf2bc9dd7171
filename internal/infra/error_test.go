//go:build unit

package infra_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"rental-booking/internal/infra"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWrapRepoErr_ClassifiesPostgresCodes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want infra.RepositoryErrorKind
	}{
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: infra.KindDuplicateKey},
		{name: "exclusion violation", err: &pgconn.PgError{Code: "23P01", ConstraintName: "bookings_no_overlap"}, want: infra.KindExclusionViolation},
		{name: "foreign key", err: &pgconn.PgError{Code: "23503"}, want: infra.KindForeignKeyViolated},
		{name: "lock not available", err: &pgconn.PgError{Code: "55P03"}, want: infra.KindLockTimeout},
		{name: "statement timeout", err: &pgconn.PgError{Code: "57014"}, want: infra.KindLockTimeout},
		{name: "context deadline", err: fmt.Errorf("query: %w", context.DeadlineExceeded), want: infra.KindLockTimeout},
		{name: "other pg error", err: &pgconn.PgError{Code: "42P01"}, want: infra.KindDBFailure},
		{name: "plain error", err: errors.New("boom"), want: infra.KindDBFailure},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := infra.WrapRepoErr("op failed", tc.err)
			assert.True(t, infra.IsKind(wrapped, tc.want))
			assert.ErrorIs(t, wrapped, tc.err)
		})
	}
}

func TestWrapRepoErr_ExplicitKindWins(t *testing.T) {
	err := infra.WrapRepoErr("booking not found", &pgconn.PgError{Code: "23505"}, infra.KindNotFound)
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
	assert.False(t, infra.IsKind(err, infra.KindDuplicateKey))

	nilErr := infra.WrapRepoErr("expired", nil, infra.KindNotFound)
	assert.True(t, infra.IsKind(nilErr, infra.KindNotFound))
	assert.Equal(t, "NOT_FOUND: expired", nilErr.Error())
}

func TestConstraintName(t *testing.T) {
	err := infra.WrapRepoErr("insert", &pgconn.PgError{Code: "23P01", ConstraintName: "bookings_no_overlap"})
	assert.Equal(t, "bookings_no_overlap", infra.ConstraintName(err))
	assert.Empty(t, infra.ConstraintName(errors.New("x")))
}
