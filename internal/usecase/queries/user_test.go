//go:build unit

package queries_test

import (
	"context"
	"testing"

	queriesmock "rental-booking/internal/mock/queries"
	"rental-booking/internal/pkg/errs"
	"rental-booking/internal/testutil/builder"
	"rental-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestUserQueries_GetCurrentUser(t *testing.T) {
	ctx := context.Background()

	t.Run("active user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockUserReadStore(ctrl)
		view := builder.NewUserBuilder().BuildReadModel()
		store.EXPECT().FindByID(gomock.Any(), view.ID).Return(view, nil)

		got, err := queries.NewUserQueries(store).GetCurrentUser(ctx, view.ID)
		require.NoError(t, err)
		assert.Equal(t, view, got)
	})

	t.Run("inactive user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockUserReadStore(ctrl)
		view := builder.NewUserBuilder().AsInactive().BuildReadModel()
		store.EXPECT().FindByID(gomock.Any(), view.ID).Return(view, nil)

		_, err := queries.NewUserQueries(store).GetCurrentUser(ctx, view.ID)
		assert.True(t, errs.Is(err, errs.ErrInactiveUser))
	})

	t.Run("unknown user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockUserReadStore(ctrl)
		store.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(nil, notFound())

		_, err := queries.NewUserQueries(store).GetCurrentUser(ctx, uuid.New())
		assert.True(t, errs.Is(err, errs.ErrUserNotFound))
	})
}
