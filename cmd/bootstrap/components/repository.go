package components

import (
	"rental-booking/internal/infra/readstore"
	"rental-booking/internal/infra/uow"
	"rental-booking/internal/usecase/queries"

	"go.uber.org/fx"
)

// Write-side repositories are created per transaction by the unit of work.
var RepositoryModule = fx.Module("repository",
	fx.Provide(
		uow.NewPostgresUoW,
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
		),
		fx.Annotate(
			readstore.NewPropertyReadStore,
			fx.As(new(queries.PropertyReadStore)),
		),
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
	),
)
