package components

import (
	"rental-booking/internal/domain/booking"
	"rental-booking/internal/pkg/clock"
	"rental-booking/internal/pkg/config"
	"rental-booking/internal/pkg/jwt"
	"rental-booking/internal/usecase"
	"rental-booking/internal/usecase/commands"
	"rental-booking/internal/usecase/queries"
	"rental-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		booking.NewFairPriceCalculator,
		fx.As(new(booking.PriceCalculator)),
	),
	func(clock clock.Clock, calc booking.PriceCalculator) *booking.Services {
		return &booking.Services{
			Clock:           clock,
			PriceCalculator: calc,
		}
	},
	fx.Annotate(
		func(s *jwt.Service) *jwt.Service { return s },
		fx.As(new(commands.TokenIssuer)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		func(uow shared.UnitOfWork, q queries.BookingQueries, inv commands.BookedDatesInvalidator, s *booking.Services, cfg config.Config) commands.BookingCommands {
			return commands.NewBookingCommands(uow, q, inv, s, cfg.Booking)
		},
		func(uow shared.UnitOfWork, gw shared.PaymentGateway, b commands.BookingCommands, cfg config.Config) commands.PaymentCommands {
			return commands.NewPaymentCommands(uow, gw, b, cfg.Booking.StorageTimeout)
		},
		func(uow shared.UnitOfWork, q queries.PropertyQueries, clk clock.Clock, cfg config.Config) commands.PropertyCommands {
			return commands.NewPropertyCommands(uow, q, clk, cfg.Booking.StorageTimeout)
		},
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		func(rs queries.BookingReadStore, ps queries.PropertyReadStore, c queries.BookedDatesCache, calc booking.PriceCalculator, cfg config.Config) queries.BookingQueries {
			return queries.NewBookingQueries(rs, ps, c, calc, cfg.Booking.StorageTimeout)
		},
		func(ps queries.PropertyReadStore, cfg config.Config) queries.PropertyQueries {
			return queries.NewPropertyQueries(ps, cfg.Booking.StorageTimeout)
		},
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
