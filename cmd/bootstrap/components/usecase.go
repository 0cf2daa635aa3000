package components

import (
	"shop-inventory/internal/pkg/clock"
	"shop-inventory/internal/pkg/config"
	"shop-inventory/internal/usecase"
	"shop-inventory/internal/usecase/commands"
	"shop-inventory/internal/usecase/queries"
	"shop-inventory/internal/usecase/shared"

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
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewProductQueries,
		queries.NewSkuQueries,
		queries.NewOrderQueries,
		queries.NewUserQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		func(uow shared.UnitOfWork, clk clock.Clock, cfg config.ReservationConfig) commands.ReservationCommands {
			return commands.NewReservationCommands(uow, clk, cfg.TTL)
		},
		commands.NewMaintenanceCommands,
		commands.NewOrderCommands,
		commands.NewStockCommands,
		commands.NewAuthCommands,
	),
)
