package components

import (
	"time"

	"barber-booking/internal/pkg/clock"
	"barber-booking/internal/pkg/config"
	"barber-booking/internal/usecase"
	"barber-booking/internal/usecase/commands"
	"barber-booking/internal/usecase/conversation"
	"barber-booking/internal/usecase/queries"
	"barber-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseConversationModule,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	usecase.NewAvailabilityResolver,
)

var usecaseConversationModule = fx.Module("usecase/conversation",
	fx.Provide(
		conversation.NewBookingConversation,
		conversation.NewVacationScheduler,
		fx.Annotate(
			conversation.NewService,
			fx.As(new(conversation.Handler)),
		),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		NewBookingQueries,
	),
)

func NewBookingQueries(
	catalogReader shared.CatalogReader,
	bookings shared.BookingStore,
	clk clock.Clock,
	loc *time.Location,
	cfg config.Config,
) queries.BookingQueries {
	return queries.NewBookingQueries(catalogReader, bookings, clk, loc, cfg.Business.PageSize)
}
