package components

import (
	"barber-booking/internal/handler"
	"barber-booking/internal/handler/api"
	"barber-booking/internal/handler/middleware"
	"barber-booking/internal/pkg/jwt"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewConversationHandler,
		fx.Annotate(
			func(s *jwt.Service) *jwt.Service { return s },
			fx.As(new(middleware.TokenValidator)),
		),
		middleware.NewOperatorAuth,
		func(b *api.BookingHandler, c *api.ConversationHandler) handler.Handlers {
			return handler.Handlers{Booking: b, Conversation: c}
		},
	),
	fx.Invoke(handler.NewRouter),
)
