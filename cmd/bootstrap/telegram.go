package bootstrap

import (
	"context"
	"log/slog"

	"barber-booking/internal/handler/telegram"
	"barber-booking/internal/observability/metrics"
	"barber-booking/internal/pkg/config"
	"barber-booking/internal/pkg/jwt"
	"barber-booking/internal/usecase/commands"
	"barber-booking/internal/usecase/conversation"
	"barber-booking/internal/usecase/queries"
	"barber-booking/internal/usecase/shared"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/fx"
)

var TelegramModule = fx.Module("telegram",
	fx.Provide(
		NewTelegramAPI,
		NewNotifier,
	),
	fx.Invoke(StartBot),
)

// NewTelegramAPI returns nil when the bot is disabled.
func NewTelegramAPI(cfg config.Config) (*tgbotapi.BotAPI, error) {
	if !cfg.Telegram.Enabled {
		return nil, nil
	}
	return telegram.NewAPI(cfg.Telegram)
}

// logNotifier stands in for the bot when it is disabled.
type logNotifier struct {
	logger *slog.Logger
}

func (n logNotifier) Notify(ctx context.Context, userID int64, text string) error {
	n.logger.InfoContext(ctx, "Notification not delivered, telegram disabled", "user_id", userID, "text", text)
	return nil
}

func NewNotifier(api *tgbotapi.BotAPI, logger *slog.Logger) shared.Notifier {
	if api == nil {
		return logNotifier{logger: logger}
	}
	return telegram.NewNotifier(api)
}

type botParams struct {
	fx.In

	Lifecycle     fx.Lifecycle
	Config        config.Config
	API           *tgbotapi.BotAPI
	Conversations conversation.Handler
	Commands      commands.BookingCommands
	Queries       queries.BookingQueries
	Operators     shared.OperatorDirectory
	Tokens        *jwt.Service
	Metrics       *metrics.TransportMetrics
	Logger        *slog.Logger
}

func StartBot(p botParams) {
	if p.API == nil {
		p.Logger.Info("Telegram bot disabled")
		return
	}

	bot := telegram.NewBot(p.API, p.Conversations, p.Commands, p.Queries, p.Operators,
		p.Tokens, p.Metrics, p.Logger, p.Config.Telegram.Workers)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			updates := telegram.Updates(p.API, p.Config.Telegram.PollTimeout)
			p.Logger.Info("Telegram bot started", "username", p.API.Self.UserName, "workers", p.Config.Telegram.Workers)
			go func() {
				defer close(done)
				bot.Run(ctx, updates)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			p.API.StopReceivingUpdates()
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
			p.Logger.Info("Telegram bot stopped")
			return nil
		},
	})
}
