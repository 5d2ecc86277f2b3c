// Package telegram drives booking conversations from a Telegram bot.
package telegram

import (
	"context"
	"log/slog"
	"sync"

	conv "barber-booking/internal/domain/conversation"
	"barber-booking/internal/observability/metrics"
	"barber-booking/internal/pkg/config"
	"barber-booking/internal/pkg/errs"
	"barber-booking/internal/usecase/commands"
	"barber-booking/internal/usecase/conversation"
	"barber-booking/internal/usecase/queries"
	"barber-booking/internal/usecase/shared"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	updateMessage  = "message"
	updateCallback = "callback"
	updateOther    = "other"

	statusOK      = "ok"
	statusInvalid = "invalid"
	statusIgnored = "ignored"
	statusFailed  = "failed"

	shardBuffer = 64
)

const helpText = "Welcome to the barbershop!\n\n" +
	"/book: book a visit\n" +
	"/mybookings: see or cancel your bookings\n" +
	"/cancel: stop the current booking"

const operatorHelpText = "\n/vacation: schedule a barber's vacation" +
	"\n/token: get an access token for the operator API"

// Sender is the part of the Bot API the transport needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// TokenIssuer mints operator API tokens.
type TokenIssuer interface {
	GenerateToken(operatorID int64) (string, error)
}

type Bot struct {
	api           Sender
	conversations conversation.Handler
	bookings      commands.BookingCommands
	queries       queries.BookingQueries
	operators     shared.OperatorDirectory
	tokens        TokenIssuer
	metrics       *metrics.TransportMetrics
	logger        *slog.Logger
	workers       int
}

func NewBot(
	api Sender,
	conversations conversation.Handler,
	bookings commands.BookingCommands,
	q queries.BookingQueries,
	operators shared.OperatorDirectory,
	tokens TokenIssuer,
	m *metrics.TransportMetrics,
	logger *slog.Logger,
	workers int,
) *Bot {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		api:           api,
		conversations: conversations,
		bookings:      bookings,
		queries:       q,
		operators:     operators,
		tokens:        tokens,
		metrics:       m,
		logger:        logger,
		workers:       workers,
	}
}

// NewAPI connects to the Bot API with the configured token.
func NewAPI(cfg config.TelegramConfig) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, errs.Wrap(err, "failed to connect to telegram")
	}
	api.Debug = cfg.Debug
	return api, nil
}

// Updates starts long polling.
func Updates(api *tgbotapi.BotAPI, timeout int) tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeout
	return api.GetUpdatesChan(u)
}

// Run dispatches updates until ctx is done or updates is closed. Updates of
// one user always land on the same worker, so they are handled in order.
// Queued updates are still handled after ctx is done.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	workCtx := context.WithoutCancel(ctx)
	shards := make([]chan tgbotapi.Update, b.workers)
	var wg sync.WaitGroup
	for i := range shards {
		shards[i] = make(chan tgbotapi.Update, shardBuffer)
		wg.Add(1)
		go func(in <-chan tgbotapi.Update) {
			defer wg.Done()
			for u := range in {
				b.HandleUpdate(workCtx, u)
			}
		}(shards[i])
	}
	defer func() {
		for _, s := range shards {
			close(s)
		}
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			userID := updateUserID(u)
			if userID == 0 {
				b.metrics.ObserveUpdate(updateOther, statusIgnored)
				continue
			}
			select {
			case shards[shardOf(userID, len(shards))] <- u:
			case <-ctx.Done():
				return
			}
		}
	}
}

func shardOf(userID int64, n int) int {
	return int(uint64(userID) % uint64(n))
}

func updateUserID(u tgbotapi.Update) int64 {
	switch {
	case u.Message != nil && u.Message.From != nil:
		return u.Message.From.ID
	case u.CallbackQuery != nil && u.CallbackQuery.From != nil:
		return u.CallbackQuery.From.ID
	}
	return 0
}

// HandleUpdate processes one update synchronously.
func (b *Bot) HandleUpdate(ctx context.Context, u tgbotapi.Update) {
	switch {
	case u.Message != nil && u.Message.From != nil:
		b.metrics.ObserveUpdate(updateMessage, b.handleMessage(ctx, u.Message))
	case u.CallbackQuery != nil && u.CallbackQuery.From != nil:
		b.metrics.ObserveUpdate(updateCallback, b.handleCallback(ctx, u.CallbackQuery))
	default:
		b.metrics.ObserveUpdate(updateOther, statusIgnored)
	}
}

func (b *Bot) handleMessage(ctx context.Context, m *tgbotapi.Message) string {
	userID, chatID := m.From.ID, m.Chat.ID
	if !m.IsCommand() {
		b.send(chatID, Message{Text: "Please use the buttons, or send /book to start."})
		return statusIgnored
	}

	switch m.Command() {
	case "start", "help":
		text := helpText
		if b.operators.IsOperator(ctx, userID) {
			text += operatorHelpText
		}
		b.send(chatID, Message{Text: text})
		return statusOK
	case "book":
		return b.converse(ctx, userID, chatID, 0, conv.Start{Flow: conv.FlowBooking})
	case "vacation":
		return b.converse(ctx, userID, chatID, 0, conv.Start{Flow: conv.FlowVacation})
	case "cancel":
		return b.converse(ctx, userID, chatID, 0, conv.Cancelled{})
	case "mybookings":
		return b.showBookings(ctx, userID, chatID, 0, 1)
	case "token":
		return b.issueToken(ctx, userID, chatID)
	}
	b.send(chatID, Message{Text: "Unknown command.\n\n" + helpText})
	return statusInvalid
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) string {
	userID := q.From.ID
	chatID, messageID := userID, 0
	if q.Message != nil && q.Message.Chat != nil {
		chatID, messageID = q.Message.Chat.ID, q.Message.MessageID
	}

	ev, action, err := Decode(q.Data)
	if err != nil {
		b.logger.WarnContext(ctx, "Undecodable callback", "user_id", userID, "data", q.Data, "error", err.Error())
		b.answer(q.ID, "This button is no longer valid.")
		return statusInvalid
	}
	if ev != nil {
		b.answer(q.ID, "")
		return b.converse(ctx, userID, chatID, messageID, ev)
	}

	switch action.Kind {
	case codeCancelBooking:
		return b.cancelBooking(ctx, q, chatID, messageID, action)
	case codeBookingsPage:
		b.answer(q.ID, "")
		return b.showBookings(ctx, userID, chatID, messageID, action.Page)
	}
	b.answer(q.ID, "")
	return statusIgnored
}

func (b *Bot) converse(ctx context.Context, userID, chatID int64, messageID int, ev conv.Event) string {
	reply, err := b.conversations.Handle(ctx, userID, ev)
	if err != nil {
		b.logger.ErrorContext(ctx, "Conversation event failed",
			"user_id", userID, "event", string(ev.Kind()), "error", err.Error())
		if reply == nil {
			b.send(chatID, Message{Text: "Something went wrong. Please try again later."})
			return statusFailed
		}
	}

	out := RenderReply(reply)
	if messageID != 0 {
		b.edit(chatID, messageID, out)
	} else {
		b.send(chatID, out)
	}
	if err != nil {
		return statusFailed
	}
	if reply.Outcome == conversation.OutcomeRejected {
		return statusInvalid
	}
	return statusOK
}

func (b *Bot) showBookings(ctx context.Context, userID, chatID int64, messageID, page int) string {
	p, err := b.queries.UserBookings(ctx, userID, page)
	if err != nil {
		b.logger.ErrorContext(ctx, "Failed to list bookings", "user_id", userID, "error", err.Error())
		b.send(chatID, Message{Text: "Could not load your bookings. Please try again later."})
		return statusFailed
	}
	out := RenderBookingPage(p)
	if messageID != 0 {
		b.edit(chatID, messageID, out)
	} else {
		b.send(chatID, out)
	}
	return statusOK
}

func (b *Bot) cancelBooking(ctx context.Context, q *tgbotapi.CallbackQuery, chatID int64, messageID int, a *Action) string {
	userID := q.From.ID
	res, err := b.bookings.CancelOwnBooking(ctx, userID, a.BookingID)
	switch {
	case errs.Is(err, commands.ErrBookingNotFound):
		b.answer(q.ID, "Booking not found.")
		return statusInvalid
	case err != nil:
		b.logger.ErrorContext(ctx, "Failed to cancel booking",
			"user_id", userID, "booking_id", a.BookingID.String(), "error", err.Error())
		b.answer(q.ID, "Could not cancel the booking. Please try again later.")
		return statusFailed
	case res == commands.CancelResultAlreadyCancelled:
		b.answer(q.ID, "This booking was already cancelled.")
	default:
		b.answer(q.ID, "Booking cancelled.")
	}
	return b.showBookings(ctx, userID, chatID, messageID, 1)
}

func (b *Bot) issueToken(ctx context.Context, userID, chatID int64) string {
	if b.tokens == nil || !b.operators.IsOperator(ctx, userID) {
		b.send(chatID, Message{Text: "Only operators can request an access token."})
		return statusInvalid
	}
	token, err := b.tokens.GenerateToken(userID)
	if err != nil {
		b.logger.ErrorContext(ctx, "Failed to generate operator token", "user_id", userID, "error", err.Error())
		b.send(chatID, Message{Text: "Could not issue a token. Please try again later."})
		return statusFailed
	}
	b.send(chatID, Message{Text: "Your operator API token:\n\n" + token})
	return statusOK
}

func (b *Bot) send(chatID int64, m Message) {
	msg := tgbotapi.NewMessage(chatID, m.Text)
	if m.HasKeyboard() {
		msg.ReplyMarkup = m.Keyboard
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("Failed to send telegram message", "chat_id", chatID, "error", err.Error())
	}
}

func (b *Bot) edit(chatID int64, messageID int, m Message) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, m.Text, m.Keyboard)
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Warn("Failed to edit telegram message", "chat_id", chatID, "message_id", messageID, "error", err.Error())
	}
}

func (b *Bot) answer(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.logger.Warn("Failed to answer callback", "callback_id", callbackID, "error", err.Error())
	}
}
