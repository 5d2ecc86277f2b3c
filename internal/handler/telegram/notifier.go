package telegram

import (
	"context"

	"barber-booking/internal/pkg/errs"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier sends plain messages to a user's private chat, whose id equals the user id.
type Notifier struct {
	api Sender
}

func NewNotifier(api Sender) *Notifier {
	return &Notifier{api: api}
}

func (n *Notifier) Notify(ctx context.Context, userID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := n.api.Send(tgbotapi.NewMessage(userID, text)); err != nil {
		return errs.Wrapf(err, "failed to notify user %d", userID)
	}
	return nil
}
