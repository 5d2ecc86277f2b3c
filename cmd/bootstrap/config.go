package bootstrap

import (
	"time"

	"barber-booking/internal/pkg/config"
	"barber-booking/internal/usecase/conversation"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		NewBusinessLocation,
		NewConversationSettings,
	),
)

func NewBusinessLocation(cfg config.Config) (*time.Location, error) {
	return cfg.Business.Location()
}

func NewConversationSettings(cfg config.Config, loc *time.Location) (conversation.Settings, error) {
	slots, err := cfg.Business.Slots()
	if err != nil {
		return conversation.Settings{}, err
	}
	return conversation.Settings{Location: loc, Slots: slots}, nil
}
