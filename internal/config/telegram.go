package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// TelegramConfig configures delivery of booking decisions to a channel.
// SEND_TELEGRAM accepts the strconv.ParseBool forms ("1", "true", ...).
type TelegramConfig struct {
	Enabled   bool          `envconfig:"SEND_TELEGRAM" default:"false"`
	Token     string        `envconfig:"TELEGRAM_BOT_TOKEN"`
	ChannelID string        `envconfig:"TELEGRAM_BOT_CHANNEL_ID"`
	Timeout   time.Duration `envconfig:"TELEGRAM_TIMEOUT" default:"10s"`
}

// LoadTelegramConfig reads the TELEGRAM_* variables and SEND_TELEGRAM.
func LoadTelegramConfig() (TelegramConfig, error) {
	var tg TelegramConfig
	if err := envconfig.Process("", &tg); err != nil {
		return TelegramConfig{}, err
	}
	return tg, nil
}
