// Package notify delivers booking decisions to the hall's Telegram
// channel through the Bot API.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/iliyamo/hall-venue-booking/internal/booking"
)

// Telegram sends plain text messages to one channel.
type Telegram struct {
	bot       *tgbotapi.BotAPI
	token     string
	channelID string
}

// NewTelegram authenticates the bot identified by token against the
// public Bot API.
func NewTelegram(token, channelID string, timeout time.Duration) (*Telegram, error) {
	return newTelegram(token, channelID, tgbotapi.APIEndpoint, timeout)
}

// newTelegram is NewTelegram with a custom endpoint, a format string
// taking the token and the method name.
func newTelegram(token, channelID, endpoint string, timeout time.Duration) (*Telegram, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, &http.Client{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("telegram: authorize bot: %w", redact(err, token))
	}
	return &Telegram{bot: bot, token: token, channelID: channelID}, nil
}

// message addresses text to the channel.  Numeric IDs such as
// "-1001234" are chat IDs; anything else is a channel username.
func (t *Telegram) message(text string) tgbotapi.MessageConfig {
	if id, err := strconv.ParseInt(t.channelID, 10, 64); err == nil {
		return tgbotapi.NewMessage(id, text)
	}
	return tgbotapi.NewMessageToChannel(t.channelID, text)
}

// Send posts text to the channel.  The Bot API client has no context
// support, so ctx is only checked before the call; the HTTP client
// timeout bounds the request.
func (t *Telegram) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := t.bot.Send(t.message(text)); err != nil {
		return fmt.Errorf("telegram: send failed: %w", redact(err, t.token))
	}
	return nil
}

type redactedError struct{ msg string }

func (e redactedError) Error() string { return e.msg }

// redact strips the bot token, which transport errors carry in the URL.
func redact(err error, token string) error {
	if token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return redactedError{msg: strings.ReplaceAll(err.Error(), token, "<token>")}
}

// Notifier adapts a Telegram client to booking.Notifier.
type Notifier struct {
	Channel *Telegram
}

var _ booking.Notifier = Notifier{}

// Notify sends the decision text for n.
func (n Notifier) Notify(ctx context.Context, note booking.Notification) error {
	return n.Channel.Send(ctx, note.Message())
}
