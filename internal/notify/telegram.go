// Package notify delivers new-listing alerts to a Telegram chat.
package notify

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"traineewatch/internal/domain"
	"traineewatch/internal/logging"
)

// maxMessageLen is Telegram's hard cap on message text.
const maxMessageLen = 4096

// Notifier announces a batch of novel listings. An empty batch is a no-op.
type Notifier interface {
	Notify(listings []domain.Listing, meta Meta) error
}

// sender is the slice of the bot API we use; *tgbotapi.BotAPI satisfies it.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Telegram struct {
	bot            sender
	chatID         int64
	disablePreview bool
	log            *logging.Logger
}

func NewTelegram(token string, chatID int64, disablePreview bool, log *logging.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &Telegram{
		bot:            bot,
		chatID:         chatID,
		disablePreview: disablePreview,
		log:            log.With("notifier", "telegram"),
	}, nil
}

// Notify sends one message summarizing the batch. If the full message is
// over the size cap, or Telegram rejects it as too long, it falls back
// exactly once to the condensed form. A second failure is returned to the
// caller; it is never retried here.
func (t *Telegram) Notify(listings []domain.Listing, meta Meta) error {
	if len(listings) == 0 {
		t.log.Info("no novel listings, nothing to send")
		return nil
	}

	full := BuildMessage(listings, meta)
	if len(full) <= maxMessageLen {
		err := t.send(full)
		if err == nil {
			t.log.Info("alert sent", "listings", len(listings), "chars", len(full))
			return nil
		}
		if !isTooLong(err) {
			return fmt.Errorf("send alert: %w", err)
		}
		t.log.Warn("alert rejected as too long, retrying condensed", "chars", len(full))
	} else {
		t.log.Warn("alert exceeds message cap, sending condensed", "chars", len(full))
	}

	condensed := BuildCondensed(listings, meta)
	if err := t.send(condensed); err != nil {
		return fmt.Errorf("send condensed alert: %w", err)
	}
	t.log.Info("condensed alert sent", "listings", len(listings))
	return nil
}

func (t *Telegram) send(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = t.disablePreview
	_, err := t.bot.Send(msg)
	return err
}

func isTooLong(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "message is too long")
}
