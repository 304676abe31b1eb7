package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram sends due-item reminders through a Telegram bot. It is the
// only outward-facing surface of the engine; all interactive study
// happens in the mobile UI, which talks to the orchestrator directly.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram creates a notifier for the given bot token and chat.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &Telegram{api: api, chatID: chatID}, nil
}

// SendReminder implements scheduler.Notifier.
func (t *Telegram) SendReminder(userID string, dueCount int) error {
	text := fmt.Sprintf("You have %d item(s) ready for review.", dueCount)
	if dueCount == 1 {
		text = "You have 1 item ready for review."
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}
	return nil
}
