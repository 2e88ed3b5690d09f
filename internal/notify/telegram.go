package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram отправляет уведомления в указанный чат через бота
type Telegram struct {
	s      sender
	chatID int64
}

func NewTelegram(botToken string, chatID int64) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &Telegram{s: api, chatID: chatID}, nil
}

func (t *Telegram) Notify(_ context.Context, title, message string) error {
	msg := tgbotapi.NewMessage(t.chatID, title+"\n\n"+message)
	msg.DisableWebPagePreview = true
	if _, err := t.s.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
