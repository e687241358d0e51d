package notify

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/lab_booking/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/Freeeeeet/lab_booking/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// MessageSender часть *bot.Bot, нужная для отправки
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// TelegramSink отправляет уведомление в привязанный чат пользователя.
// Пользователи без привязанного чата пропускаются.
type TelegramSink struct {
	sender MessageSender
	users  service.UserLookup
}

func NewTelegramSink(sender MessageSender, users service.UserLookup) *TelegramSink {
	return &TelegramSink{sender: sender, users: users}
}

func (s *TelegramSink) Notify(ctx context.Context, n model.Notification) error {
	user, err := s.users.GetUser(ctx, n.UserID)
	if err != nil {
		return fmt.Errorf("get recipient: %w", err)
	}
	if user == nil || user.TelegramChatID == nil {
		return nil
	}

	params := &bot.SendMessageParams{
		ChatID: *user.TelegramChatID,
		Text:   MessageText(n),
	}
	if markup := actionsFor(n); markup != nil {
		params.ReplyMarkup = markup
	}

	if _, err := s.sender.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

// MessageText текст сообщения в Telegram
func MessageText(n model.Notification) string {
	if n.Body == "" {
		return n.Title
	}
	return n.Title + "\n\n" + n.Body
}

// actionsFor кнопки, которые имеет смысл показать получателю
func actionsFor(n model.Notification) *models.InlineKeyboardMarkup {
	if n.ReservationID == nil {
		return nil
	}
	id := *n.ReservationID

	switch n.Kind {
	case model.NotificationOperatorRequest:
		return keyboard.PendingActions(id)
	case model.NotificationOperatorApproved:
		return keyboard.ApprovedActions(id)
	}
	return nil
}
