package common

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/lab_booking/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/lab_booking/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/Freeeeeet/lab_booking/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// AnswerCallback отвечает на callback query (без alert)
func AnswerCallback(ctx context.Context, s callbacktypes.Sender, callbackID string, text string) {
	s.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       false,
	})
}

// AnswerCallbackAlert отвечает на callback query с alert (всплывающее окно)
func AnswerCallbackAlert(ctx context.Context, s callbacktypes.Sender, callbackID string, text string) {
	s.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
}

// GetMessageFromCallback извлекает сообщение из callback query
func GetMessageFromCallback(callback *models.CallbackQuery) *models.Message {
	if callback.Message.Message != nil {
		return callback.Message.Message
	}
	return nil
}

// ChatIDFromCallback чат, из которого нажали кнопку. Для недоступного сообщения
// используется ID пользователя, в личном чате они совпадают.
func ChatIDFromCallback(callback *models.CallbackQuery) int64 {
	if msg := GetMessageFromCallback(callback); msg != nil {
		return msg.Chat.ID
	}
	return callback.From.ID
}

// ResolveOperator находит пользователя по его Telegram ID и проверяет, что он может
// одобрять бронирования. Чат не годится: в группе с привязанным ID писать может любой.
func ResolveOperator(ctx context.Context, dir callbacktypes.OperatorDirectory, telegramUserID int64) (service.Actor, error) {
	user, err := dir.GetByTelegramChatID(ctx, telegramUserID)
	if err != nil {
		return service.Actor{}, fmt.Errorf("get user by telegram id: %w", err)
	}
	if user == nil {
		return service.Actor{}, ErrNotLinked
	}
	if !user.CanOperate() {
		return service.Actor{}, ErrNotAnOperator
	}
	return service.Actor{ID: user.ID, Role: user.Role}, nil
}

// FormatReservation краткая карточка бронирования для сообщений бота
func FormatReservation(r *model.Reservation, loc *time.Location) string {
	display := formatting.GetReservationStatusDisplay(r)

	equipment := r.EquipmentID.String()
	if r.Equipment != nil {
		equipment = r.Equipment.Name
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", display.Emoji, equipment)
	fmt.Fprintf(&sb, "🕒 %s (%s)\n",
		formatting.FormatTimeRange(r.StartAt.In(loc), r.EndAt.In(loc)),
		formatting.FormatDuration(int(r.EndAt.Sub(r.StartAt).Minutes())),
	)
	fmt.Fprintf(&sb, "📊 Статус: %s\n", display.Text)
	if r.HasOperator() {
		op := formatting.GetOperatorStatusDisplay(r.OperatorStatus)
		fmt.Fprintf(&sb, "👷 Оператор: %s %s\n", op.Emoji, op.Text)
	}
	if r.Title != nil && *r.Title != "" {
		fmt.Fprintf(&sb, "📝 %s\n", *r.Title)
	}
	if r.OperatorNote != nil && *r.OperatorNote != "" {
		fmt.Fprintf(&sb, "💬 %s\n", *r.OperatorNote)
	}
	return strings.TrimRight(sb.String(), "\n")
}
