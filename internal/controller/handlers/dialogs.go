package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/lab_booking/internal/controller/callbacks/common"
	"github.com/Freeeeeet/lab_booking/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния диалога автора
func (h *Handlers) HandleTextMessage(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// Игнорируем команды (они обрабатываются другими handlers)
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	if userID, ok := senderID(update.Message); ok {
		if _, ok := h.dialogs.PendingRejection(userID); ok {
			h.completeRejection(ctx, update, update.Message.Text)
			return
		}
	}

	h.sendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   "🤔 Не понял сообщение. Список команд: /help",
	})
}

// completeRejection отклоняет бронирование из диалога. Диалог закрывается только при успехе
// или окончательной ошибке, чтобы слишком длинную причину можно было прислать заново.
func (h *Handlers) completeRejection(ctx context.Context, update *models.Update, reason string) {
	chatID := update.Message.Chat.ID
	userID, ok := senderID(update.Message)
	if !ok {
		return
	}
	id, ok := h.dialogs.PendingRejection(userID)
	if !ok {
		return
	}

	actor, ok := h.requireOperator(ctx, update)
	if !ok {
		h.dialogs.Clear(userID)
		return
	}

	err := h.reservations.Reject(ctx, id, actor, reason)
	switch {
	case err == nil:
		h.dialogs.Clear(userID)
		h.sendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "🚫 Бронирование отклонено."})
	case service.KindOf(err) == service.KindValidation:
		h.sendError(ctx, chatID, fmt.Sprintf("❌ Причина должна быть не длиннее %d символов. Пришлите короче или /skip.", service.MaxReasonLength))
	default:
		h.dialogs.Clear(userID)
		h.logger.Info("Reject from bot failed",
			zap.String("reservation_id", id.String()),
			zap.String("kind", string(service.KindOf(err))),
			zap.Error(err))
		h.sendError(ctx, chatID, common.ErrorMessage(err))
	}
}
