package handlers

import (
	"context"

	"github.com/Freeeeeet/lab_booking/internal/controller/callbacks/common"
	"github.com/Freeeeeet/lab_booking/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// senderID Telegram ID автора сообщения. У сообщений от имени канала или группы автора нет.
func senderID(msg *models.Message) (int64, bool) {
	if msg == nil || msg.From == nil {
		return 0, false
	}
	return msg.From.ID, true
}

// requireOperator проверяет, что автор сообщения привязан к оператору или администратору.
// Проверяется пользователь, а не чат, поэтому в общей группе действовать может только он сам.
func (h *Handlers) requireOperator(ctx context.Context, update *models.Update) (service.Actor, bool) {
	if update.Message == nil {
		return service.Actor{}, false
	}
	chatID := update.Message.Chat.ID
	userID, ok := senderID(update.Message)
	if !ok {
		h.sendError(ctx, chatID, common.ErrorMessage(common.ErrNotLinked))
		return service.Actor{}, false
	}

	actor, err := common.ResolveOperator(ctx, h.operators, userID)
	if err != nil {
		h.logger.Warn("Operator check failed",
			zap.Int64("chat_id", chatID),
			zap.Int64("user_id", userID),
			zap.Error(err))
		h.sendError(ctx, chatID, common.ErrorMessage(err))
		return service.Actor{}, false
	}
	return actor, true
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, chatID int64, text string) {
	_, err := h.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, params *bot.SendMessageParams) {
	if _, err := h.sender.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Any("chat_id", params.ChatID),
			zap.Error(err),
		)
	}
}
