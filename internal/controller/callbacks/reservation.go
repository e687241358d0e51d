package callbacks

import (
	"context"

	"github.com/Freeeeeet/lab_booking/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/lab_booking/internal/controller/callbacks/common"
	"github.com/Freeeeeet/lab_booking/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// prepare разбирает ID и находит оператора. При ошибке уже ответил пользователю.
func prepare(ctx context.Context, callback *models.CallbackQuery, h *callbacktypes.Handler, prefix string) (uuid.UUID, service.Actor, bool) {
	id, ok := callbacktypes.ParseReservationID(callback.Data, prefix)
	if !ok {
		h.Logger.Error("Failed to parse reservation ID", zap.String("data", callback.Data))
		common.AnswerCallbackAlert(ctx, h.Sender, callback.ID, common.ErrorMessage(common.ErrInvalidFormat))
		return uuid.Nil, service.Actor{}, false
	}

	actor, err := common.ResolveOperator(ctx, h.Operators, callback.From.ID)
	if err != nil {
		h.Logger.Warn("Failed to resolve operator", zap.Int64("user_id", callback.From.ID), zap.Error(err))
		common.AnswerCallbackAlert(ctx, h.Sender, callback.ID, common.ErrorMessage(err))
		return uuid.Nil, service.Actor{}, false
	}
	return id, actor, true
}

func handleApprove(ctx context.Context, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	id, actor, ok := prepare(ctx, callback, h, callbacktypes.ApproveReservation)
	if !ok {
		return
	}

	if err := h.Reservations.Approve(ctx, id, actor); err != nil {
		h.Logger.Info("Approve from bot failed",
			zap.String("reservation_id", id.String()),
			zap.String("kind", string(service.KindOf(err))),
			zap.Error(err))
		common.AnswerCallbackAlert(ctx, h.Sender, callback.ID, common.ErrorMessage(err))
		return
	}

	common.AnswerCallback(ctx, h.Sender, callback.ID, "✅ Одобрено")
	sendResult(ctx, callback, h, "✅ Бронирование одобрено.")
}

// handleReject не отклоняет сразу, а спрашивает причину
func handleReject(ctx context.Context, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	id, _, ok := prepare(ctx, callback, h, callbacktypes.RejectReservation)
	if !ok {
		return
	}

	h.Dialogs.StartRejection(callback.From.ID, id)

	common.AnswerCallback(ctx, h.Sender, callback.ID, "")
	sendResult(ctx, callback, h,
		"✍️ Напишите причину отклонения бронирования.\n\n"+
			"/skip - отклонить без причины\n"+
			"/cancel - оставить бронирование на рассмотрении")
}

func handleCancel(ctx context.Context, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	id, actor, ok := prepare(ctx, callback, h, callbacktypes.CancelReservation)
	if !ok {
		return
	}

	if err := h.Reservations.Cancel(ctx, id, actor); err != nil {
		h.Logger.Info("Cancel from bot failed",
			zap.String("reservation_id", id.String()),
			zap.String("kind", string(service.KindOf(err))),
			zap.Error(err))
		common.AnswerCallbackAlert(ctx, h.Sender, callback.ID, common.ErrorMessage(err))
		return
	}

	common.AnswerCallback(ctx, h.Sender, callback.ID, "🚫 Отменено")
	sendResult(ctx, callback, h, "🚫 Бронирование отменено.")
}

func sendResult(ctx context.Context, callback *models.CallbackQuery, h *callbacktypes.Handler, text string) {
	chatID := common.ChatIDFromCallback(callback)
	if _, err := h.Sender.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		h.Logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
