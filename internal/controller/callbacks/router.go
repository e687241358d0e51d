package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/lab_booking/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/lab_booking/internal/controller/callbacks/common"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Handler обрабатывает нажатия на inline кнопки
type Handler struct {
	deps *callbacktypes.Handler
}

func NewHandler(deps *callbacktypes.Handler) *Handler {
	return &Handler{deps: deps}
}

// HandleCallbackQuery точка входа для bot.HandlerTypeCallbackQueryData
func (h *Handler) HandleCallbackQuery(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	Route(ctx, update.CallbackQuery, h.deps)
}

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data
	h.Logger.Info("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID))

	switch {
	case strings.HasPrefix(data, callbacktypes.ApproveReservation):
		handleApprove(ctx, callback, h)
	case strings.HasPrefix(data, callbacktypes.RejectReservation):
		handleReject(ctx, callback, h)
	case strings.HasPrefix(data, callbacktypes.CancelReservation):
		handleCancel(ctx, callback, h)
	case data == callbacktypes.Noop:
		common.AnswerCallback(ctx, h.Sender, callback.ID, "")
	default:
		h.Logger.Warn("Unknown callback", zap.String("data", data))
		common.AnswerCallbackAlert(ctx, h.Sender, callback.ID, common.ErrorMessage(common.ErrInvalidFormat))
	}
}
