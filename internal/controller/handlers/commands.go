package handlers

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/lab_booking/internal/controller/callbacks/common"
	"github.com/Freeeeeet/lab_booking/internal/controller/callbacks/common/keyboard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// maxPendingShown сколько бронирований показывать в /pending
const maxPendingShown = 10

const helpText = "📚 Команды:\n\n" +
	"/start - Ваш Telegram ID и привязанная учётная запись\n" +
	"/pending - Бронирования, ожидающие вашего решения\n" +
	"/week - Ваш график работы на неделю\n" +
	"/skip - Отклонить без причины (во время отклонения)\n" +
	"/cancel - Прервать текущий диалог\n" +
	"/help - Показать эту справку\n\n" +
	"Одобряйте и отклоняйте бронирования кнопками под каждой заявкой."

// HandleStart обрабатывает команду /start. Показывает Telegram ID пользователя, который
// администратор привязывает к учётной записи.
func (h *Handlers) HandleStart(ctx context.Context, _ *bot.Bot, update *models.Update) {
	userID, ok := senderID(update.Message)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	user, err := h.operators.GetByTelegramChatID(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to get user by telegram id", zap.Int64("user_id", userID), zap.Error(err))
		h.sendError(ctx, chatID, "❌ Что-то пошло не так. Попробуйте позже.")
		return
	}

	var text string
	if user == nil {
		text = fmt.Sprintf(
			"👋 Привет! Это бот бронирования лабораторного оборудования.\n\n"+
				"Ваш Telegram ID: %d.\n"+
				"Попросите администратора привязать его к вашей учётной записи, чтобы получать уведомления.",
			userID,
		)
	} else {
		text = fmt.Sprintf(
			"👋 Привет, @%s!\n\n"+
				"Ваш Telegram привязан к учётной записи (%s).\n"+
				"Уведомления о бронированиях приходят в личный чат с ботом.\n\n"+
				"/help - Список команд",
			user.Username, user.Role,
		)
	}

	h.sendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendMessage(ctx, &bot.SendMessageParams{ChatID: update.Message.Chat.ID, Text: helpText})
}

// HandlePending обрабатывает команду /pending
func (h *Handlers) HandlePending(ctx context.Context, _ *bot.Bot, update *models.Update) {
	actor, ok := h.requireOperator(ctx, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	pending, err := h.reservations.ListPending(ctx, actor)
	if err != nil {
		h.logger.Error("Failed to list pending reservations", zap.String("operator_id", actor.ID.String()), zap.Error(err))
		h.sendError(ctx, chatID, common.ErrorMessage(err))
		return
	}

	if len(pending) == 0 {
		h.sendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "🎉 Нет бронирований, ожидающих вашего решения."})
		return
	}

	h.sendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("⏳ Бронирований на рассмотрении: %d", len(pending)),
	})

	for i, r := range pending {
		if i == maxPendingShown {
			h.sendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   fmt.Sprintf("…и ещё %d на веб-странице.", len(pending)-maxPendingShown),
			})
			break
		}
		h.sendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        common.FormatReservation(r, h.normalizer.Location()),
			ReplyMarkup: keyboard.PendingActions(r.ID),
		})
	}
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	userID, ok := senderID(update.Message)
	if !ok {
		return
	}

	if _, ok := h.dialogs.PendingRejection(userID); !ok {
		h.sendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "❌ Нечего отменять."})
		return
	}

	h.dialogs.Clear(userID)
	h.sendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "✅ Отменено. Бронирование остаётся на рассмотрении."})
}

// HandleSkip отклоняет бронирование без причины
func (h *Handlers) HandleSkip(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	userID, ok := senderID(update.Message)
	if !ok {
		return
	}

	if _, ok := h.dialogs.PendingRejection(userID); !ok {
		h.sendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "❌ Нечего пропускать."})
		return
	}

	h.completeRejection(ctx, update, "")
}
