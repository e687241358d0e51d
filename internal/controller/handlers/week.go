package handlers

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Freeeeeet/lab_booking/internal/controller/callbacks/common"
	"github.com/Freeeeeet/lab_booking/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/lab_booking/internal/timetable"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleWeek обрабатывает команду /week: картинка недели и сводка отработанного времени
func (h *Handlers) HandleWeek(ctx context.Context, _ *bot.Bot, update *models.Update) {
	actor, ok := h.requireOperator(ctx, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	logs, week, err := h.workLogs.Week(ctx, actor.ID)
	if err != nil {
		h.logger.Error("Failed to load week work logs", zap.String("operator_id", actor.ID.String()), zap.Error(err))
		h.sendError(ctx, chatID, common.ErrorMessage(err))
		return
	}
	summary, err := h.workLogs.Summary(ctx, actor.ID)
	if err != nil {
		h.logger.Error("Failed to load work summary", zap.String("operator_id", actor.ID.String()), zap.Error(err))
		h.sendError(ctx, chatID, common.ErrorMessage(err))
		return
	}

	caption := fmt.Sprintf(
		"🗓 Неделя с %s\n\n"+
			"За неделю: %s\n"+
			"За месяц: %s\n"+
			"Всего: %s",
		week.Start.In(h.normalizer.Location()).Format("02.01.2006"),
		formatting.FormatDuration(summary.WeekMinutes),
		formatting.FormatDuration(summary.MonthMinutes),
		formatting.FormatDuration(summary.TotalMinutes),
	)

	image, err := timetable.Render(timetable.Week{
		Range:        week,
		Location:     h.normalizer.Location(),
		Entries:      timetable.LabelEntries(ctx, logs, h.equipment, h.logger),
		TotalMinutes: summary.WeekMinutes,
		Now:          h.clock.Now(),
	})
	if err != nil {
		// Картинка не обязательна, сводка всё равно полезна
		h.logger.Error("Failed to render week image", zap.Error(err))
		h.sendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: caption})
		return
	}

	_, err = h.sender.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  chatID,
		Photo:   &models.InputFileUpload{Filename: "week.png", Data: bytes.NewReader(image)},
		Caption: caption,
	})
	if err != nil {
		h.logger.Error("Failed to send week image", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
