package controller

import (
	"context"

	"github.com/Freeeeeet/lab_booking/internal/controller/callbacks"
	"github.com/Freeeeeet/lab_booking/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/lab_booking/internal/controller/handlers"
	"github.com/Freeeeeet/lab_booking/internal/controller/state"
	"github.com/Freeeeeet/lab_booking/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Deps сервисы, которые использует бот
type Deps struct {
	Reservations callbacktypes.ReservationActions
	Operators    callbacktypes.OperatorDirectory
	WorkLogs     handlers.WorkLogReports
	Equipment    service.EquipmentLookup
	Normalizer   *service.Normalizer
	Clock        service.Clock
}

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(botInstance *bot.Bot, deps Deps, logger *zap.Logger) *BotController {
	// Создаём менеджер состояний
	stateManager := state.NewManager(state.DefaultTTL)

	shared := &callbacktypes.Handler{
		Sender:       botInstance,
		Reservations: deps.Reservations,
		Operators:    deps.Operators,
		Dialogs:      stateManager,
		Logger:       logger,
	}

	return &BotController{
		bot:             botInstance,
		handlers:        handlers.NewHandlers(shared, deps.WorkLogs, deps.Equipment, deps.Normalizer, deps.Clock),
		callbackHandler: callbacks.NewHandler(shared),
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/pending", bot.MatchTypeExact, c.handlers.HandlePending)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/week", bot.MatchTypeExact, c.handlers.HandleWeek)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/skip", bot.MatchTypeExact, c.handlers.HandleSkip)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Мой Telegram ID"},
		{Command: "pending", Description: "⏳ Бронирования на рассмотрении"},
		{Command: "week", Description: "🗓 Моя неделя"},
		{Command: "help", Description: "❓ Помощь"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}
