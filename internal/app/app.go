package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Freeeeeet/lab_booking/internal/api"
	"github.com/Freeeeeet/lab_booking/internal/config"
	"github.com/Freeeeeet/lab_booking/internal/controller"
	"github.com/Freeeeeet/lab_booking/internal/notify"
	"github.com/Freeeeeet/lab_booking/internal/repository"
	"github.com/Freeeeeet/lab_booking/internal/service"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	notificationBuffer  = 256
	notificationTimeout = 10 * time.Second
	shutdownTimeout     = 10 * time.Second
)

// App собранное приложение: хранилище, сервисы и внешние каналы
type App struct {
	cfg    *config.Config
	logger *zap.Logger

	pool     *pgxpool.Pool
	redis    *redis.Client
	amqpConn *amqp.Connection
	amqpCh   *amqp.Channel
	bot      *bot.Bot

	dispatcher *notify.Dispatcher
	scheduler  *Scheduler
	server     *echo.Echo

	Users         *repository.UserRepository
	Notifications *repository.NotificationRepository
	Reservations  *service.ReservationService
	WorkLogs      *service.WorkLogService
	Normalizer    *service.Normalizer
	equipment     service.EquipmentLookup
	clock         service.Clock
}

// ValidationRules правила проверки бронирований из конфига
func ValidationRules(cfg *config.Config) service.ValidationRules {
	rules := service.DefaultValidationRules()
	rules.SlotSize = time.Duration(cfg.SlotMinutes) * time.Minute
	rules.MaxDuration = time.Duration(cfg.MaxReservationHours) * time.Hour
	rules.HorizonDays = cfg.HorizonDays
	return rules
}

// New подключает хранилище и внешние каналы и собирает сервисы.
// Все ресурсы освобождаются через Close, в том числе при ошибке сборки.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger, clock: service.SystemClock{}}
	if err := a.connect(ctx); err != nil {
		a.Close()
		return nil, err
	}
	a.wire()
	return a, nil
}

func (a *App) connect(ctx context.Context) error {
	var err error
	a.pool, err = NewPool(ctx, a.cfg.DBDSN)
	if err != nil {
		return err
	}
	a.redis = NewRedis(ctx, a.cfg, a.logger)

	if a.cfg.TelegramToken != "" {
		a.bot, err = bot.New(a.cfg.TelegramToken)
		if err != nil {
			return fmt.Errorf("create telegram bot: %w", err)
		}
	}
	if a.cfg.RabbitMQURL != "" {
		a.amqpConn, a.amqpCh, err = notify.DialAMQP(a.cfg.RabbitMQURL, notify.DefaultQueue)
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *App) wire() {
	a.Users = repository.NewUserRepository(a.pool)
	reservations := repository.NewReservationRepository(a.pool)
	workLogs := repository.NewWorkLogRepository(a.pool)
	a.Notifications = repository.NewNotificationRepository(a.pool)

	a.equipment = repository.NewEquipmentRepository(a.pool)
	if a.redis != nil {
		a.equipment = repository.NewCachedEquipmentLookup(a.equipment, a.redis, a.cfg.EquipmentCacheTTL, a.logger)
	}

	sinks := notify.NewFanOut().Add("store", notify.NewStoreSink(a.Notifications))
	if a.bot != nil {
		sinks.Add("telegram", notify.NewTelegramSink(a.bot, a.Users))
	}
	if a.amqpCh != nil {
		sinks.Add("amqp", notify.NewAMQPSink(a.amqpCh, notify.DefaultQueue))
	}
	a.dispatcher = notify.NewDispatcher(sinks, notificationBuffer, notificationTimeout, a.logger)
	a.logger.Info("Notification sinks configured", zap.Int("sinks", sinks.Len()))

	a.Normalizer = service.NewNormalizer(a.cfg.CampusUTCOffsetMinutes)
	validator := service.NewReservationValidator(ValidationRules(a.cfg), a.Normalizer, a.equipment, a.Users, a.clock)

	a.Reservations = service.NewReservationService(
		repository.NewUnitOfWork(a.pool),
		reservations,
		validator,
		a.equipment,
		a.Users,
		a.dispatcher,
		a.Normalizer,
		a.clock,
		a.logger,
	)
	a.WorkLogs = service.NewWorkLogService(workLogs, a.Normalizer, a.clock, a.logger)
}

// Migrate применяет встроенные миграции
func (a *App) Migrate(ctx context.Context) error {
	migrator, err := NewMigrator(a.pool, a.logger)
	if err != nil {
		return err
	}
	defer migrator.Close()
	return migrator.Run(ctx)
}

// Serve запускает HTTP, бота и фоновые задачи и блокируется до отмены ctx
func (a *App) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.scheduler = NewScheduler(a.WorkLogs, a.cfg.WorkLogSweepInterval, a.logger)
	a.scheduler.Start(ctx)

	a.server = api.NewServer(api.NewHandler(a.Reservations, a.WorkLogs, a.Notifications, a.logger), a.cfg.JWTSecret, a.logger)

	var wg sync.WaitGroup
	errCh := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.logger.Info("Starting HTTP server", zap.String("addr", a.cfg.HTTPAddr))
		if err := a.server.Start(a.cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if a.bot != nil {
		botController := controller.NewBotController(a.bot, controller.Deps{
			Reservations: a.Reservations,
			Operators:    a.Users,
			WorkLogs:     a.WorkLogs,
			Equipment:    a.equipment,
			Normalizer:   a.Normalizer,
			Clock:        a.clock,
		}, a.logger)
		if err := botController.RegisterHandlers(ctx); err != nil {
			a.logger.Warn("Bot commands menu not set", zap.Error(err))
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			botController.Start(ctx)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	a.logger.Info("Shutting down")
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP shutdown failed", zap.Error(err))
	}
	a.scheduler.Stop()
	wg.Wait()

	return runErr
}

// Close освобождает ресурсы. Уведомления, поставленные в очередь, успевают уйти.
func (a *App) Close() {
	if a.dispatcher != nil {
		a.dispatcher.Close()
	}
	if a.amqpCh != nil {
		_ = a.amqpCh.Close()
	}
	if a.amqpConn != nil {
		_ = a.amqpConn.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
