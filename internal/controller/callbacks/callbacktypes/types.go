package callbacktypes

import (
	"context"
	"strings"

	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/Freeeeeet/lab_booking/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Префиксы callback data
const (
	ApproveReservation = "approve:" // approve:<reservation_id>
	RejectReservation  = "reject:"  // reject:<reservation_id>
	CancelReservation  = "cancel:"  // cancel:<reservation_id>
	ShowPending        = "pending"
	Noop               = "noop"
)

// Approve callback data для кнопки одобрения
func Approve(id uuid.UUID) string { return ApproveReservation + id.String() }

// Reject callback data для кнопки отклонения
func Reject(id uuid.UUID) string { return RejectReservation + id.String() }

// Cancel callback data для кнопки отмены
func Cancel(id uuid.UUID) string { return CancelReservation + id.String() }

// ParseReservationID извлекает ID бронирования из callback data с заданным префиксом
func ParseReservationID(data, prefix string) (uuid.UUID, bool) {
	raw, found := strings.CutPrefix(data, prefix)
	if !found {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Sender методы *bot.Bot, которые используют обработчики
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

// DialogStore хранит незавершённые диалоги по Telegram ID пользователя
type DialogStore interface {
	StartRejection(userID int64, reservationID uuid.UUID)
	PendingRejection(userID int64) (uuid.UUID, bool)
	Clear(userID int64)
}

// ReservationActions операции над бронированиями, доступные из бота
type ReservationActions interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	ListPending(ctx context.Context, actor service.Actor) ([]*model.Reservation, error)
	Approve(ctx context.Context, id uuid.UUID, actor service.Actor) error
	Reject(ctx context.Context, id uuid.UUID, actor service.Actor, reason string) error
	Cancel(ctx context.Context, id uuid.UUID, actor service.Actor) error
}

// OperatorDirectory поиск пользователя по привязанному Telegram ID.
// Привязывается личный чат, его ID совпадает с ID пользователя.
type OperatorDirectory interface {
	GetByTelegramChatID(ctx context.Context, chatID int64) (*model.User, error)
}

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	Sender       Sender
	Reservations ReservationActions
	Operators    OperatorDirectory
	Dialogs      DialogStore
	Logger       *zap.Logger
}
