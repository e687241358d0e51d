package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/google/uuid"
)

// Clock источник текущего времени, подменяется в тестах
type Clock interface {
	Now() time.Time
}

// SystemClock реальные часы
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// EquipmentLookup чтение оборудования. Возвращает (nil, nil), если не найдено.
type EquipmentLookup interface {
	GetEquipment(ctx context.Context, id uuid.UUID) (*model.Equipment, error)
}

// UserLookup чтение пользователей. Возвращает (nil, nil), если не найден.
type UserLookup interface {
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// NotificationSink доставка уведомлений. Ошибка доставки не влияет на результат операции.
type NotificationSink interface {
	Notify(ctx context.Context, n model.Notification) error
}

// Isolation уровень изоляции транзакции
type Isolation int

const (
	IsolationReadCommitted Isolation = iota
	IsolationSerializable
)

func (i Isolation) String() string {
	if i == IsolationSerializable {
		return "serializable"
	}
	return "read committed"
}

// UnitOfWork выполняет fn атомарно с заданным уровнем изоляции.
// Если fn возвращает ошибку, все изменения откатываются и ошибка возвращается без изменений.
// Конфликт сериализации возвращается как ошибка, оборачивающая ErrSerializationFailure.
type UnitOfWork interface {
	Do(ctx context.Context, iso Isolation, fn func(ctx context.Context, tx Tx) error) error
}

// ReservationFilter условие поиска пересечений. Отменённые бронирования не учитываются никогда.
type ReservationFilter struct {
	EquipmentID    *uuid.UUID
	UserID         *uuid.UUID
	OperatorID     *uuid.UUID
	OperatorStatus *model.OperatorStatus
	Status         model.ReservationStatus
	ExcludeID      *uuid.UUID
	Window         model.Interval
}

// Tx операции, доступные внутри транзакции
type Tx interface {
	GetReservation(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	FindOverlappingReservation(ctx context.Context, f ReservationFilter) (*model.Reservation, error)
	InsertReservation(ctx context.Context, r *model.Reservation) error
	UpdateReservation(ctx context.Context, r *model.Reservation) error

	FindOverlappingWorkLog(ctx context.Context, operatorID uuid.UUID, window model.Interval, excludeReservationID uuid.UUID, statuses []model.WorkLogStatus) (*model.OperatorWorkLog, error)
	UpsertWorkLog(ctx context.Context, w *model.OperatorWorkLog) error
	SetWorkLogStatusByReservation(ctx context.Context, reservationID uuid.UUID, status model.WorkLogStatus) error
}

// ReservationReader чтение бронирований вне транзакции
type ReservationReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	ListPending(ctx context.Context, operatorID *uuid.UUID) ([]*model.Reservation, error)
}

// WorkLogStore отчётные запросы по журналу работы операторов
type WorkLogStore interface {
	SumWorkedMinutes(ctx context.Context, operatorID uuid.UUID, window *model.Interval, statuses []model.WorkLogStatus) (int, error)
	ListWorkLogs(ctx context.Context, operatorID uuid.UUID, window model.Interval) ([]*model.OperatorWorkLog, error)
	CompleteElapsed(ctx context.Context, now time.Time) (int64, error)
}
