package model

import (
	"time"

	"github.com/google/uuid"
)

type WorkLogStatus string

const (
	WorkLogStatusScheduled WorkLogStatus = "SCHEDULED" // Запланировано после одобрения
	WorkLogStatusCompleted WorkLogStatus = "COMPLETED" // Время бронирования прошло
	WorkLogStatusCanceled  WorkLogStatus = "CANCELED"  // Бронирование отменено
	WorkLogStatusAdjusted  WorkLogStatus = "ADJUSTED"  // Исправлено администратором вручную
)

// CountedWorkLogStatuses статусы, которые входят в отработанное время
var CountedWorkLogStatuses = []WorkLogStatus{WorkLogStatusScheduled, WorkLogStatusCompleted}

// OperatorWorkLog производная запись о работе оператора, одна на одобренное бронирование
type OperatorWorkLog struct {
	ID            uuid.UUID     `json:"id"`
	ReservationID uuid.UUID     `json:"reservation_id"`
	OperatorID    uuid.UUID     `json:"operator_id"`
	EquipmentID   uuid.UUID     `json:"equipment_id"`
	UserID        uuid.UUID     `json:"user_id"`
	StartAt       time.Time     `json:"start_at"`
	EndAt         time.Time     `json:"end_at"`
	WorkedMinutes int           `json:"worked_minutes"`
	Status        WorkLogStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Interval возвращает полуоткрытый интервал работы
func (w *OperatorWorkLog) Interval() Interval {
	return Interval{Start: w.StartAt, End: w.EndAt}
}
