package model

import (
	"time"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	ReservationStatusPending  ReservationStatus = "PENDING"  // Ожидает одобрения оператора
	ReservationStatusApproved ReservationStatus = "APPROVED" // Оборудование закреплено за пользователем
)

// OperatorStatus отражает ответ конкретного запрошенного оператора.
// Не зависит от ReservationStatus.
type OperatorStatus string

const (
	OperatorStatusNone      OperatorStatus = "NONE"      // Оператор не запрашивался
	OperatorStatusRequested OperatorStatus = "REQUESTED" // Ожидает ответа оператора
	OperatorStatusApproved  OperatorStatus = "APPROVED"
	OperatorStatusRejected  OperatorStatus = "REJECTED"
	OperatorStatusCanceled  OperatorStatus = "CANCELED"
)

type Reservation struct {
	ID                 uuid.UUID         `json:"id"`
	EquipmentID        uuid.UUID         `json:"equipment_id"`
	UserID             uuid.UUID         `json:"user_id"`
	OperatorID         *uuid.UUID        `json:"operator_id"` // запрошенный оператор, может быть nil
	StartAt            time.Time         `json:"start_at"`
	EndAt              time.Time         `json:"end_at"`
	Status             ReservationStatus `json:"status"`
	OperatorStatus     OperatorStatus    `json:"operator_status"`
	OperatorNote       *string           `json:"operator_note"`
	OperatorResponseAt *time.Time        `json:"operator_response_at"`
	CancelledAt        *time.Time        `json:"cancelled_at"`
	Title              *string           `json:"title"`
	StudentNumber      *string           `json:"student_number"`
	Note               *string           `json:"note"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`

	// Дополнительные поля для удобства (не из БД)
	Equipment *Equipment `json:"equipment,omitempty"`
}

// IsCancelled сообщает, что бронирование отменено и больше не участвует в проверках пересечений
func (r *Reservation) IsCancelled() bool {
	return r.CancelledAt != nil
}

// IsApproved сообщает, что бронирование активно и подтверждено
func (r *Reservation) IsApproved() bool {
	return !r.IsCancelled() && r.Status == ReservationStatusApproved
}

// HasOperator сообщает, был ли запрошен конкретный оператор
func (r *Reservation) HasOperator() bool {
	return r.OperatorID != nil
}

// Interval возвращает полуоткрытый интервал [StartAt, EndAt)
func (r *Reservation) Interval() Interval {
	return Interval{Start: r.StartAt, End: r.EndAt}
}

// Clone возвращает копию, которую можно менять, не затрагивая исходную запись
func (r *Reservation) Clone() *Reservation {
	c := *r
	c.Equipment = nil
	return &c
}
