package state

import (
	"time"

	"github.com/google/uuid"
)

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Ожидаем причину отклонения бронирования
	StateAwaitingRejectReason UserState = "awaiting_reject_reason"
)

// Dialog незавершённый диалог одного пользователя
type Dialog struct {
	State         UserState
	ReservationID uuid.UUID
	StartedAt     time.Time
}
