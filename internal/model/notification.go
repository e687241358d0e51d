package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotificationOperatorRequest     NotificationKind = "OPERATOR_REQUEST"
	NotificationOperatorApproved    NotificationKind = "OPERATOR_APPROVED"
	NotificationOperatorRejected    NotificationKind = "OPERATOR_REJECTED"
	NotificationReservationCanceled NotificationKind = "RESERVATION_CANCELED"
)

type Notification struct {
	ID            uuid.UUID        `json:"id"`
	UserID        uuid.UUID        `json:"user_id"` // получатель
	Kind          NotificationKind `json:"kind"`
	ActorID       *uuid.UUID       `json:"actor_id"`
	ReservationID *uuid.UUID       `json:"reservation_id"`
	Title         string           `json:"title"`
	Body          string           `json:"body"`
	LinkURL       string           `json:"link_url"`
	DedupKey      string           `json:"dedup_key"` // повторная отправка с тем же ключом игнорируется
	IsRead        bool             `json:"is_read"`
	CreatedAt     time.Time        `json:"created_at"`
}
