package model

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleUser     UserRole = "USER"
	UserRoleOperator UserRole = "OPERATOR"
	UserRoleAdmin    UserRole = "ADMIN"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

type User struct {
	ID             uuid.UUID  `json:"id"`
	Username       string     `json:"username"`
	Role           UserRole   `json:"role"`
	Status         UserStatus `json:"status"`
	TelegramChatID *int64     `json:"telegram_chat_id"` // привязанный чат для уведомлений, может быть nil
	CreatedAt      time.Time  `json:"created_at"`
}

// IsActive сообщает, может ли пользователь бронировать
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// CanOperate сообщает, может ли пользователь одобрять и отклонять бронирования
func (u *User) CanOperate() bool {
	return u.Role.CanOperate()
}

// CanOperate возвращает true для ролей OPERATOR и ADMIN
func (r UserRole) CanOperate() bool {
	return r == UserRoleOperator || r == UserRoleAdmin
}
