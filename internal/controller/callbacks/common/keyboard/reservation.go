package keyboard

import (
	"github.com/Freeeeeet/lab_booking/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

// PendingActions кнопки для бронирования, ожидающего решения оператора
func PendingActions(id uuid.UUID) *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(
			Button("✅ Одобрить", callbacktypes.Approve(id)),
			Button("❌ Отклонить", callbacktypes.Reject(id)),
		).
		Build()
}

// ApprovedActions кнопки для одобренного бронирования
func ApprovedActions(id uuid.UUID) *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(Button("🚫 Отменить бронирование", callbacktypes.Cancel(id))).
		Build()
}

// ForReservation подбирает кнопки по состоянию бронирования. nil, если действий нет.
func ForReservation(r *model.Reservation) *models.InlineKeyboardMarkup {
	switch {
	case r.IsCancelled():
		return nil
	case r.IsApproved():
		return ApprovedActions(r.ID)
	default:
		return PendingActions(r.ID)
	}
}
