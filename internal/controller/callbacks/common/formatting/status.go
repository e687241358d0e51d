package formatting

import "github.com/Freeeeeet/lab_booking/internal/model"

// StatusDisplay emoji и текст для отображения статуса
type StatusDisplay struct {
	Emoji string
	Text  string
}

// GetReservationStatusDisplay учитывает отмену: отменённое бронирование показывается отменённым
// независимо от Status
func GetReservationStatusDisplay(r *model.Reservation) StatusDisplay {
	if r.IsCancelled() {
		return StatusDisplay{"⚫️", "Отменено"}
	}

	displays := map[model.ReservationStatus]StatusDisplay{
		model.ReservationStatusPending:  {"⏳", "На рассмотрении"},
		model.ReservationStatusApproved: {"✅", "Одобрено"},
	}
	if display, ok := displays[r.Status]; ok {
		return display
	}
	return StatusDisplay{"❓", "Неизвестно"}
}

// GetOperatorStatusDisplay возвращает emoji и текст для ответа оператора
func GetOperatorStatusDisplay(status model.OperatorStatus) StatusDisplay {
	displays := map[model.OperatorStatus]StatusDisplay{
		model.OperatorStatusNone:      {"➖", "Без оператора"},
		model.OperatorStatusRequested: {"🙋", "Запрошен"},
		model.OperatorStatusApproved:  {"✅", "Одобрено"},
		model.OperatorStatusRejected:  {"🚫", "Отклонено"},
		model.OperatorStatusCanceled:  {"⚫️", "Отменено"},
	}

	if display, ok := displays[status]; ok {
		return display
	}
	return StatusDisplay{"❓", "Неизвестно"}
}
