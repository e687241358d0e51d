package common

import (
	"errors"

	"github.com/Freeeeeet/lab_booking/internal/service"
)

// Общие ошибки для обработчиков
var (
	ErrNotLinked     = errors.New("telegram user is not linked to an account")
	ErrNotAnOperator = errors.New("user is not an operator")
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotLinked):
		return "❌ Ваш Telegram не привязан к учётной записи лаборатории. Отправьте /start, чтобы узнать свой ID."
	case errors.Is(err, ErrNotAnOperator):
		return "❌ Доступно только операторам"
	case errors.Is(err, ErrNoMessage):
		return "❌ Не удалось обработать сообщение"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверные данные"
	}

	switch service.KindOf(err) {
	case service.KindNotFound:
		return "❌ Бронирование не найдено"
	case service.KindForbidden:
		return "❌ У вас нет прав на это действие"
	case service.KindAlreadyCancelled:
		return "❌ Бронирование уже отменено"
	case service.KindAlreadyApproved:
		return "❌ Бронирование уже одобрено"
	case service.KindEquipmentConflict:
		return "❌ Оборудование уже занято на это время"
	case service.KindUserConflict:
		return "❌ У пользователя уже есть одобренное бронирование на это время"
	case service.KindOperatorConflict:
		return "❌ У вас уже есть одобренное бронирование на это время"
	case service.KindValidation:
		return "❌ Слишком длинная причина"
	case service.KindUnknown:
		return "❌ Система занята. Попробуйте ещё раз."
	}
	return "❌ Что-то пошло не так"
}
