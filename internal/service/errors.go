package service

import (
	"errors"
	"fmt"
)

// ErrorKind код доменной ошибки, отдаётся вызывающему как есть
type ErrorKind string

const (
	KindValidation           ErrorKind = "VALIDATION_ERROR"
	KindInvalidDatetime      ErrorKind = "INVALID_DATETIME"
	KindInvalidRange         ErrorKind = "INVALID_RANGE"
	KindSlotGranularity      ErrorKind = "SLOT_GRANULARITY_VIOLATION"
	KindTooShort             ErrorKind = "TOO_SHORT"
	KindTooLong              ErrorKind = "TOO_LONG"
	KindPastTime             ErrorKind = "PAST_TIME"
	KindTooFar               ErrorKind = "TOO_FAR"
	KindInvalidStudentNumber ErrorKind = "INVALID_STUDENT_NUMBER"
	KindInvalidEquipment     ErrorKind = "INVALID_EQUIPMENT"
	KindInvalidOperator      ErrorKind = "INVALID_OPERATOR"

	KindEquipmentConflict ErrorKind = "EQUIPMENT_CONFLICT"
	KindUserConflict      ErrorKind = "USER_CONFLICT"
	KindOperatorConflict  ErrorKind = "OPERATOR_CONFLICT"

	KindForbidden        ErrorKind = "FORBIDDEN"
	KindNotFound         ErrorKind = "NOT_FOUND"
	KindAlreadyCancelled ErrorKind = "ALREADY_CANCELLED"
	KindAlreadyApproved  ErrorKind = "ALREADY_APPROVED"

	// KindUnknown временная ошибка: повторы транзакции исчерпаны
	KindUnknown ErrorKind = "UNKNOWN"
)

// Error доменный результат операции. Не является сбоем инфраструктуры.
type Error struct {
	Kind ErrorKind
	Err  error // причина, если есть
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is позволяет сравнивать ошибки по Kind через errors.Is
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind ErrorKind) *Error {
	return &Error{Kind: kind}
}

// KindOf извлекает код доменной ошибки. Для nil и инфраструктурных ошибок возвращает пустую строку.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsConflict сообщает, что ошибка является бизнес-конфликтом времени
func IsConflict(err error) bool {
	switch KindOf(err) {
	case KindEquipmentConflict, KindUserConflict, KindOperatorConflict:
		return true
	}
	return false
}

// ErrSerializationFailure возвращается хранилищем, когда serializable транзакция
// не может быть зафиксирована и её нужно повторить.
var ErrSerializationFailure = errors.New("serialization failure")
