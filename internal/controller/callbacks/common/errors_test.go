package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Freeeeeet/lab_booking/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not linked", fmt.Errorf("resolve: %w", ErrNotLinked), "❌ Ваш Telegram не привязан к учётной записи лаборатории. Отправьте /start, чтобы узнать свой ID."},
		{"not operator", ErrNotAnOperator, "❌ Доступно только операторам"},
		{"domain conflict", &service.Error{Kind: service.KindOperatorConflict}, "❌ У вас уже есть одобренное бронирование на это время"},
		{"already cancelled", &service.Error{Kind: service.KindAlreadyCancelled}, "❌ Бронирование уже отменено"},
		{"retries exhausted", &service.Error{Kind: service.KindUnknown, Err: service.ErrSerializationFailure}, "❌ Система занята. Попробуйте ещё раз."},
		{"infrastructure", errors.New("connection reset"), "❌ Что-то пошло не так"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err))
		})
	}
}
