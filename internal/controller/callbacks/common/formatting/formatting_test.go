package formatting

import (
	"testing"
	"time"

	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45 мин", FormatDuration(45))
	assert.Equal(t, "2 ч", FormatDuration(120))
	assert.Equal(t, "1 ч 30 мин", FormatDuration(90))
}

func TestFormatTimeRange(t *testing.T) {
	loc := time.FixedZone("KST", 9*60*60)
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, loc)

	assert.Equal(t, "10.03.2025 10:00-11:30", FormatTimeRange(start, start.Add(90*time.Minute)))
	assert.Equal(t, "10.03.2025 10:00 - 11.03.2025 02:00", FormatTimeRange(start, start.Add(16*time.Hour)))
}

func TestGetReservationStatusDisplay(t *testing.T) {
	now := time.Now()

	assert.Equal(t, "На рассмотрении", GetReservationStatusDisplay(&model.Reservation{Status: model.ReservationStatusPending}).Text)
	assert.Equal(t, "Одобрено", GetReservationStatusDisplay(&model.Reservation{Status: model.ReservationStatusApproved}).Text)
	assert.Equal(t, "Отменено", GetReservationStatusDisplay(&model.Reservation{
		Status:      model.ReservationStatusApproved,
		CancelledAt: &now,
	}).Text)
}

func TestGetOperatorStatusDisplay(t *testing.T) {
	assert.Equal(t, "🚫", GetOperatorStatusDisplay(model.OperatorStatusRejected).Emoji)
	assert.Equal(t, "Неизвестно", GetOperatorStatusDisplay("BOGUS").Text)
}
