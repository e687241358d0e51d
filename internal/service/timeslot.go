package service

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/Freeeeeet/lab_booking/internal/model"
)

// Формат <input type="datetime-local"> без часового пояса
const localDatetimeLayout = "2006-01-02T15:04"

var localDatetimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}$`)

// ErrInvalidDatetime строка не соответствует YYYY-MM-DDTHH:mm или не является реальным моментом
var ErrInvalidDatetime = errors.New("invalid local datetime")

// Normalizer переводит локальное время кампуса в абсолютный момент.
// Смещение фиксированное, поэтому часовой пояс сервера на результат не влияет.
type Normalizer struct {
	loc *time.Location
}

// NewNormalizer создаёт нормализатор для смещения offsetMinutes от UTC (540 для KST)
func NewNormalizer(offsetMinutes int) *Normalizer {
	sign := '+'
	abs := offsetMinutes
	if abs < 0 {
		sign = '-'
		abs = -abs
	}
	name := fmt.Sprintf("UTC%c%02d:%02d", sign, abs/60, abs%60)
	return &Normalizer{loc: time.FixedZone(name, offsetMinutes*60)}
}

// Location возвращает зону кампуса
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Parse разбирает "YYYY-MM-DDTHH:mm" как время кампуса
func (n *Normalizer) Parse(input string) (time.Time, error) {
	if !localDatetimePattern.MatchString(input) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDatetime, input)
	}
	t, err := time.ParseInLocation(localDatetimeLayout, input, n.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDatetime, err)
	}
	return t, nil
}

// Format обратное преобразование для сообщений пользователю
func (n *Normalizer) Format(t time.Time) string {
	return t.In(n.loc).Format(localDatetimeLayout)
}

// FormatRange форматирует интервал как "2006-01-02 15:04 – 15:04" во времени кампуса
func (n *Normalizer) FormatRange(i model.Interval) string {
	start := i.Start.In(n.loc)
	end := i.End.In(n.loc)
	if start.Format("2006-01-02") == end.Format("2006-01-02") {
		return fmt.Sprintf("%s – %s", start.Format("2006-01-02 15:04"), end.Format("15:04"))
	}
	return fmt.Sprintf("%s – %s", start.Format("2006-01-02 15:04"), end.Format("2006-01-02 15:04"))
}

// WeekRange неделя (Пн 00:00 – следующий Пн 00:00) во времени кампуса, содержащая t
func (n *Normalizer) WeekRange(t time.Time) model.Interval {
	local := t.In(n.loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, n.loc)
	offset := (int(day.Weekday()) + 6) % 7 // дней с понедельника
	start := day.AddDate(0, 0, -offset)
	return model.Interval{Start: start, End: start.AddDate(0, 0, 7)}
}

// MonthRange календарный месяц во времени кампуса, содержащий t
func (n *Normalizer) MonthRange(t time.Time) model.Interval {
	local := t.In(n.loc)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, n.loc)
	return model.Interval{Start: start, End: start.AddDate(0, 1, 0)}
}

// AlignedToSlot проверяет, что момент кратен размеру слота в миллисекундах от эпохи
func AlignedToSlot(t time.Time, slot time.Duration) bool {
	ms := slot.Milliseconds()
	if ms <= 0 {
		return true
	}
	return t.UnixMilli()%ms == 0
}
