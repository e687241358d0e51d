package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/Freeeeeet/lab_booking/internal/service"
)

// FanOut отправляет уведомление во все приёмники по порядку.
// Ошибка одного приёмника не мешает остальным.
type FanOut struct {
	sinks []namedSink
}

type namedSink struct {
	name string
	sink service.NotificationSink
}

func NewFanOut() *FanOut {
	return &FanOut{}
}

// Add добавляет приёмник. nil игнорируется, чтобы выключенные каналы не проверять снаружи.
func (f *FanOut) Add(name string, sink service.NotificationSink) *FanOut {
	if sink != nil {
		f.sinks = append(f.sinks, namedSink{name: name, sink: sink})
	}
	return f
}

// Len количество подключённых приёмников
func (f *FanOut) Len() int {
	return len(f.sinks)
}

func (f *FanOut) Notify(ctx context.Context, n model.Notification) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.sink.Notify(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}
