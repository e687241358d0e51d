package notify

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/lab_booking/internal/model"
)

// NotificationWriter сохраняет уведомление, игнорируя повторы по DedupKey
type NotificationWriter interface {
	Create(ctx context.Context, n *model.Notification) (bool, error)
}

// StoreSink сохраняет уведомления в базе для ленты в интерфейсе
type StoreSink struct {
	store NotificationWriter
}

func NewStoreSink(store NotificationWriter) *StoreSink {
	return &StoreSink{store: store}
}

func (s *StoreSink) Notify(ctx context.Context, n model.Notification) error {
	if _, err := s.store.Create(ctx, &n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	return nil
}
