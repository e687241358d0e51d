// Package notify доставка уведомлений о бронированиях: в базу, в Telegram и в RabbitMQ.
package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/Freeeeeet/lab_booking/internal/service"
	"go.uber.org/zap"
)

var (
	ErrDispatcherClosed = errors.New("notification dispatcher is closed")
	ErrQueueFull        = errors.New("notification queue is full")
)

// Dispatcher отправляет уведомления в фоне, чтобы медленный получатель
// не задерживал ответ на действие пользователя
type Dispatcher struct {
	next    service.NotificationSink
	queue   chan model.Notification
	timeout time.Duration
	logger  *zap.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewDispatcher запускает воркер. Его нужно остановить через Close.
func NewDispatcher(next service.NotificationSink, buffer int, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		next:    next,
		queue:   make(chan model.Notification, buffer),
		timeout: timeout,
		logger:  logger,
		done:    make(chan struct{}),
	}
	go d.run()
	return d
}

// Notify ставит уведомление в очередь и не ждёт доставки
func (d *Dispatcher) Notify(_ context.Context, n model.Notification) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrDispatcherClosed
	}
	select {
	case d.queue <- n:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close перестаёт принимать уведомления и дожидается отправки уже поставленных
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for n := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err := d.next.Notify(ctx, n)
		cancel()

		if err != nil {
			d.logger.Warn("Notification delivery failed",
				zap.String("kind", string(n.Kind)),
				zap.String("user_id", n.UserID.String()),
				zap.String("dedup_key", n.DedupKey),
				zap.Error(err),
			)
			continue
		}
		d.logger.Debug("Notification delivered",
			zap.String("kind", string(n.Kind)),
			zap.String("user_id", n.UserID.String()),
		)
	}
}
