package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultQueue очередь событий по бронированиям
const DefaultQueue = "reservation.events"

// Publisher часть *amqp.Channel, нужная для публикации
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// ReservationEvent сообщение в очереди. Потребители дедуплицируют по DedupKey.
type ReservationEvent struct {
	ID            uuid.UUID              `json:"id"`
	Kind          model.NotificationKind `json:"kind"`
	RecipientID   uuid.UUID              `json:"recipient_id"`
	ActorID       *uuid.UUID             `json:"actor_id,omitempty"`
	ReservationID *uuid.UUID             `json:"reservation_id,omitempty"`
	Title         string                 `json:"title"`
	Body          string                 `json:"body"`
	LinkURL       string                 `json:"link_url,omitempty"`
	DedupKey      string                 `json:"dedup_key"`
	OccurredAt    time.Time              `json:"occurred_at"`
}

// EventFrom переводит уведомление в событие очереди
func EventFrom(n model.Notification) ReservationEvent {
	return ReservationEvent{
		ID:            n.ID,
		Kind:          n.Kind,
		RecipientID:   n.UserID,
		ActorID:       n.ActorID,
		ReservationID: n.ReservationID,
		Title:         n.Title,
		Body:          n.Body,
		LinkURL:       n.LinkURL,
		DedupKey:      n.DedupKey,
		OccurredAt:    n.CreatedAt.UTC(),
	}
}

// AMQPSink публикует события в RabbitMQ через default exchange
type AMQPSink struct {
	publisher Publisher
	queue     string
}

func NewAMQPSink(publisher Publisher, queue string) *AMQPSink {
	if queue == "" {
		queue = DefaultQueue
	}
	return &AMQPSink{publisher: publisher, queue: queue}
}

func (s *AMQPSink) Notify(ctx context.Context, n model.Notification) error {
	body, err := json.Marshal(EventFrom(n))
	if err != nil {
		return fmt.Errorf("marshal reservation event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    n.DedupKey,
		Type:         string(n.Kind),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := s.publisher.PublishWithContext(ctx, "", s.queue, false, false, msg); err != nil {
		return fmt.Errorf("publish reservation event: %w", err)
	}
	return nil
}

// DialAMQP открывает соединение и канал и объявляет durable очередь
func DialAMQP(url, queue string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return conn, ch, nil
}
