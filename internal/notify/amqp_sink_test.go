package notify

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Freeeeeet/lab_booking/internal/model"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAMQPSink_PublishesPersistentJSON(t *testing.T) {
	pub := &fakePublisher{}
	n := notification(model.NotificationOperatorApproved)

	require.NoError(t, NewAMQPSink(pub, "").Notify(context.Background(), n))

	require.Len(t, pub.calls, 1)
	call := pub.calls[0]
	assert.Equal(t, "", call.exchange)
	assert.Equal(t, DefaultQueue, call.key)
	assert.Equal(t, "application/json", call.msg.ContentType)
	assert.Equal(t, amqp.Persistent, call.msg.DeliveryMode)
	assert.Equal(t, n.DedupKey, call.msg.MessageId)
	assert.Equal(t, string(model.NotificationOperatorApproved), call.msg.Type)

	var event ReservationEvent
	require.NoError(t, json.Unmarshal(call.msg.Body, &event))
	assert.Equal(t, n.UserID, event.RecipientID)
	assert.Equal(t, *n.ReservationID, *event.ReservationID)
	assert.Equal(t, n.DedupKey, event.DedupKey)
	assert.True(t, n.CreatedAt.Equal(event.OccurredAt))
}

func TestAMQPSink_CustomQueueAndError(t *testing.T) {
	pub := &fakePublisher{err: errBoom}

	err := NewAMQPSink(pub, "custom").Notify(context.Background(), notification(model.NotificationReservationCanceled))

	assert.ErrorIs(t, err, errBoom)
	require.Len(t, pub.calls, 1)
	assert.Equal(t, "custom", pub.calls[0].key)
}
