package notify

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDispatcher_DeliversAndDrainsOnClose(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, 8, time.Second, zap.NewNop())

	for i := 0; i < 5; i++ {
		require.NoError(t, d.Notify(context.Background(), notification(model.NotificationOperatorApproved)))
	}
	d.Close()

	assert.Len(t, sink.received(), 5)
	assert.ErrorIs(t, d.Notify(context.Background(), notification(model.NotificationOperatorApproved)), ErrDispatcherClosed)
}

func TestDispatcher_QueueFull(t *testing.T) {
	sink := &recordingSink{block: make(chan struct{})}
	d := NewDispatcher(sink, 1, time.Second, zap.NewNop())

	// первое забирает воркер и блокируется, второе ложится в буфер
	require.NoError(t, d.Notify(context.Background(), notification(model.NotificationOperatorApproved)))
	require.Eventually(t, func() bool { return len(d.queue) == 0 }, time.Second, time.Millisecond)
	require.NoError(t, d.Notify(context.Background(), notification(model.NotificationOperatorApproved)))

	err := d.Notify(context.Background(), notification(model.NotificationOperatorApproved))
	assert.ErrorIs(t, err, ErrQueueFull)

	close(sink.block)
	d.Close()
	assert.Len(t, sink.received(), 2)
}

func TestDispatcher_LogsFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	sink := &recordingSink{err: errBoom}
	d := NewDispatcher(sink, 4, time.Second, zap.New(core))

	n := notification(model.NotificationOperatorRejected)
	require.NoError(t, d.Notify(context.Background(), n))
	d.Close()

	entries := logs.FilterMessage("Notification delivery failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, n.DedupKey, entries[0].ContextMap()["dedup_key"])
}

func TestDispatcher_CloseIsIdempotent(t *testing.T) {
	d := NewDispatcher(&recordingSink{}, 1, time.Second, zap.NewNop())
	d.Close()
	d.Close()
}
