package notify

import (
	"context"
	"testing"

	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestFanOut(t *testing.T) {
	first := &recordingSink{err: errBoom}
	second := &recordingSink{}

	f := NewFanOut().
		Add("store", first).
		Add("telegram", nil).
		Add("amqp", second)
	assert.Equal(t, 2, f.Len())

	err := f.Notify(context.Background(), notification(model.NotificationOperatorApproved))

	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "store: boom")
	assert.Len(t, first.received(), 1)
	assert.Len(t, second.received(), 1, "a failing sink does not stop the rest")
}

func TestFanOut_Empty(t *testing.T) {
	assert.NoError(t, NewFanOut().Notify(context.Background(), notification(model.NotificationOperatorApproved)))
}

func TestStoreSink(t *testing.T) {
	w := &fakeWriter{}
	n := notification(model.NotificationReservationCanceled)

	assert.NoError(t, NewStoreSink(w).Notify(context.Background(), n))
	if assert.Len(t, w.stored, 1) {
		assert.Equal(t, n.DedupKey, w.stored[0].DedupKey)
	}

	w.err = errBoom
	assert.ErrorIs(t, NewStoreSink(w).Notify(context.Background(), n), errBoom)
}
