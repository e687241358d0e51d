package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingCompleter struct {
	calls atomic.Int32
	err   error
}

func (c *countingCompleter) CompleteElapsed(context.Context) (int64, error) {
	c.calls.Add(1)
	return 0, c.err
}

func TestScheduler_RunsImmediatelyAndOnTick(t *testing.T) {
	completer := &countingCompleter{}
	s := NewScheduler(completer, 10*time.Millisecond, zap.NewNop())

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return completer.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()
	s.Stop()
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	completer := &countingCompleter{err: errors.New("db down")}
	s := NewScheduler(completer, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	assert.Eventually(t, func() bool { return completer.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	s.Stop()
}
