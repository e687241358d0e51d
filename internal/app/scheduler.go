package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// WorkLogCompleter закрывает прошедшие записи журнала работы операторов
type WorkLogCompleter interface {
	CompleteElapsed(ctx context.Context) (int64, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	workLogs WorkLogCompleter
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewScheduler создаёт новый планировщик
func NewScheduler(workLogs WorkLogCompleter, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		workLogs: workLogs,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("interval", s.interval))

	s.wg.Add(1)
	go s.runWorkLogSweep(ctx)
}

// Stop останавливает фоновые задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	s.wg.Wait()
}

// runWorkLogSweep периодически переводит прошедшие записи журнала в COMPLETED
func (s *Scheduler) runWorkLogSweep(ctx context.Context) {
	defer s.wg.Done()

	// Первый запуск сразу при старте
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopChan:
			s.logger.Info("Work log sweep stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Work log sweep cancelled")
			return
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	if _, err := s.workLogs.CompleteElapsed(ctx); err != nil {
		s.logger.Error("Failed to complete elapsed work logs", zap.Error(err))
	}
}
