package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WorkSummary отработанные минуты оператора
type WorkSummary struct {
	OperatorID   uuid.UUID      `json:"operator_id"`
	Week         model.Interval `json:"-"`
	Month        model.Interval `json:"-"`
	WeekMinutes  int            `json:"week_minutes"`
	MonthMinutes int            `json:"month_minutes"`
	TotalMinutes int            `json:"total_minutes"`
}

// NewWorkLog строит запись журнала для одобренного бронирования.
// Повторный вызов для того же бронирования даёт запись для upsert по ReservationID.
func NewWorkLog(r *model.Reservation, operatorID uuid.UUID, now time.Time) *model.OperatorWorkLog {
	return &model.OperatorWorkLog{
		ReservationID: r.ID,
		OperatorID:    operatorID,
		EquipmentID:   r.EquipmentID,
		UserID:        r.UserID,
		StartAt:       r.StartAt,
		EndAt:         r.EndAt,
		WorkedMinutes: r.Interval().Minutes(),
		Status:        model.WorkLogStatusScheduled,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// SumWorked суммирует минуты записей с указанными статусами
func SumWorked(logs []*model.OperatorWorkLog, statuses []model.WorkLogStatus) int {
	total := 0
	for _, l := range logs {
		if hasWorkLogStatus(statuses, l.Status) {
			total += l.WorkedMinutes
		}
	}
	return total
}

func hasWorkLogStatus(statuses []model.WorkLogStatus, s model.WorkLogStatus) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

// WorkLogService отчёты по журналу работы операторов. Только чтение,
// кроме перевода прошедших записей в COMPLETED.
type WorkLogService struct {
	store      WorkLogStore
	normalizer *Normalizer
	clock      Clock
	logger     *zap.Logger
}

func NewWorkLogService(store WorkLogStore, normalizer *Normalizer, clock Clock, logger *zap.Logger) *WorkLogService {
	return &WorkLogService{
		store:      store,
		normalizer: normalizer,
		clock:      clock,
		logger:     logger,
	}
}

// Summary минуты за текущую неделю, месяц и за всё время
func (s *WorkLogService) Summary(ctx context.Context, operatorID uuid.UUID) (*WorkSummary, error) {
	now := s.clock.Now()
	week := s.normalizer.WeekRange(now)
	month := s.normalizer.MonthRange(now)

	weekMinutes, err := s.SumMinutes(ctx, operatorID, &week)
	if err != nil {
		return nil, fmt.Errorf("sum week minutes: %w", err)
	}
	monthMinutes, err := s.SumMinutes(ctx, operatorID, &month)
	if err != nil {
		return nil, fmt.Errorf("sum month minutes: %w", err)
	}
	totalMinutes, err := s.SumMinutes(ctx, operatorID, nil)
	if err != nil {
		return nil, fmt.Errorf("sum total minutes: %w", err)
	}

	return &WorkSummary{
		OperatorID:   operatorID,
		Week:         week,
		Month:        month,
		WeekMinutes:  weekMinutes,
		MonthMinutes: monthMinutes,
		TotalMinutes: totalMinutes,
	}, nil
}

// SumMinutes сумма минут в окне (nil означает за всё время). Без явных статусов
// считаются только SCHEDULED и COMPLETED.
func (s *WorkLogService) SumMinutes(ctx context.Context, operatorID uuid.UUID, window *model.Interval, statuses ...model.WorkLogStatus) (int, error) {
	if len(statuses) == 0 {
		statuses = model.CountedWorkLogStatuses
	}
	return s.store.SumWorkedMinutes(ctx, operatorID, window, statuses)
}

// Week записи журнала за текущую неделю кампуса
func (s *WorkLogService) Week(ctx context.Context, operatorID uuid.UUID) ([]*model.OperatorWorkLog, model.Interval, error) {
	week := s.normalizer.WeekRange(s.clock.Now())
	logs, err := s.store.ListWorkLogs(ctx, operatorID, week)
	if err != nil {
		return nil, week, fmt.Errorf("list work logs: %w", err)
	}
	return logs, week, nil
}

// CompleteElapsed переводит прошедшие SCHEDULED записи в COMPLETED
func (s *WorkLogService) CompleteElapsed(ctx context.Context) (int64, error) {
	n, err := s.store.CompleteElapsed(ctx, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("complete elapsed work logs: %w", err)
	}
	if n > 0 {
		s.logger.Info("Work logs completed", zap.Int64("count", n))
	}
	return n, nil
}
