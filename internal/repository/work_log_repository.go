package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/Freeeeeet/lab_booking/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const workLogColumns = `
	id, reservation_id, operator_id, equipment_id, user_id,
	start_at, end_at, worked_minutes, status, created_at, updated_at`

type WorkLogRepository struct {
	*base.Repository
}

func NewWorkLogRepository(db base.Querier) *WorkLogRepository {
	return &WorkLogRepository{Repository: base.NewRepository(db)}
}

// FindOverlapping ищет запись оператора с одним из статусов, пересекающую окно.
// Запись самого бронирования excludeReservationID не учитывается.
func (r *WorkLogRepository) FindOverlapping(ctx context.Context, operatorID uuid.UUID, window model.Interval, excludeReservationID uuid.UUID, statuses []model.WorkLogStatus) (*model.OperatorWorkLog, error) {
	query := `
		SELECT ` + workLogColumns + `
		FROM operator_work_logs
		WHERE operator_id = $1
		  AND reservation_id <> $2
		  AND status = ANY($3)
		  AND start_at < $4
		  AND end_at > $5
		ORDER BY start_at
		LIMIT 1
	`

	w, err := scanWorkLog(r.QueryRow(ctx, query, operatorID, excludeReservationID, statusStrings(statuses), window.End, window.Start))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find overlapping work log: %w", err)
	}
	return w, nil
}

// Upsert одна запись на бронирование: повторное одобрение перезаписывает её
func (r *WorkLogRepository) Upsert(ctx context.Context, w *model.OperatorWorkLog) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}

	query := `
		INSERT INTO operator_work_logs (
			id, reservation_id, operator_id, equipment_id, user_id,
			start_at, end_at, worked_minutes, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (reservation_id) DO UPDATE
		SET operator_id = EXCLUDED.operator_id,
		    equipment_id = EXCLUDED.equipment_id,
		    user_id = EXCLUDED.user_id,
		    start_at = EXCLUDED.start_at,
		    end_at = EXCLUDED.end_at,
		    worked_minutes = EXCLUDED.worked_minutes,
		    status = EXCLUDED.status,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query,
		w.ID,
		w.ReservationID,
		w.OperatorID,
		w.EquipmentID,
		w.UserID,
		w.StartAt,
		w.EndAt,
		w.WorkedMinutes,
		string(w.Status),
		w.CreatedAt,
		w.UpdatedAt,
	).Scan(&w.ID, &w.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert work log: %w", err)
	}
	return nil
}

// SetStatusByReservation меняет статус записи бронирования, если она есть
func (r *WorkLogRepository) SetStatusByReservation(ctx context.Context, reservationID uuid.UUID, status model.WorkLogStatus) error {
	query := `UPDATE operator_work_logs SET status = $2, updated_at = NOW() WHERE reservation_id = $1`

	if _, err := r.ExecAffected(ctx, query, reservationID, string(status)); err != nil {
		return fmt.Errorf("set work log status: %w", err)
	}
	return nil
}

// SumWorkedMinutes сумма минут записей, целиком лежащих в окне. window == nil означает за всё время.
func (r *WorkLogRepository) SumWorkedMinutes(ctx context.Context, operatorID uuid.UUID, window *model.Interval, statuses []model.WorkLogStatus) (int, error) {
	var from, to *time.Time
	if window != nil {
		from, to = &window.Start, &window.End
	}

	query := `
		SELECT COALESCE(SUM(worked_minutes), 0)
		FROM operator_work_logs
		WHERE operator_id = $1
		  AND status = ANY($2)
		  AND ($3::timestamptz IS NULL OR start_at >= $3)
		  AND ($4::timestamptz IS NULL OR end_at <= $4)
	`

	var total int64
	if err := r.QueryRow(ctx, query, operatorID, statusStrings(statuses), from, to).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum worked minutes: %w", err)
	}
	return int(total), nil
}

// ListWorkLogs записи оператора, пересекающие окно, в любом статусе
func (r *WorkLogRepository) ListWorkLogs(ctx context.Context, operatorID uuid.UUID, window model.Interval) ([]*model.OperatorWorkLog, error) {
	query := `
		SELECT ` + workLogColumns + `
		FROM operator_work_logs
		WHERE operator_id = $1 AND start_at < $2 AND end_at > $3
		ORDER BY start_at
	`

	rows, err := r.Query(ctx, query, operatorID, window.End, window.Start)
	if err != nil {
		return nil, fmt.Errorf("list work logs: %w", err)
	}
	defer rows.Close()

	var logs []*model.OperatorWorkLog
	for rows.Next() {
		w, err := scanWorkLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan work log: %w", err)
		}
		logs = append(logs, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list work logs: %w", err)
	}
	return logs, nil
}

// CompleteElapsed переводит закончившиеся SCHEDULED записи в COMPLETED
func (r *WorkLogRepository) CompleteElapsed(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE operator_work_logs
		SET status = 'COMPLETED', updated_at = $1
		WHERE status = 'SCHEDULED' AND end_at <= $1
	`

	n, err := r.ExecAffected(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("complete elapsed work logs: %w", err)
	}
	return n, nil
}

func scanWorkLog(row pgx.Row) (*model.OperatorWorkLog, error) {
	var w model.OperatorWorkLog
	err := row.Scan(
		&w.ID,
		&w.ReservationID,
		&w.OperatorID,
		&w.EquipmentID,
		&w.UserID,
		&w.StartAt,
		&w.EndAt,
		&w.WorkedMinutes,
		&w.Status,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func statusStrings(statuses []model.WorkLogStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
