package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/Freeeeeet/lab_booking/internal/repository/base"
	"github.com/Freeeeeet/lab_booking/internal/service"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const reservationColumns = `
	r.id, r.equipment_id, r.user_id, r.operator_id, r.start_at, r.end_at,
	r.status, r.operator_status, r.operator_note, r.operator_response_at, r.cancelled_at,
	r.title, r.student_number, r.note, r.created_at, r.updated_at`

type ReservationRepository struct {
	*base.Repository
}

// NewReservationRepository работает как поверх пула, так и внутри транзакции
func NewReservationRepository(db base.Querier) *ReservationRepository {
	return &ReservationRepository{Repository: base.NewRepository(db)}
}

// GetByID получает бронирование вместе с оборудованием
func (r *ReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `,
			e.id, e.slug, e.name, e.is_active, e.created_at
		FROM reservations r
		JOIN equipment e ON e.id = r.equipment_id
		WHERE r.id = $1
	`

	res, err := scanReservationWithEquipment(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation by id: %w", err)
	}
	return res, nil
}

// GetForUpdate читает бронирование с блокировкой строки до конца транзакции
func (r *ReservationRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations r WHERE r.id = $1 FOR UPDATE`

	res, err := scanReservation(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation for update: %w", err)
	}
	return res, nil
}

// FindOverlapping ищет первое неотменённое бронирование, удовлетворяющее фильтру
// и пересекающее окно. Касание границ пересечением не считается.
func (r *ReservationRepository) FindOverlapping(ctx context.Context, f service.ReservationFilter) (*model.Reservation, error) {
	conds := []string{"r.cancelled_at IS NULL", "r.status = $1", "r.start_at < $2", "r.end_at > $3"}
	args := []any{string(f.Status), f.Window.End, f.Window.Start}

	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.EquipmentID != nil {
		add("r.equipment_id = $%d", *f.EquipmentID)
	}
	if f.UserID != nil {
		add("r.user_id = $%d", *f.UserID)
	}
	if f.OperatorID != nil {
		add("r.operator_id = $%d", *f.OperatorID)
	}
	if f.OperatorStatus != nil {
		add("r.operator_status = $%d", string(*f.OperatorStatus))
	}
	if f.ExcludeID != nil {
		add("r.id <> $%d", *f.ExcludeID)
	}

	query := `SELECT ` + reservationColumns + ` FROM reservations r WHERE ` +
		strings.Join(conds, " AND ") + ` ORDER BY r.start_at, r.id LIMIT 1`

	res, err := scanReservation(r.QueryRow(ctx, query, args...))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find overlapping reservation: %w", err)
	}
	return res, nil
}

// Insert сохраняет новое бронирование
func (r *ReservationRepository) Insert(ctx context.Context, res *model.Reservation) error {
	query := `
		INSERT INTO reservations (
			id, equipment_id, user_id, operator_id, start_at, end_at,
			status, operator_status, title, student_number, note, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.ExecAffected(ctx, query,
		res.ID,
		res.EquipmentID,
		res.UserID,
		res.OperatorID,
		res.StartAt,
		res.EndAt,
		string(res.Status),
		string(res.OperatorStatus),
		res.Title,
		res.StudentNumber,
		res.Note,
		res.CreatedAt,
		res.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

// Update сохраняет изменяемые поля бронирования
func (r *ReservationRepository) Update(ctx context.Context, res *model.Reservation) error {
	query := `
		UPDATE reservations
		SET operator_id = $2,
		    status = $3,
		    operator_status = $4,
		    operator_note = $5,
		    operator_response_at = $6,
		    cancelled_at = $7,
		    updated_at = $8
		WHERE id = $1
	`

	n, err := r.ExecAffected(ctx, query,
		res.ID,
		res.OperatorID,
		string(res.Status),
		string(res.OperatorStatus),
		res.OperatorNote,
		res.OperatorResponseAt,
		res.CancelledAt,
		res.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update reservation: %w", pgx.ErrNoRows)
	}
	return nil
}

// ListPending ожидающие ответа бронирования. operatorID == nil возвращает все,
// иначе назначенные оператору и ещё не назначенные никому. Бронирование без оператора
// остаётся в очереди и после отказа, пока его кто-нибудь не одобрит.
func (r *ReservationRepository) ListPending(ctx context.Context, operatorID *uuid.UUID) ([]*model.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `,
			e.id, e.slug, e.name, e.is_active, e.created_at
		FROM reservations r
		JOIN equipment e ON e.id = r.equipment_id
		WHERE r.cancelled_at IS NULL
		  AND r.status = 'PENDING'
		  AND (r.operator_id IS NULL OR r.operator_status = 'REQUESTED')
		  AND ($1::uuid IS NULL OR r.operator_id IS NULL OR r.operator_id = $1)
		ORDER BY r.start_at, r.id
	`

	rows, err := r.Query(ctx, query, operatorID)
	if err != nil {
		return nil, fmt.Errorf("list pending reservations: %w", err)
	}
	defer rows.Close()

	var list []*model.Reservation
	for rows.Next() {
		res, err := scanReservationWithEquipment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		list = append(list, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pending reservations: %w", err)
	}
	return list, nil
}

func reservationDest(res *model.Reservation) []any {
	return []any{
		&res.ID,
		&res.EquipmentID,
		&res.UserID,
		&res.OperatorID,
		&res.StartAt,
		&res.EndAt,
		&res.Status,
		&res.OperatorStatus,
		&res.OperatorNote,
		&res.OperatorResponseAt,
		&res.CancelledAt,
		&res.Title,
		&res.StudentNumber,
		&res.Note,
		&res.CreatedAt,
		&res.UpdatedAt,
	}
}

func scanReservation(row pgx.Row) (*model.Reservation, error) {
	var res model.Reservation
	if err := row.Scan(reservationDest(&res)...); err != nil {
		return nil, err
	}
	return &res, nil
}

func scanReservationWithEquipment(row pgx.Row) (*model.Reservation, error) {
	var (
		res model.Reservation
		eq  model.Equipment
	)
	dest := append(reservationDest(&res), &eq.ID, &eq.Slug, &eq.Name, &eq.IsActive, &eq.CreatedAt)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	res.Equipment = &eq
	return &res, nil
}
