package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/Freeeeeet/lab_booking/internal/repository/base"
	"github.com/Freeeeeet/lab_booking/internal/service"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UnitOfWork транзакции PostgreSQL для автомата состояний бронирований
type UnitOfWork struct {
	pool *pgxpool.Pool
}

func NewUnitOfWork(pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{pool: pool}
}

// Do выполняет fn в транзакции. Ошибки сериализации и взаимоблокировки
// возвращаются обёрнутыми в service.ErrSerializationFailure.
func (u *UnitOfWork) Do(ctx context.Context, iso service.Isolation, fn func(ctx context.Context, tx service.Tx) error) (err error) {
	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: isoLevel(iso)})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(ctx, newTxScope(tx)); err != nil {
		return classifyTxError(err)
	}
	if err = tx.Commit(ctx); err != nil {
		return classifyTxError(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

func isoLevel(iso service.Isolation) pgx.TxIsoLevel {
	if iso == service.IsolationSerializable {
		return pgx.Serializable
	}
	return pgx.ReadCommitted
}

func classifyTxError(err error) error {
	if base.IsSerializationFailure(err) {
		return fmt.Errorf("%w: %v", service.ErrSerializationFailure, err)
	}
	return err
}

// txScope репозитории, привязанные к одной транзакции
type txScope struct {
	reservations *ReservationRepository
	workLogs     *WorkLogRepository
}

func newTxScope(tx pgx.Tx) *txScope {
	return &txScope{
		reservations: NewReservationRepository(tx),
		workLogs:     NewWorkLogRepository(tx),
	}
}

func (s *txScope) GetReservation(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	return s.reservations.GetForUpdate(ctx, id)
}

func (s *txScope) FindOverlappingReservation(ctx context.Context, f service.ReservationFilter) (*model.Reservation, error) {
	return s.reservations.FindOverlapping(ctx, f)
}

func (s *txScope) InsertReservation(ctx context.Context, r *model.Reservation) error {
	return s.reservations.Insert(ctx, r)
}

func (s *txScope) UpdateReservation(ctx context.Context, r *model.Reservation) error {
	return s.reservations.Update(ctx, r)
}

func (s *txScope) FindOverlappingWorkLog(ctx context.Context, operatorID uuid.UUID, window model.Interval, excludeReservationID uuid.UUID, statuses []model.WorkLogStatus) (*model.OperatorWorkLog, error) {
	return s.workLogs.FindOverlapping(ctx, operatorID, window, excludeReservationID, statuses)
}

func (s *txScope) UpsertWorkLog(ctx context.Context, w *model.OperatorWorkLog) error {
	return s.workLogs.Upsert(ctx, w)
}

func (s *txScope) SetWorkLogStatusByReservation(ctx context.Context, reservationID uuid.UUID, status model.WorkLogStatus) error {
	return s.workLogs.SetStatusByReservation(ctx, reservationID, status)
}
