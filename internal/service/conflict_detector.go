package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/google/uuid"
)

// ConflictDetector ищет пересечения с подтверждёнными бронированиями.
// Вызывается только внутри serializable транзакции, иначе две параллельные
// проверки могут обе не увидеть конфликта.
type ConflictDetector struct{}

func NewConflictDetector() *ConflictDetector {
	return &ConflictDetector{}
}

// CheckBooking проверяет занятость оборудования и самого пользователя
func (d *ConflictDetector) CheckBooking(ctx context.Context, tx Tx, r *model.Reservation) error {
	if err := d.CheckEquipment(ctx, tx, r); err != nil {
		return err
	}
	return d.CheckUser(ctx, tx, r)
}

// CheckEquipment ищет другое подтверждённое бронирование того же оборудования
func (d *ConflictDetector) CheckEquipment(ctx context.Context, tx Tx, r *model.Reservation) error {
	equipmentID := r.EquipmentID
	found, err := tx.FindOverlappingReservation(ctx, ReservationFilter{
		EquipmentID: &equipmentID,
		Status:      model.ReservationStatusApproved,
		ExcludeID:   excludeID(r.ID),
		Window:      r.Interval(),
	})
	if err != nil {
		return fmt.Errorf("find equipment overlap: %w", err)
	}
	if found != nil {
		return &Error{Kind: KindEquipmentConflict, Err: fmt.Errorf("overlaps reservation %s", found.ID)}
	}
	return nil
}

// CheckUser ищет другое подтверждённое бронирование того же пользователя
func (d *ConflictDetector) CheckUser(ctx context.Context, tx Tx, r *model.Reservation) error {
	userID := r.UserID
	found, err := tx.FindOverlappingReservation(ctx, ReservationFilter{
		UserID:    &userID,
		Status:    model.ReservationStatusApproved,
		ExcludeID: excludeID(r.ID),
		Window:    r.Interval(),
	})
	if err != nil {
		return fmt.Errorf("find user overlap: %w", err)
	}
	if found != nil {
		return &Error{Kind: KindUserConflict, Err: fmt.Errorf("overlaps reservation %s", found.ID)}
	}
	return nil
}

// CheckOperator проверяет, что время оператора свободно: и по бронированиям, где он
// подтверждённый оператор, и по журналу работы
func (d *ConflictDetector) CheckOperator(ctx context.Context, tx Tx, r *model.Reservation, operatorID uuid.UUID) error {
	approved := model.OperatorStatusApproved
	found, err := tx.FindOverlappingReservation(ctx, ReservationFilter{
		OperatorID:     &operatorID,
		OperatorStatus: &approved,
		Status:         model.ReservationStatusApproved,
		ExcludeID:      excludeID(r.ID),
		Window:         r.Interval(),
	})
	if err != nil {
		return fmt.Errorf("find operator overlap: %w", err)
	}
	if found != nil {
		return &Error{Kind: KindOperatorConflict, Err: fmt.Errorf("overlaps reservation %s", found.ID)}
	}

	log, err := tx.FindOverlappingWorkLog(ctx, operatorID, r.Interval(), r.ID, model.CountedWorkLogStatuses)
	if err != nil {
		return fmt.Errorf("find operator work log overlap: %w", err)
	}
	if log != nil {
		return &Error{Kind: KindOperatorConflict, Err: fmt.Errorf("overlaps work log %s", log.ID)}
	}
	return nil
}

// CheckApproval полный набор проверок перед одобрением
func (d *ConflictDetector) CheckApproval(ctx context.Context, tx Tx, r *model.Reservation, operatorID uuid.UUID) error {
	if err := d.CheckBooking(ctx, tx, r); err != nil {
		return err
	}
	return d.CheckOperator(ctx, tx, r, operatorID)
}

func excludeID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
