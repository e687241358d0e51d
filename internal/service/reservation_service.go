package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxTxAttempts сколько раз выполняется транзакция при конфликте сериализации
const maxTxAttempts = 3

// MaxReasonLength ограничение на причину отказа
const MaxReasonLength = 500

// ReservationService автомат состояний бронирования: создание, отмена, одобрение, отказ
type ReservationService struct {
	uow        UnitOfWork
	reader     ReservationReader
	validator  *ReservationValidator
	detector   *ConflictDetector
	equipment  EquipmentLookup
	users      UserLookup
	notifier   NotificationSink
	normalizer *Normalizer
	clock      Clock
	logger     *zap.Logger
}

func NewReservationService(
	uow UnitOfWork,
	reader ReservationReader,
	validator *ReservationValidator,
	equipment EquipmentLookup,
	users UserLookup,
	notifier NotificationSink,
	normalizer *Normalizer,
	clock Clock,
	logger *zap.Logger,
) *ReservationService {
	return &ReservationService{
		uow:        uow,
		reader:     reader,
		validator:  validator,
		detector:   NewConflictDetector(),
		equipment:  equipment,
		users:      users,
		notifier:   notifier,
		normalizer: normalizer,
		clock:      clock,
		logger:     logger,
	}
}

// Create создаёт бронирование в статусе PENDING
func (s *ReservationService) Create(ctx context.Context, in CreateReservationInput) (uuid.UUID, error) {
	validated, err := s.validator.Validate(ctx, in)
	if err != nil {
		return uuid.Nil, err
	}

	id := uuid.New()
	var (
		reservation *model.Reservation
		intents     []NotificationIntent
	)

	err = s.inTx(ctx, "create", func(ctx context.Context, tx Tx) error {
		reservation, intents = NewPendingReservation(id, validated, s.clock.Now())

		if err := s.detector.CheckBooking(ctx, tx, reservation); err != nil {
			return err
		}

		if err := tx.InsertReservation(ctx, reservation); err != nil {
			return fmt.Errorf("insert reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		if KindOf(err) != "" {
			s.logger.Info("Reservation refused",
				zap.String("equipment_id", in.EquipmentID.String()),
				zap.String("user_id", in.RequesterID.String()),
				zap.String("reason", string(KindOf(err))),
			)
		}
		return uuid.Nil, err
	}

	s.logger.Info("Reservation created",
		zap.String("reservation_id", id.String()),
		zap.String("equipment", validated.Equipment.Slug),
		zap.String("user_id", validated.Requester.ID.String()),
		zap.Time("start_at", reservation.StartAt),
		zap.Time("end_at", reservation.EndAt),
		zap.String("operator_status", string(reservation.OperatorStatus)),
	)

	reservation.Equipment = validated.Equipment
	s.dispatch(ctx, reservation, validated.Requester.ID, intents)

	return id, nil
}

// Cancel отменяет бронирование. Повторная отмена успешна и ничего не меняет.
func (s *ReservationService) Cancel(ctx context.Context, id uuid.UUID, actor Actor) error {
	return s.transition(ctx, id, ActionCancel, actor, nil)
}

// Approve одобряет бронирование после повторной проверки пересечений.
// Повторное одобрение успешно и ничего не меняет.
func (s *ReservationService) Approve(ctx context.Context, id uuid.UUID, actor Actor) error {
	return s.transition(ctx, id, ActionApprove, actor, nil)
}

// Reject фиксирует отказ оператора. Статус бронирования остаётся PENDING.
func (s *ReservationService) Reject(ctx context.Context, id uuid.UUID, actor Actor, reason string) error {
	reason = strings.TrimSpace(reason)
	if len([]rune(reason)) > MaxReasonLength {
		return newError(KindValidation)
	}
	var note *string
	if reason != "" {
		note = &reason
	}
	return s.transition(ctx, id, ActionReject, actor, note)
}

// Get возвращает бронирование по ID
func (s *ReservationService) Get(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	r, err := s.reader.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	if r == nil {
		return nil, newError(KindNotFound)
	}
	return r, nil
}

// ListPending очередь ожидающих ответа бронирований. Администратор видит все,
// оператор видит назначенные ему и ещё никем не взятые.
func (s *ReservationService) ListPending(ctx context.Context, actor Actor) ([]*model.Reservation, error) {
	if !actor.Role.CanOperate() {
		return nil, newError(KindForbidden)
	}
	var operatorID *uuid.UUID
	if actor.Role != model.UserRoleAdmin {
		id := actor.ID
		operatorID = &id
	}
	list, err := s.reader.ListPending(ctx, operatorID)
	if err != nil {
		return nil, fmt.Errorf("list pending reservations: %w", err)
	}
	return list, nil
}

func (s *ReservationService) transition(ctx context.Context, id uuid.UUID, action Action, actor Actor, reason *string) error {
	var t *Transition

	err := s.inTx(ctx, string(action), func(ctx context.Context, tx Tx) error {
		current, err := tx.GetReservation(ctx, id)
		if err != nil {
			return fmt.Errorf("get reservation: %w", err)
		}
		if current == nil {
			return newError(KindNotFound)
		}

		t, err = Decide(current, action, actor, reason, s.clock.Now())
		if err != nil {
			return err
		}
		if t.NoOp {
			return nil
		}

		if t.CheckConflicts {
			if err := s.detector.CheckApproval(ctx, tx, t.Next, t.OperatorID); err != nil {
				return err
			}
		}

		if err := tx.UpdateReservation(ctx, t.Next); err != nil {
			return fmt.Errorf("update reservation: %w", err)
		}

		switch t.WorkLog {
		case WorkLogUpsert:
			if err := tx.UpsertWorkLog(ctx, NewWorkLog(t.Next, t.OperatorID, s.clock.Now())); err != nil {
				return fmt.Errorf("upsert work log: %w", err)
			}
		case WorkLogCancel:
			if err := tx.SetWorkLogStatusByReservation(ctx, id, model.WorkLogStatusCanceled); err != nil {
				return fmt.Errorf("cancel work log: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		if kind := KindOf(err); kind != "" {
			s.logger.Info("Reservation transition refused",
				zap.String("action", string(action)),
				zap.String("reservation_id", id.String()),
				zap.String("actor_id", actor.ID.String()),
				zap.String("reason", string(kind)),
			)
		}
		return err
	}

	if t.NoOp {
		s.logger.Debug("Reservation transition is a no-op",
			zap.String("action", string(action)),
			zap.String("reservation_id", id.String()),
		)
		return nil
	}

	s.logger.Info("Reservation transition applied",
		zap.String("action", string(action)),
		zap.String("reservation_id", id.String()),
		zap.String("actor_id", actor.ID.String()),
		zap.String("status", string(t.Next.Status)),
		zap.String("operator_status", string(t.Next.OperatorStatus)),
	)

	s.dispatch(ctx, t.Next, actor.ID, t.Notify)
	return nil
}

// inTx выполняет fn в serializable транзакции и повторяет её при конфликте сериализации.
// Доменные ошибки и прочие сбои не повторяются.
func (s *ReservationService) inTx(ctx context.Context, op string, fn func(ctx context.Context, tx Tx) error) error {
	var lastErr error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err := s.uow.Do(ctx, IsolationSerializable, fn)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrSerializationFailure) {
			return err
		}
		lastErr = err
		s.logger.Warn("Serialization failure, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
	return &Error{Kind: KindUnknown, Err: lastErr}
}
