package service

import (
	"time"

	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/google/uuid"
)

type Action string

const (
	ActionCancel  Action = "cancel"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// Actor кто выполняет действие
type Actor struct {
	ID   uuid.UUID
	Role model.UserRole
}

// WorkLogEffect что сделать с журналом работы оператора
type WorkLogEffect int

const (
	WorkLogUntouched WorkLogEffect = iota
	WorkLogUpsert
	WorkLogCancel
)

// NotificationIntent кого и о чём уведомить после фиксации перехода
type NotificationIntent struct {
	Recipient uuid.UUID
	Kind      model.NotificationKind
}

// Transition результат решения автомата состояний.
// NoOp означает успешный идемпотентный вызов без изменений и без побочных эффектов.
type Transition struct {
	NoOp           bool
	Next           *model.Reservation
	CheckConflicts bool
	OperatorID     uuid.UUID // чьё время проверяется и на кого пишется журнал
	WorkLog        WorkLogEffect
	Notify         []NotificationIntent
}

func noOp() *Transition {
	return &Transition{NoOp: true}
}

// NewPendingReservation начальное состояние нового бронирования
func NewPendingReservation(id uuid.UUID, v *ValidatedReservation, now time.Time) (*model.Reservation, []NotificationIntent) {
	r := &model.Reservation{
		ID:             id,
		EquipmentID:    v.Equipment.ID,
		UserID:         v.Requester.ID,
		StartAt:        v.Interval.Start,
		EndAt:          v.Interval.End,
		Status:         model.ReservationStatusPending,
		OperatorStatus: model.OperatorStatusNone,
		Title:          v.Title,
		StudentNumber:  v.StudentNumber,
		Note:           v.Note,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var notify []NotificationIntent
	if v.Operator != nil {
		operatorID := v.Operator.ID
		r.OperatorID = &operatorID
		r.OperatorStatus = model.OperatorStatusRequested
		notify = append(notify, NotificationIntent{Recipient: operatorID, Kind: model.NotificationOperatorRequest})
	}
	return r, notify
}

// Decide чистая функция перехода: (состояние, действие, исполнитель) -> новое состояние и эффекты, либо ошибка
func Decide(r *model.Reservation, action Action, actor Actor, reason *string, now time.Time) (*Transition, error) {
	switch action {
	case ActionCancel:
		return decideCancel(r, actor, now)
	case ActionApprove:
		return decideApprove(r, actor, now)
	case ActionReject:
		return decideReject(r, actor, reason, now)
	}
	return nil, newError(KindValidation)
}

func decideCancel(r *model.Reservation, actor Actor, now time.Time) (*Transition, error) {
	if r.IsCancelled() {
		return noOp(), nil
	}
	if r.UserID != actor.ID && !actor.Role.CanOperate() {
		return nil, newError(KindForbidden)
	}

	next := r.Clone()
	next.CancelledAt = &now
	next.UpdatedAt = now

	t := &Transition{Next: next, WorkLog: WorkLogCancel}
	if r.OperatorStatus == model.OperatorStatusRequested || r.OperatorStatus == model.OperatorStatusApproved {
		next.OperatorStatus = model.OperatorStatusCanceled
		if r.OperatorID != nil && *r.OperatorID != actor.ID {
			t.Notify = append(t.Notify, NotificationIntent{Recipient: *r.OperatorID, Kind: model.NotificationReservationCanceled})
		}
	}
	if r.UserID != actor.ID {
		t.Notify = append(t.Notify, NotificationIntent{Recipient: r.UserID, Kind: model.NotificationReservationCanceled})
	}
	return t, nil
}

func decideApprove(r *model.Reservation, actor Actor, now time.Time) (*Transition, error) {
	if !actor.Role.CanOperate() {
		return nil, newError(KindForbidden)
	}
	if r.IsCancelled() {
		return nil, newError(KindAlreadyCancelled)
	}
	if r.Status == model.ReservationStatusApproved {
		return noOp(), nil
	}
	if !mayRespond(r, actor) {
		return nil, newError(KindForbidden)
	}

	next := r.Clone()
	operatorID := claimOperator(next, actor)
	next.Status = model.ReservationStatusApproved
	next.OperatorStatus = model.OperatorStatusApproved
	next.OperatorResponseAt = &now
	next.UpdatedAt = now

	return &Transition{
		Next:           next,
		CheckConflicts: true,
		OperatorID:     operatorID,
		WorkLog:        WorkLogUpsert,
		Notify:         []NotificationIntent{{Recipient: r.UserID, Kind: model.NotificationOperatorApproved}},
	}, nil
}

func decideReject(r *model.Reservation, actor Actor, reason *string, now time.Time) (*Transition, error) {
	if !actor.Role.CanOperate() {
		return nil, newError(KindForbidden)
	}
	if r.IsCancelled() {
		return noOp(), nil
	}
	if !mayRespond(r, actor) {
		return nil, newError(KindForbidden)
	}
	if r.Status == model.ReservationStatusApproved {
		return nil, newError(KindAlreadyApproved)
	}
	if r.OperatorStatus == model.OperatorStatusRejected {
		return noOp(), nil
	}

	// отказ не закрепляет бронирование: без названного оператора его может одобрить любой
	next := r.Clone()
	next.OperatorStatus = model.OperatorStatusRejected
	next.OperatorNote = reason
	next.OperatorResponseAt = &now
	next.UpdatedAt = now

	return &Transition{
		Next:   next,
		Notify: []NotificationIntent{{Recipient: r.UserID, Kind: model.NotificationOperatorRejected}},
	}, nil
}

// mayRespond если оператор назван явно, ответить может только он или администратор
func mayRespond(r *model.Reservation, actor Actor) bool {
	if r.OperatorID == nil || actor.Role == model.UserRoleAdmin {
		return true
	}
	return *r.OperatorID == actor.ID
}

// claimOperator закрепляет бронирование без оператора за тем, кто его одобрил
func claimOperator(r *model.Reservation, actor Actor) uuid.UUID {
	if r.OperatorID == nil {
		id := actor.ID
		r.OperatorID = &id
	}
	return *r.OperatorID
}
