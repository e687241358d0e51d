package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var studentNumberPattern = regexp.MustCompile(`^[0-9]{4}$`)

// ValidationRules параметры проверки времени бронирования
type ValidationRules struct {
	SlotSize    time.Duration // шаг сетки, 10 минут
	MaxDuration time.Duration // 8 часов
	ClockSkew   time.Duration // допуск на расхождение часов клиента
	HorizonDays int           // насколько вперёд можно бронировать, 0 без ограничения
}

// DefaultValidationRules правила по умолчанию
func DefaultValidationRules() ValidationRules {
	return ValidationRules{
		SlotSize:    10 * time.Minute,
		MaxDuration: 8 * time.Hour,
		ClockSkew:   time.Minute,
		HorizonDays: 30,
	}
}

// CreateReservationInput данные запроса на бронирование в том виде, в котором они пришли от клиента
type CreateReservationInput struct {
	EquipmentID   uuid.UUID  `json:"equipment_id" validate:"required"`
	RequesterID   uuid.UUID  `json:"-" validate:"required"`
	StartAtLocal  string     `json:"start_at" validate:"required,max=32"`
	EndAtLocal    string     `json:"end_at" validate:"required,max=32"`
	Title         string     `json:"title" validate:"max=100"`
	StudentNumber string     `json:"student_number" validate:"max=32"`
	Note          string     `json:"note" validate:"max=500"`
	OperatorID    *uuid.UUID `json:"operator_id"`
}

// ValidatedReservation прошедший проверку запрос
type ValidatedReservation struct {
	Equipment     *model.Equipment
	Requester     *model.User
	Operator      *model.User // nil, если оператор не запрошен
	Interval      model.Interval
	Title         *string
	StudentNumber *string
	Note          *string
}

// ReservationValidator проверяет запрос на бронирование. Кроме двух чтений (оборудование
// и оператор) не имеет побочных эффектов и может вызываться повторно.
type ReservationValidator struct {
	rules      ValidationRules
	normalizer *Normalizer
	equipment  EquipmentLookup
	users      UserLookup
	clock      Clock
	validate   *validator.Validate
}

func NewReservationValidator(
	rules ValidationRules,
	normalizer *Normalizer,
	equipment EquipmentLookup,
	users UserLookup,
	clock Clock,
) *ReservationValidator {
	return &ReservationValidator{
		rules:      rules,
		normalizer: normalizer,
		equipment:  equipment,
		users:      users,
		clock:      clock,
		validate:   validator.New(),
	}
}

// Validate проверяет запрос. Возвращает первую найденную доменную ошибку.
func (v *ReservationValidator) Validate(ctx context.Context, in CreateReservationInput) (*ValidatedReservation, error) {
	if err := v.validate.Struct(in); err != nil {
		return nil, &Error{Kind: KindValidation, Err: err}
	}

	start, errStart := v.normalizer.Parse(in.StartAtLocal)
	end, errEnd := v.normalizer.Parse(in.EndAtLocal)
	if errStart != nil || errEnd != nil {
		return nil, newError(KindInvalidDatetime)
	}
	interval := model.Interval{Start: start, End: end}

	if err := v.CheckInterval(interval, v.clock.Now()); err != nil {
		return nil, err
	}

	studentNumber, err := CheckStudentNumber(in.StudentNumber)
	if err != nil {
		return nil, err
	}

	equipment, err := v.equipment.GetEquipment(ctx, in.EquipmentID)
	if err != nil {
		return nil, fmt.Errorf("get equipment: %w", err)
	}
	if equipment == nil || !equipment.IsActive {
		return nil, newError(KindInvalidEquipment)
	}

	var operator *model.User
	if in.OperatorID != nil {
		operator, err = v.users.GetUser(ctx, *in.OperatorID)
		if err != nil {
			return nil, fmt.Errorf("get operator: %w", err)
		}
		if operator == nil || !operator.IsActive() || !operator.CanOperate() {
			return nil, newError(KindInvalidOperator)
		}
	}

	requester, err := v.users.GetUser(ctx, in.RequesterID)
	if err != nil {
		return nil, fmt.Errorf("get requester: %w", err)
	}
	if requester == nil || !requester.IsActive() {
		return nil, newError(KindForbidden)
	}

	return &ValidatedReservation{
		Equipment:     equipment,
		Requester:     requester,
		Operator:      operator,
		Interval:      interval,
		Title:         trimmedOrNil(in.Title),
		StudentNumber: studentNumber,
		Note:          trimmedOrNil(in.Note),
	}, nil
}

// CheckInterval проверяет порядок, сетку, длительность и горизонт бронирования
func (v *ReservationValidator) CheckInterval(i model.Interval, now time.Time) error {
	if !i.End.After(i.Start) {
		return newError(KindInvalidRange)
	}
	if !AlignedToSlot(i.Start, v.rules.SlotSize) || !AlignedToSlot(i.End, v.rules.SlotSize) {
		return newError(KindSlotGranularity)
	}
	d := i.Duration()
	if d < v.rules.SlotSize {
		return newError(KindTooShort)
	}
	if v.rules.MaxDuration > 0 && d > v.rules.MaxDuration {
		return newError(KindTooLong)
	}
	if i.Start.Before(now.Add(-v.rules.ClockSkew)) {
		return newError(KindPastTime)
	}
	if v.rules.HorizonDays > 0 && i.Start.After(now.Add(time.Duration(v.rules.HorizonDays)*24*time.Hour)) {
		return newError(KindTooFar)
	}
	return nil
}

// CheckStudentNumber пустая строка означает отсутствие номера, иначе нужно ровно 4 цифры
func CheckStudentNumber(raw string) (*string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	if !studentNumberPattern.MatchString(s) {
		return nil, newError(KindInvalidStudentNumber)
	}
	return &s, nil
}

func trimmedOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
