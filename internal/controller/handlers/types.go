package handlers

import (
	"context"

	"github.com/Freeeeeet/lab_booking/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/Freeeeeet/lab_booking/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WorkLogReports отчёты по журналу работы оператора
type WorkLogReports interface {
	Summary(ctx context.Context, operatorID uuid.UUID) (*service.WorkSummary, error)
	Week(ctx context.Context, operatorID uuid.UUID) ([]*model.OperatorWorkLog, model.Interval, error)
}

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	sender       callbacktypes.Sender
	reservations callbacktypes.ReservationActions
	operators    callbacktypes.OperatorDirectory
	dialogs      callbacktypes.DialogStore
	workLogs     WorkLogReports
	equipment    service.EquipmentLookup
	normalizer   *service.Normalizer
	clock        service.Clock
	logger       *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	deps *callbacktypes.Handler,
	workLogs WorkLogReports,
	equipment service.EquipmentLookup,
	normalizer *service.Normalizer,
	clock service.Clock,
) *Handlers {
	return &Handlers{
		sender:       deps.Sender,
		reservations: deps.Reservations,
		operators:    deps.Operators,
		dialogs:      deps.Dialogs,
		workLogs:     workLogs,
		equipment:    equipment,
		normalizer:   normalizer,
		clock:        clock,
		logger:       deps.Logger,
	}
}
