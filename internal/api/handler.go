// Package api HTTP слой поверх автомата состояний бронирования.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/Freeeeeet/lab_booking/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Reservations операции над бронированиями
type Reservations interface {
	Create(ctx context.Context, in service.CreateReservationInput) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	Cancel(ctx context.Context, id uuid.UUID, actor service.Actor) error
	Approve(ctx context.Context, id uuid.UUID, actor service.Actor) error
	Reject(ctx context.Context, id uuid.UUID, actor service.Actor, reason string) error
	ListPending(ctx context.Context, actor service.Actor) ([]*model.Reservation, error)
}

// WorkLogs отчёты по журналу работы
type WorkLogs interface {
	Summary(ctx context.Context, operatorID uuid.UUID) (*service.WorkSummary, error)
}

// Notifications входящие уведомления пользователя
type Notifications interface {
	ListUnread(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
}

type Handler struct {
	reservations  Reservations
	workLogs      WorkLogs
	notifications Notifications
	logger        *zap.Logger
}

func NewHandler(reservations Reservations, workLogs WorkLogs, notifications Notifications, logger *zap.Logger) *Handler {
	return &Handler{
		reservations:  reservations,
		workLogs:      workLogs,
		notifications: notifications,
		logger:        logger,
	}
}

// Health GET /healthz
func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// CreateReservation POST /v1/reservations. Запрашивающий всегда берётся из токена.
func (h *Handler) CreateReservation(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody("UNAUTHORIZED"))
	}

	var in service.CreateReservationInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(string(service.KindValidation)))
	}
	in.RequesterID = actor.ID

	id, err := h.reservations.Create(c.Request().Context(), in)
	if err != nil {
		return h.respondError(c, "create", err)
	}

	h.logger.Info("Reservation created",
		zap.String("reservation_id", id.String()),
		zap.String("user_id", actor.ID.String()))
	return c.JSON(http.StatusCreated, echo.Map{"ok": true, "id": id})
}

// GetReservation GET /v1/reservations/:id. Видно владельцу, операторам и администраторам.
func (h *Handler) GetReservation(c echo.Context) error {
	actor, id, ok, err := h.prepare(c)
	if !ok {
		return err
	}

	r, err := h.reservations.Get(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, "get", err)
	}
	if r.UserID != actor.ID && !actor.Role.CanOperate() {
		return c.JSON(http.StatusForbidden, errorBody(string(service.KindForbidden)))
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "reservation": r})
}

// CancelReservation POST /v1/reservations/:id/cancel
func (h *Handler) CancelReservation(c echo.Context) error {
	actor, id, ok, err := h.prepare(c)
	if !ok {
		return err
	}
	if err := h.reservations.Cancel(c.Request().Context(), id, actor); err != nil {
		return h.respondError(c, "cancel", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// ApproveReservation POST /v1/reservations/:id/approve
func (h *Handler) ApproveReservation(c echo.Context) error {
	actor, id, ok, err := h.prepare(c)
	if !ok {
		return err
	}
	if err := h.reservations.Approve(c.Request().Context(), id, actor); err != nil {
		return h.respondError(c, "approve", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// RejectReservation POST /v1/reservations/:id/reject
func (h *Handler) RejectReservation(c echo.Context) error {
	actor, id, ok, err := h.prepare(c)
	if !ok {
		return err
	}

	var body rejectRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, errorBody(string(service.KindValidation)))
		}
	}

	if err := h.reservations.Reject(c.Request().Context(), id, actor, body.Reason); err != nil {
		return h.respondError(c, "reject", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// ListPending GET /v1/operator/reservations
func (h *Handler) ListPending(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody("UNAUTHORIZED"))
	}

	pending, err := h.reservations.ListPending(c.Request().Context(), actor)
	if err != nil {
		return h.respondError(c, "list pending", err)
	}
	if pending == nil {
		pending = []*model.Reservation{}
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "reservations": pending})
}

// WorkSummary GET /v1/operator/worklog/summary
func (h *Handler) WorkSummary(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody("UNAUTHORIZED"))
	}

	summary, err := h.workLogs.Summary(c.Request().Context(), actor.ID)
	if err != nil {
		return h.respondError(c, "work summary", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "summary": summary})
}

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
)

// ListNotifications GET /v1/notifications?limit=N
func (h *Handler) ListNotifications(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody("UNAUTHORIZED"))
	}

	limit := defaultNotificationLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, errorBody(string(service.KindValidation)))
		}
		limit = min(n, maxNotificationLimit)
	}

	list, err := h.notifications.ListUnread(c.Request().Context(), actor.ID, limit)
	if err != nil {
		return h.respondError(c, "list notifications", err)
	}
	if list == nil {
		list = []*model.Notification{}
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "notifications": list})
}

// MarkNotificationRead POST /v1/notifications/:id/read
func (h *Handler) MarkNotificationRead(c echo.Context) error {
	actor, id, ok, err := h.prepare(c)
	if !ok {
		return err
	}
	if err := h.notifications.MarkRead(c.Request().Context(), actor.ID, id); err != nil {
		return h.respondError(c, "mark notification read", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// prepare достаёт actor и :id. Если ok == false, ответ уже записан и его ошибку нужно вернуть.
func (h *Handler) prepare(c echo.Context) (service.Actor, uuid.UUID, bool, error) {
	actor, ok := actorFrom(c)
	if !ok {
		return service.Actor{}, uuid.Nil, false, c.JSON(http.StatusUnauthorized, errorBody("UNAUTHORIZED"))
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return service.Actor{}, uuid.Nil, false, c.JSON(http.StatusNotFound, errorBody(string(service.KindNotFound)))
	}
	return actor, id, true, nil
}
