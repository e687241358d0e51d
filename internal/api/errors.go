package api

import (
	"net/http"

	"github.com/Freeeeeet/lab_booking/internal/service"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func errorBody(kind string) echo.Map {
	return echo.Map{"ok": false, "error": kind}
}

// StatusFor HTTP статус для кода доменной ошибки
func StatusFor(kind service.ErrorKind) int {
	switch kind {
	case service.KindValidation,
		service.KindInvalidDatetime,
		service.KindInvalidRange,
		service.KindSlotGranularity,
		service.KindTooShort,
		service.KindTooLong,
		service.KindPastTime,
		service.KindTooFar,
		service.KindInvalidStudentNumber,
		service.KindInvalidEquipment,
		service.KindInvalidOperator:
		return http.StatusBadRequest
	case service.KindEquipmentConflict,
		service.KindUserConflict,
		service.KindOperatorConflict,
		service.KindAlreadyCancelled,
		service.KindAlreadyApproved:
		return http.StatusConflict
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindUnknown:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError доменные ошибки уходят клиенту кодом, остальные логируются и скрываются
func (h *Handler) respondError(c echo.Context, op string, err error) error {
	kind := service.KindOf(err)
	if kind == "" {
		h.logger.Error("Request failed",
			zap.String("op", op),
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorBody("INTERNAL"))
	}
	if kind == service.KindUnknown {
		h.logger.Warn("Transaction retries exhausted", zap.String("op", op), zap.Error(err))
	}
	return c.JSON(StatusFor(kind), errorBody(string(kind)))
}
