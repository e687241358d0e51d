package api

import (
	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// NewServer собирает echo со всеми маршрутами
func NewServer(h *Handler, jwtSecret string, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))

	RegisterRoutes(e, h, jwtSecret)
	return e
}

// RegisterRoutes регистрирует маршруты API
func RegisterRoutes(e *echo.Echo, h *Handler, jwtSecret string) {
	e.GET("/healthz", h.Health)

	v1 := e.Group("/v1")
	v1.Use(JWTAuth(jwtSecret))

	v1.POST("/reservations", h.CreateReservation)
	v1.GET("/reservations/:id", h.GetReservation)
	v1.POST("/reservations/:id/cancel", h.CancelReservation)
	v1.GET("/notifications", h.ListNotifications)
	v1.POST("/notifications/:id/read", h.MarkNotificationRead)

	operators := RequireRole(model.UserRoleOperator, model.UserRoleAdmin)
	v1.POST("/reservations/:id/approve", h.ApproveReservation, operators)
	v1.POST("/reservations/:id/reject", h.RejectReservation, operators)

	op := v1.Group("/operator", operators)
	op.GET("/reservations", h.ListPending)
	op.GET("/worklog/summary", h.WorkSummary)
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("HTTP request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	})
}
