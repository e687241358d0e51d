package api

import (
	"net/http"
	"strings"

	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/Freeeeeet/lab_booking/internal/service"
	"github.com/labstack/echo/v4"
)

const actorKey = "actor"

// JWTAuth проверяет Bearer токен и кладёт service.Actor в контекст запроса
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, found := strings.CutPrefix(auth, "Bearer ")
			if !found || raw == "" {
				return c.JSON(http.StatusUnauthorized, errorBody("UNAUTHORIZED"))
			}

			actor, err := ParseToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorBody("UNAUTHORIZED"))
			}

			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

// RequireRole пропускает только перечисленные роли. Ставится после JWTAuth.
func RequireRole(roles ...model.UserRole) echo.MiddlewareFunc {
	allowed := make(map[model.UserRole]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := actorFrom(c)
			if !ok || !allowed[actor.Role] {
				return c.JSON(http.StatusForbidden, errorBody(string(service.KindForbidden)))
			}
			return next(c)
		}
	}
}

func actorFrom(c echo.Context) (service.Actor, bool) {
	actor, ok := c.Get(actorKey).(service.Actor)
	return actor, ok
}
