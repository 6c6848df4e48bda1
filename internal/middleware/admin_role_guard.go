package middleware

import (
	"net/http"

	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// ADMINだけ通す。カタログの書き込み系に使う
func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxUserRoleKey).(string)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			if role != string(model.RoleAdmin) {
				return c.JSON(http.StatusForbidden, errorJSON("admin only"))
			}

			return next(c)
		}
	}
}
