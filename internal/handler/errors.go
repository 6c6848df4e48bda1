package handler

import (
	"net/http"
	"strconv"

	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/config"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/middleware"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/repository"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/usecase"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/validator"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		if he.Status >= http.StatusInternalServerError {
			c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
		}
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// bindとvalidate。失敗時はレスポンスを書いてfalse
func bindAndValidate(c echo.Context, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		if fe, ok := validator.ToFieldErrors(err); ok {
			return false, c.JSON(http.StatusBadRequest, fe)
		}
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	return true, nil
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	id, ok := c.Get(middleware.CtxUserIDKey).(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

func parseIDParam(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ログイン必須
func authMiddlewares(cfg config.Config, userRepo repository.UserRepository) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		middleware.AuthJWT(cfg),
		middleware.TokenVersionGuard(userRepo),
	}
}

// ADMINのみ
func adminMiddlewares(cfg config.Config, userRepo repository.UserRepository) []echo.MiddlewareFunc {
	return append(authMiddlewares(cfg, userRepo), middleware.AdminRoleGuard())
}
