package handler

import (
	"errors"
	"net/http"

	auth "github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/usecase/auth_usecase"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/validator"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	registerUC *auth.RegisterUserUsecase // 会員登録usecase
	loginUC    *auth.LoginUsecase        // ログインusecase
}

// DIコンストラクタ
func NewAuthHandler(registerUC *auth.RegisterUserUsecase, loginUC *auth.LoginUsecase) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
	}
}

// /register のリクエストボディ。
type registerRequest struct {
	Username  string `json:"username" validate:"required,max=150"`
	Email     string `json:"email" validate:"required,email,max=255"`
	FullName  string `json:"full_name" validate:"max=300"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	Password2 string `json:"password2" validate:"required"`
}

// /login のリクエストボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/register", h.register)
	e.POST("/login", h.login)
}

func (h *AuthHandler) register(c echo.Context) error {
	var req registerRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	_, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		Username:  req.Username,
		Email:     req.Email,
		FullName:  req.FullName,
		Password:  req.Password,
		Password2: req.Password2,
	})
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, MessageResponse{Message: "User registered successfully"})
	case errors.Is(err, auth.ErrPasswordMismatch):
		return c.JSON(http.StatusBadRequest, validator.FieldErrors{"password": "Password fields didn't match."})
	case errors.Is(err, auth.ErrWeakPassword):
		return c.JSON(http.StatusBadRequest, validator.FieldErrors{"password": "This password is too common."})
	case errors.Is(err, auth.ErrUserAlreadyExists):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "username or email already exists"})
	default:
		return writeError(c, err)
	}
}

func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid credentials"})
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
