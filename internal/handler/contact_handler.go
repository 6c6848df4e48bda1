package handler

import (
	"net/http"

	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ContactHandler struct {
	uc *usecase.ContactUsecase
}

// DI
func NewContactHandler(uc *usecase.ContactUsecase) *ContactHandler {
	return &ContactHandler{uc: uc}
}

type contactRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Phone   string `json:"phone" validate:"max=30"`
	Subject string `json:"subject" validate:"max=255"`
	Message string `json:"message" validate:"required"`
}

// ログイン不要
func (h *ContactHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/contact", h.create)
}

func (h *ContactHandler) create(c echo.Context) error {
	var req contactRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	_, err := h.uc.Submit(c.Request().Context(), usecase.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, MessageResponse{Message: "Contact message submitted successfully."})
}
