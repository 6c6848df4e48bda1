package handler

import (
	"net/http"

	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/config"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/repository"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/usecase"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/validator"

	"github.com/labstack/echo/v4"
)

// /basket-itemsのHTTP
type BasketHandler struct {
	uc *usecase.BasketUsecase
}

// DI
func NewBasketHandler(uc *usecase.BasketUsecase) *BasketHandler {
	return &BasketHandler{uc: uc}
}

type createBasketItemRequest struct {
	ProductID int64 `json:"product_object" validate:"required,gte=1"`
}

type updateQuantityRequest struct {
	Quantity interface{} `json:"quantity"`
}

func (h *BasketHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/basket-items", authMiddlewares(cfg, userRepo)...)

	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/view-cart", h.viewCart)
	g.GET("/:id", h.detail)
	g.POST("/:id/add-to-cart", h.addToCart)
	g.DELETE("/:id/remove-from-cart", h.removeFromCart)
	g.PATCH("/:id/update-quantity", h.updateQuantity)
}

func (h *BasketHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListItems(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *BasketHandler) detail(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "Item not found"})
	}

	out, err := h.uc.GetItem(c.Request().Context(), userID, itemID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *BasketHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req createBasketItemRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	out, err := h.uc.CreateItem(c.Request().Context(), userID, req.ProductID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

// idは商品ID
func (h *BasketHandler) addToCart(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "Product not found"})
	}

	out, err := h.uc.AddToCart(c.Request().Context(), userID, productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

// idは明細ID
func (h *BasketHandler) removeFromCart(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "Item not found"})
	}

	if err := h.uc.RemoveFromCart(c.Request().Context(), userID, itemID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BasketHandler) updateQuantity(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "Item not found"})
	}

	var req updateQuantityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Quantity must be an integer >= 1"})
	}

	//数量チェックは明細の存在確認より先
	qty, err := validator.ParseQuantity(req.Quantity)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Quantity must be an integer >= 1"})
	}

	out, err := h.uc.UpdateQuantity(c.Request().Context(), userID, itemID, qty)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *BasketHandler) viewCart(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ViewCart(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
