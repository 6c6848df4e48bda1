package handler

import (
	"net/http"
	"strconv"

	repo "github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/repository"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /products と /product-media の公開API
type ProductHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewProductHandler(uc *usecase.CatalogUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// 公開のルートを登録
func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/products", h.list)
	e.GET("/products/:id", h.detail)
	e.GET("/product-media/:product_id", h.media)
}

// ?category=<id>&q=<name>
func (h *ProductHandler) list(c echo.Context) error {
	var q repo.ProductListQuery
	if v := c.QueryParam("category"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid category"})
		}
		q.CategoryID = &id
	}
	q.Q = c.QueryParam("q")

	out, err := h.uc.ListProducts(c.Request().Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	}

	p, err := h.uc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) media(c echo.Context) error {
	productID, ok := parseIDParam(c, "product_id")
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "Product media does not exist for the product id"})
	}

	m, err := h.uc.GetProductMedia(c.Request().Context(), productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}
