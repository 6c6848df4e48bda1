package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/config"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/repository"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/usecase"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/validator"

	"github.com/labstack/echo/v4"
)

// 商品と商品メディアの書き込み（ADMIN）
type AdminProductHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.CatalogUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

// adminを登録
func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := adminMiddlewares(cfg, userRepo)

	e.POST("/products", h.createProduct, admin...)
	e.PUT("/products/:id", h.updateProduct, admin...)
	e.PATCH("/products/:id", h.updateProduct, admin...)
	e.DELETE("/products/:id", h.deleteProduct, admin...)
	e.POST("/product-media", h.upsertMedia, admin...)
}

// JSONまたはmultipart（image）
func (h *AdminProductHandler) createProduct(c echo.Context) error {
	patch, opened, err := readProductPatch(c)
	if err != nil {
		return writeFormError(c, err)
	}
	defer opened.Close()

	in, fe := toProductInput(patch)
	if fe != nil {
		return c.JSON(http.StatusBadRequest, fe)
	}

	p, err := h.uc.CreateProduct(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// 指定されたフィールドだけ更新
func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	}

	patch, opened, err := readProductPatch(c)
	if err != nil {
		return writeFormError(c, err)
	}
	defer opened.Close()

	p, err := h.uc.UpdateProduct(c.Request().Context(), id, patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	}

	if err := h.uc.DeleteProduct(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// multipart: product, image1, image2, image3, video
func (h *AdminProductHandler) upsertMedia(c echo.Context) error {
	if !isMultipart(c) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "multipart/form-data required"})
	}
	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	v, _ := formValue(form, "product")
	productID, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || productID <= 0 {
		return c.JSON(http.StatusBadRequest, validator.FieldErrors{"product": "This field is required."})
	}

	var opened openedFiles
	defer opened.Close()

	in := usecase.ProductMediaInput{ProductID: productID}
	for field, dst := range map[string]**usecase.Upload{
		"image1": &in.Image1,
		"image2": &in.Image2,
		"image3": &in.Image3,
		"video":  &in.Video,
	} {
		up, err := openUpload(form, field, &opened)
		if err != nil {
			return writeError(c, err)
		}
		*dst = up
	}

	m, err := h.uc.UpsertProductMedia(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}
