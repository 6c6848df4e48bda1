package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/usecase"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/validator"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// JSONの商品入力。nilは未指定
type productRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int64           `json:"stock"`
	CategoryID  *int64           `json:"category"`
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

// 開いたファイルをまとめて閉じる
type openedFiles []multipart.File

func (f *openedFiles) Close() {
	for _, file := range *f {
		_ = file.Close()
	}
}

func openUpload(form *multipart.Form, field string, opened *openedFiles) (*usecase.Upload, error) {
	files := form.File[field]
	if len(files) == 0 {
		return nil, nil
	}
	fh := files[0]
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	*opened = append(*opened, f)
	return &usecase.Upload{Filename: fh.Filename, Body: f}, nil
}

func formValue(form *multipart.Form, key string) (string, bool) {
	vs, ok := form.Value[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// readProductPatch はJSONかmultipartから商品入力を読む
// 不正な値はFieldErrorsで返す
func readProductPatch(c echo.Context) (usecase.ProductPatchInput, openedFiles, error) {
	var in usecase.ProductPatchInput
	var opened openedFiles

	if !isMultipart(c) {
		var req productRequest
		if err := c.Bind(&req); err != nil {
			return in, nil, validator.FieldErrors{"non_field_errors": "Invalid body."}
		}
		in.Name = req.Name
		in.Description = req.Description
		in.Price = req.Price
		in.Stock = req.Stock
		in.CategoryID = req.CategoryID
		return in, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return in, nil, validator.FieldErrors{"non_field_errors": "Invalid multipart body."}
	}

	fe := validator.FieldErrors{}
	if v, ok := formValue(form, "name"); ok {
		in.Name = &v
	}
	if v, ok := formValue(form, "description"); ok {
		in.Description = &v
	}
	if v, ok := formValue(form, "price"); ok {
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			fe["price"] = "A valid number is required."
		} else {
			in.Price = &d
		}
	}
	if v, ok := formValue(form, "stock"); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			fe["stock"] = "A valid integer is required."
		} else {
			in.Stock = &n
		}
	}
	if v, ok := formValue(form, "category"); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			fe["category"] = "Incorrect type. Expected pk value."
		} else {
			in.CategoryID = &n
		}
	}
	if len(fe) > 0 {
		return in, nil, fe
	}

	img, err := openUpload(form, "image", &opened)
	if err != nil {
		opened.Close()
		return in, nil, err
	}
	in.Image = img
	return in, opened, nil
}

// 作成時は name/price/category 必須
func toProductInput(p usecase.ProductPatchInput) (usecase.ProductInput, validator.FieldErrors) {
	fe := validator.FieldErrors{}
	if p.Name == nil || strings.TrimSpace(*p.Name) == "" {
		fe["name"] = "This field is required."
	}
	if p.Price == nil {
		fe["price"] = "This field is required."
	}
	if p.CategoryID == nil {
		fe["category"] = "This field is required."
	}
	if len(fe) > 0 {
		return usecase.ProductInput{}, fe
	}

	in := usecase.ProductInput{
		Name:       *p.Name,
		Price:      *p.Price,
		CategoryID: *p.CategoryID,
		Image:      p.Image,
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Stock != nil {
		in.Stock = *p.Stock
	}
	return in, nil
}

// readProductPatchのエラーをレスポンスにする
func writeFormError(c echo.Context, err error) error {
	var fe validator.FieldErrors
	if errors.As(err, &fe) {
		return c.JSON(http.StatusBadRequest, fe)
	}
	return writeError(c, err)
}
