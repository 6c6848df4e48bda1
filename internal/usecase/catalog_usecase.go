package usecase

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/domain/model"
	repo "github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/repository"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
)

// 保存先ディレクトリ（MEDIA_ROOT配下）
const (
	productImageDir = "products"
	productMediaDir = "product_media"
)

// CatalogUsecase はカテゴリ・商品・商品メディア
type CatalogUsecase struct {
	categories repo.CategoryRepository
	products   repo.ProductRepository
	media      repo.ProductMediaRepository
	cache      repo.ProductCache
	storage    MediaStorage
}

func NewCatalogUsecase(
	categories repo.CategoryRepository,
	products repo.ProductRepository,
	media repo.ProductMediaRepository,
	cache repo.ProductCache,
	storage MediaStorage,
) *CatalogUsecase {
	return &CatalogUsecase{
		categories: categories,
		products:   products,
		media:      media,
		cache:      cache,
		storage:    storage,
	}
}

// アップロードファイル
type Upload struct {
	Filename string
	Body     io.Reader
}

// =====================
// categories
// =====================

func (u *CatalogUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	items, err := u.categories.List(ctx)
	if err != nil {
		return nil, internalError(err)
	}
	return items, nil
}

func (u *CatalogUsecase) GetCategory(ctx context.Context, id int64) (model.Category, error) {
	c, err := u.categories.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Category{}, internalError(err)
	}
	return c, nil
}

func (u *CatalogUsecase) CreateCategory(ctx context.Context, name string) (model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "name required")
	}
	c, err := u.categories.Create(ctx, model.Category{Name: name})
	if errors.Is(err, repo.ErrDuplicate) {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "category with this name already exists.")
	}
	if err != nil {
		return model.Category{}, internalError(err)
	}
	return c, nil
}

func (u *CatalogUsecase) UpdateCategory(ctx context.Context, id int64, name string) (model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "name required")
	}
	c, err := u.GetCategory(ctx, id)
	if err != nil {
		return model.Category{}, err
	}
	c.Name = name

	err = u.categories.Update(ctx, c)
	if errors.Is(err, repo.ErrDuplicate) {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "category with this name already exists.")
	}
	if err != nil {
		return model.Category{}, internalError(err)
	}

	// キャッシュの商品はカテゴリ名を持っている
	u.evictCategory(ctx, u.categoryProductIDs(ctx, id))
	return c, nil
}

// カテゴリを消すと商品も消える（FK cascade）
func (u *CatalogUsecase) DeleteCategory(ctx context.Context, id int64) error {
	//消した後では商品を引けないので先に集める
	ids := u.categoryProductIDs(ctx, id)

	err := u.categories.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return internalError(err)
	}

	u.evictCategory(ctx, ids)
	return nil
}

// キャッシュが無ければ何もしない
func (u *CatalogUsecase) categoryProductIDs(ctx context.Context, categoryID int64) []int64 {
	if u.cache == nil {
		return nil
	}
	items, err := u.products.List(ctx, repo.ProductListQuery{CategoryID: &categoryID})
	if err != nil {
		log.Warnf("list products of category %d: %v", categoryID, err)
		return nil
	}
	ids := make([]int64, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.ID)
	}
	return ids
}

func (u *CatalogUsecase) evictCategory(ctx context.Context, productIDs []int64) {
	for _, id := range productIDs {
		u.evict(ctx, id)
	}
}

func (u *CatalogUsecase) ListCategoryProducts(ctx context.Context, categoryID int64) ([]model.Product, error) {
	if _, err := u.GetCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	return u.ListProducts(ctx, repo.ProductListQuery{CategoryID: &categoryID})
}

// =====================
// products
// =====================

type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int64
	CategoryID  int64
	Image       *Upload
}

// PATCH用。nilは変更なし
type ProductPatchInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int64
	CategoryID  *int64
	Image       *Upload
}

func (u *CatalogUsecase) ListProducts(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	if len(q.Q) > 100 {
		return nil, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	items, err := u.products.List(ctx, q)
	if err != nil {
		return nil, internalError(err)
	}
	return items, nil
}

// GetProduct は詳細。キャッシュがあれば先に見る
func (u *CatalogUsecase) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	if id <= 0 {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	if u.cache != nil {
		p, ok, err := u.cache.Get(ctx, id)
		if err != nil {
			log.Warnf("product cache get %d: %v", id, err)
		}
		if ok {
			return p, nil
		}
	}

	p, err := u.products.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, internalError(err)
	}

	if u.cache != nil {
		if err := u.cache.Set(ctx, p); err != nil {
			log.Warnf("product cache set %d: %v", id, err)
		}
	}
	return p, nil
}

func (u *CatalogUsecase) CreateProduct(ctx context.Context, in ProductInput) (model.Product, error) {
	p := model.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
	}
	if err := u.validateProduct(ctx, p); err != nil {
		return model.Product{}, err
	}

	if in.Image != nil {
		url, err := u.save(ctx, productImageDir, in.Image)
		if err != nil {
			return model.Product{}, err
		}
		p.Image = url
	}

	created, err := u.products.Create(ctx, p)
	if err != nil {
		return model.Product{}, internalError(err)
	}
	return created, nil
}

func (u *CatalogUsecase) UpdateProduct(ctx context.Context, id int64, in ProductPatchInput) (model.Product, error) {
	p, err := u.products.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, internalError(err)
	}

	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.CategoryID != nil && *in.CategoryID != p.CategoryID {
		p.CategoryID = *in.CategoryID
		p.Category = nil
	}
	if err := u.validateProduct(ctx, p); err != nil {
		return model.Product{}, err
	}

	if in.Image != nil {
		url, err := u.save(ctx, productImageDir, in.Image)
		if err != nil {
			return model.Product{}, err
		}
		p.Image = url
	}

	if err := u.products.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.Product{}, internalError(err)
	}
	u.evict(ctx, id)

	return p, nil
}

// 物理削除
func (u *CatalogUsecase) DeleteProduct(ctx context.Context, id int64) error {
	err := u.products.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return internalError(err)
	}
	u.evict(ctx, id)
	return nil
}

func (u *CatalogUsecase) validateProduct(ctx context.Context, p model.Product) error {
	if p.Name == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if len(p.Name) > 255 {
		return NewHTTPError(http.StatusBadRequest, "name too long")
	}
	if p.Price.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if p.Stock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	if p.CategoryID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "category required")
	}
	_, err := u.categories.FindByID(ctx, p.CategoryID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusBadRequest, "invalid category")
	}
	if err != nil {
		return internalError(err)
	}
	return nil
}

func (u *CatalogUsecase) evict(ctx context.Context, id int64) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Delete(ctx, id); err != nil {
		log.Warnf("product cache delete %d: %v", id, err)
	}
}

// =====================
// product media
// =====================

type ProductMediaInput struct {
	ProductID int64
	Image1    *Upload
	Image2    *Upload
	Image3    *Upload
	Video     *Upload
}

// UpsertProductMedia は商品ごとに1件。指定されたファイルだけ差し替え
func (u *CatalogUsecase) UpsertProductMedia(ctx context.Context, in ProductMediaInput) (model.ProductMedia, error) {
	if in.ProductID <= 0 {
		return model.ProductMedia{}, NewHTTPError(http.StatusBadRequest, "product required")
	}
	_, err := u.products.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.ProductMedia{}, NewHTTPError(http.StatusBadRequest, "invalid product")
	}
	if err != nil {
		return model.ProductMedia{}, internalError(err)
	}

	m, err := u.media.FindByProductID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		m = model.ProductMedia{ProductID: in.ProductID}
	} else if err != nil {
		return model.ProductMedia{}, internalError(err)
	}

	files := []struct {
		up  *Upload
		dst *string
	}{
		{in.Image1, &m.Image1},
		{in.Image2, &m.Image2},
		{in.Image3, &m.Image3},
		{in.Video, &m.Video},
	}
	for _, f := range files {
		if f.up == nil {
			continue
		}
		url, err := u.save(ctx, productMediaDir, f.up)
		if err != nil {
			return model.ProductMedia{}, err
		}
		*f.dst = url
	}

	saved, err := u.media.Upsert(ctx, m)
	if err != nil {
		return model.ProductMedia{}, internalError(err)
	}
	return saved, nil
}

func (u *CatalogUsecase) GetProductMedia(ctx context.Context, productID int64) (model.ProductMedia, error) {
	m, err := u.media.FindByProductID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.ProductMedia{}, NewHTTPError(http.StatusNotFound, "Product media does not exist for the product id")
	}
	if err != nil {
		return model.ProductMedia{}, internalError(err)
	}
	return m, nil
}

func (u *CatalogUsecase) save(ctx context.Context, dir string, up *Upload) (string, error) {
	if u.storage == nil {
		return "", internalError(errors.New("media storage is not configured"))
	}
	url, err := u.storage.Save(ctx, dir, up.Filename, up.Body)
	if err != nil {
		return "", internalError(err)
	}
	return url, nil
}
