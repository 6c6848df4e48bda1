package repository

import (
	"context"
	"strings"

	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/domain/model"
	repo "github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// カテゴリ・名前で絞り込んで返す。
func (r *ProductGormRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	var products []model.Product

	tx := r.db.WithContext(ctx).Model(&model.Product{}).Preload("Category")

	if q.CategoryID != nil {
		tx = tx.Where("category_id = ?", *q.CategoryID)
	}

	// q nameを対象（postgres/mysql両方で動くようにLOWER）
	if s := strings.TrimSpace(q.Q); s != "" {
		tx = tx.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}

	if err := tx.Order("id asc").Find(&products).Error; err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Category").First(&p, id).Error
	if err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

func (r *ProductGormRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]model.Product, error) {
	out := make(map[int64]model.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var products []model.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

// 商品の作成
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	p.Category = nil
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&p).Error; err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

// 商品の更新（画像は指定があるときだけ差し替え）
func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	fields := map[string]interface{}{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"stock":       p.Stock,
		"category_id": p.CategoryID,
	}
	if p.Image != "" {
		fields["image"] = p.Image
	}

	// 存在確認はusecase側。mysqlは値が同じだと0件になる
	return translate(r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", p.ID).Updates(fields).Error)
}

// 商品削除（物理削除）
func (r *ProductGormRepository) Delete(ctx context.Context, id int64) error {
	return affected(r.db.WithContext(ctx).Delete(&model.Product{}, id))
}

type ProductMediaGormRepository struct {
	db *gorm.DB
}

func NewProductMediaGormRepository(db *gorm.DB) *ProductMediaGormRepository {
	return &ProductMediaGormRepository{db: db}
}

// product_idが同じなら上書き
func (r *ProductMediaGormRepository) Upsert(ctx context.Context, m model.ProductMedia) (model.ProductMedia, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"image1", "image2", "image3", "video"}),
	}).Create(&m).Error
	if err != nil {
		return model.ProductMedia{}, translate(err)
	}

	// ON CONFLICTの時はIDが埋まらないので取り直す
	return r.FindByProductID(ctx, m.ProductID)
}

func (r *ProductMediaGormRepository) FindByProductID(ctx context.Context, productID int64) (model.ProductMedia, error) {
	var m model.ProductMedia
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&m).Error
	if err != nil {
		return model.ProductMedia{}, translate(err)
	}
	return m, nil
}
