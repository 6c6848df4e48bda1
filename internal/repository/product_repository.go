package repository

import (
	"context"

	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/domain/model"
)

// 一覧検索
type ProductListQuery struct {
	CategoryID *int64
	Q          string
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	// IDまとめて取得（カート表示・チェックアウト用）
	FindByIDs(ctx context.Context, ids []int64) (map[int64]model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, id int64) error
}

type ProductMediaRepository interface {
	// 商品ごとに1件。既にあれば上書き
	Upsert(ctx context.Context, m model.ProductMedia) (model.ProductMedia, error)
	FindByProductID(ctx context.Context, productID int64) (model.ProductMedia, error)
}

// 商品詳細のキャッシュ（Redisなど）
type ProductCache interface {
	Get(ctx context.Context, id int64) (model.Product, bool, error)
	Set(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, id int64) error
}
