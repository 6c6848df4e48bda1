package repository

import (
	"context"

	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/domain/model"
)

type BasketRepository interface {
	// ユーザーのバスケットを取得し、無ければ作成
	GetOrCreateByOwnerID(ctx context.Context, ownerID int64) (model.Basket, error)
	FindByOwnerID(ctx context.Context, ownerID int64) (model.Basket, error)
	FindActiveByOwnerID(ctx context.Context, ownerID int64) (model.Basket, error)
}

// 明細の取得条件
type BasketItemFilter struct {
	BasketID      int64
	OnlyActive    bool
	OnlyNotPlaced bool
}

type BasketItemRepository interface {
	// 未注文の明細があれば+1、無ければ数量1で作成
	// increment=falseなら既存をそのまま返す
	AddOrIncrement(ctx context.Context, basketID, productID int64, increment bool) (model.BasketItem, bool, error)
	List(ctx context.Context, f BasketItemFilter) ([]model.BasketItem, error)
	// オーナーの未注文明細を1件取得（注文済み・他人の明細はErrNotFound）
	FindOwnedPending(ctx context.Context, itemID, ownerID int64) (model.BasketItem, error)
	UpdateQuantity(ctx context.Context, itemID int64, qty int64) error
	Deactivate(ctx context.Context, itemID int64) error
	// 注文済みにする（未注文のものだけ）
	MarkOrderPlaced(ctx context.Context, itemIDs []int64) (int64, error)
}
