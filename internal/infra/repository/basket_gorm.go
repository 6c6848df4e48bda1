package repository

import (
	"context"
	"errors"

	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/domain/model"
	repo "github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BasketGormRepository struct {
	db *gorm.DB
}

// DI
func NewBasketGormRepository(db *gorm.DB) *BasketGormRepository {
	return &BasketGormRepository{db: db}
}

// ユーザーのバスケットを取得し、無ければ作成
func (r *BasketGormRepository) GetOrCreateByOwnerID(ctx context.Context, ownerID int64) (model.Basket, error) {
	var basket model.Basket

	//探す→無ければ作る。owner_idの一意制約に当たったら何もしないで読み直す
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.Where("owner_id = ?", ownerID).First(&basket).Error
		if findErr == nil {
			return nil
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		newBasket := model.Basket{OwnerID: ownerID, IsActive: true}
		if err := tx.
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "owner_id"}}, DoNothing: true}).
			Create(&newBasket).Error; err != nil {
			return err
		}

		// 同時作成で負けた側も作られた方を使う
		return tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("owner_id = ?", ownerID).
			First(&basket).Error
	})
	if err != nil {
		return model.Basket{}, err
	}
	return basket, nil
}

func (r *BasketGormRepository) FindByOwnerID(ctx context.Context, ownerID int64) (model.Basket, error) {
	var basket model.Basket
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&basket).Error
	if err != nil {
		return model.Basket{}, translate(err)
	}
	return basket, nil
}

func (r *BasketGormRepository) FindActiveByOwnerID(ctx context.Context, ownerID int64) (model.Basket, error) {
	var basket model.Basket
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND is_active = ?", ownerID, true).
		First(&basket).Error
	if err != nil {
		return model.Basket{}, translate(err)
	}
	return basket, nil
}

type BasketItemGormRepository struct {
	db *gorm.DB
}

func NewBasketItemGormRepository(db *gorm.DB) *BasketItemGormRepository {
	return &BasketItemGormRepository{db: db}
}

// 同一商品は数量加算。削除済み(is_active=false)の明細は数量1で復活
func (r *BasketItemGormRepository) AddOrIncrement(ctx context.Context, basketID, productID int64, increment bool) (model.BasketItem, bool, error) {
	var item model.BasketItem
	created := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// バスケット行をロックして同じバスケットへの追加を直列にする
		var basket model.Basket
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", basketID).
			First(&basket).Error; err != nil {
			return translate(err)
		}

		err := tx.
			Where("basket_id = ? AND product_id = ? AND is_order_placed = ?", basketID, productID, false).
			Order("id desc").
			First(&item).Error

		if err == nil {
			updates := map[string]interface{}{}
			switch {
			case !item.IsActive:
				updates["is_active"] = true
				updates["quantity"] = int64(1)
			case increment:
				updates["quantity"] = gorm.Expr("quantity + ?", 1)
			default:
				return nil
			}

			if err := tx.Model(&model.BasketItem{}).Where("id = ?", item.ID).Updates(updates).Error; err != nil {
				return err
			}
			return tx.First(&item, item.ID).Error
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		//無い場合は新規作成
		item = model.BasketItem{
			BasketID:  basketID,
			ProductID: productID,
			Quantity:  1,
			IsActive:  true,
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return model.BasketItem{}, false, err
	}
	return item, created, nil
}

// 明細を一覧取得（商品付き）
func (r *BasketItemGormRepository) List(ctx context.Context, f repo.BasketItemFilter) ([]model.BasketItem, error) {
	var items []model.BasketItem

	tx := r.db.WithContext(ctx).Preload("Product").Where("basket_id = ?", f.BasketID)
	if f.OnlyActive {
		tx = tx.Where("is_active = ?", true)
	}
	if f.OnlyNotPlaced {
		tx = tx.Where("is_order_placed = ?", false)
	}

	if err := tx.Order("id asc").Find(&items).Error; err != nil {
		return []model.BasketItem{}, err
	}
	return items, nil
}

// itemがそのユーザーのバスケットに属し、未注文なら返す
func (r *BasketItemGormRepository) FindOwnedPending(ctx context.Context, itemID, ownerID int64) (model.BasketItem, error) {
	var item model.BasketItem

	err := r.db.WithContext(ctx).
		Preload("Product").
		Joins("JOIN baskets ON baskets.id = basket_items.basket_id").
		Where("basket_items.id = ? AND baskets.owner_id = ? AND basket_items.is_order_placed = ?", itemID, ownerID, false).
		First(&item).Error
	if err != nil {
		return model.BasketItem{}, translate(err)
	}
	return item, nil
}

// 明細の数量を更新（注文済みは対象外）
func (r *BasketItemGormRepository) UpdateQuantity(ctx context.Context, itemID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.BasketItem{}).
		Where("id = ? AND is_order_placed = ?", itemID, false).
		Update("quantity", qty)
	// mysqlは値が同じだと0件になるので件数は見ない
	return translate(res.Error)
}

// 論理削除
func (r *BasketItemGormRepository) Deactivate(ctx context.Context, itemID int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.BasketItem{}).
		Where("id = ? AND is_order_placed = ?", itemID, false).
		Update("is_active", false)
	return translate(res.Error)
}

func (r *BasketItemGormRepository) MarkOrderPlaced(ctx context.Context, itemIDs []int64) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&model.BasketItem{}).
		Where("id IN ? AND is_order_placed = ?", itemIDs, false).
		Update("is_order_placed", true)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
