package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 1ユーザーにつき1つ
type Basket struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID   int64     `gorm:"not null;uniqueIndex" json:"owner"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_date"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_date"`
}

// カートの明細
// is_order_placed=true の明細はカート操作で変更しない
type BasketItem struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BasketID      int64     `gorm:"not null;index" json:"basket_object"`
	ProductID     int64     `gorm:"not null;index" json:"product_object"`
	Product       *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	Quantity      int64     `gorm:"not null;default:1" json:"quantity"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	IsOrderPlaced bool      `gorm:"not null;default:false;index" json:"is_order_placed"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"created_date"`
	UpdatedAt     time.Time `gorm:"not null;autoUpdateTime" json:"updated_date"`
}

// 現在の商品価格×数量。商品がロードされていなければ0
func (i BasketItem) ItemTotal() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.Price.Mul(decimal.NewFromInt(i.Quantity))
}
