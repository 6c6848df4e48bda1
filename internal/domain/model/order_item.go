package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文時点の商品名・価格・数量のスナップショット
type OrderItem struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID      int64           `gorm:"not null;index" json:"order"`
	ProductID    int64           `gorm:"not null;index" json:"product"`
	BasketItemID int64           `gorm:"not null;index" json:"basket_item"`
	ProductName  string          `gorm:"type:varchar(255);not null" json:"product_name"`
	Quantity     int64           `gorm:"not null" json:"quantity"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt    time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(i.Quantity))
}
