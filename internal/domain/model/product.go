package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock       int64           `gorm:"not null;default:0" json:"stock"`
	CategoryID  int64           `gorm:"not null;index" json:"category"`
	Category    *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"category_detail,omitempty"`
	// 画像のURL（MEDIA_URL配下）。無ければ空
	Image     string    `gorm:"type:varchar(512)" json:"image"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 商品ごとの追加メディア（1商品につき1件）
type ProductMedia struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64  `gorm:"not null;uniqueIndex" json:"product"`
	Image1    string `gorm:"type:varchar(512)" json:"image1"`
	Image2    string `gorm:"type:varchar(512)" json:"image2"`
	Image3    string `gorm:"type:varchar(512)" json:"image3"`
	Video     string `gorm:"type:varchar(512)" json:"video"`
}

func (ProductMedia) TableName() string {
	return "product_media"
}
