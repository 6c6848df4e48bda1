package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusCreated PaymentStatus = "Created"
	PaymentStatusPaid    PaymentStatus = "Paid"
)

const PaymentMethodOnline = "online"

// 注文と1対1
// PaymentIDは作成時はゲートウェイ注文ID、検証後は決済ID
type Payment struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        int64           `gorm:"not null;index" json:"user"`
	OrderID       int64           `gorm:"not null;uniqueIndex" json:"order"`
	PaymentID     string          `gorm:"type:varchar(64);not null;index" json:"payment_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status        PaymentStatus   `gorm:"type:varchar(20);not null" json:"status"`
	PaymentMethod string          `gorm:"type:varchar(50);not null" json:"payment_method"`
	CreatedAt     time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
