package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "Pending"
	OrderStatusPaid    OrderStatus = "Paid"
)

type Order struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         int64           `gorm:"not null;index" json:"user"`
	OrderNumber    string          `gorm:"type:varchar(32);not null;uniqueIndex" json:"order_id"`
	GatewayOrderID string          `gorm:"type:varchar(64);not null;uniqueIndex" json:"razorpay_order_id"`
	FirstName      string          `gorm:"type:varchar(150)" json:"first_name"`
	LastName       string          `gorm:"type:varchar(150)" json:"last_name"`
	PhoneNumber    string          `gorm:"type:varchar(30)" json:"phone_number"`
	City           string          `gorm:"type:varchar(150)" json:"city"`
	State          string          `gorm:"type:varchar(150)" json:"state"`
	Pincode        string          `gorm:"type:varchar(20)" json:"pincode"`
	ShippingAddr   string          `gorm:"column:shipping_address;type:text" json:"shipping_address"`
	BillingAddr    string          `gorm:"column:billing_address;type:text" json:"billing_address"`
	Notes          string          `gorm:"type:text" json:"notes"`
	Amount         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status         OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt      time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
