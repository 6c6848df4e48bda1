package usecase

import (
	"context"
	"io"
	"time"

	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/domain/model"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/infra/gateway"
)

// 決済ゲートウェイ（Razorpay）
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (gateway.Order, error)
	VerifyPaymentSignature(gatewayOrderID, gatewayPaymentID, signature string) error
	KeyID() string
}

// 請求書PDF
type InvoiceRenderer interface {
	Render(order model.Order, items []model.OrderItem, customerName string) ([]byte, error)
}

// 請求書メール（CCは実装側で固定）
type InvoiceMailer interface {
	SendInvoice(ctx context.Context, to, subject, body, filename string, pdf []byte) error
}

// order.paidなどのイベント
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, data interface{}) error
}

// アップロードされたファイルを保存して公開URLを返す
type MediaStorage interface {
	Save(ctx context.Context, dir, originalName string, r io.Reader) (string, error)
}

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}
