package repository

import (
	"context"

	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/domain/model"
)

type PaymentRepository interface {
	Create(ctx context.Context, p model.Payment) (model.Payment, error)
	FindByOrderID(ctx context.Context, orderID int64) (model.Payment, error)
	FindByID(ctx context.Context, id int64) (model.Payment, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.Payment, error)
	// 決済IDとステータスを更新
	MarkPaid(ctx context.Context, id int64, gatewayPaymentID string) error
}
