package repository

import (
	"context"

	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/domain/model"

	"gorm.io/gorm"
)

type PaymentGormRepository struct {
	db *gorm.DB
}

func NewPaymentGormRepository(db *gorm.DB) *PaymentGormRepository {
	return &PaymentGormRepository{db: db}
}

// order_idは一意なので2件目はErrDuplicate
func (r *PaymentGormRepository) Create(ctx context.Context, p model.Payment) (model.Payment, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Payment{}, translate(err)
	}
	return p, nil
}

func (r *PaymentGormRepository) FindByOrderID(ctx context.Context, orderID int64) (model.Payment, error) {
	var p model.Payment
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&p).Error; err != nil {
		return model.Payment{}, translate(err)
	}
	return p, nil
}

func (r *PaymentGormRepository) FindByID(ctx context.Context, id int64) (model.Payment, error) {
	var p model.Payment
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return model.Payment{}, translate(err)
	}
	return p, nil
}

func (r *PaymentGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Payment, error) {
	var items []model.Payment
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id desc").Find(&items).Error; err != nil {
		return []model.Payment{}, err
	}
	return items, nil
}

func (r *PaymentGormRepository) MarkPaid(ctx context.Context, id int64, gatewayPaymentID string) error {
	res := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"payment_id": gatewayPaymentID,
			"status":     model.PaymentStatusPaid,
		})
	return affected(res)
}
