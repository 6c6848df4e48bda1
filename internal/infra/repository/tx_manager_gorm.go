package repository

import (
	"context"

	repo "github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders      repo.OrderRepository
	orderItems  repo.OrderItemRepository
	payments    repo.PaymentRepository
	baskets     repo.BasketRepository
	basketItems repo.BasketItemRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository           { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository   { return r.orderItems }
func (r *txReposGorm) Payments() repo.PaymentRepository       { return r.payments }
func (r *txReposGorm) Baskets() repo.BasketRepository         { return r.baskets }
func (r *txReposGorm) BasketItems() repo.BasketItemRepository { return r.basketItems }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:      NewOrderGormRepository(tx),
			orderItems:  NewOrderItemGormRepository(tx),
			payments:    NewPaymentGormRepository(tx),
			baskets:     NewBasketGormRepository(tx),
			basketItems: NewBasketItemGormRepository(tx),
		}
		return fn(r)
	})
}
