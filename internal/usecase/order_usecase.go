package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/domain/model"
	repo "github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/repository"

	"github.com/labstack/gommon/log"
)

// OrderUsecase は注文・請求書の参照と請求書メール
type OrderUsecase struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	users      repo.UserRepository
	renderer   InvoiceRenderer
	mailer     InvoiceMailer
}

func NewOrderUsecase(
	orders repo.OrderRepository,
	orderItems repo.OrderItemRepository,
	users repo.UserRepository,
	renderer InvoiceRenderer,
	mailer InvoiceMailer,
) *OrderUsecase {
	return &OrderUsecase{
		orders:     orders,
		orderItems: orderItems,
		users:      users,
		renderer:   renderer,
		mailer:     mailer,
	}
}

type OrderDetailOutput struct {
	model.Order
	Items []model.OrderItem `json:"items"`
}

func (u *OrderUsecase) ListOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	items, err := u.orders.ListByUserID(ctx, userID)
	if err != nil {
		return nil, internalError(err)
	}
	return items, nil
}

func (u *OrderUsecase) GetOrder(ctx context.Context, userID, orderID int64) (OrderDetailOutput, error) {
	order, err := u.findOwned(ctx, userID, orderID)
	if err != nil {
		return OrderDetailOutput{}, err
	}
	items, err := u.orderItems.ListByOrderID(ctx, order.ID)
	if err != nil {
		return OrderDetailOutput{}, internalError(err)
	}
	return OrderDetailOutput{Order: order, Items: items}, nil
}

// 請求書は注文の読み取りビュー
func (u *OrderUsecase) ListInvoices(ctx context.Context, userID int64) ([]model.Order, error) {
	return u.ListOrders(ctx, userID)
}

func (u *OrderUsecase) GetInvoice(ctx context.Context, userID, orderID int64) (OrderDetailOutput, error) {
	return u.GetOrder(ctx, userID, orderID)
}

// ConfirmOrder は請求書PDFを作ってメールで送る
func (u *OrderUsecase) ConfirmOrder(ctx context.Context, userID, orderID int64) error {
	order, err := u.findOwned(ctx, userID, orderID)
	if err != nil {
		return err
	}

	items, err := u.orderItems.ListByOrderID(ctx, order.ID)
	if err != nil {
		return internalError(err)
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return internalError(err)
	}
	customerName := user.DisplayName()

	pdf, err := u.renderer.Render(order, items, customerName)
	if err != nil || len(pdf) == 0 {
		return &HTTPError{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate invoice PDF",
			Err:     err,
		}
	}

	if u.mailer == nil {
		return &HTTPError{
			Status:  http.StatusInternalServerError,
			Message: "Invoice failed to send",
			Err:     errors.New("mailer is not configured"),
		}
	}

	subject := fmt.Sprintf("Invoice for Order #%d", order.ID)
	body := fmt.Sprintf("Dear %s,\n\nThank you for your purchase.", customerName)
	filename := fmt.Sprintf("Invoice_%d.pdf", order.ID)

	if err := u.mailer.SendInvoice(ctx, user.Email, subject, body, filename, pdf); err != nil {
		log.Warnf("invoice mail for order %d: %v", order.ID, err)
		return &HTTPError{
			Status:  http.StatusInternalServerError,
			Message: "Invoice failed to send",
			Err:     err,
		}
	}
	return nil
}

// 他人の注文は404
func (u *OrderUsecase) findOwned(ctx context.Context, userID, orderID int64) (model.Order, error) {
	if userID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	order, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && order.UserID != userID) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "Order not found")
	}
	if err != nil {
		return model.Order{}, internalError(err)
	}
	return order, nil
}
