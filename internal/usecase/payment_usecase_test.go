package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/domain/model"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/infra/gateway"
	repo "github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/repository"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type paymentDeps struct {
	baskets     *BasketRepoMock
	items       *BasketItemRepoMock
	payments    *PaymentRepoMock
	txOrders    *OrderRepoMock
	txItems     *OrderItemRepoMock
	txPayments  *PaymentRepoMock
	txBaskets   *BasketRepoMock
	txBasketIts *BasketItemRepoMock
	tx          *fakeTxManager
	gw          *GatewayMock
	pub         *PublisherMock
}

func newPaymentUsecase(t *testing.T) (*usecase.PaymentUsecase, *paymentDeps) {
	t.Helper()

	d := &paymentDeps{
		baskets:     new(BasketRepoMock),
		items:       new(BasketItemRepoMock),
		payments:    new(PaymentRepoMock),
		txOrders:    new(OrderRepoMock),
		txItems:     new(OrderItemRepoMock),
		txPayments:  new(PaymentRepoMock),
		txBaskets:   new(BasketRepoMock),
		txBasketIts: new(BasketItemRepoMock),
		gw:          new(GatewayMock),
		pub:         new(PublisherMock),
	}
	d.tx = &fakeTxManager{repos: &fakeTxRepos{
		orders:      d.txOrders,
		orderItems:  d.txItems,
		payments:    d.txPayments,
		baskets:     d.txBaskets,
		basketItems: d.txBasketIts,
	}}

	uc := usecase.NewPaymentUsecase(
		d.tx, d.baskets, d.items, d.payments, d.gw, d.pub,
		fixedIDGen{id: "abcdef12-3456-7890-abcd-ef1234567890"}, "INR",
	)
	return uc, d
}

func pendingFilter(basketID int64) repo.BasketItemFilter {
	return repo.BasketItemFilter{BasketID: basketID, OnlyActive: true, OnlyNotPlaced: true}
}

// P1 100×2 + P2 50×1
func twoBasketItems() []model.BasketItem {
	p1 := model.Product{ID: 1, Name: "Oud", Price: decimal.NewFromInt(100)}
	p2 := model.Product{ID: 2, Name: "Musk", Price: decimal.NewFromInt(50)}
	return []model.BasketItem{
		{ID: 11, BasketID: 3, ProductID: 1, Product: &p1, Quantity: 2, IsActive: true},
		{ID: 12, BasketID: 3, ProductID: 2, Product: &p2, Quantity: 1, IsActive: true},
	}
}

// =====================
// CheckoutCart
// =====================

func TestPaymentUsecase_CheckoutCart_Success(t *testing.T) {
	uc, d := newPaymentUsecase(t)
	ctx := context.Background()

	d.baskets.On("FindActiveByOwnerID", mock.Anything, int64(7)).Return(model.Basket{ID: 3, OwnerID: 7, IsActive: true}, nil)
	d.items.On("List", mock.Anything, pendingFilter(3)).Return(twoBasketItems(), nil)
	d.gw.On("CreateOrder", mock.Anything, int64(25000), "INR", "ABCDEF123456").
		Return(gateway.Order{ID: "order_1", Amount: 25000, Currency: "INR", Status: "created"}, nil)

	d.txOrders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.UserID == 7 &&
			o.OrderNumber == "ABCDEF123456" &&
			o.GatewayOrderID == "order_1" &&
			o.Status == model.OrderStatusPending &&
			o.Amount.Equal(decimal.NewFromInt(250)) &&
			o.City == "Kochi"
	})).Return(model.Order{ID: 99, UserID: 7}, nil)

	d.txItems.On("CreateBulk", mock.Anything, int64(99), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 2 &&
			items[0].BasketItemID == 11 && items[0].ProductName == "Oud" && items[0].Quantity == 2 &&
			items[0].Price.Equal(decimal.NewFromInt(100)) &&
			items[1].BasketItemID == 12 && items[1].Quantity == 1
	})).Return(nil)

	d.txPayments.On("Create", mock.Anything, mock.MatchedBy(func(p model.Payment) bool {
		return p.OrderID == 99 &&
			p.UserID == 7 &&
			p.PaymentID == "order_1" &&
			p.Status == model.PaymentStatusCreated &&
			p.PaymentMethod == model.PaymentMethodOnline &&
			p.Amount.Equal(decimal.NewFromInt(250))
	})).Return(model.Payment{ID: 5}, nil)

	out, err := uc.CheckoutCart(ctx, 7, usecase.CheckoutInput{City: "Kochi"})
	require.NoError(t, err)

	assert.Equal(t, "ABCDEF123456", out.OrderID)
	assert.Equal(t, 250.0, out.TotalAmount)
	assert.Equal(t, "order_1", out.RazorpayOrder.ID)
	assert.Equal(t, "rzp_test_key", out.RazorpayKeyID)
	require.Len(t, out.BasketItems, 2)
	assert.True(t, out.BasketItems[0].ItemTotal.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, 1, d.tx.called)

	d.gw.AssertExpectations(t)
	d.txOrders.AssertExpectations(t)
	d.txItems.AssertExpectations(t)
	d.txPayments.AssertExpectations(t)
}

func TestPaymentUsecase_CheckoutCart_NoBasket_404(t *testing.T) {
	uc, d := newPaymentUsecase(t)

	d.baskets.On("FindActiveByOwnerID", mock.Anything, int64(7)).Return(model.Basket{}, repo.ErrNotFound)

	_, err := uc.CheckoutCart(context.Background(), 7, usecase.CheckoutInput{})
	require.Error(t, err)

	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
	assert.Equal(t, "No active basket found", he.Message)
	d.gw.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentUsecase_CheckoutCart_EmptyBasket_404(t *testing.T) {
	uc, d := newPaymentUsecase(t)

	d.baskets.On("FindActiveByOwnerID", mock.Anything, int64(7)).Return(model.Basket{ID: 3, OwnerID: 7}, nil)
	d.items.On("List", mock.Anything, pendingFilter(3)).Return([]model.BasketItem{}, nil)

	_, err := uc.CheckoutCart(context.Background(), 7, usecase.CheckoutInput{})

	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
	assert.Equal(t, "Basket is empty", he.Message)
	assert.Equal(t, 0, d.tx.called)
}

// ゲートウェイ失敗ならDBには何も書かない
func TestPaymentUsecase_CheckoutCart_GatewayError_NoWrites(t *testing.T) {
	uc, d := newPaymentUsecase(t)

	d.baskets.On("FindActiveByOwnerID", mock.Anything, int64(7)).Return(model.Basket{ID: 3, OwnerID: 7}, nil)
	d.items.On("List", mock.Anything, pendingFilter(3)).Return(twoBasketItems(), nil)
	d.gw.On("CreateOrder", mock.Anything, int64(25000), "INR", mock.Anything).
		Return(gateway.Order{}, &gateway.APIError{StatusCode: 401, Body: "bad key"})

	_, err := uc.CheckoutCart(context.Background(), 7, usecase.CheckoutInput{})

	assert.Equal(t, http.StatusInternalServerError, httpStatus(err))
	assert.Equal(t, 0, d.tx.called)
	d.txOrders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// decimal(10,2)に入らない合計はゲートウェイ注文を作らずに400
func TestPaymentUsecase_CheckoutCart_TotalTooLarge_400(t *testing.T) {
	uc, d := newPaymentUsecase(t)

	p := model.Product{ID: 1, Name: "Oud", Price: decimal.NewFromInt(100)}
	d.baskets.On("FindActiveByOwnerID", mock.Anything, int64(7)).Return(model.Basket{ID: 3, OwnerID: 7}, nil)
	d.items.On("List", mock.Anything, pendingFilter(3)).Return([]model.BasketItem{
		{ID: 11, BasketID: 3, ProductID: 1, Product: &p, Quantity: 1000000, IsActive: true},
	}, nil)

	_, err := uc.CheckoutCart(context.Background(), 7, usecase.CheckoutInput{})

	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "Order total exceeds the maximum allowed amount", he.Message)
	d.gw.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 0, d.tx.called)
}

func TestPaymentUsecase_CheckoutCart_TxError_500(t *testing.T) {
	uc, d := newPaymentUsecase(t)

	d.baskets.On("FindActiveByOwnerID", mock.Anything, int64(7)).Return(model.Basket{ID: 3, OwnerID: 7}, nil)
	d.items.On("List", mock.Anything, pendingFilter(3)).Return(twoBasketItems(), nil)
	d.gw.On("CreateOrder", mock.Anything, int64(25000), "INR", mock.Anything).
		Return(gateway.Order{ID: "order_1"}, nil)
	d.txOrders.On("Create", mock.Anything, mock.Anything).Return(model.Order{}, errors.New("db down"))

	_, err := uc.CheckoutCart(context.Background(), 7, usecase.CheckoutInput{})

	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)
	assert.Equal(t, "internal error", he.Message)
	d.txPayments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPaymentUsecase_CheckoutCart_Unauthorized(t *testing.T) {
	uc, _ := newPaymentUsecase(t)

	_, err := uc.CheckoutCart(context.Background(), 0, usecase.CheckoutInput{})
	assert.Equal(t, http.StatusUnauthorized, httpStatus(err))
}

// =====================
// VerifyPayment
// =====================

func verifyInput() usecase.VerifyPaymentInput {
	return usecase.VerifyPaymentInput{
		GatewayOrderID:   "order_1",
		GatewayPaymentID: "pay_1",
		Signature:        "sig",
	}
}

func TestPaymentUsecase_VerifyPayment_Success(t *testing.T) {
	uc, d := newPaymentUsecase(t)

	order := model.Order{
		ID:             99,
		UserID:         7,
		OrderNumber:    "ABCDEF123456",
		GatewayOrderID: "order_1",
		Amount:         decimal.NewFromInt(250),
		Status:         model.OrderStatusPending,
	}

	d.gw.On("VerifyPaymentSignature", "order_1", "pay_1", "sig").Return(nil)
	d.txOrders.On("FindByGatewayOrderIDForUpdate", mock.Anything, "order_1").Return(order, nil)
	d.txPayments.On("FindByOrderID", mock.Anything, int64(99)).Return(model.Payment{ID: 5, OrderID: 99}, nil)
	d.txPayments.On("MarkPaid", mock.Anything, int64(5), "pay_1").Return(nil)
	d.txOrders.On("UpdateStatus", mock.Anything, int64(99), model.OrderStatusPaid).Return(nil)
	d.txItems.On("ListByOrderID", mock.Anything, int64(99)).Return([]model.OrderItem{
		{ID: 1, OrderID: 99, BasketItemID: 11},
		{ID: 2, OrderID: 99, BasketItemID: 12},
	}, nil)
	d.txBasketIts.On("MarkOrderPlaced", mock.Anything, []int64{11, 12}).Return(int64(2), nil)
	d.pub.On("Publish", mock.Anything, usecase.EventOrderPaid, usecase.OrderPaidEvent{
		OrderID:     99,
		OrderNumber: "ABCDEF123456",
		UserID:      7,
		PaymentID:   "pay_1",
		Amount:      "250.00",
	}).Return(nil)

	out, err := uc.VerifyPayment(context.Background(), 7, verifyInput())
	require.NoError(t, err)

	assert.Equal(t, "Payment verified and updated successfully", out.Message)
	assert.Equal(t, "ABCDEF123456", out.OrderID)
	assert.Equal(t, "pay_1", out.PaymentID)

	d.txPayments.AssertExpectations(t)
	d.txOrders.AssertExpectations(t)
	d.txBasketIts.AssertExpectations(t)
	d.pub.AssertExpectations(t)
	// 同時の確認が二重にPaidにしないよう、ロック付きで読む
	d.txOrders.AssertNotCalled(t, "FindByGatewayOrderID", mock.Anything, mock.Anything)
}

// 署名NGは400でDBに触らない
func TestPaymentUsecase_VerifyPayment_BadSignature_400(t *testing.T) {
	uc, d := newPaymentUsecase(t)

	d.gw.On("VerifyPaymentSignature", "order_1", "pay_1", "sig").Return(gateway.ErrSignatureMismatch)

	_, err := uc.VerifyPayment(context.Background(), 7, verifyInput())

	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "Signature verification failed", he.Message)
	assert.Equal(t, 0, d.tx.called)
}

func TestPaymentUsecase_VerifyPayment_MissingFields_400(t *testing.T) {
	uc, d := newPaymentUsecase(t)

	in := verifyInput()
	in.Signature = "  "

	_, err := uc.VerifyPayment(context.Background(), 7, in)
	assert.Equal(t, http.StatusBadRequest, httpStatus(err))
	d.gw.AssertNotCalled(t, "VerifyPaymentSignature", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentUsecase_VerifyPayment_OrderNotFound_404(t *testing.T) {
	uc, d := newPaymentUsecase(t)

	d.gw.On("VerifyPaymentSignature", "order_1", "pay_1", "sig").Return(nil)
	d.txOrders.On("FindByGatewayOrderIDForUpdate", mock.Anything, "order_1").Return(model.Order{}, repo.ErrNotFound)

	_, err := uc.VerifyPayment(context.Background(), 7, verifyInput())

	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
	assert.Equal(t, "Order not found", he.Message)
}

// 他人の注文は404、何も更新しない
func TestPaymentUsecase_VerifyPayment_OtherUsersOrder_404(t *testing.T) {
	uc, d := newPaymentUsecase(t)

	d.gw.On("VerifyPaymentSignature", "order_1", "pay_1", "sig").Return(nil)
	d.txOrders.On("FindByGatewayOrderIDForUpdate", mock.Anything, "order_1").
		Return(model.Order{ID: 99, UserID: 8, Status: model.OrderStatusPending}, nil)

	_, err := uc.VerifyPayment(context.Background(), 7, verifyInput())

	assert.Equal(t, http.StatusNotFound, httpStatus(err))
	d.txPayments.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
	d.txOrders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	d.pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

// 支払い済みの再検証は成功扱いで何も更新しない
func TestPaymentUsecase_VerifyPayment_AlreadyPaid_Idempotent(t *testing.T) {
	uc, d := newPaymentUsecase(t)

	d.gw.On("VerifyPaymentSignature", "order_1", "pay_1", "sig").Return(nil)
	d.txOrders.On("FindByGatewayOrderIDForUpdate", mock.Anything, "order_1").
		Return(model.Order{ID: 99, UserID: 7, OrderNumber: "ABCDEF123456", Status: model.OrderStatusPaid}, nil)

	out, err := uc.VerifyPayment(context.Background(), 7, verifyInput())
	require.NoError(t, err)
	assert.Equal(t, "ABCDEF123456", out.OrderID)

	d.txPayments.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
	d.txBasketIts.AssertNotCalled(t, "MarkOrderPlaced", mock.Anything, mock.Anything)
	d.pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

// イベント送信失敗は結果に影響しない
func TestPaymentUsecase_VerifyPayment_PublishError_StillOK(t *testing.T) {
	uc, d := newPaymentUsecase(t)

	d.gw.On("VerifyPaymentSignature", "order_1", "pay_1", "sig").Return(nil)
	d.txOrders.On("FindByGatewayOrderIDForUpdate", mock.Anything, "order_1").
		Return(model.Order{ID: 99, UserID: 7, Status: model.OrderStatusPending}, nil)
	d.txPayments.On("FindByOrderID", mock.Anything, int64(99)).Return(model.Payment{}, repo.ErrNotFound)
	d.txOrders.On("UpdateStatus", mock.Anything, int64(99), model.OrderStatusPaid).Return(nil)
	d.txItems.On("ListByOrderID", mock.Anything, int64(99)).Return([]model.OrderItem{}, nil)
	d.pub.On("Publish", mock.Anything, usecase.EventOrderPaid, mock.Anything).Return(errors.New("broker down"))

	_, err := uc.VerifyPayment(context.Background(), 7, verifyInput())
	require.NoError(t, err)

	d.txBasketIts.AssertNotCalled(t, "MarkOrderPlaced", mock.Anything, mock.Anything)
	d.pub.AssertExpectations(t)
}

// =====================
// payments read
// =====================

func TestPaymentUsecase_GetPayment_OtherUser_404(t *testing.T) {
	uc, d := newPaymentUsecase(t)

	d.payments.On("FindByID", mock.Anything, int64(5)).Return(model.Payment{ID: 5, UserID: 8}, nil)

	_, err := uc.GetPayment(context.Background(), 7, 5)
	assert.Equal(t, http.StatusNotFound, httpStatus(err))
}

func TestPaymentUsecase_ListPayments(t *testing.T) {
	uc, d := newPaymentUsecase(t)

	d.payments.On("ListByUserID", mock.Anything, int64(7)).Return([]model.Payment{{ID: 5, UserID: 7}}, nil)

	items, err := uc.ListPayments(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(25000), usecase.ToMinorUnits(decimal.NewFromInt(250)))
	assert.Equal(t, int64(19999), usecase.ToMinorUnits(decimal.RequireFromString("199.99")))
	assert.Equal(t, int64(1001), usecase.ToMinorUnits(decimal.RequireFromString("10.005")))
}
