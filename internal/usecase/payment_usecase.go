package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/domain/model"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/infra/gateway"
	repo "github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/repository"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
)

// 支払い完了時のイベント名
const EventOrderPaid = "order.paid"

// 注文番号の長さ
const orderNumberLength = 12

var hundred = decimal.NewFromInt(100)

// 金額カラムはdecimal(10,2)
var maxOrderAmount = decimal.RequireFromString("99999999.99")

// PaymentUsecase はチェックアウトと決済確認
type PaymentUsecase struct {
	tx        repo.TransactionManager
	baskets   repo.BasketRepository
	items     repo.BasketItemRepository
	payments  repo.PaymentRepository
	gateway   PaymentGateway
	publisher EventPublisher
	idGen     IDGenerator
	currency  string
}

func NewPaymentUsecase(
	tx repo.TransactionManager,
	baskets repo.BasketRepository,
	items repo.BasketItemRepository,
	payments repo.PaymentRepository,
	gw PaymentGateway,
	publisher EventPublisher,
	idGen IDGenerator,
	currency string,
) *PaymentUsecase {
	return &PaymentUsecase{
		tx:        tx,
		baskets:   baskets,
		items:     items,
		payments:  payments,
		gateway:   gw,
		publisher: publisher,
		idGen:     idGen,
		currency:  currency,
	}
}

// 配送先など
type CheckoutInput struct {
	FirstName       string
	LastName        string
	PhoneNumber     string
	City            string
	State           string
	Pincode         string
	ShippingAddress string
	BillingAddress  string
	Notes           string
}

type CheckoutOutput struct {
	OrderID       string             `json:"order_id"`
	BasketItems   []BasketItemOutput `json:"basket_items"`
	TotalAmount   float64            `json:"total_amount"`
	RazorpayOrder gateway.Order      `json:"razorpay_order"`
	RazorpayKeyID string             `json:"razorpay_key_id"`
}

type VerifyPaymentInput struct {
	GatewayOrderID   string
	GatewayPaymentID string
	Signature        string
}

type VerifyPaymentOutput struct {
	Message   string `json:"message"`
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
}

// order.paidの中身
type OrderPaidEvent struct {
	OrderID     int64  `json:"order_id"`
	OrderNumber string `json:"order_number"`
	UserID      int64  `json:"user_id"`
	PaymentID   string `json:"payment_id"`
	Amount      string `json:"amount"`
}

// CheckoutCart はカートからゲートウェイ注文とローカルの注文を作る
func (u *PaymentUsecase) CheckoutCart(ctx context.Context, userID int64, in CheckoutInput) (CheckoutOutput, error) {
	if userID <= 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	basket, err := u.baskets.FindActiveByOwnerID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return CheckoutOutput{}, NewHTTPError(http.StatusNotFound, "No active basket found")
	}
	if err != nil {
		return CheckoutOutput{}, internalError(err)
	}

	items, err := u.items.List(ctx, repo.BasketItemFilter{
		BasketID:      basket.ID,
		OnlyActive:    true,
		OnlyNotPlaced: true,
	})
	if err != nil {
		return CheckoutOutput{}, internalError(err)
	}
	if len(items) == 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusNotFound, "Basket is empty")
	}

	//合計は現在の商品価格で計算
	orderItems := make([]model.OrderItem, 0, len(items))
	total := decimal.Zero
	for _, it := range items {
		if it.Product == nil {
			return CheckoutOutput{}, internalError(fmt.Errorf("basket item %d has no product", it.ID))
		}
		total = total.Add(it.ItemTotal())
		orderItems = append(orderItems, model.OrderItem{
			ProductID:    it.ProductID,
			BasketItemID: it.ID,
			ProductName:  it.Product.Name,
			Quantity:     it.Quantity,
			Price:        it.Product.Price,
		})
	}

	//保存できない金額はゲートウェイ注文を作る前に弾く
	if total.GreaterThan(maxOrderAmount) {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "Order total exceeds the maximum allowed amount")
	}

	orderNumber := u.newOrderNumber()

	//ゲートウェイは最小通貨単位
	gwOrder, err := u.gateway.CreateOrder(ctx, ToMinorUnits(total), u.currency, orderNumber)
	if err != nil {
		return CheckoutOutput{}, internalError(fmt.Errorf("create gateway order: %w", err))
	}

	//注文・明細・支払いは1トランザクション
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().Create(ctx, model.Order{
			UserID:         userID,
			OrderNumber:    orderNumber,
			GatewayOrderID: gwOrder.ID,
			FirstName:      in.FirstName,
			LastName:       in.LastName,
			PhoneNumber:    in.PhoneNumber,
			City:           in.City,
			State:          in.State,
			Pincode:        in.Pincode,
			ShippingAddr:   in.ShippingAddress,
			BillingAddr:    in.BillingAddress,
			Notes:          in.Notes,
			Amount:         total,
			Status:         model.OrderStatusPending,
		})
		if err != nil {
			return err
		}

		if err := r.OrderItems().CreateBulk(ctx, order.ID, orderItems); err != nil {
			return err
		}

		_, err = r.Payments().Create(ctx, model.Payment{
			UserID:        userID,
			OrderID:       order.ID,
			PaymentID:     gwOrder.ID,
			Amount:        total,
			Status:        model.PaymentStatusCreated,
			PaymentMethod: model.PaymentMethodOnline,
		})
		return err
	})
	if err != nil {
		return CheckoutOutput{}, internalError(err)
	}

	return CheckoutOutput{
		OrderID:       orderNumber,
		BasketItems:   toBasketItemOutputs(items),
		TotalAmount:   total.InexactFloat64(),
		RazorpayOrder: gwOrder,
		RazorpayKeyID: u.gateway.KeyID(),
	}, nil
}

// VerifyPayment は署名を確認して注文を支払い済みにする
func (u *PaymentUsecase) VerifyPayment(ctx context.Context, userID int64, in VerifyPaymentInput) (VerifyPaymentOutput, error) {
	if userID <= 0 {
		return VerifyPaymentOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	in.GatewayOrderID = strings.TrimSpace(in.GatewayOrderID)
	in.GatewayPaymentID = strings.TrimSpace(in.GatewayPaymentID)
	in.Signature = strings.TrimSpace(in.Signature)
	if in.GatewayOrderID == "" || in.GatewayPaymentID == "" || in.Signature == "" {
		return VerifyPaymentOutput{}, NewHTTPError(http.StatusBadRequest, "razorpay_order_id, razorpay_payment_id and razorpay_signature are required")
	}

	//署名NGなら何も書き込まない
	if err := u.gateway.VerifyPaymentSignature(in.GatewayOrderID, in.GatewayPaymentID, in.Signature); err != nil {
		if errors.Is(err, gateway.ErrSignatureMismatch) {
			return VerifyPaymentOutput{}, NewHTTPError(http.StatusBadRequest, "Signature verification failed")
		}
		return VerifyPaymentOutput{}, internalError(err)
	}

	var order model.Order
	alreadyPaid := false

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByGatewayOrderIDForUpdate(ctx, in.GatewayOrderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Order not found")
		}
		if err != nil {
			return err
		}
		//他人の注文は存在しない扱い
		if o.UserID != userID {
			return NewHTTPError(http.StatusNotFound, "Order not found")
		}
		order = o

		if o.Status == model.OrderStatusPaid {
			alreadyPaid = true
			return nil
		}

		p, err := r.Payments().FindByOrderID(ctx, o.ID)
		switch {
		case err == nil:
			if err := r.Payments().MarkPaid(ctx, p.ID, in.GatewayPaymentID); err != nil {
				return err
			}
		case errors.Is(err, repo.ErrNotFound):
			log.Warnf("order %d has no payment row", o.ID)
		default:
			return err
		}

		if err := r.Orders().UpdateStatus(ctx, o.ID, model.OrderStatusPaid); err != nil {
			return err
		}

		//この注文の明細だけ注文済みにする
		orderItems, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return err
		}
		ids := make([]int64, 0, len(orderItems))
		for _, oi := range orderItems {
			if oi.BasketItemID > 0 {
				ids = append(ids, oi.BasketItemID)
			}
		}
		if len(ids) == 0 {
			return nil
		}
		_, err = r.BasketItems().MarkOrderPlaced(ctx, ids)
		return err
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return VerifyPaymentOutput{}, err
		}
		return VerifyPaymentOutput{}, internalError(err)
	}

	if !alreadyPaid {
		u.publishPaid(ctx, order, in.GatewayPaymentID)
	}

	return VerifyPaymentOutput{
		Message:   "Payment verified and updated successfully",
		OrderID:   order.OrderNumber,
		PaymentID: in.GatewayPaymentID,
	}, nil
}

// イベント送信は失敗しても決済結果に影響させない
func (u *PaymentUsecase) publishPaid(ctx context.Context, order model.Order, paymentID string) {
	if u.publisher == nil {
		return
	}
	ev := OrderPaidEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		PaymentID:   paymentID,
		Amount:      order.Amount.StringFixed(2),
	}
	if err := u.publisher.Publish(ctx, EventOrderPaid, ev); err != nil {
		log.Warnf("publish %s for order %d: %v", EventOrderPaid, order.ID, err)
	}
}

func (u *PaymentUsecase) ListPayments(ctx context.Context, userID int64) ([]model.Payment, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	items, err := u.payments.ListByUserID(ctx, userID)
	if err != nil {
		return nil, internalError(err)
	}
	return items, nil
}

func (u *PaymentUsecase) GetPayment(ctx context.Context, userID, paymentID int64) (model.Payment, error) {
	if userID <= 0 {
		return model.Payment{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	p, err := u.payments.FindByID(ctx, paymentID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && p.UserID != userID) {
		return model.Payment{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Payment{}, internalError(err)
	}
	return p, nil
}

// uuidから英数字12桁
func (u *PaymentUsecase) newOrderNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(u.idGen.NewID(), "-", ""))
	if len(id) > orderNumberLength {
		id = id[:orderNumberLength]
	}
	return id
}

// ToMinorUnits は金額×100（paise）。端数は四捨五入
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}
