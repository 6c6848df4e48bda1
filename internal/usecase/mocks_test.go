package usecase_test

import (
	"context"
	"io"

	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/domain/model"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/infra/gateway"
	repo "github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/repository"
	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/usecase"

	"github.com/stretchr/testify/mock"
)

// =====================
// repository mocks
// =====================

type BasketRepoMock struct{ mock.Mock }

func (m *BasketRepoMock) GetOrCreateByOwnerID(ctx context.Context, ownerID int64) (model.Basket, error) {
	args := m.Called(ctx, ownerID)
	b, _ := args.Get(0).(model.Basket)
	return b, args.Error(1)
}

func (m *BasketRepoMock) FindByOwnerID(ctx context.Context, ownerID int64) (model.Basket, error) {
	args := m.Called(ctx, ownerID)
	b, _ := args.Get(0).(model.Basket)
	return b, args.Error(1)
}

func (m *BasketRepoMock) FindActiveByOwnerID(ctx context.Context, ownerID int64) (model.Basket, error) {
	args := m.Called(ctx, ownerID)
	b, _ := args.Get(0).(model.Basket)
	return b, args.Error(1)
}

type BasketItemRepoMock struct{ mock.Mock }

func (m *BasketItemRepoMock) AddOrIncrement(ctx context.Context, basketID, productID int64, increment bool) (model.BasketItem, bool, error) {
	args := m.Called(ctx, basketID, productID, increment)
	it, _ := args.Get(0).(model.BasketItem)
	return it, args.Bool(1), args.Error(2)
}

func (m *BasketItemRepoMock) List(ctx context.Context, f repo.BasketItemFilter) ([]model.BasketItem, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.BasketItem)
	return items, args.Error(1)
}

func (m *BasketItemRepoMock) FindOwnedPending(ctx context.Context, itemID, ownerID int64) (model.BasketItem, error) {
	args := m.Called(ctx, itemID, ownerID)
	it, _ := args.Get(0).(model.BasketItem)
	return it, args.Error(1)
}

func (m *BasketItemRepoMock) UpdateQuantity(ctx context.Context, itemID int64, qty int64) error {
	args := m.Called(ctx, itemID, qty)
	return args.Error(0)
}

func (m *BasketItemRepoMock) Deactivate(ctx context.Context, itemID int64) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

func (m *BasketItemRepoMock) MarkOrderPlaced(ctx context.Context, itemIDs []int64) (int64, error) {
	args := m.Called(ctx, itemIDs)
	return args.Get(0).(int64), args.Error(1)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindByIDs(ctx context.Context, ids []int64) (map[int64]model.Product, error) {
	args := m.Called(ctx, ids)
	items, _ := args.Get(0).(map[int64]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type CategoryRepoMock struct{ mock.Mock }

func (m *CategoryRepoMock) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Category)
	return items, args.Error(1)
}

func (m *CategoryRepoMock) FindByID(ctx context.Context, id int64) (model.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepoMock) Create(ctx context.Context, c model.Category) (model.Category, error) {
	args := m.Called(ctx, c)
	created, _ := args.Get(0).(model.Category)
	return created, args.Error(1)
}

func (m *CategoryRepoMock) Update(ctx context.Context, c model.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CategoryRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ProductMediaRepoMock struct{ mock.Mock }

func (m *ProductMediaRepoMock) Upsert(ctx context.Context, pm model.ProductMedia) (model.ProductMedia, error) {
	args := m.Called(ctx, pm)
	saved, _ := args.Get(0).(model.ProductMedia)
	return saved, args.Error(1)
}

func (m *ProductMediaRepoMock) FindByProductID(ctx context.Context, productID int64) (model.ProductMedia, error) {
	args := m.Called(ctx, productID)
	pm, _ := args.Get(0).(model.ProductMedia)
	return pm, args.Error(1)
}

type ProductCacheMock struct{ mock.Mock }

func (m *ProductCacheMock) Get(ctx context.Context, id int64) (model.Product, bool, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Bool(1), args.Error(2)
}

func (m *ProductCacheMock) Set(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductCacheMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (model.Order, error) {
	args := m.Called(ctx, gatewayOrderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByGatewayOrderIDForUpdate(ctx context.Context, gatewayOrderID string) (model.Order, error) {
	args := m.Called(ctx, gatewayOrderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (model.Order, error) {
	args := m.Called(ctx, order)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type PaymentRepoMock struct{ mock.Mock }

func (m *PaymentRepoMock) Create(ctx context.Context, p model.Payment) (model.Payment, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Payment)
	return created, args.Error(1)
}

func (m *PaymentRepoMock) FindByOrderID(ctx context.Context, orderID int64) (model.Payment, error) {
	args := m.Called(ctx, orderID)
	p, _ := args.Get(0).(model.Payment)
	return p, args.Error(1)
}

func (m *PaymentRepoMock) FindByID(ctx context.Context, id int64) (model.Payment, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Payment)
	return p, args.Error(1)
}

func (m *PaymentRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Payment, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.Payment)
	return items, args.Error(1)
}

func (m *PaymentRepoMock) MarkPaid(ctx context.Context, id int64, gatewayPaymentID string) error {
	args := m.Called(ctx, id, gatewayPaymentID)
	return args.Error(0)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	args := m.Called(ctx, username, email)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type ContactRepoMock struct{ mock.Mock }

func (m *ContactRepoMock) Create(ctx context.Context, c model.Contact) (model.Contact, error) {
	args := m.Called(ctx, c)
	created, _ := args.Get(0).(model.Contact)
	return created, args.Error(1)
}

// =====================
// Tx
// =====================

type fakeTxRepos struct {
	orders      *OrderRepoMock
	orderItems  *OrderItemRepoMock
	payments    *PaymentRepoMock
	baskets     *BasketRepoMock
	basketItems *BasketItemRepoMock
}

func (r *fakeTxRepos) Orders() repo.OrderRepository           { return r.orders }
func (r *fakeTxRepos) OrderItems() repo.OrderItemRepository   { return r.orderItems }
func (r *fakeTxRepos) Payments() repo.PaymentRepository       { return r.payments }
func (r *fakeTxRepos) Baskets() repo.BasketRepository         { return r.baskets }
func (r *fakeTxRepos) BasketItems() repo.BasketItemRepository { return r.basketItems }

// fnをそのまま実行する。calledで呼ばれたか確認
type fakeTxManager struct {
	repos  repo.TxRepos
	called int
}

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.called++
	return fn(m.repos)
}

// =====================
// ports
// =====================

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (gateway.Order, error) {
	args := m.Called(ctx, amount, currency, receipt)
	o, _ := args.Get(0).(gateway.Order)
	return o, args.Error(1)
}

func (m *GatewayMock) VerifyPaymentSignature(gatewayOrderID, gatewayPaymentID, signature string) error {
	args := m.Called(gatewayOrderID, gatewayPaymentID, signature)
	return args.Error(0)
}

func (m *GatewayMock) KeyID() string {
	return "rzp_test_key"
}

type RendererMock struct{ mock.Mock }

func (m *RendererMock) Render(order model.Order, items []model.OrderItem, customerName string) ([]byte, error) {
	args := m.Called(order, items, customerName)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

type MailerMock struct{ mock.Mock }

func (m *MailerMock) SendInvoice(ctx context.Context, to, subject, body, filename string, pdf []byte) error {
	args := m.Called(ctx, to, subject, body, filename, pdf)
	return args.Error(0)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, data interface{}) error {
	args := m.Called(ctx, routingKey, data)
	return args.Error(0)
}

type StorageMock struct{ mock.Mock }

func (m *StorageMock) Save(ctx context.Context, dir, originalName string, r io.Reader) (string, error) {
	args := m.Called(ctx, dir, originalName, r)
	return args.String(0), args.Error(1)
}

type fixedIDGen struct{ id string }

func (g fixedIDGen) NewID() string { return g.id }

var (
	_ repo.BasketRepository       = (*BasketRepoMock)(nil)
	_ repo.BasketItemRepository   = (*BasketItemRepoMock)(nil)
	_ repo.ProductRepository      = (*ProductRepoMock)(nil)
	_ repo.CategoryRepository     = (*CategoryRepoMock)(nil)
	_ repo.ProductMediaRepository = (*ProductMediaRepoMock)(nil)
	_ repo.ProductCache           = (*ProductCacheMock)(nil)
	_ repo.OrderRepository        = (*OrderRepoMock)(nil)
	_ repo.OrderItemRepository    = (*OrderItemRepoMock)(nil)
	_ repo.PaymentRepository      = (*PaymentRepoMock)(nil)
	_ repo.UserRepository         = (*UserRepoMock)(nil)
	_ repo.ContactRepository      = (*ContactRepoMock)(nil)
	_ repo.TransactionManager     = (*fakeTxManager)(nil)
	_ usecase.PaymentGateway      = (*GatewayMock)(nil)
	_ usecase.InvoiceRenderer     = (*RendererMock)(nil)
	_ usecase.InvoiceMailer       = (*MailerMock)(nil)
	_ usecase.EventPublisher      = (*PublisherMock)(nil)
	_ usecase.MediaStorage        = (*StorageMock)(nil)
	_ usecase.IDGenerator         = fixedIDGen{}
)

func httpStatus(err error) int {
	he, ok := usecase.AsHTTPError(err)
	if !ok {
		return 0
	}
	return he.Status
}
