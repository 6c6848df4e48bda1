package usecase

import (
	"context"
	"errors"
	"net/http"

	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/domain/model"
	repo "github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/repository"

	"github.com/shopspring/decimal"
)

// BasketUsecase は /basket-items の業務ロジック
// 全操作はログインユーザーのバスケットに限定
type BasketUsecase struct {
	baskets  repo.BasketRepository
	items    repo.BasketItemRepository
	products repo.ProductRepository
}

func NewBasketUsecase(
	baskets repo.BasketRepository,
	items repo.BasketItemRepository,
	products repo.ProductRepository,
) *BasketUsecase {
	return &BasketUsecase{
		baskets:  baskets,
		items:    items,
		products: products,
	}
}

// 明細 + item_total
type BasketItemOutput struct {
	model.BasketItem
	ItemTotal decimal.Decimal `json:"item_total"`
}

type ViewCartOutput struct {
	BasketID    int64              `json:"id"`
	Items       []BasketItemOutput `json:"cartitems"`
	BasketTotal decimal.Decimal    `json:"basket_total"`
}

func toBasketItemOutput(it model.BasketItem) BasketItemOutput {
	return BasketItemOutput{BasketItem: it, ItemTotal: it.ItemTotal()}
}

func toBasketItemOutputs(items []model.BasketItem) []BasketItemOutput {
	out := make([]BasketItemOutput, 0, len(items))
	for _, it := range items {
		out = append(out, toBasketItemOutput(it))
	}
	return out
}

// AddToCart は商品をカートに入れる。既にあれば+1
func (u *BasketUsecase) AddToCart(ctx context.Context, userID, productID int64) (BasketItemOutput, error) {
	return u.add(ctx, userID, productID, true)
}

// CreateItem は明細を作る。既にあればそのまま返す
func (u *BasketUsecase) CreateItem(ctx context.Context, userID, productID int64) (BasketItemOutput, error) {
	return u.add(ctx, userID, productID, false)
}

func (u *BasketUsecase) add(ctx context.Context, userID, productID int64, increment bool) (BasketItemOutput, error) {
	if userID <= 0 {
		return BasketItemOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return BasketItemOutput{}, NewHTTPError(http.StatusNotFound, "Product not found")
	}

	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return BasketItemOutput{}, NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return BasketItemOutput{}, internalError(err)
	}

	basket, err := u.baskets.GetOrCreateByOwnerID(ctx, userID)
	if err != nil {
		return BasketItemOutput{}, internalError(err)
	}

	item, _, err := u.items.AddOrIncrement(ctx, basket.ID, p.ID, increment)
	if err != nil {
		return BasketItemOutput{}, internalError(err)
	}
	item.Product = &p

	return toBasketItemOutput(item), nil
}

// RemoveFromCart は論理削除（is_active=false）
func (u *BasketUsecase) RemoveFromCart(ctx context.Context, userID, itemID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	item, err := u.items.FindOwnedPending(ctx, itemID, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "Item not found")
	}
	if err != nil {
		return internalError(err)
	}

	if err := u.items.Deactivate(ctx, item.ID); err != nil {
		return internalError(err)
	}
	return nil
}

// UpdateQuantity は数量を上書きする（1以上）
func (u *BasketUsecase) UpdateQuantity(ctx context.Context, userID, itemID, quantity int64) (BasketItemOutput, error) {
	if userID <= 0 {
		return BasketItemOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if quantity < 1 {
		return BasketItemOutput{}, NewHTTPError(http.StatusBadRequest, "Quantity must be an integer >= 1")
	}

	item, err := u.items.FindOwnedPending(ctx, itemID, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return BasketItemOutput{}, NewHTTPError(http.StatusNotFound, "Item not found")
	}
	if err != nil {
		return BasketItemOutput{}, internalError(err)
	}

	if err := u.items.UpdateQuantity(ctx, item.ID, quantity); err != nil {
		return BasketItemOutput{}, internalError(err)
	}
	item.Quantity = quantity

	return toBasketItemOutput(item), nil
}

// ViewCart は有効かつ未注文の明細と合計
func (u *BasketUsecase) ViewCart(ctx context.Context, userID int64) (ViewCartOutput, error) {
	if userID <= 0 {
		return ViewCartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	basket, err := u.baskets.FindByOwnerID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return ViewCartOutput{}, NewHTTPError(http.StatusNotFound, "Cart is empty")
	}
	if err != nil {
		return ViewCartOutput{}, internalError(err)
	}

	items, err := u.items.List(ctx, repo.BasketItemFilter{
		BasketID:      basket.ID,
		OnlyActive:    true,
		OnlyNotPlaced: true,
	})
	if err != nil {
		return ViewCartOutput{}, internalError(err)
	}

	out := ViewCartOutput{
		BasketID:    basket.ID,
		Items:       toBasketItemOutputs(items),
		BasketTotal: basketTotal(items),
	}
	return out, nil
}

// ListItems は /basket-items の一覧（ViewCartと同じ範囲、バスケット無しは空）
func (u *BasketUsecase) ListItems(ctx context.Context, userID int64) ([]BasketItemOutput, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	basket, err := u.baskets.FindByOwnerID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return []BasketItemOutput{}, nil
	}
	if err != nil {
		return nil, internalError(err)
	}

	items, err := u.items.List(ctx, repo.BasketItemFilter{
		BasketID:      basket.ID,
		OnlyActive:    true,
		OnlyNotPlaced: true,
	})
	if err != nil {
		return nil, internalError(err)
	}
	return toBasketItemOutputs(items), nil
}

func (u *BasketUsecase) GetItem(ctx context.Context, userID, itemID int64) (BasketItemOutput, error) {
	items, err := u.ListItems(ctx, userID)
	if err != nil {
		return BasketItemOutput{}, err
	}
	for _, it := range items {
		if it.ID == itemID {
			return it, nil
		}
	}
	return BasketItemOutput{}, NewHTTPError(http.StatusNotFound, "Item not found")
}

func basketTotal(items []model.BasketItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.ItemTotal())
	}
	return total
}
