package service

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/linemk/lemonade-shop/internal/domain/models"
)

const (
	msgEmptyCart      = "Order must contain at least one item"
	msgInvalidVariant = "Your cart contains an invalid product variant. Please remove the item(s) and try again."
)

// MaxQuantity - верхняя граница количества, колонка quantity имеет тип INTEGER
const MaxQuantity = math.MaxInt32

// MaxTotalPrice - сумма заказа должна помещаться в NUMERIC(10,2)
var MaxTotalPrice = decimal.New(1, 8)

// CartItem - позиция корзины в том виде, как её прислал покупатель
type CartItem struct {
	ProductVariantID uuid.UUID
	Quantity         int
}

// ValidatedItem - позиция, проверенная по каталогу и посчитанная
type ValidatedItem struct {
	ProductVariantID uuid.UUID
	Quantity         int
	Price            decimal.Decimal
	ProductName      string
	VariantName      string
	ItemTotal        decimal.Decimal
}

// ValidatedCart - корзина, готовая к сохранению в заказ
type ValidatedCart struct {
	CustomerID uuid.UUID
	Items      []ValidatedItem
	TotalPrice decimal.Decimal
}

// CheckCartInput проверяет корзину без обращения к базе
func CheckCartInput(items []CartItem) error {
	if len(items) == 0 {
		return newError(ErrInvalidInput, msgEmptyCart, nil)
	}
	for _, item := range items {
		if item.Quantity < 1 {
			return newError(ErrInvalidInput,
				fmt.Sprintf("Quantity for product variant %s must be at least 1", item.ProductVariantID), nil)
		}
		if item.Quantity > MaxQuantity {
			return newError(ErrInvalidInput,
				fmt.Sprintf("Quantity for product variant %s must not exceed %d", item.ProductVariantID, MaxQuantity), nil)
		}
	}
	return nil
}

// DistinctVariantIDs возвращает id связок без повторов в порядке первого появления
func DistinctVariantIDs(items []CartItem) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductVariantID]; ok {
			continue
		}
		seen[item.ProductVariantID] = struct{}{}
		ids = append(ids, item.ProductVariantID)
	}
	return ids
}

// ValidateCart сверяет корзину с прочитанным каталогом и считает суммы.
// Функция чистая: каталог передаётся уже прочитанным.
// Неактивная позиция ищется в порядке, в котором каталог вернул записи.
func ValidateCart(customerID uuid.UUID, items []CartItem, variants []*models.ProductVariant) (*ValidatedCart, error) {
	if err := CheckCartInput(items); err != nil {
		return nil, err
	}

	ids := DistinctVariantIDs(items)
	if len(variants) < len(ids) {
		return nil, newError(ErrInvalidCart, msgInvalidVariant, nil)
	}

	for _, pv := range variants {
		if !pv.Purchasable() {
			return nil, newError(ErrInvalidCart,
				fmt.Sprintf("Product %s (%s) is not active.", pv.Product.Name, pv.Variant.Name), nil)
		}
	}

	byID := make(map[uuid.UUID]*models.ProductVariant, len(variants))
	for _, pv := range variants {
		byID[pv.ID] = pv
	}

	cart := &ValidatedCart{
		CustomerID: customerID,
		Items:      make([]ValidatedItem, 0, len(items)),
		TotalPrice: decimal.Zero,
	}
	for _, item := range items {
		pv, ok := byID[item.ProductVariantID]
		if !ok {
			return nil, newError(ErrInvalidCart, msgInvalidVariant, nil)
		}
		itemTotal := pv.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		cart.Items = append(cart.Items, ValidatedItem{
			ProductVariantID: pv.ID,
			Quantity:         item.Quantity,
			Price:            pv.Price,
			ProductName:      pv.Product.Name,
			VariantName:      pv.Variant.Name,
			ItemTotal:        itemTotal,
		})
		cart.TotalPrice = cart.TotalPrice.Add(itemTotal)
	}
	if cart.TotalPrice.GreaterThanOrEqual(MaxTotalPrice) {
		return nil, newError(ErrInvalidInput,
			fmt.Sprintf("Order total must be less than %s", MaxTotalPrice.StringFixed(2)), nil)
	}
	return cart, nil
}
