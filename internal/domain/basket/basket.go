package basket

import (
	"errors"

	"github.com/ecomm/backend/internal/domain/shared"
	"github.com/ecomm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BasketStatus represents the lifecycle status of a basket
type BasketStatus string

const (
	BasketStatusOpen      BasketStatus = "open"
	BasketStatusCheckout  BasketStatus = "checkout"
	BasketStatusAbandoned BasketStatus = "abandoned"
)

// Basket is a customer's shopping basket. Item unit prices and the subtotal
// are denormalized snapshots of the pricing engine's output; they are
// refreshed after every mutation by the pricing-aware repository decorator.
type Basket struct {
	shared.BaseEntity
	CustomerID *uuid.UUID
	Status     BasketStatus
	Currency   valueobject.Currency
	Items      []BasketItem
	Subtotal   decimal.Decimal
}

// BasketItem is one line in a basket
type BasketItem struct {
	shared.BaseEntity
	BasketID  uuid.UUID
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// NewBasket creates an empty open basket. A nil customer ID means an
// anonymous session basket.
func NewBasket(customerID *uuid.UUID, currency valueobject.Currency) *Basket {
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	return &Basket{
		BaseEntity: shared.NewBaseEntity(),
		CustomerID: customerID,
		Status:     BasketStatusOpen,
		Currency:   currency,
		Subtotal:   decimal.Zero,
	}
}

// AddItem adds a line or increases the quantity of an existing line for the
// same product/variant combination.
func (b *Basket) AddItem(productID uuid.UUID, variantID *uuid.UUID, quantity int) (*BasketItem, error) {
	if b.Status != BasketStatusOpen {
		return nil, shared.NewDomainError("BASKET_NOT_OPEN", "Basket is not open for changes")
	}
	if quantity < 1 {
		return nil, errors.New("quantity must be at least 1")
	}

	for i := range b.Items {
		if b.Items[i].ProductID == productID && sameVariant(b.Items[i].VariantID, variantID) {
			b.Items[i].Quantity += quantity
			return &b.Items[i], nil
		}
	}

	item := BasketItem{
		BaseEntity: shared.NewBaseEntity(),
		BasketID:   b.ID,
		ProductID:  productID,
		VariantID:  variantID,
		Quantity:   quantity,
	}
	b.Items = append(b.Items, item)
	return &b.Items[len(b.Items)-1], nil
}

// UpdateItemQuantity changes a line's quantity; zero removes the line
func (b *Basket) UpdateItemQuantity(itemID uuid.UUID, quantity int) error {
	if quantity < 0 {
		return errors.New("quantity cannot be negative")
	}
	for i := range b.Items {
		if b.Items[i].ID == itemID {
			if quantity == 0 {
				b.Items = append(b.Items[:i], b.Items[i+1:]...)
			} else {
				b.Items[i].Quantity = quantity
			}
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Basket item not found")
}

// RemoveItem deletes a line from the basket
func (b *Basket) RemoveItem(itemID uuid.UUID) error {
	return b.UpdateItemQuantity(itemID, 0)
}

// RecalculateSubtotal sums quantity * unit price over all lines
func (b *Basket) RecalculateSubtotal() {
	total := decimal.Zero
	for _, item := range b.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	b.Subtotal = total
}

func sameVariant(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
