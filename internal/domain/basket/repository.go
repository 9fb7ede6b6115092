package basket

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists baskets. Implementations are plain storage; keeping
// basket prices in sync with the pricing engine is layered on top via the
// application-level decorator.
type Repository interface {
	// FindByID returns the basket with its items, or shared.ErrBasketNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*Basket, error)

	// Save creates or updates a basket together with its items
	Save(ctx context.Context, b *Basket) error

	// Delete removes a basket and its items
	Delete(ctx context.Context, id uuid.UUID) error
}
