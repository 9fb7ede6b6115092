package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines the read-only catalog lookup contract used by
// the pricing engine. All methods return shared.ErrProductNotFound /
// shared.ErrVariantNotFound style domain errors when nothing matches.
type ProductRepository interface {
	// FindByID finds a product by its ID (variants not preloaded)
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindVariant finds a variant by its ID
	FindVariant(ctx context.Context, variantID uuid.UUID) (*Variant, error)

	// FindDefaultVariant finds the default variant of a product
	FindDefaultVariant(ctx context.Context, productID uuid.UUID) (*Variant, error)

	// Save creates or updates a product together with its variants
	Save(ctx context.Context, product *Product) error
}
