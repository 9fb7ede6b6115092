package pricing

import (
	"github.com/google/uuid"
)

// PriceItem identifies one entry in a batch price calculation
type PriceItem struct {
	ProductID uuid.UUID  `json:"product_id"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
	Quantity  int        `json:"quantity,omitempty"`
}

// Key returns the map key a batch result is stored under:
// "productId" or "productId:variantId" when a variant was specified.
func (i PriceItem) Key() string {
	if i.VariantID != nil {
		return i.ProductID.String() + ":" + i.VariantID.String()
	}
	return i.ProductID.String()
}
