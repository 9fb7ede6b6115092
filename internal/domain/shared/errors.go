package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound         = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists    = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput     = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState     = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrProductNotFound  = NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	ErrVariantNotFound  = NewDomainError("VARIANT_NOT_FOUND", "Product variant not found")
	ErrNoDefaultVariant = NewDomainError("NO_DEFAULT_VARIANT", "Product has no default variant")
	ErrRuleNotFound     = NewDomainError("RULE_NOT_FOUND", "Pricing rule not found")
	ErrCurrencyMismatch = NewDomainError("CURRENCY_MISMATCH", "Amounts have different currencies")
	ErrBasketNotFound   = NewDomainError("BASKET_NOT_FOUND", "Basket not found")
)
