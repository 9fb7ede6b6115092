package pricing

import (
	"sort"
	"time"

	"github.com/ecomm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceListStatus represents the lifecycle status of a customer price list
type PriceListStatus string

const (
	PriceListStatusActive   PriceListStatus = "active"
	PriceListStatusInactive PriceListStatus = "inactive"
)

// CustomerPriceList groups negotiated prices and assigns them to customers
// or customer groups. Only the highest-priority matching list contributes a
// price for a given product.
type CustomerPriceList struct {
	shared.BaseEntity
	Name             string
	Description      string
	CustomerIDs      []uuid.UUID
	CustomerGroupIDs []uuid.UUID
	Priority         int
	StartDate        *time.Time
	EndDate          *time.Time
	Status           PriceListStatus
}

// IsActive returns true if the list may contribute prices
func (l *CustomerPriceList) IsActive() bool {
	return l.Status == PriceListStatusActive
}

// InValidityWindow returns true when the instant falls inside the list's
// optional start/end window.
func (l *CustomerPriceList) InValidityWindow(at time.Time) bool {
	if l.StartDate != nil && at.Before(*l.StartDate) {
		return false
	}
	if l.EndDate != nil && at.After(*l.EndDate) {
		return false
	}
	return true
}

// AppliesToCustomer reports whether the list is assigned to the customer
// directly or through one of their groups.
func (l *CustomerPriceList) AppliesToCustomer(customerID uuid.UUID, groupIDs []uuid.UUID) bool {
	if containsUUID(l.CustomerIDs, customerID) {
		return true
	}
	return intersectsUUID(l.CustomerGroupIDs, groupIDs)
}

// CustomerPrice is a single negotiated price entry inside a price list
type CustomerPrice struct {
	shared.BaseEntity
	PriceListID     uuid.UUID
	ProductID       uuid.UUID
	VariantID       *uuid.UUID
	AdjustmentType  AdjustmentType
	AdjustmentValue decimal.Decimal
}

// Adjustment returns the entry as an applicable price adjustment
func (p *CustomerPrice) Adjustment() Adjustment {
	return Adjustment{Type: p.AdjustmentType, Value: p.AdjustmentValue}
}

// SortPriceListsByPriority orders lists by descending priority, oldest first
// on ties.
func SortPriceListsByPriority(lists []*CustomerPriceList) {
	sort.SliceStable(lists, func(i, j int) bool {
		if lists[i].Priority != lists[j].Priority {
			return lists[i].Priority > lists[j].Priority
		}
		return lists[i].CreatedAt.Before(lists[j].CreatedAt)
	})
}

// FirstPriceForLists walks the price lists in the given order and returns
// the first entry belonging to one of them, preferring a variant-specific
// entry over a product-wide one within the same list. Returns nil when no
// list has an entry.
func FirstPriceForLists(prices []*CustomerPrice, orderedListIDs []uuid.UUID) *CustomerPrice {
	byList := make(map[uuid.UUID][]*CustomerPrice, len(prices))
	for _, p := range prices {
		byList[p.PriceListID] = append(byList[p.PriceListID], p)
	}
	for _, listID := range orderedListIDs {
		entries := byList[listID]
		if len(entries) == 0 {
			continue
		}
		for _, p := range entries {
			if p.VariantID != nil {
				return p
			}
		}
		return entries[0]
	}
	return nil
}
