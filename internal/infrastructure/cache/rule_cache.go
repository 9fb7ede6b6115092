package cache

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/ecomm/backend/internal/domain/pricing"
	"github.com/google/uuid"
)

// RuleCache stores candidate rule lists keyed by pricing request shape. A
// nil slice with a false hit flag means the caller must go to the source;
// an empty non-nil slice is a valid cached "no rules" answer.
type RuleCache interface {
	// Get returns the cached candidate list for the key and whether it was present
	Get(ctx context.Context, key string) ([]*pricing.PricingRule, bool, error)

	// Set stores a candidate list under the key for the given TTL
	Set(ctx context.Context, key string, rules []*pricing.PricingRule, ttl time.Duration) error

	// InvalidateAll drops every cached candidate list
	InvalidateAll(ctx context.Context) error

	// Close releases any resources held by the cache
	Close() error
}

// CandidateKey builds the cache key for a candidate rule lookup. The
// request instant enters the key as a UTC day bucket, so requests priced
// at an explicit historical or future date never share an entry with
// requests priced now; within a day the TTL bounds how stale a window
// check can get.
func CandidateKey(productID uuid.UUID, categoryID, customerID *uuid.UUID, groupIDs []uuid.UUID, at time.Time) string {
	var sb strings.Builder
	sb.WriteString("rules:")
	sb.WriteString(productID.String())
	sb.WriteString(":d=")
	sb.WriteString(at.UTC().Format("2006-01-02"))

	sb.WriteString(":c=")
	if categoryID != nil {
		sb.WriteString(categoryID.String())
	}

	sb.WriteString(":u=")
	if customerID != nil {
		sb.WriteString(customerID.String())
	}

	sb.WriteString(":g=")
	if len(groupIDs) > 0 {
		sorted := make([]string, len(groupIDs))
		for i, id := range groupIDs {
			sorted[i] = id.String()
		}
		sort.Strings(sorted)
		sb.WriteString(strings.Join(sorted, ","))
	}

	return sb.String()
}
