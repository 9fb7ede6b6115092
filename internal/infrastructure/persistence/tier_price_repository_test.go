package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/ecomm/backend/internal/domain/pricing"
	"github.com/ecomm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTierPriceTestDB creates an in-memory SQLite database for testing
func setupTierPriceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE tier_prices (
			id TEXT PRIMARY KEY,
			product_id TEXT NOT NULL,
			variant_id TEXT,
			quantity_min INTEGER NOT NULL,
			quantity_max INTEGER,
			price NUMERIC NOT NULL,
			customer_group_id TEXT,
			start_date DATETIME,
			end_date DATETIME,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error
	require.NoError(t, err)

	return db
}

func saveTier(t *testing.T, repo *GormTierPriceRepository, tier *pricing.TierPrice) {
	t.Helper()
	if tier.ID == uuid.Nil {
		tier.BaseEntity = shared.NewBaseEntity()
	}
	require.NoError(t, repo.Save(context.Background(), tier))
}

func TestGormTierPriceRepository_FindApplicableTier(t *testing.T) {
	db := setupTierPriceTestDB(t)
	repo := NewGormTierPriceRepository(db)
	ctx := context.Background()
	now := time.Now()

	productID := uuid.New()
	groupID := uuid.New()
	maxTen := 10

	saveTier(t, repo, &pricing.TierPrice{
		ProductID:   productID,
		QuantityMin: 5,
		QuantityMax: &maxTen,
		Price:       decimal.NewFromInt(9),
	})
	saveTier(t, repo, &pricing.TierPrice{
		ProductID:   productID,
		QuantityMin: 10,
		Price:       decimal.NewFromInt(8),
	})
	saveTier(t, repo, &pricing.TierPrice{
		ProductID:       productID,
		QuantityMin:     10,
		Price:           decimal.NewFromInt(7),
		CustomerGroupID: &groupID,
	})

	t.Run("returns nil when quantity below all minimums", func(t *testing.T) {
		tier, err := repo.FindApplicableTier(ctx, productID, 2, nil, nil, now)
		require.NoError(t, err)
		assert.Nil(t, tier)
	})

	t.Run("selects the band containing the quantity", func(t *testing.T) {
		tier, err := repo.FindApplicableTier(ctx, productID, 6, nil, nil, now)
		require.NoError(t, err)
		require.NotNil(t, tier)
		assert.True(t, tier.Price.Equal(decimal.NewFromInt(9)))
	})

	t.Run("highest minimum wins among overlapping tiers", func(t *testing.T) {
		tier, err := repo.FindApplicableTier(ctx, productID, 10, nil, nil, now)
		require.NoError(t, err)
		require.NotNil(t, tier)
		assert.Equal(t, 10, tier.QuantityMin)
	})

	t.Run("group-specific tier beats generic on ties", func(t *testing.T) {
		tier, err := repo.FindApplicableTier(ctx, productID, 12, nil, &groupID, now)
		require.NoError(t, err)
		require.NotNil(t, tier)
		assert.True(t, tier.Price.Equal(decimal.NewFromInt(7)))
	})

	t.Run("ignores tiers for other products", func(t *testing.T) {
		tier, err := repo.FindApplicableTier(ctx, uuid.New(), 12, nil, nil, now)
		require.NoError(t, err)
		assert.Nil(t, tier)
	})
}

func TestGormTierPriceRepository_ValidityWindow(t *testing.T) {
	db := setupTierPriceTestDB(t)
	repo := NewGormTierPriceRepository(db)
	ctx := context.Background()
	now := time.Now()

	productID := uuid.New()
	start := now.Add(24 * time.Hour)
	saveTier(t, repo, &pricing.TierPrice{
		ProductID:   productID,
		QuantityMin: 2,
		Price:       decimal.NewFromInt(5),
		StartDate:   &start,
	})

	tier, err := repo.FindApplicableTier(ctx, productID, 4, nil, nil, now)
	require.NoError(t, err)
	assert.Nil(t, tier)

	tier, err = repo.FindApplicableTier(ctx, productID, 4, nil, nil, now.Add(48*time.Hour))
	require.NoError(t, err)
	assert.NotNil(t, tier)
}

func TestGormTierPriceRepository_SaveUpdates(t *testing.T) {
	db := setupTierPriceTestDB(t)
	repo := NewGormTierPriceRepository(db)
	ctx := context.Background()

	productID := uuid.New()
	tier := &pricing.TierPrice{
		ProductID:   productID,
		QuantityMin: 3,
		Price:       decimal.NewFromInt(20),
	}
	saveTier(t, repo, tier)

	tier.Price = decimal.NewFromInt(18)
	require.NoError(t, repo.Save(ctx, tier))

	found, err := repo.FindApplicableTier(ctx, productID, 3, nil, nil, time.Now())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.Price.Equal(decimal.NewFromInt(18)))

	var count int64
	require.NoError(t, db.Table("tier_prices").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
