package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ecomm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockProductRepository creates a GormProductRepository with a mocked SQL connection
func newMockProductRepository(t *testing.T) (*GormProductRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormProductRepository(gormDB), mock, mockDB
}

func TestGormProductRepository_FindByID(t *testing.T) {
	t.Run("finds existing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "name", "category_id", "currency_code", "status"}).
			AddRow(productID, now, now, "Trail Shoe", nil, "USD", "active")

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(productID, 1).
			WillReturnRows(rows)

		product, err := repo.FindByID(context.Background(), productID)
		require.NoError(t, err)
		assert.Equal(t, productID, product.ID)
		assert.Equal(t, "Trail Shoe", product.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to domain error", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "products"`).
			WithArgs(productID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByID(context.Background(), productID)
		assert.ErrorIs(t, err, shared.ErrProductNotFound)
	})

	t.Run("propagates driver errors", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		driverErr := errors.New("connection reset")
		mock.ExpectQuery(`SELECT \* FROM "products"`).
			WithArgs(productID, 1).
			WillReturnError(driverErr)

		_, err := repo.FindByID(context.Background(), productID)
		assert.ErrorIs(t, err, driverErr)
	})
}

func TestGormProductRepository_FindVariant(t *testing.T) {
	t.Run("finds existing variant", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		variantID := uuid.New()
		productID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "product_id", "sku", "price", "sale_price", "cost", "is_default"}).
			AddRow(variantID, now, now, productID, "SKU-1", decimal.NewFromInt(90), nil, nil, true)

		mock.ExpectQuery(`SELECT \* FROM "product_variants" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(variantID, 1).
			WillReturnRows(rows)

		variant, err := repo.FindVariant(context.Background(), variantID)
		require.NoError(t, err)
		assert.Equal(t, variantID, variant.ID)
		assert.Equal(t, "SKU-1", variant.SKU)
		assert.True(t, variant.Price.Equal(decimal.NewFromInt(90)))
	})

	t.Run("maps missing variant to domain error", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		variantID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "product_variants"`).
			WithArgs(variantID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindVariant(context.Background(), variantID)
		assert.ErrorIs(t, err, shared.ErrVariantNotFound)
	})
}

func TestGormProductRepository_FindDefaultVariant(t *testing.T) {
	t.Run("maps missing default to domain error", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "product_variants" WHERE product_id = \$1 AND is_default = \$2`).
			WithArgs(productID, true, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindDefaultVariant(context.Background(), productID)
		assert.ErrorIs(t, err, shared.ErrNoDefaultVariant)
	})
}
