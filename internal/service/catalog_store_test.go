package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pizzeria/internal/db"
	apperrors "pizzeria/internal/errors"
	"pizzeria/internal/repository"
)

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gormDB))
	return gormDB
}

func TestCatalogAndOrders_HiddenItemsStayHidden(t *testing.T) {
	gormDB := newSQLiteDB(t)
	productRepo := repository.NewProductRepository(gormDB)
	catalog := NewCatalogService(repository.NewCategoryRepository(gormDB), productRepo, nil)
	orders := NewOrderService(productRepo, repository.NewOrderRepository(gormDB), nil)
	ctx := context.Background()
	no := false

	pizza, err := catalog.CreateCategory(ctx, CategoryInput{Name: "Pizza"})
	require.NoError(t, err)
	_, err = catalog.CreateCategory(ctx, CategoryInput{Name: "Seasonal", IsActive: &no})
	require.NoError(t, err)

	categories, err := catalog.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, pizza.ID, categories[0].ID)

	soldOut, err := catalog.CreateProduct(ctx, ProductInput{
		Name:        "Truffle Pizza",
		CategoryID:  pizza.ID,
		Price:       dec("24.95"),
		IsAvailable: &no,
	})
	require.NoError(t, err)

	stored, err := catalog.GetProduct(ctx, soldOut.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsAvailable)

	listed, err := catalog.ListProducts(ctx, repository.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, listed)

	_, err = orders.ValidateAndPrice(ctx, uuid.New(), []CartLine{
		{ProductID: soldOut.ID, Quantity: 1, Price: dec("24.95")},
	}, DeliveryInput{Phone: "555-0100"})
	assert.ErrorIs(t, err, apperrors.ErrProductUnavailable)

	assert.ErrorIs(t, catalog.DeleteCategory(ctx, pizza.ID), apperrors.ErrCategoryInUse)
	require.NoError(t, catalog.DeleteProduct(ctx, soldOut.ID))
	assert.NoError(t, catalog.DeleteCategory(ctx, pizza.ID))
}
