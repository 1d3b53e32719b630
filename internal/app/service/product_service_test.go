package service

import (
	"testing"

	"github.com/chengtian/temple-backend/internal/app/repository"
	"github.com/chengtian/temple-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProductServiceTest(t *testing.T) ProductService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return NewProductService(repository.NewProductRepository(testDB))
}

func TestProductService_CRUD(t *testing.T) {
	svc := setupProductServiceTest(t)

	product, err := svc.CreateProduct(ProductInput{
		Name:     " 平安符 ",
		Category: "御守",
		Price:    decimal.NewFromInt(100),
		Variants: []string{"紅", " ", "黃"},
	})
	require.NoError(t, err)
	assert.Equal(t, "平安符", product.Name)
	assert.True(t, product.IsActive)
	assert.Equal(t, []string{"紅", "黃"}, product.Variants)

	inactive := false
	updated, err := svc.UpdateProduct(product.ID, ProductInput{
		Name:     "平安符",
		Price:    decimal.NewFromInt(150),
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(150)))

	active, err := svc.ListProducts(true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.ListProducts(false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.DeleteProduct(product.ID))
	assert.ErrorIs(t, svc.DeleteProduct(product.ID), ErrProductNotFound)
	_, err = svc.GetProduct(product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_Validation(t *testing.T) {
	svc := setupProductServiceTest(t)

	_, err := svc.CreateProduct(ProductInput{Name: "", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrInvalidProduct)

	_, err = svc.CreateProduct(ProductInput{Name: "香", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, ErrInvalidProduct)

	_, err = svc.UpdateProduct("6f1c1a8e-9a53-4e0a-8b44-000000000000", ProductInput{Name: "香", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrProductNotFound)
}
