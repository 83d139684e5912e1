package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-dashboard/internal/entity"
	"order-dashboard/internal/repository"
)

func newTestProductService(t *testing.T) (*ProductService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	return NewProductService(store, nil), store
}

func TestCreateProduct(t *testing.T) {
	svc, _ := newTestProductService(t)

	created, err := svc.CreateProduct(context.Background(), &entity.Product{
		Name:         "Premium Tee",
		Code:         "TEE-01",
		SellPriceBDT: decimal.RequireFromString("450"),
		VariantGroups: []entity.VariantGroup{
			{Color: "Black", Sizes: []string{"M", "L"}, Quantities: map[string]int{"M": 5}},
		},
	})
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	require.Len(t, created.VariantGroups, 1)
	assert.Equal(t, created.ID, created.VariantGroups[0].ProductID)
}

func TestCreateProductDuplicateCode(t *testing.T) {
	svc, _ := newTestProductService(t)

	_, err := svc.CreateProduct(context.Background(), &entity.Product{Name: "Tee", Code: "TEE-01"})
	require.NoError(t, err)

	_, err = svc.CreateProduct(context.Background(), &entity.Product{Name: "Other Tee", Code: "TEE-01"})
	assert.ErrorIs(t, err, ErrDuplicateProductCode)
}

func TestCreateProductRejectsQuantityForUnlistedSize(t *testing.T) {
	svc, _ := newTestProductService(t)

	_, err := svc.CreateProduct(context.Background(), &entity.Product{
		Name: "Tee",
		Code: "TEE-01",
		VariantGroups: []entity.VariantGroup{
			{Color: "Black", Sizes: []string{"M"}, Quantities: map[string]int{"XL": 3}},
		},
	})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "variant_groups.quantities", ve.Field)
}

func TestCreateProductRejectsNegativeQuantity(t *testing.T) {
	svc, _ := newTestProductService(t)

	_, err := svc.CreateProduct(context.Background(), &entity.Product{
		Name: "Tee",
		Code: "TEE-01",
		VariantGroups: []entity.VariantGroup{
			{Color: "Black", Sizes: []string{"M"}, Quantities: map[string]int{"M": -1}},
		},
	})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestUpdateProductReplacesVariantGroups(t *testing.T) {
	svc, _ := newTestProductService(t)

	created, err := svc.CreateProduct(context.Background(), &entity.Product{
		Name: "Tee",
		Code: "TEE-01",
		VariantGroups: []entity.VariantGroup{
			{Color: "Black", Sizes: []string{"M"}, Quantities: map[string]int{"M": 5}},
			{Color: "Navy", Sizes: []string{"L"}, Quantities: map[string]int{"L": 2}},
		},
	})
	require.NoError(t, err)

	created.VariantGroups = []entity.VariantGroup{
		{Color: "Red", Sizes: []string{"S"}, Quantities: map[string]int{"S": 10}},
	}

	updated, err := svc.UpdateProduct(context.Background(), created)
	require.NoError(t, err)

	require.Len(t, updated.VariantGroups, 1)
	assert.Equal(t, "Red", updated.VariantGroups[0].Color)
}

func TestGetProductNotFound(t *testing.T) {
	svc, _ := newTestProductService(t)

	_, err := svc.GetProduct(context.Background(), 42)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteProductNotFound(t *testing.T) {
	svc, _ := newTestProductService(t)

	err := svc.DeleteProduct(context.Background(), 42)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
