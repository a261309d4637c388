package product

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bakehouse-backend/internal/config"
	"github.com/your-org/bakehouse-backend/internal/pkg/money"
	"github.com/your-org/bakehouse-backend/internal/pkg/testdb"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db := testdb.Open(t, &Category{}, &Product{})
	categories := DefaultCategories()
	require.NoError(t, db.Create(&categories).Error)
	return NewService(db, &config.Config{})
}

func TestCreateProductParsesDecoratedPrice(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, &ProductCreateRequest{
		Name:     "Classic Chocolate Cake",
		Price:    "$35.00",
		Category: "cakes",
	})
	require.NoError(t, err)

	assert.Equal(t, money.Amount(3500), p.Price)
	assert.Equal(t, "classic-chocolate-cake", p.Slug)
	assert.True(t, p.InStock)
	assert.Equal(t, "In Stock", p.Availability())
	assert.Equal(t, "cakes", p.Category.Slug)
}

func TestCreateProductRejectsBadInput(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, &ProductCreateRequest{Name: "Tart", Price: "cheap", Category: "pastries"})
	assert.True(t, errors.Is(err, ErrInvalidPrice))

	_, err = svc.CreateProduct(ctx, &ProductCreateRequest{Name: "Tart", Price: "$3", Category: "pies"})
	assert.True(t, errors.Is(err, ErrCategoryNotFound))
}

func TestSlugsStayUnique(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateProduct(ctx, &ProductCreateRequest{Name: "Birthday Cake", Price: "42", Category: "cakes"})
	require.NoError(t, err)
	second, err := svc.CreateProduct(ctx, &ProductCreateRequest{Name: "Birthday Cake!", Price: "45", Category: "cakes"})
	require.NoError(t, err)

	assert.Equal(t, "birthday-cake", first.Slug)
	assert.Equal(t, "birthday-cake-2", second.Slug)
}

func TestGetProductsFiltersByCategory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for category, items := range DefaultProducts() {
		for _, item := range items {
			item := item
			item.Category = category
			_, err := svc.CreateProduct(ctx, &item)
			require.NoError(t, err)
		}
	}

	all, err := svc.GetProducts(ctx, &ProductListRequest{Category: "all"})
	require.NoError(t, err)
	assert.Len(t, all.Products, 9)
	assert.Equal(t, "Classic Chocolate Cake", all.Products[0].Name)

	pastries, err := svc.GetProducts(ctx, &ProductListRequest{Category: "pastries"})
	require.NoError(t, err)
	require.Len(t, pastries.Products, 2)
	assert.Equal(t, int64(2), pastries.Pagination.Total)
	for _, p := range pastries.Products {
		assert.Equal(t, "pastries", p.Category.Slug)
	}
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, &ProductCreateRequest{Name: "Macarons", Price: "$24.00", Category: "cookies"})
	require.NoError(t, err)

	price := "R 26.50"
	inStock := false
	updated, err := svc.UpdateProduct(ctx, p.ID, &ProductUpdateRequest{Price: &price, InStock: &inStock})
	require.NoError(t, err)
	assert.Equal(t, money.Amount(2650), updated.Price)
	assert.False(t, updated.InStock)
	assert.Equal(t, "Out of Stock", updated.Availability())

	require.NoError(t, svc.DeleteProduct(ctx, p.ID))
	_, err = svc.GetProduct(ctx, p.ID)
	assert.True(t, errors.Is(err, ErrProductNotFound))
	assert.True(t, errors.Is(svc.DeleteProduct(ctx, p.ID), ErrProductNotFound))
}

func TestGetCategoriesInDisplayOrder(t *testing.T) {
	svc := newTestService(t)

	categories, err := svc.GetCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 4)
	assert.Equal(t, "cakes", categories[0].Slug)
	assert.Equal(t, "pastries", categories[3].Slug)
}
