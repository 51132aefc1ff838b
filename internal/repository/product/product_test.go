package product

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"temo/internal/dbtest"
	"temo/internal/domain"
	"temo/internal/repository/category"
)

func TestPostgres_FoodLifecycle(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)
	cats := category.NewPostgres(pool, nil)
	repo := NewPostgres(pool, nil)

	cat, err := cats.Create(ctx, domain.Category{Kind: domain.KindFood, NameAr: "مشاوي", IsActive: true})
	require.NoError(t, err)

	created, err := repo.Create(ctx, domain.Product{
		Kind:            domain.KindFood,
		CategoryID:      cat.ID,
		NameAr:          "كباب",
		Price:           decimal.RequireFromString("12.50"),
		IsAvailable:     true,
		IsFeatured:      true,
		IngredientsAr:   "لحم",
		PreparationTime: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, "مشاوي", created.CategoryName)
	assert.True(t, decimal.RequireFromString("12.5").Equal(created.Price))
	assert.Equal(t, 20, created.PreparationTime)
	assert.Empty(t, created.Size)

	_, err = repo.Create(ctx, domain.Product{Kind: domain.KindFood, NameAr: "شيش", Price: decimal.NewFromInt(9), IsAvailable: false})
	require.NoError(t, err)

	available, err := repo.List(ctx, domain.KindFood, domain.ProductFilter{AvailableOnly: true})
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, created.ID, available[0].ID)

	byCat, err := repo.List(ctx, domain.KindFood, domain.ProductFilter{CategoryID: cat.ID, FeaturedOnly: true, Limit: 4})
	require.NoError(t, err)
	require.Len(t, byCat, 1)

	created.Price = decimal.RequireFromString("13")
	created.IsFeatured = false
	updated, err := repo.Update(ctx, *created)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(13).Equal(updated.Price))
	assert.False(t, updated.IsFeatured)

	require.NoError(t, repo.SetImage(ctx, domain.KindFood, created.ID, "http://media/product-images/x.png"))
	got, err := repo.Get(ctx, domain.KindFood, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "http://media/product-images/x.png", got.ImageURL)

	n, err := repo.Count(ctx, domain.KindFood)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, repo.Delete(ctx, domain.KindFood, created.ID))
	_, err = repo.Get(ctx, domain.KindFood, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgres_DrinksKeepSeparateIDSpace(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)
	repo := NewPostgres(pool, nil)

	d, err := repo.Create(ctx, domain.Product{Kind: domain.KindDrink, NameAr: "قهوة", Price: decimal.NewFromInt(2), Size: "large", IsAvailable: true})
	require.NoError(t, err)
	assert.Equal(t, "large", d.Size)
	assert.Equal(t, domain.KindDrink, d.Kind)

	_, err = repo.Get(ctx, domain.KindFood, d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.Get(ctx, domain.KindDrink, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgres_UpsertByName(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)
	repo := NewPostgres(pool, nil)

	first, err := repo.UpsertByName(ctx, domain.Product{Kind: domain.KindDrink, NameAr: "شاي", Price: decimal.NewFromInt(1), ImageURL: "http://media/a.png", IsAvailable: true})
	require.NoError(t, err)
	second, err := repo.UpsertByName(ctx, domain.Product{Kind: domain.KindDrink, NameAr: "شاي", Price: decimal.RequireFromString("1.25"), IsAvailable: true})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, decimal.RequireFromString("1.25").Equal(second.Price))
	assert.Equal(t, "http://media/a.png", second.ImageURL)

	_, err = repo.Create(ctx, domain.Product{Kind: domain.KindDrink, NameAr: "شاي", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}
