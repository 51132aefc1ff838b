package category

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"temo/internal/dbtest"
	"temo/internal/domain"
)

func TestPostgres_CRUDPerKind(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)
	repo := NewPostgres(pool, nil)

	food, err := repo.Create(ctx, domain.Category{Kind: domain.KindFood, NameAr: "مشاوي", DisplayOrder: 2, IsActive: true})
	require.NoError(t, err)
	_, err = repo.Create(ctx, domain.Category{Kind: domain.KindFood, NameAr: "مقبلات", DisplayOrder: 1, IsActive: false})
	require.NoError(t, err)
	drink, err := repo.Create(ctx, domain.Category{Kind: domain.KindDrink, NameAr: "عصائر", IsActive: true})
	require.NoError(t, err)

	all, err := repo.List(ctx, domain.KindFood, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "مقبلات", all[0].NameAr)

	active, err := repo.List(ctx, domain.KindFood, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, food.ID, active[0].ID)

	drinks, err := repo.List(ctx, domain.KindDrink, false)
	require.NoError(t, err)
	require.Len(t, drinks, 1)
	assert.Equal(t, domain.KindDrink, drinks[0].Kind)

	_, err = repo.Get(ctx, domain.KindFood, drink.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	food.DescriptionAr = "على الفحم"
	updated, err := repo.Update(ctx, *food)
	require.NoError(t, err)
	assert.Equal(t, "على الفحم", updated.DescriptionAr)

	n, err := repo.Count(ctx, domain.KindFood)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, repo.Delete(ctx, domain.KindDrink, drink.ID))
	assert.ErrorIs(t, repo.Delete(ctx, domain.KindDrink, drink.ID), domain.ErrNotFound)
}

func TestPostgres_DuplicateNameAndRestrictedDelete(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)
	repo := NewPostgres(pool, nil)

	c, err := repo.Create(ctx, domain.Category{Kind: domain.KindFood, NameAr: "حلويات", IsActive: true})
	require.NoError(t, err)
	_, err = repo.Create(ctx, domain.Category{Kind: domain.KindFood, NameAr: "حلويات"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	_, err = pool.Exec(ctx, `INSERT INTO menu_items (category_id, name_ar, price) VALUES ($1, 'كنافة', 3.5)`, c.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Delete(ctx, domain.KindFood, c.ID), domain.ErrConflict)
}

func TestPostgres_UpsertByNameAndStats(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)
	repo := NewPostgres(pool, nil)

	first, err := repo.UpsertByName(ctx, domain.Category{Kind: domain.KindDrink, NameAr: "ساخن", DescriptionAr: "قهوة وشاي", IsActive: true})
	require.NoError(t, err)
	again, err := repo.UpsertByName(ctx, domain.Category{Kind: domain.KindDrink, NameAr: "ساخن", DisplayOrder: 4, IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "قهوة وشاي", again.DescriptionAr)
	assert.Equal(t, 4, again.DisplayOrder)

	var drinkID, orderID string
	require.NoError(t, pool.QueryRow(ctx, `INSERT INTO drinks (category_id, name_ar, price) VALUES ($1, 'شاي', 1) RETURNING id::text`, first.ID).Scan(&drinkID))
	require.NoError(t, pool.QueryRow(ctx, `INSERT INTO orders (customer_name, customer_phone, total_amount) VALUES ('a', '1', 3) RETURNING id::text`).Scan(&orderID))
	_, err = pool.Exec(ctx, `INSERT INTO order_items (order_id, product_id, product_kind, product_name, quantity, price) VALUES ($1, $2, 'drink', 'شاي', 3, 1)`, orderID, drinkID)
	require.NoError(t, err)

	stats, err := repo.Stats(ctx, domain.KindDrink, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, domain.CategoryStats{CategoryName: "ساخن", Kind: domain.KindDrink, ProductCount: 1, TotalOrdered: 3}, stats[0])

	stats, err = repo.Stats(ctx, domain.KindDrink, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, stats[0].TotalOrdered)
}
