package order

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"temo/internal/dbtest"
	"temo/internal/domain"
)

func newOrder(name, phone string, items ...domain.OrderItem) domain.Order {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return domain.Order{CustomerName: name, CustomerPhone: phone, TotalAmount: total, Items: items}
}

func item(id string, kind domain.Kind, name string, qty int, price string) domain.OrderItem {
	return domain.OrderItem{ProductID: id, ProductKind: kind, ProductName: name, Quantity: qty, Price: decimal.RequireFromString(price)}
}

func TestPostgres_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(dbtest.Pool(t), nil)

	created, err := repo.Create(ctx, newOrder("سارة", "0599",
		item("f1", domain.KindFood, "كباب", 2, "12.50"),
		item("f1", domain.KindDrink, "شاي", 1, "1.00"),
	))
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, created.Status)
	assert.True(t, decimal.RequireFromString("26").Equal(created.TotalAmount))
	require.Len(t, created.Items, 2)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, domain.KindFood, got.Items[0].ProductKind)
	assert.Equal(t, domain.KindDrink, got.Items[1].ProductKind)
	assert.Equal(t, "f1", got.Items[1].ProductID)
}

func TestPostgres_CreateIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(dbtest.Pool(t), nil)

	_, err := repo.Create(ctx, newOrder("x", "1",
		item("a", domain.KindFood, "ok", 1, "1"),
		item("b", domain.KindFood, "bad", 0, "1"),
	))
	require.Error(t, err)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestPostgres_ListSearch(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(dbtest.Pool(t), nil)

	a, err := repo.Create(ctx, newOrder("Ahmad", "0591111", item("a", domain.KindFood, "a", 1, "1")))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newOrder("Lina", "0592222", item("a", domain.KindFood, "a", 1, "1")))
	require.NoError(t, err)

	byName, err := repo.List(ctx, Query{Search: "ahm"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, a.ID, byName[0].ID)

	byPhone, err := repo.List(ctx, Query{Search: "2222"})
	require.NoError(t, err)
	require.Len(t, byPhone, 1)

	byID, err := repo.List(ctx, Query{Search: a.ID[:8]})
	require.NoError(t, err)
	require.Len(t, byID, 1)

	page, err := repo.List(ctx, Query{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Len(t, page, 1)

	pending, err := repo.List(ctx, Query{Status: domain.OrderStatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestPostgres_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(dbtest.Pool(t), nil)

	o, err := repo.Create(ctx, newOrder("a", "1", item("a", domain.KindFood, "a", 1, "1")))
	require.NoError(t, err)

	moved, err := repo.UpdateStatus(ctx, o.ID, domain.OrderStatusPending, domain.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, moved.Status)

	_, err = repo.UpdateStatus(ctx, o.ID, domain.OrderStatusPending, domain.OrderStatusCancelled)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = repo.UpdateStatus(ctx, "00000000-0000-0000-0000-000000000000", domain.OrderStatusPending, domain.OrderStatusConfirmed)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgres_ReportAggregates(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(dbtest.Pool(t), nil)

	delivered, err := repo.Create(ctx, newOrder("a", "1",
		item("k", domain.KindFood, "كباب", 3, "10"),
		item("t", domain.KindDrink, "شاي", 1, "2"),
	))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newOrder("b", "1", item("t", domain.KindDrink, "شاي", 5, "2")))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newOrder("c", "2", item("k", domain.KindFood, "كباب", 1, "10")))
	require.NoError(t, err)

	for _, step := range [][2]domain.OrderStatus{
		{domain.OrderStatusPending, domain.OrderStatusConfirmed},
		{domain.OrderStatusConfirmed, domain.OrderStatusPreparing},
		{domain.OrderStatusPreparing, domain.OrderStatusReady},
		{domain.OrderStatusReady, domain.OrderStatusDelivered},
	} {
		_, err := repo.UpdateStatus(ctx, delivered.ID, step[0], step[1])
		require.NoError(t, err)
	}

	since := time.Now().Add(-time.Hour)
	sum, err := repo.Summary(ctx, since)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(32).Equal(sum.Revenue), sum.Revenue.String())
	assert.Equal(t, 3, sum.TotalOrders)
	assert.Equal(t, 2, sum.UniqueCustomers)

	popular, err := repo.PopularProducts(ctx, since, 5)
	require.NoError(t, err)
	require.Len(t, popular, 2)
	assert.Equal(t, "شاي", popular[0].Name)
	assert.Equal(t, 6, popular[0].TotalQuantity)
	assert.Equal(t, domain.KindDrink, popular[0].Kind)

	byStatus, err := repo.CountByStatus(ctx, since)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.StatusCount{
		{Status: domain.OrderStatusDelivered, Count: 1},
		{Status: domain.OrderStatusPending, Count: 2},
	}, byStatus)

	days, err := repo.RevenueByDay(ctx, since)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), days[0].Day)

	future, err := repo.Summary(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, future.TotalOrders)
	assert.True(t, future.Revenue.IsZero())
}
