package order

import (
	"context"
	"time"

	"temo/internal/domain"
)

// Query filters the admin order list. Search matches customer name, phone,
// or an id prefix.
type Query struct {
	Search string
	Status domain.OrderStatus
	Limit  int
	Offset int
}

type Repository interface {
	// Create writes the order and its items in one transaction.
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	List(ctx context.Context, q Query) ([]domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	// UpdateStatus moves the order from one status to another. It returns
	// domain.ErrConflict when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error)
	Count(ctx context.Context) (int, error)

	// Report aggregates; only delivered orders count as revenue.
	Summary(ctx context.Context, since time.Time) (domain.OrderSummary, error)
	DeliveredRevenue(ctx context.Context) (domain.OrderSummary, error)
	PopularProducts(ctx context.Context, since time.Time, limit int) ([]domain.ProductSales, error)
	CountByStatus(ctx context.Context, since time.Time) ([]domain.StatusCount, error)
	RevenueByDay(ctx context.Context, since time.Time) ([]domain.DayRevenue, error)
}
