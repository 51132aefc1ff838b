package report

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"temo/internal/domain"
	categoryrepo "temo/internal/repository/category"
	orderrepo "temo/internal/repository/order"
	productrepo "temo/internal/repository/product"
)

type stubOrders struct {
	orderrepo.Repository
	since time.Time
	err   error
}

func (s *stubOrders) Count(context.Context) (int, error) { return 12, s.err }
func (s *stubOrders) DeliveredRevenue(context.Context) (domain.OrderSummary, error) {
	return domain.OrderSummary{Revenue: decimal.RequireFromString("450.50")}, nil
}
func (s *stubOrders) Summary(_ context.Context, since time.Time) (domain.OrderSummary, error) {
	s.since = since
	return domain.OrderSummary{Revenue: decimal.RequireFromString("100"), TotalOrders: 3, UniqueCustomers: 2}, nil
}
func (s *stubOrders) PopularProducts(_ context.Context, _ time.Time, limit int) ([]domain.ProductSales, error) {
	return []domain.ProductSales{{Name: "برجر", Kind: domain.KindFood, TotalQuantity: limit, TotalRevenue: decimal.NewFromInt(60)}}, nil
}
func (s *stubOrders) CountByStatus(context.Context, time.Time) ([]domain.StatusCount, error) {
	return []domain.StatusCount{{Status: domain.OrderStatusDelivered, Count: 2}, {Status: domain.OrderStatusPending, Count: 1}}, nil
}
func (s *stubOrders) RevenueByDay(context.Context, time.Time) ([]domain.DayRevenue, error) {
	return []domain.DayRevenue{{Day: "2025-06-01", Revenue: decimal.NewFromInt(100)}}, nil
}

type stubProducts struct {
	productrepo.Repository
}

func (stubProducts) Count(_ context.Context, kind domain.Kind) (int, error) {
	if kind == domain.KindDrink {
		return 4, nil
	}
	return 9, nil
}

type stubCategories struct {
	categoryrepo.Repository
}

func (stubCategories) Count(_ context.Context, kind domain.Kind) (int, error) {
	if kind == domain.KindDrink {
		return 2, nil
	}
	return 3, nil
}
func (stubCategories) Stats(_ context.Context, kind domain.Kind, _ time.Time) ([]domain.CategoryStats, error) {
	return []domain.CategoryStats{{CategoryName: "cat-" + string(kind), Kind: kind, ProductCount: 1, TotalOrdered: 5}}, nil
}

var fixedNow = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

func newService(orders *stubOrders) *Service {
	s := New(orders, stubProducts{}, stubCategories{}, nil)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, PeriodMonth, p)

	p, err = ParsePeriod(" Week ")
	require.NoError(t, err)
	assert.Equal(t, PeriodWeek, p)
	assert.Equal(t, 7, p.Days())
	assert.Equal(t, 365, PeriodYear.Days())

	_, err = ParsePeriod("decade")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDashboard(t *testing.T) {
	d, err := newService(&stubOrders{}).Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, d.TotalOrders)
	assert.Equal(t, 9, d.TotalMenuItems)
	assert.Equal(t, 4, d.TotalDrinks)
	assert.Equal(t, 3, d.TotalCategories)
	assert.Equal(t, 2, d.TotalDrinkCategories)
	assert.Equal(t, "450.50", d.TotalRevenue.StringFixed(2))
}

func TestDashboard_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := newService(&stubOrders{err: boom}).Dashboard(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestBuild(t *testing.T) {
	orders := &stubOrders{}
	r, err := newService(orders).Build(context.Background(), PeriodWeek)
	require.NoError(t, err)

	assert.Equal(t, fixedNow.AddDate(0, 0, -7), orders.since)
	assert.Equal(t, 3, r.TotalOrders)
	assert.Equal(t, 2, r.TotalCustomers)
	assert.Equal(t, "33.33", r.AverageOrderValue.StringFixed(2))
	require.Len(t, r.PopularProducts, 1)
	assert.Equal(t, topProducts, r.PopularProducts[0].TotalQuantity)
	assert.Len(t, r.OrdersByStatus, 2)
	require.Len(t, r.CategoryStats, 2)
	assert.Equal(t, domain.KindFood, r.CategoryStats[0].Kind)
	assert.Equal(t, domain.KindDrink, r.CategoryStats[1].Kind)
}

func TestWriteXLSX(t *testing.T) {
	r, err := newService(&stubOrders{}).Build(context.Background(), PeriodMonth)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.WriteXLSX(&buf))
	assert.Equal(t, "report-month-2025-05-31.xlsx", r.Filename())

	book, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, book.Sheets, 5)
	assert.Equal(t, "Summary", book.Sheets[0].Name)
	assert.Equal(t, "Total revenue", book.Sheets[0].Rows[2].Cells[0].String())
	assert.Equal(t, "100.00", book.Sheets[0].Rows[2].Cells[1].String())

	statuses := book.Sheets[2]
	require.Len(t, statuses.Rows, 3)
	assert.Equal(t, "تم التسليم", statuses.Rows[1].Cells[1].String())
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "ملغي", StatusLabel(domain.OrderStatusCancelled))
	assert.Equal(t, "weird", StatusLabel(domain.OrderStatus("weird")))
}
