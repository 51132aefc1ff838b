package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"temo/internal/domain"
	categoryrepo "temo/internal/repository/category"
	orderrepo "temo/internal/repository/order"
	productrepo "temo/internal/repository/product"
)

// Period selects how far back a report looks.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

const topProducts = 5

// ParsePeriod accepts week, month or year; an empty value means month.
func ParsePeriod(raw string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(raw))); p {
	case "":
		return PeriodMonth, nil
	case PeriodWeek, PeriodMonth, PeriodYear:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown period %q", domain.ErrInvalidInput, raw)
	}
}

// Days is the length of the period.
func (p Period) Days() int {
	switch p {
	case PeriodWeek:
		return 7
	case PeriodYear:
		return 365
	default:
		return 30
	}
}

type Dashboard struct {
	TotalOrders          int             `json:"totalOrders"`
	TotalMenuItems       int             `json:"totalMenuItems"`
	TotalDrinks          int             `json:"totalDrinks"`
	TotalCategories      int             `json:"totalCategories"`
	TotalDrinkCategories int             `json:"totalDrinkCategories"`
	TotalRevenue         decimal.Decimal `json:"totalRevenue"`
}

type Report struct {
	Period            Period                 `json:"period"`
	Since             time.Time              `json:"since"`
	TotalRevenue      decimal.Decimal        `json:"totalRevenue"`
	TotalOrders       int                    `json:"totalOrders"`
	TotalCustomers    int                    `json:"totalCustomers"`
	AverageOrderValue decimal.Decimal        `json:"averageOrderValue"`
	PopularProducts   []domain.ProductSales  `json:"popularProducts"`
	OrdersByStatus    []domain.StatusCount   `json:"ordersByStatus"`
	RevenueByDay      []domain.DayRevenue    `json:"revenueByDay"`
	CategoryStats     []domain.CategoryStats `json:"categoryStats"`
}

type Service struct {
	orders     orderrepo.Repository
	products   productrepo.Repository
	categories categoryrepo.Repository
	logger     *zap.Logger
	now        func() time.Time
}

func New(orders orderrepo.Repository, products productrepo.Repository, categories categoryrepo.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{orders: orders, products: products, categories: categories, logger: logger, now: time.Now}
}

// Dashboard returns the all-time counters shown on the admin home screen.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	var (
		d   Dashboard
		err error
	)
	if d.TotalOrders, err = s.orders.Count(ctx); err != nil {
		return Dashboard{}, fmt.Errorf("count orders: %w", err)
	}
	if d.TotalMenuItems, err = s.products.Count(ctx, domain.KindFood); err != nil {
		return Dashboard{}, fmt.Errorf("count menu items: %w", err)
	}
	if d.TotalDrinks, err = s.products.Count(ctx, domain.KindDrink); err != nil {
		return Dashboard{}, fmt.Errorf("count drinks: %w", err)
	}
	if d.TotalCategories, err = s.categories.Count(ctx, domain.KindFood); err != nil {
		return Dashboard{}, fmt.Errorf("count categories: %w", err)
	}
	if d.TotalDrinkCategories, err = s.categories.Count(ctx, domain.KindDrink); err != nil {
		return Dashboard{}, fmt.Errorf("count drink categories: %w", err)
	}
	summary, err := s.orders.DeliveredRevenue(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("revenue: %w", err)
	}
	d.TotalRevenue = summary.Revenue
	return d, nil
}

// Build aggregates orders created within the period.
func (s *Service) Build(ctx context.Context, period Period) (*Report, error) {
	since := s.now().UTC().AddDate(0, 0, -period.Days())
	r := &Report{Period: period, Since: since}

	summary, err := s.orders.Summary(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	r.TotalRevenue = summary.Revenue
	r.TotalOrders = summary.TotalOrders
	r.TotalCustomers = summary.UniqueCustomers
	r.AverageOrderValue = decimal.Zero
	if summary.TotalOrders > 0 {
		r.AverageOrderValue = summary.Revenue.Div(decimal.NewFromInt(int64(summary.TotalOrders))).Round(2)
	}

	if r.PopularProducts, err = s.orders.PopularProducts(ctx, since, topProducts); err != nil {
		return nil, fmt.Errorf("popular products: %w", err)
	}
	if r.OrdersByStatus, err = s.orders.CountByStatus(ctx, since); err != nil {
		return nil, fmt.Errorf("orders by status: %w", err)
	}
	if r.RevenueByDay, err = s.orders.RevenueByDay(ctx, since); err != nil {
		return nil, fmt.Errorf("revenue by day: %w", err)
	}
	for _, kind := range []domain.Kind{domain.KindFood, domain.KindDrink} {
		stats, err := s.categories.Stats(ctx, kind, since)
		if err != nil {
			return nil, fmt.Errorf("%s category stats: %w", kind, err)
		}
		r.CategoryStats = append(r.CategoryStats, stats...)
	}
	s.logger.Debug("report: built", zap.String("period", string(period)), zap.Int("orders", r.TotalOrders))
	return r, nil
}
