package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"temo/internal/cart"
	"temo/internal/domain"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrMissingCustomer = errors.New("customer name and phone are required")
)

// OrderWriter persists a new order with its items.
type OrderWriter interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
}

type Input struct {
	CustomerName    string `json:"customerName" binding:"required"`
	CustomerPhone   string `json:"customerPhone" binding:"required"`
	CustomerAddress string `json:"customerAddress"`
	Notes           string `json:"notes"`
}

type Service struct {
	orders OrderWriter
	logger *zap.Logger
}

func New(orders OrderWriter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{orders: orders, logger: logger}
}

// Submit turns the cart into a pending order. Only the lines that went into
// the order leave the cart, and only after the order has been written.
func (s *Service) Submit(ctx context.Context, store *cart.Store, in Input) (*domain.Order, error) {
	name := strings.TrimSpace(in.CustomerName)
	phone := strings.TrimSpace(in.CustomerPhone)
	if name == "" || phone == "" {
		return nil, ErrMissingCustomer
	}
	var (
		created *domain.Order
		items   int
	)
	err := store.Checkout(func(snap cart.Snapshot) error {
		if len(snap.Lines) == 0 || snap.TotalItemCount == 0 {
			return ErrEmptyCart
		}
		o := buildOrder(snap, name, phone, in)
		var err error
		created, err = s.orders.Create(ctx, o)
		if err != nil {
			s.logger.Error("checkout: create order", zap.Error(err), zap.Int("lines", len(o.Items)))
			return err
		}
		items = snap.TotalItemCount
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("checkout: order placed",
		zap.String("order_id", created.ID),
		zap.String("total", created.TotalAmount.StringFixed(2)),
		zap.Int("items", items))
	return created, nil
}

func buildOrder(snap cart.Snapshot, name, phone string, in Input) domain.Order {
	o := domain.Order{
		CustomerName:    name,
		CustomerPhone:   phone,
		CustomerAddress: strings.TrimSpace(in.CustomerAddress),
		Notes:           strings.TrimSpace(in.Notes),
		Status:          domain.OrderStatusPending,
		TotalAmount:     decimal.NewFromFloat(snap.TotalPrice).Round(2),
		Items:           make([]domain.OrderItem, 0, len(snap.Lines)),
	}
	for _, l := range snap.Lines {
		if l.Quantity <= 0 {
			continue
		}
		o.Items = append(o.Items, domain.OrderItem{
			ProductID:   l.ProductID,
			ProductKind: l.Kind,
			ProductName: l.Name,
			Variant:     l.Variant,
			Quantity:    l.Quantity,
			Price:       decimal.NewFromFloat(l.UnitPrice).Round(2),
		})
	}
	return o
}
