package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"temo/internal/domain"
	orderrepo "temo/internal/repository/order"
)

var ErrInvalidTransition = errors.New("invalid status transition")

const defaultPageSize = 50

// transitions lists the statuses each status may move to.
var transitions = map[domain.OrderStatus][]domain.OrderStatus{
	domain.OrderStatusPending:   {domain.OrderStatusConfirmed, domain.OrderStatusCancelled},
	domain.OrderStatusConfirmed: {domain.OrderStatusPreparing, domain.OrderStatusCancelled},
	domain.OrderStatusPreparing: {domain.OrderStatusReady},
	domain.OrderStatusReady:     {domain.OrderStatusDelivered},
}

// CanTransition reports whether an order in from may move to to.
func CanTransition(from, to domain.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Service struct {
	orders orderrepo.Repository
	logger *zap.Logger
}

func New(orders orderrepo.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{orders: orders, logger: logger}
}

func (s *Service) List(ctx context.Context, q orderrepo.Query) ([]domain.Order, error) {
	q.Search = strings.TrimSpace(q.Search)
	if q.Status != "" && !q.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, q.Status)
	}
	if q.Limit <= 0 || q.Limit > 200 {
		q.Limit = defaultPageSize
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return s.orders.List(ctx, q)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.Get(ctx, id)
}

// UpdateStatus moves the order to next if the transition table allows it.
func (s *Service) UpdateStatus(ctx context.Context, id string, next domain.OrderStatus) (*domain.Order, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, next)
	}
	current, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(current.Status, next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, next)
	}
	updated, err := s.orders.UpdateStatus(ctx, id, current.Status, next)
	if err != nil {
		return nil, err
	}
	s.logger.Info("order: status changed",
		zap.String("order_id", id),
		zap.String("from", string(current.Status)),
		zap.String("to", string(next)))
	return updated, nil
}
