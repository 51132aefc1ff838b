package order

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"temo/internal/domain"
	orderrepo "temo/internal/repository/order"
)

type stubOrders struct {
	orderrepo.Repository
	rows      map[string]domain.Order
	lastQuery orderrepo.Query
}

func (s *stubOrders) Get(_ context.Context, id string) (*domain.Order, error) {
	o, ok := s.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &o, nil
}

func (s *stubOrders) List(_ context.Context, q orderrepo.Query) ([]domain.Order, error) {
	s.lastQuery = q
	return nil, nil
}

func (s *stubOrders) UpdateStatus(_ context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error) {
	o, ok := s.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if o.Status != from {
		return nil, domain.ErrConflict
	}
	o.Status = to
	o.UpdatedAt = time.Now()
	s.rows[id] = o
	return &o, nil
}

func newService(status domain.OrderStatus) (*Service, *stubOrders) {
	repo := &stubOrders{rows: map[string]domain.Order{"o1": {ID: "o1", Status: status}}}
	return New(repo, nil), repo
}

func TestCanTransition(t *testing.T) {
	allowed := [][2]domain.OrderStatus{
		{domain.OrderStatusPending, domain.OrderStatusConfirmed},
		{domain.OrderStatusPending, domain.OrderStatusCancelled},
		{domain.OrderStatusConfirmed, domain.OrderStatusPreparing},
		{domain.OrderStatusConfirmed, domain.OrderStatusCancelled},
		{domain.OrderStatusPreparing, domain.OrderStatusReady},
		{domain.OrderStatusReady, domain.OrderStatusDelivered},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}

	denied := [][2]domain.OrderStatus{
		{domain.OrderStatusPending, domain.OrderStatusDelivered},
		{domain.OrderStatusPreparing, domain.OrderStatusCancelled},
		{domain.OrderStatusDelivered, domain.OrderStatusPending},
		{domain.OrderStatusCancelled, domain.OrderStatusConfirmed},
		{domain.OrderStatusReady, domain.OrderStatusReady},
	}
	for _, tr := range denied {
		assert.False(t, CanTransition(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}
}

func TestUpdateStatus(t *testing.T) {
	s, repo := newService(domain.OrderStatusPending)
	ctx := context.Background()

	o, err := s.UpdateStatus(ctx, "o1", domain.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, o.Status)
	assert.Equal(t, domain.OrderStatusConfirmed, repo.rows["o1"].Status)

	_, err = s.UpdateStatus(ctx, "o1", domain.OrderStatusDelivered)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, domain.OrderStatusConfirmed, repo.rows["o1"].Status)
}

func TestUpdateStatus_Errors(t *testing.T) {
	s, _ := newService(domain.OrderStatusPending)
	ctx := context.Background()

	_, err := s.UpdateStatus(ctx, "o1", domain.OrderStatus("lost"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = s.UpdateStatus(ctx, "missing", domain.OrderStatusConfirmed)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_NormalisesQuery(t *testing.T) {
	s, repo := newService(domain.OrderStatusPending)
	ctx := context.Background()

	_, err := s.List(ctx, orderrepo.Query{Search: "  050 ", Limit: 1000, Offset: -3})
	require.NoError(t, err)
	assert.Equal(t, orderrepo.Query{Search: "050", Limit: defaultPageSize}, repo.lastQuery)

	_, err = s.List(ctx, orderrepo.Query{Status: "bogus"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
