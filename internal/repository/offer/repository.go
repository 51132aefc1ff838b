package offer

import (
	"context"
	"time"

	"temo/internal/domain"
)

// ListOptions narrows offer listings. A zero ActiveAt disables the date
// window check.
type ListOptions struct {
	ActiveOnly bool
	ActiveAt   time.Time
	Limit      int
}

type Repository interface {
	List(ctx context.Context, opts ListOptions) ([]domain.Offer, error)
	Get(ctx context.Context, id string) (*domain.Offer, error)
	Create(ctx context.Context, o domain.Offer) (*domain.Offer, error)
	Update(ctx context.Context, o domain.Offer) (*domain.Offer, error)
	Delete(ctx context.Context, id string) error
}
