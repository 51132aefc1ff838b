package news

import (
	"context"

	"temo/internal/domain"
)

type Repository interface {
	List(ctx context.Context, activeOnly bool, limit int) ([]domain.News, error)
	Get(ctx context.Context, id string) (*domain.News, error)
	Create(ctx context.Context, n domain.News) (*domain.News, error)
	Update(ctx context.Context, n domain.News) (*domain.News, error)
	Delete(ctx context.Context, id string) error
}
