package product

import (
	"context"

	"temo/internal/domain"
)

// Repository stores menu items (food) and drinks.
type Repository interface {
	List(ctx context.Context, kind domain.Kind, filter domain.ProductFilter) ([]domain.Product, error)
	Get(ctx context.Context, kind domain.Kind, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	SetImage(ctx context.Context, kind domain.Kind, id, imageURL string) error
	Delete(ctx context.Context, kind domain.Kind, id string) error
	UpsertByName(ctx context.Context, p domain.Product) (*domain.Product, error)
	Count(ctx context.Context, kind domain.Kind) (int, error)
}
