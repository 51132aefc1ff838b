package category

import (
	"context"
	"time"

	"temo/internal/domain"
)

// Repository stores food categories and drink categories. Every call is
// scoped to one kind because the two live in separate tables.
type Repository interface {
	List(ctx context.Context, kind domain.Kind, activeOnly bool) ([]domain.Category, error)
	Get(ctx context.Context, kind domain.Kind, id string) (*domain.Category, error)
	Create(ctx context.Context, c domain.Category) (*domain.Category, error)
	Update(ctx context.Context, c domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, kind domain.Kind, id string) error
	UpsertByName(ctx context.Context, c domain.Category) (*domain.Category, error)
	Count(ctx context.Context, kind domain.Kind) (int, error)
	// Stats counts products per category and the units of those products
	// ordered since the cut-off.
	Stats(ctx context.Context, kind domain.Kind, since time.Time) ([]domain.CategoryStats, error)
}
