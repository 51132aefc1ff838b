package admin

import (
	"context"

	"temo/internal/domain"
)

type Repository interface {
	GetActiveByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
	Upsert(ctx context.Context, u domain.AdminUser) (*domain.AdminUser, error)
}
