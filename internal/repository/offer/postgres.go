package offer

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"temo/internal/db"
	"temo/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const columns = `id::text, title_ar, description_ar, discount_percentage, start_date, end_date, is_active, image_url, created_at, updated_at`

func (r *postgresRepo) List(ctx context.Context, opts ListOptions) ([]domain.Offer, error) {
	const q = `
SELECT ` + columns + `
FROM offers
WHERE ($1 = false OR is_active)
  AND ($2::timestamptz IS NULL OR ($2 BETWEEN start_date AND end_date))
ORDER BY created_at DESC
LIMIT NULLIF($3, 0)
`
	var at any
	if !opts.ActiveAt.IsZero() {
		at = opts.ActiveAt
	}
	rows, err := r.pool.Query(ctx, q, opts.ActiveOnly, at, opts.Limit)
	if err != nil {
		r.logger.Error("offer repo: list", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	return result, rows.Err()
}

func (r *postgresRepo) Get(ctx context.Context, id string) (*domain.Offer, error) {
	o, err := scanOffer(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM offers WHERE id = $1`, id))
	if err != nil {
		return nil, db.MapError(err)
	}
	return o, nil
}

func (r *postgresRepo) Create(ctx context.Context, o domain.Offer) (*domain.Offer, error) {
	const q = `
INSERT INTO offers (title_ar, description_ar, discount_percentage, start_date, end_date, is_active, image_url)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + columns
	out, err := scanOffer(r.pool.QueryRow(ctx, q, o.TitleAr, o.DescriptionAr, o.DiscountPercentage, o.StartDate, o.EndDate, o.IsActive, o.ImageURL))
	if err != nil {
		return nil, db.MapError(err)
	}
	return out, nil
}

func (r *postgresRepo) Update(ctx context.Context, o domain.Offer) (*domain.Offer, error) {
	const q = `
UPDATE offers
SET title_ar = $2, description_ar = $3, discount_percentage = $4, start_date = $5, end_date = $6,
    is_active = $7, image_url = $8, updated_at = now()
WHERE id = $1
RETURNING ` + columns
	out, err := scanOffer(r.pool.QueryRow(ctx, q, o.ID, o.TitleAr, o.DescriptionAr, o.DiscountPercentage, o.StartDate, o.EndDate, o.IsActive, o.ImageURL))
	if err != nil {
		return nil, db.MapError(err)
	}
	return out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM offers WHERE id = $1`, id)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanOffer(row pgx.Row) (*domain.Offer, error) {
	var o domain.Offer
	if err := row.Scan(&o.ID, &o.TitleAr, &o.DescriptionAr, &o.DiscountPercentage, &o.StartDate, &o.EndDate, &o.IsActive, &o.ImageURL, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}
