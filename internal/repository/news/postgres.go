package news

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

const columns = `id::text, title_ar, content_ar, published_date, is_active, image_url, created_at, updated_at`

// List returns posts newest published first.
func (r *postgresRepo) List(ctx context.Context, activeOnly bool, limit int) ([]domain.News, error) {
	const q = `
SELECT ` + columns + `
FROM news
WHERE ($1 = false OR is_active)
ORDER BY published_date DESC
LIMIT NULLIF($2, 0)
`
	rows, err := r.pool.Query(ctx, q, activeOnly, limit)
	if err != nil {
		r.logger.Error("news repo: list", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.News
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *n)
	}
	return result, rows.Err()
}

func (r *postgresRepo) Get(ctx context.Context, id string) (*domain.News, error) {
	n, err := scanNews(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM news WHERE id = $1`, id))
	if err != nil {
		return nil, db.MapError(err)
	}
	return n, nil
}

func (r *postgresRepo) Create(ctx context.Context, n domain.News) (*domain.News, error) {
	const q = `
INSERT INTO news (title_ar, content_ar, published_date, is_active, image_url)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + columns
	out, err := scanNews(r.pool.QueryRow(ctx, q, n.TitleAr, n.ContentAr, n.PublishedDate, n.IsActive, n.ImageURL))
	if err != nil {
		return nil, db.MapError(err)
	}
	return out, nil
}

func (r *postgresRepo) Update(ctx context.Context, n domain.News) (*domain.News, error) {
	const q = `
UPDATE news
SET title_ar = $2, content_ar = $3, published_date = $4, is_active = $5, image_url = $6, updated_at = now()
WHERE id = $1
RETURNING ` + columns
	out, err := scanNews(r.pool.QueryRow(ctx, q, n.ID, n.TitleAr, n.ContentAr, n.PublishedDate, n.IsActive, n.ImageURL))
	if err != nil {
		return nil, db.MapError(err)
	}
	return out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanNews(row pgx.Row) (*domain.News, error) {
	var n domain.News
	if err := row.Scan(&n.ID, &n.TitleAr, &n.ContentAr, &n.PublishedDate, &n.IsActive, &n.ImageURL, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}
