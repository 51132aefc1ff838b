package category

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"temo/internal/db"
	"temo/internal/domain"
)

type tables struct {
	categories string
	products   string
}

func tablesFor(kind domain.Kind) (tables, error) {
	switch kind {
	case domain.KindFood:
		return tables{categories: "categories", products: "menu_items"}, nil
	case domain.KindDrink:
		return tables{categories: "drink_categories", products: "drinks"}, nil
	}
	return tables{}, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidInput, kind)
}

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

const columns = `id::text, name_ar, description_ar, image_url, display_order, is_active, created_at, updated_at`

func (r *postgresRepo) List(ctx context.Context, kind domain.Kind, activeOnly bool) ([]domain.Category, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`
SELECT %s
FROM %s
WHERE ($1 = false OR is_active)
ORDER BY display_order ASC, name_ar ASC
`, columns, t.categories)
	rows, err := r.pool.Query(ctx, q, activeOnly)
	if err != nil {
		r.logger.Error("category repo: list", zap.String("kind", string(kind)), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows, kind)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Get(ctx context.Context, kind domain.Kind, id string) (*domain.Category, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, columns, t.categories)
	c, err := scanCategory(r.pool.QueryRow(ctx, q, id), kind)
	if err != nil {
		return nil, db.MapError(err)
	}
	return c, nil
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Category) (*domain.Category, error) {
	t, err := tablesFor(c.Kind)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`
INSERT INTO %s (name_ar, description_ar, image_url, display_order, is_active)
VALUES ($1, $2, $3, $4, $5)
RETURNING %s
`, t.categories, columns)
	out, err := scanCategory(r.pool.QueryRow(ctx, q, c.NameAr, c.DescriptionAr, c.ImageURL, c.DisplayOrder, c.IsActive), c.Kind)
	if err != nil {
		return nil, db.MapError(err)
	}
	r.logger.Info("category repo: created", zap.String("kind", string(c.Kind)), zap.String("id", out.ID))
	return out, nil
}

func (r *postgresRepo) Update(ctx context.Context, c domain.Category) (*domain.Category, error) {
	t, err := tablesFor(c.Kind)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`
UPDATE %s
SET name_ar = $2, description_ar = $3, image_url = $4, display_order = $5, is_active = $6, updated_at = now()
WHERE id = $1
RETURNING %s
`, t.categories, columns)
	out, err := scanCategory(r.pool.QueryRow(ctx, q, c.ID, c.NameAr, c.DescriptionAr, c.ImageURL, c.DisplayOrder, c.IsActive), c.Kind)
	if err != nil {
		return nil, db.MapError(err)
	}
	return out, nil
}

// Delete fails with domain.ErrConflict while products still reference the category.
func (r *postgresRepo) Delete(ctx context.Context, kind domain.Kind, id string) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, t.categories), id)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) UpsertByName(ctx context.Context, c domain.Category) (*domain.Category, error) {
	t, err := tablesFor(c.Kind)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`
INSERT INTO %[1]s (name_ar, description_ar, image_url, display_order, is_active)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (name_ar) DO UPDATE
SET description_ar = COALESCE(NULLIF(EXCLUDED.description_ar, ''), %[1]s.description_ar),
    image_url = COALESCE(NULLIF(EXCLUDED.image_url, ''), %[1]s.image_url),
    display_order = EXCLUDED.display_order,
    is_active = EXCLUDED.is_active,
    updated_at = now()
RETURNING %[2]s
`, t.categories, columns)
	out, err := scanCategory(r.pool.QueryRow(ctx, q, c.NameAr, c.DescriptionAr, c.ImageURL, c.DisplayOrder, c.IsActive), c.Kind)
	if err != nil {
		return nil, db.MapError(err)
	}
	return out, nil
}

func (r *postgresRepo) Count(ctx context.Context, kind domain.Kind) (int, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, t.categories)).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *postgresRepo) Stats(ctx context.Context, kind domain.Kind, since time.Time) ([]domain.CategoryStats, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`
SELECT c.name_ar,
       (SELECT COUNT(*) FROM %[2]s p WHERE p.category_id = c.id) AS product_count,
       COALESCE((
           SELECT SUM(oi.quantity)
           FROM order_items oi
           JOIN orders o ON o.id = oi.order_id
           JOIN %[2]s p ON p.id::text = oi.product_id
           WHERE oi.product_kind = $1 AND p.category_id = c.id AND o.created_at >= $2
       ), 0) AS total_ordered
FROM %[1]s c
ORDER BY c.display_order ASC, c.name_ar ASC
`, t.categories, t.products)
	rows, err := r.pool.Query(ctx, q, string(kind), since)
	if err != nil {
		r.logger.Error("category repo: stats", zap.String("kind", string(kind)), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.CategoryStats
	for rows.Next() {
		s := domain.CategoryStats{Kind: kind}
		if err := rows.Scan(&s.CategoryName, &s.ProductCount, &s.TotalOrdered); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func scanCategory(row pgx.Row, kind domain.Kind) (*domain.Category, error) {
	c := domain.Category{Kind: kind}
	if err := row.Scan(&c.ID, &c.NameAr, &c.DescriptionAr, &c.ImageURL, &c.DisplayOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
