package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"temo/internal/db"
	"temo/internal/domain"
)

// layout describes how one kind is stored. Food carries ingredients and a
// preparation time, drinks carry a size; the select list fills the missing
// columns with zero values so both scan into domain.Product the same way.
type layout struct {
	table      string
	categories string
	selectCols string
	writeCols  []string
	writeArgs  func(p domain.Product) []any
}

var layouts = map[domain.Kind]layout{
	domain.KindFood: {
		table:      "menu_items",
		categories: "categories",
		selectCols: `p.ingredients_ar, p.ingredients_en, p.preparation_time, ''`,
		writeCols:  []string{"ingredients_ar", "ingredients_en", "preparation_time"},
		writeArgs: func(p domain.Product) []any {
			return []any{p.IngredientsAr, p.IngredientsEn, p.PreparationTime}
		},
	},
	domain.KindDrink: {
		table:      "drinks",
		categories: "drink_categories",
		selectCols: `'', '', 0, p.size`,
		writeCols:  []string{"size"},
		writeArgs: func(p domain.Product) []any {
			return []any{p.Size}
		},
	},
}

func layoutFor(kind domain.Kind) (layout, error) {
	l, ok := layouts[kind]
	if !ok {
		return layout{}, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidInput, kind)
	}
	return l, nil
}

var baseWriteCols = []string{"category_id", "name_ar", "description_ar", "price", "is_available", "is_featured", "display_order", "image_url"}

func baseWriteArgs(p domain.Product) []any {
	return []any{nullable(p.CategoryID), p.NameAr, p.DescriptionAr, p.Price, p.IsAvailable, p.IsFeatured, p.DisplayOrder, p.ImageURL}
}

func (l layout) selectFrom() string {
	return fmt.Sprintf(`
SELECT p.id::text, COALESCE(p.category_id::text, ''), COALESCE(c.name_ar, ''), p.name_ar, p.description_ar,
       p.price, p.is_available, p.is_featured, p.display_order, p.image_url,
       %s, p.created_at, p.updated_at
FROM %s p
LEFT JOIN %s c ON c.id = p.category_id
`, l.selectCols, l.table, l.categories)
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

func (r *postgresRepo) List(ctx context.Context, kind domain.Kind, filter domain.ProductFilter) ([]domain.Product, error) {
	l, err := layoutFor(kind)
	if err != nil {
		return nil, err
	}
	var (
		where []string
		args  []any
	)
	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		where = append(where, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if filter.AvailableOnly {
		where = append(where, "p.is_available")
	}
	if filter.FeaturedOnly {
		where = append(where, "p.is_featured")
	}

	var sb strings.Builder
	sb.WriteString(l.selectFrom())
	if len(where) > 0 {
		sb.WriteString("WHERE " + strings.Join(where, " AND ") + "\n")
	}
	sb.WriteString("ORDER BY p.display_order ASC, p.name_ar ASC\n")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&sb, "LIMIT $%d\n", len(args))
	}

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		r.logger.Error("product repo: list", zap.String("kind", string(kind)), zap.Error(err))
		return nil, db.MapError(err)
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows, kind)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.logger.Debug("product repo: list", zap.String("kind", string(kind)), zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) Get(ctx context.Context, kind domain.Kind, id string) (*domain.Product, error) {
	l, err := layoutFor(kind)
	if err != nil {
		return nil, err
	}
	p, err := scanProduct(r.pool.QueryRow(ctx, l.selectFrom()+"WHERE p.id = $1", id), kind)
	if err != nil {
		return nil, db.MapError(err)
	}
	return p, nil
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	l, err := layoutFor(p.Kind)
	if err != nil {
		return nil, err
	}
	cols := append(append([]string{}, baseWriteCols...), l.writeCols...)
	args := append(baseWriteArgs(p), l.writeArgs(p)...)
	q := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING id::text`, l.table, strings.Join(cols, ", "), placeholders(1, len(cols)))

	var id string
	if err := r.pool.QueryRow(ctx, q, args...).Scan(&id); err != nil {
		r.logger.Warn("product repo: create", zap.String("kind", string(p.Kind)), zap.String("name", p.NameAr), zap.Error(err))
		return nil, db.MapError(err)
	}
	return r.Get(ctx, p.Kind, id)
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	l, err := layoutFor(p.Kind)
	if err != nil {
		return nil, err
	}
	cols := append(append([]string{}, baseWriteCols...), l.writeCols...)
	args := append([]any{p.ID}, append(baseWriteArgs(p), l.writeArgs(p)...)...)
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", c, i+2)
	}
	q := fmt.Sprintf(`UPDATE %s SET %s, updated_at = now() WHERE id = $1`, l.table, strings.Join(sets, ", "))

	tag, err := r.pool.Exec(ctx, q, args...)
	if err != nil {
		return nil, db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	return r.Get(ctx, p.Kind, p.ID)
}

func (r *postgresRepo) SetImage(ctx context.Context, kind domain.Kind, id, imageURL string) error {
	l, err := layoutFor(kind)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, fmt.Sprintf(`UPDATE %s SET image_url = $2, updated_at = now() WHERE id = $1`, l.table), id, imageURL)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, kind domain.Kind, id string) error {
	l, err := layoutFor(kind)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, l.table), id)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpsertByName inserts the product or overwrites the one with the same name.
// An empty image URL keeps the stored image.
func (r *postgresRepo) UpsertByName(ctx context.Context, p domain.Product) (*domain.Product, error) {
	l, err := layoutFor(p.Kind)
	if err != nil {
		return nil, err
	}
	cols := append(append([]string{}, baseWriteCols...), l.writeCols...)
	args := append(baseWriteArgs(p), l.writeArgs(p)...)
	var sets []string
	for _, c := range cols {
		switch c {
		case "name_ar":
			continue
		case "image_url":
			sets = append(sets, fmt.Sprintf("image_url = COALESCE(NULLIF(EXCLUDED.image_url, ''), %s.image_url)", l.table))
		default:
			sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
		}
	}
	q := fmt.Sprintf(`
INSERT INTO %s (%s) VALUES (%s)
ON CONFLICT (name_ar) DO UPDATE
SET %s, updated_at = now()
RETURNING id::text
`, l.table, strings.Join(cols, ", "), placeholders(1, len(cols)), strings.Join(sets, ", "))

	var id string
	if err := r.pool.QueryRow(ctx, q, args...).Scan(&id); err != nil {
		return nil, db.MapError(err)
	}
	return r.Get(ctx, p.Kind, id)
}

func (r *postgresRepo) Count(ctx context.Context, kind domain.Kind) (int, error) {
	l, err := layoutFor(kind)
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, l.table)).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanProduct(row pgx.Row, kind domain.Kind) (*domain.Product, error) {
	p := domain.Product{Kind: kind}
	err := row.Scan(
		&p.ID, &p.CategoryID, &p.CategoryName, &p.NameAr, &p.DescriptionAr,
		&p.Price, &p.IsAvailable, &p.IsFeatured, &p.DisplayOrder, &p.ImageURL,
		&p.IngredientsAr, &p.IngredientsEn, &p.PreparationTime, &p.Size,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func placeholders(from, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(parts, ", ")
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
