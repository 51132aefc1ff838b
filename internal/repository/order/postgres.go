package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

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

const orderColumns = `id::text, customer_name, customer_phone, customer_address, total_amount, status, notes, created_at, updated_at`

const itemColumns = `id::text, order_id::text, product_id, product_kind, product_name, variant, quantity, price, created_at`

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	const insertOrder = `
INSERT INTO orders (customer_name, customer_phone, customer_address, total_amount, status, notes)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + orderColumns
	const insertItem = `
INSERT INTO order_items (order_id, product_id, product_kind, product_name, variant, quantity, price)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + itemColumns

	status := o.Status
	if status == "" {
		status = domain.OrderStatusPending
	}

	var out *domain.Order
	err := db.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		created, err := scanOrder(tx.QueryRow(ctx, insertOrder, o.CustomerName, o.CustomerPhone, o.CustomerAddress, o.TotalAmount, string(status), o.Notes))
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		for _, it := range o.Items {
			item, err := scanItem(tx.QueryRow(ctx, insertItem, created.ID, it.ProductID, string(it.ProductKind), it.ProductName, it.Variant, it.Quantity, it.Price))
			if err != nil {
				return fmt.Errorf("insert order item %s: %w", it.ProductID, err)
			}
			created.Items = append(created.Items, *item)
		}
		out = created
		return nil
	})
	if err != nil {
		r.logger.Error("order repo: create", zap.String("phone", o.CustomerPhone), zap.Error(err))
		return nil, db.MapError(err)
	}
	r.logger.Info("order repo: created", zap.String("order_id", out.ID), zap.Int("items", len(out.Items)))
	return out, nil
}

func (r *postgresRepo) List(ctx context.Context, q Query) ([]domain.Order, error) {
	var (
		where []string
		args  []any
	)
	if s := strings.TrimSpace(q.Search); s != "" {
		args = append(args, "%"+s+"%", s+"%")
		where = append(where, fmt.Sprintf("(customer_name ILIKE $%d OR customer_phone ILIKE $%d OR id::text LIKE $%d)", len(args)-1, len(args)-1, len(args)))
	}
	if q.Status != "" {
		args = append(args, string(q.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + orderColumns + "\nFROM orders\n")
	if len(where) > 0 {
		sb.WriteString("WHERE " + strings.Join(where, " AND ") + "\n")
	}
	sb.WriteString("ORDER BY created_at DESC\n")
	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&sb, "LIMIT $%d\n", len(args))
	}
	if q.Offset > 0 {
		args = append(args, q.Offset)
		fmt.Fprintf(&sb, "OFFSET $%d\n", len(args))
	}

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		r.logger.Error("order repo: list", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	return result, rows.Err()
}

func (r *postgresRepo) Get(ctx context.Context, id string) (*domain.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, db.MapError(err)
	}

	rows, err := r.pool.Query(ctx, `SELECT `+itemColumns+` FROM order_items WHERE order_id = $1 ORDER BY created_at ASC, id ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		o.Items = append(o.Items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error) {
	const q = `
UPDATE orders
SET status = $3, updated_at = now()
WHERE id = $1 AND status = $2
RETURNING ` + orderColumns
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id, string(from), string(to)))
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, db.MapError(err)
	}
	// distinguish a missing order from one whose status moved underneath us
	if _, getErr := r.Get(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, fmt.Errorf("%w: order %s is no longer %s", domain.ErrConflict, id, from)
}

func (r *postgresRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *postgresRepo) Summary(ctx context.Context, since time.Time) (domain.OrderSummary, error) {
	const q = `
SELECT COALESCE(SUM(total_amount) FILTER (WHERE status = 'delivered'), 0),
       COUNT(*),
       COUNT(DISTINCT customer_phone)
FROM orders
WHERE created_at >= $1
`
	var s domain.OrderSummary
	if err := r.pool.QueryRow(ctx, q, since).Scan(&s.Revenue, &s.TotalOrders, &s.UniqueCustomers); err != nil {
		return domain.OrderSummary{}, err
	}
	return s, nil
}

func (r *postgresRepo) DeliveredRevenue(ctx context.Context) (domain.OrderSummary, error) {
	return r.Summary(ctx, time.Time{})
}

func (r *postgresRepo) PopularProducts(ctx context.Context, since time.Time, limit int) ([]domain.ProductSales, error) {
	const q = `
SELECT oi.product_name, oi.product_kind, SUM(oi.quantity) AS total_quantity, SUM(oi.quantity * oi.price) AS total_revenue
FROM order_items oi
JOIN orders o ON o.id = oi.order_id
WHERE o.created_at >= $1 AND o.status <> 'cancelled'
GROUP BY oi.product_name, oi.product_kind
ORDER BY total_quantity DESC, oi.product_name ASC
LIMIT NULLIF($2, 0)
`
	rows, err := r.pool.Query(ctx, q, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ProductSales
	for rows.Next() {
		var p domain.ProductSales
		var kind string
		if err := rows.Scan(&p.Name, &kind, &p.TotalQuantity, &p.TotalRevenue); err != nil {
			return nil, err
		}
		p.Kind = domain.Kind(kind)
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *postgresRepo) CountByStatus(ctx context.Context, since time.Time) ([]domain.StatusCount, error) {
	const q = `
SELECT status, COUNT(*)
FROM orders
WHERE created_at >= $1
GROUP BY status
ORDER BY status ASC
`
	rows, err := r.pool.Query(ctx, q, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StatusCount
	for rows.Next() {
		var c domain.StatusCount
		var status string
		if err := rows.Scan(&status, &c.Count); err != nil {
			return nil, err
		}
		c.Status = domain.OrderStatus(status)
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *postgresRepo) RevenueByDay(ctx context.Context, since time.Time) ([]domain.DayRevenue, error) {
	const q = `
SELECT to_char(date_trunc('day', created_at AT TIME ZONE 'UTC'), 'YYYY-MM-DD') AS day, SUM(total_amount)
FROM orders
WHERE created_at >= $1 AND status = 'delivered'
GROUP BY day
ORDER BY day ASC
`
	rows, err := r.pool.Query(ctx, q, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.DayRevenue
	for rows.Next() {
		var d domain.DayRevenue
		if err := rows.Scan(&d.Day, &d.Revenue); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var status string
	if err := row.Scan(&o.ID, &o.CustomerName, &o.CustomerPhone, &o.CustomerAddress, &o.TotalAmount, &status, &o.Notes, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	return &o, nil
}

func scanItem(row pgx.Row) (*domain.OrderItem, error) {
	var it domain.OrderItem
	var kind string
	if err := row.Scan(&it.ID, &it.OrderID, &it.ProductID, &kind, &it.ProductName, &it.Variant, &it.Quantity, &it.Price, &it.CreatedAt); err != nil {
		return nil, err
	}
	it.ProductKind = domain.Kind(kind)
	return &it, nil
}
