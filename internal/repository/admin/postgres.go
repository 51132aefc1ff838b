package admin

import (
	"context"
	"strings"

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

// NewPostgres returns a Repository backed by the admin_users table.
func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const adminColumns = `id::text, email, password_hash, name_ar, role, is_active, created_at, updated_at`

func (r *postgresRepo) GetActiveByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	const q = `
SELECT ` + adminColumns + `
FROM admin_users
WHERE email = $1 AND is_active
`
	u, err := scanAdmin(r.pool.QueryRow(ctx, q, strings.ToLower(strings.TrimSpace(email))))
	if err != nil {
		return nil, db.MapError(err)
	}
	return u, nil
}

// Upsert creates the account or refreshes its password, name and role.
func (r *postgresRepo) Upsert(ctx context.Context, u domain.AdminUser) (*domain.AdminUser, error) {
	const q = `
INSERT INTO admin_users (email, password_hash, name_ar, role, is_active)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (email) DO UPDATE
SET password_hash = EXCLUDED.password_hash,
    name_ar = EXCLUDED.name_ar,
    role = EXCLUDED.role,
    is_active = EXCLUDED.is_active,
    updated_at = now()
RETURNING ` + adminColumns
	role := u.Role
	if role == "" {
		role = "admin"
	}
	out, err := scanAdmin(r.pool.QueryRow(ctx, q, strings.ToLower(strings.TrimSpace(u.Email)), u.PasswordHash, u.NameAr, role, u.IsActive))
	if err != nil {
		r.logger.Error("admin repo: upsert", zap.String("email", u.Email), zap.Error(err))
		return nil, db.MapError(err)
	}
	return out, nil
}

func scanAdmin(row pgx.Row) (*domain.AdminUser, error) {
	var u domain.AdminUser
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.NameAr, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
