package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"temo/internal/domain"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"no rows", pgx.ErrNoRows, domain.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("get: %w", pgx.ErrNoRows), domain.ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505", ConstraintName: "menu_items_name_ar_key"}, domain.ErrAlreadyExists},
		{"foreign key", &pgconn.PgError{Code: "23503"}, domain.ErrConflict},
		{"check", &pgconn.PgError{Code: "23514"}, domain.ErrInvalidInput},
		{"bad uuid", &pgconn.PgError{Code: "22P02"}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, MapError(tc.in), tc.want)
		})
	}

	assert.NoError(t, MapError(nil))
	other := errors.New("boom")
	assert.Equal(t, other, MapError(other))
}
