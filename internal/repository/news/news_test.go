package news

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"temo/internal/dbtest"
	"temo/internal/domain"
)

func TestPostgres_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(dbtest.Pool(t), nil)
	now := time.Now().UTC()

	_, err := repo.Create(ctx, domain.News{TitleAr: "قديم", ContentAr: "x", PublishedDate: now.Add(-48 * time.Hour), IsActive: true})
	require.NoError(t, err)
	_, err = repo.Create(ctx, domain.News{TitleAr: "جديد", ContentAr: "y", PublishedDate: now, IsActive: true})
	require.NoError(t, err)
	hidden, err := repo.Create(ctx, domain.News{TitleAr: "مخفي", ContentAr: "z", PublishedDate: now.Add(time.Hour), IsActive: false})
	require.NoError(t, err)

	active, err := repo.List(ctx, true, 0)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "جديد", active[0].TitleAr)
	assert.Equal(t, "قديم", active[1].TitleAr)

	all, err := repo.List(ctx, false, 1)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, hidden.ID, all[0].ID)

	hidden.IsActive = true
	_, err = repo.Update(ctx, *hidden)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, hidden.ID))
	assert.ErrorIs(t, repo.Delete(ctx, hidden.ID), domain.ErrNotFound)
}
