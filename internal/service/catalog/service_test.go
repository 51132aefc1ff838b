package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"temo/internal/cache"
	"temo/internal/domain"
	offerrepo "temo/internal/repository/offer"
)

type stubCategories struct {
	byKind map[domain.Kind][]domain.Category
	calls  int
}

func (s *stubCategories) List(_ context.Context, kind domain.Kind, _ bool) ([]domain.Category, error) {
	s.calls++
	return s.byKind[kind], nil
}
func (s *stubCategories) Get(context.Context, domain.Kind, string) (*domain.Category, error) {
	return nil, domain.ErrNotFound
}
func (s *stubCategories) Create(context.Context, domain.Category) (*domain.Category, error) {
	return nil, nil
}
func (s *stubCategories) Update(context.Context, domain.Category) (*domain.Category, error) {
	return nil, nil
}
func (s *stubCategories) Delete(context.Context, domain.Kind, string) error { return nil }
func (s *stubCategories) UpsertByName(context.Context, domain.Category) (*domain.Category, error) {
	return nil, nil
}
func (s *stubCategories) Count(context.Context, domain.Kind) (int, error) { return 0, nil }
func (s *stubCategories) Stats(context.Context, domain.Kind, time.Time) ([]domain.CategoryStats, error) {
	return nil, nil
}

type stubProducts struct {
	items      []domain.Product
	lastFilter domain.ProductFilter
	listCalls  int
	listErr    error
}

func (s *stubProducts) List(ctx context.Context, kind domain.Kind, f domain.ProductFilter) ([]domain.Product, error) {
	s.listCalls++
	s.lastFilter = f
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []domain.Product
	for _, p := range s.items {
		if p.Kind != kind || (f.AvailableOnly && !p.IsAvailable) || (f.FeaturedOnly && !p.IsFeatured) {
			continue
		}
		out = append(out, p)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}
func (s *stubProducts) Get(_ context.Context, kind domain.Kind, id string) (*domain.Product, error) {
	for _, p := range s.items {
		if p.Kind == kind && p.ID == id {
			clone := p
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}
func (s *stubProducts) Create(context.Context, domain.Product) (*domain.Product, error) { return nil, nil }
func (s *stubProducts) Update(context.Context, domain.Product) (*domain.Product, error) { return nil, nil }
func (s *stubProducts) SetImage(context.Context, domain.Kind, string, string) error     { return nil }
func (s *stubProducts) Delete(context.Context, domain.Kind, string) error               { return nil }
func (s *stubProducts) UpsertByName(context.Context, domain.Product) (*domain.Product, error) {
	return nil, nil
}
func (s *stubProducts) Count(context.Context, domain.Kind) (int, error) { return len(s.items), nil }

type stubOffers struct {
	items    []domain.Offer
	lastOpts offerrepo.ListOptions
}

func (s *stubOffers) List(_ context.Context, opts offerrepo.ListOptions) ([]domain.Offer, error) {
	s.lastOpts = opts
	out := s.items
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}
func (s *stubOffers) Get(context.Context, string) (*domain.Offer, error)          { return nil, nil }
func (s *stubOffers) Create(context.Context, domain.Offer) (*domain.Offer, error) { return nil, nil }
func (s *stubOffers) Update(context.Context, domain.Offer) (*domain.Offer, error) { return nil, nil }
func (s *stubOffers) Delete(context.Context, string) error                        { return nil }

type stubNews struct {
	items []domain.News
}

func (s *stubNews) List(_ context.Context, _ bool, limit int) ([]domain.News, error) {
	out := s.items
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
func (s *stubNews) Get(context.Context, string) (*domain.News, error)         { return nil, nil }
func (s *stubNews) Create(context.Context, domain.News) (*domain.News, error) { return nil, nil }
func (s *stubNews) Update(context.Context, domain.News) (*domain.News, error) { return nil, nil }
func (s *stubNews) Delete(context.Context, string) error                      { return nil }

type fixture struct {
	svc        *Service
	categories *stubCategories
	products   *stubProducts
	offers     *stubOffers
	news       *stubNews
}

func newFixture(t *testing.T, c cache.CatalogCache) fixture {
	t.Helper()
	f := fixture{
		categories: &stubCategories{byKind: map[domain.Kind][]domain.Category{
			domain.KindFood:  {{ID: "c1", Kind: domain.KindFood, NameAr: "مشاوي", IsActive: true}},
			domain.KindDrink: {{ID: "d1", Kind: domain.KindDrink, NameAr: "عصائر", IsActive: true}},
		}},
		products: &stubProducts{},
		offers:   &stubOffers{},
		news:     &stubNews{},
	}
	for i, name := range []string{"a", "b", "c", "d", "e"} {
		f.products.items = append(f.products.items, domain.Product{
			ID: name, Kind: domain.KindFood, NameAr: name, Price: decimal.NewFromInt(int64(i + 1)),
			IsAvailable: true, IsFeatured: true,
		})
	}
	f.products.items = append(f.products.items,
		domain.Product{ID: "hidden", Kind: domain.KindFood, NameAr: "hidden", IsAvailable: false, IsFeatured: true},
		domain.Product{ID: "a", Kind: domain.KindDrink, NameAr: "شاي", Price: decimal.RequireFromString("1.5"), IsAvailable: true, Size: "small"},
	)
	for _, title := range []string{"o1", "o2", "o3", "o4"} {
		f.offers.items = append(f.offers.items, domain.Offer{ID: title, TitleAr: title, IsActive: true})
	}
	for _, title := range []string{"n1", "n2", "n3", "n4"} {
		f.news.items = append(f.news.items, domain.News{ID: title, TitleAr: title, IsActive: true})
	}
	f.svc = New(f.categories, f.products, f.offers, f.news, c, nil)
	return f
}

func TestHome_Limits(t *testing.T) {
	f := newFixture(t, nil)
	home, err := f.svc.Home(context.Background())
	require.NoError(t, err)

	assert.Len(t, home.Offers, 3)
	assert.True(t, f.offers.lastOpts.ActiveOnly)
	require.Len(t, home.Featured, 4)
	for _, p := range home.Featured {
		assert.Equal(t, domain.KindFood, p.Kind)
		assert.True(t, p.IsAvailable)
	}
	assert.Len(t, home.Categories, 1)
	assert.Len(t, home.LatestNews, 3)
}

func TestMenu_PerKind(t *testing.T) {
	f := newFixture(t, nil)
	menu, err := f.svc.Menu(context.Background(), domain.KindDrink)
	require.NoError(t, err)
	assert.Equal(t, domain.KindDrink, menu.Kind)
	require.Len(t, menu.Products, 1)
	assert.Equal(t, "شاي", menu.Products[0].NameAr)
	assert.True(t, f.products.lastFilter.AvailableOnly)

	_, err = f.svc.Menu(context.Background(), domain.Kind("dessert"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMenu_UsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	f := newFixture(t, cache.NewRedisCache(client, time.Minute))
	ctx := context.Background()

	first, err := f.svc.Menu(ctx, domain.KindFood)
	require.NoError(t, err)
	second, err := f.svc.Menu(ctx, domain.KindFood)
	require.NoError(t, err)

	assert.Equal(t, 1, f.products.listCalls)
	assert.Equal(t, len(first.Products), len(second.Products))
	assert.True(t, first.Products[0].Price.Equal(second.Products[0].Price))

	f.svc.Invalidate(ctx)
	_, err = f.svc.Menu(ctx, domain.KindFood)
	require.NoError(t, err)
	assert.Equal(t, 2, f.products.listCalls)
}

func TestMenu_SharedLoadIgnoresCallerCancel(t *testing.T) {
	f := newFixture(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	menu, err := f.svc.Menu(ctx, domain.KindFood)
	require.NoError(t, err)
	assert.Len(t, menu.Products, 5)
}

func TestMenu_LoadErrorNotCached(t *testing.T) {
	f := newFixture(t, nil)
	f.products.listErr = errors.New("db down")
	_, err := f.svc.Menu(context.Background(), domain.KindFood)
	require.Error(t, err)

	f.products.listErr = nil
	_, err = f.svc.Menu(context.Background(), domain.KindFood)
	require.NoError(t, err)
}

func TestCartItem(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	it, err := f.svc.CartItem(ctx, domain.KindDrink, "a")
	require.NoError(t, err)
	assert.Equal(t, "شاي", it.Name)
	assert.Equal(t, 1.5, it.UnitPrice)
	assert.Equal(t, "small", it.Variant)

	food, err := f.svc.CartItem(ctx, domain.KindFood, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", food.Name)

	_, err = f.svc.CartItem(ctx, domain.KindFood, "hidden")
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = f.svc.CartItem(ctx, domain.KindFood, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventsAndNews(t *testing.T) {
	f := newFixture(t, nil)
	ev, err := f.svc.Events(context.Background())
	require.NoError(t, err)
	assert.Len(t, ev.News, 4)
	assert.Len(t, ev.Offers, 4)

	news, err := f.svc.News(context.Background())
	require.NoError(t, err)
	assert.Len(t, news, 4)
}
