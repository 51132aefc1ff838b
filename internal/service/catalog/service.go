package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"temo/internal/cache"
	"temo/internal/cart"
	"temo/internal/domain"
	categoryrepo "temo/internal/repository/category"
	newsrepo "temo/internal/repository/news"
	offerrepo "temo/internal/repository/offer"
	productrepo "temo/internal/repository/product"
)

const (
	homeOfferLimit    = 3
	homeFeaturedLimit = 4
	homeNewsLimit     = 3
)

// ErrUnavailable is returned when a product exists but cannot be ordered.
var ErrUnavailable = errors.New("product unavailable")

// Home is the landing screen payload.
type Home struct {
	Offers     []domain.Offer    `json:"offers"`
	Featured   []domain.Product  `json:"featured"`
	Categories []domain.Category `json:"categories"`
	LatestNews []domain.News     `json:"latestNews"`
}

// Menu lists the orderable products of one kind with their categories.
type Menu struct {
	Kind       domain.Kind       `json:"kind"`
	Categories []domain.Category `json:"categories"`
	Products   []domain.Product  `json:"products"`
}

// Events combines announcements and running offers.
type Events struct {
	News   []domain.News  `json:"news"`
	Offers []domain.Offer `json:"offers"`
}

// Service serves the public storefront. Reads go through the catalog cache;
// concurrent misses for the same key share one database round trip.
type Service struct {
	categories categoryrepo.Repository
	products   productrepo.Repository
	offers     offerrepo.Repository
	news       newsrepo.Repository
	cache      cache.CatalogCache
	sfg        singleflight.Group
	logger     *zap.Logger
}

func New(
	categories categoryrepo.Repository,
	products productrepo.Repository,
	offers offerrepo.Repository,
	news newsrepo.Repository,
	c cache.CatalogCache,
	logger *zap.Logger,
) *Service {
	if c == nil {
		c = cache.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		categories: categories,
		products:   products,
		offers:     offers,
		news:       news,
		cache:      c,
		logger:     logger,
	}
}

func (s *Service) Home(ctx context.Context) (*Home, error) {
	return cached(ctx, s, "home", func(ctx context.Context) (*Home, error) {
		offers, err := s.offers.List(ctx, offerrepo.ListOptions{ActiveOnly: true, Limit: homeOfferLimit})
		if err != nil {
			return nil, fmt.Errorf("list offers: %w", err)
		}
		featured, err := s.products.List(ctx, domain.KindFood, domain.ProductFilter{AvailableOnly: true, FeaturedOnly: true, Limit: homeFeaturedLimit})
		if err != nil {
			return nil, fmt.Errorf("list featured: %w", err)
		}
		categories, err := s.categories.List(ctx, domain.KindFood, true)
		if err != nil {
			return nil, fmt.Errorf("list categories: %w", err)
		}
		latest, err := s.news.List(ctx, true, homeNewsLimit)
		if err != nil {
			return nil, fmt.Errorf("list news: %w", err)
		}
		return &Home{Offers: offers, Featured: featured, Categories: categories, LatestNews: latest}, nil
	})
}

func (s *Service) Menu(ctx context.Context, kind domain.Kind) (*Menu, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidInput, kind)
	}
	return cached(ctx, s, "menu:"+string(kind), func(ctx context.Context) (*Menu, error) {
		categories, err := s.categories.List(ctx, kind, true)
		if err != nil {
			return nil, fmt.Errorf("list categories: %w", err)
		}
		products, err := s.products.List(ctx, kind, domain.ProductFilter{AvailableOnly: true})
		if err != nil {
			return nil, fmt.Errorf("list products: %w", err)
		}
		return &Menu{Kind: kind, Categories: categories, Products: products}, nil
	})
}

// Product reads through to the repository; detail views must reflect
// availability changes immediately.
func (s *Service) Product(ctx context.Context, kind domain.Kind, id string) (*domain.Product, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidInput, kind)
	}
	return s.products.Get(ctx, kind, id)
}

// CartItem resolves an orderable product into the cart input shape. The
// price comes from the catalogue, never from the client.
func (s *Service) CartItem(ctx context.Context, kind domain.Kind, id string) (cart.Item, error) {
	p, err := s.Product(ctx, kind, id)
	if err != nil {
		return cart.Item{}, err
	}
	if !p.IsAvailable {
		return cart.Item{}, fmt.Errorf("%w: %s", ErrUnavailable, p.NameAr)
	}
	return cart.ItemFromProduct(*p), nil
}

func (s *Service) News(ctx context.Context) ([]domain.News, error) {
	return cached(ctx, s, "news", func(ctx context.Context) ([]domain.News, error) {
		return s.news.List(ctx, true, 0)
	})
}

func (s *Service) Events(ctx context.Context) (*Events, error) {
	return cached(ctx, s, "events", func(ctx context.Context) (*Events, error) {
		news, err := s.news.List(ctx, true, 0)
		if err != nil {
			return nil, fmt.Errorf("list news: %w", err)
		}
		offers, err := s.offers.List(ctx, offerrepo.ListOptions{ActiveOnly: true})
		if err != nil {
			return nil, fmt.Errorf("list offers: %w", err)
		}
		return &Events{News: news, Offers: offers}, nil
	})
}

// Invalidate drops cached storefront payloads. Failures are logged only;
// entries expire on their own.
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("catalog: cache invalidate failed", zap.Error(err))
	}
}

// cached loads key once for all concurrent callers. The shared load runs
// detached from the first caller's cancellation.
func cached[T any](ctx context.Context, s *Service, key string, load func(context.Context) (T, error)) (T, error) {
	ctx = context.WithoutCancel(ctx)
	v, err, _ := s.sfg.Do(key, func() (any, error) {
		var hit T
		err := s.cache.Get(ctx, key, &hit)
		if err == nil {
			return hit, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("catalog: cache get failed", zap.String("key", key), zap.Error(err))
		}

		fresh, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, key, fresh); err != nil {
			s.logger.Warn("catalog: cache set failed", zap.String("key", key), zap.Error(err))
		}
		return fresh, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
