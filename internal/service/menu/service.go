package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"temo/internal/domain"
	categoryrepo "temo/internal/repository/category"
	productrepo "temo/internal/repository/product"
	"temo/internal/storage"
)

// Invalidator is told when the storefront must stop serving cached data.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// CategoryInput is the editable part of a category.
type CategoryInput struct {
	NameAr        string `json:"nameAr" binding:"required"`
	DescriptionAr string `json:"descriptionAr"`
	DisplayOrder  int    `json:"displayOrder"`
	IsActive      *bool  `json:"isActive"`
}

// ProductInput is the editable part of a menu item or drink. Ingredients and
// preparation time apply to food, Size to drinks; the other kind ignores them.
type ProductInput struct {
	CategoryID      string          `json:"categoryId"`
	NameAr          string          `json:"nameAr" binding:"required"`
	DescriptionAr   string          `json:"descriptionAr"`
	Price           decimal.Decimal `json:"price"`
	IsAvailable     *bool           `json:"isAvailable"`
	IsFeatured      bool            `json:"isFeatured"`
	DisplayOrder    int             `json:"displayOrder"`
	IngredientsAr   string          `json:"ingredientsAr"`
	IngredientsEn   string          `json:"ingredientsEn"`
	PreparationTime int             `json:"preparationTime" binding:"gte=0"`
	Size            string          `json:"size"`
}

// Service is the back-office editor for categories, menu items and drinks.
type Service struct {
	categories categoryrepo.Repository
	products   productrepo.Repository
	bucket     storage.Bucket
	catalog    Invalidator
	logger     *zap.Logger
}

func New(categories categoryrepo.Repository, products productrepo.Repository, bucket storage.Bucket, catalog Invalidator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{categories: categories, products: products, bucket: bucket, catalog: catalog, logger: logger}
}

func (s *Service) ListCategories(ctx context.Context, kind domain.Kind) ([]domain.Category, error) {
	if !kind.Valid() {
		return nil, invalidKind(kind)
	}
	return s.categories.List(ctx, kind, false)
}

func (s *Service) CreateCategory(ctx context.Context, kind domain.Kind, in CategoryInput) (*domain.Category, error) {
	c, err := categoryFromInput(kind, in)
	if err != nil {
		return nil, err
	}
	created, err := s.categories.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	s.changed(ctx)
	return created, nil
}

func (s *Service) UpdateCategory(ctx context.Context, kind domain.Kind, id string, in CategoryInput) (*domain.Category, error) {
	c, err := categoryFromInput(kind, in)
	if err != nil {
		return nil, err
	}
	existing, err := s.categories.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	c.ID = existing.ID
	c.ImageURL = existing.ImageURL
	if in.IsActive == nil {
		c.IsActive = existing.IsActive
	}
	updated, err := s.categories.Update(ctx, c)
	if err != nil {
		return nil, err
	}
	s.changed(ctx)
	return updated, nil
}

// DeleteCategory refuses with domain.ErrConflict while products use it.
func (s *Service) DeleteCategory(ctx context.Context, kind domain.Kind, id string) error {
	if !kind.Valid() {
		return invalidKind(kind)
	}
	existing, err := s.categories.Get(ctx, kind, id)
	if err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, kind, id); err != nil {
		return err
	}
	s.removeImage(ctx, existing.ImageURL)
	s.changed(ctx)
	return nil
}

func (s *Service) SetCategoryImage(ctx context.Context, kind domain.Kind, id, filename string, r io.Reader) (*domain.Category, error) {
	if !kind.Valid() {
		return nil, invalidKind(kind)
	}
	existing, err := s.categories.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	obj, err := s.bucket.Upload(ctx, storage.CategoryFolder(kind), filename, r)
	if err != nil {
		return nil, err
	}
	previous := existing.ImageURL
	existing.ImageURL = obj.URL
	updated, err := s.categories.Update(ctx, *existing)
	if err != nil {
		s.removeImage(ctx, obj.URL)
		return nil, err
	}
	s.removeImage(ctx, previous)
	s.changed(ctx)
	return updated, nil
}

func (s *Service) ListProducts(ctx context.Context, kind domain.Kind, filter domain.ProductFilter) ([]domain.Product, error) {
	if !kind.Valid() {
		return nil, invalidKind(kind)
	}
	return s.products.List(ctx, kind, filter)
}

func (s *Service) GetProduct(ctx context.Context, kind domain.Kind, id string) (*domain.Product, error) {
	if !kind.Valid() {
		return nil, invalidKind(kind)
	}
	return s.products.Get(ctx, kind, id)
}

func (s *Service) CreateProduct(ctx context.Context, kind domain.Kind, in ProductInput) (*domain.Product, error) {
	p, err := s.productFromInput(ctx, kind, in)
	if err != nil {
		return nil, err
	}
	if in.IsAvailable == nil {
		p.IsAvailable = true
	}
	created, err := s.products.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.changed(ctx)
	return created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, kind domain.Kind, id string, in ProductInput) (*domain.Product, error) {
	p, err := s.productFromInput(ctx, kind, in)
	if err != nil {
		return nil, err
	}
	existing, err := s.products.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	p.ID = existing.ID
	p.ImageURL = existing.ImageURL
	if in.IsAvailable == nil {
		p.IsAvailable = existing.IsAvailable
	}
	updated, err := s.products.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	s.changed(ctx)
	return updated, nil
}

// DeleteProduct removes the row and then its image. A failed image delete
// leaves an orphaned object behind but does not fail the call.
func (s *Service) DeleteProduct(ctx context.Context, kind domain.Kind, id string) error {
	if !kind.Valid() {
		return invalidKind(kind)
	}
	existing, err := s.products.Get(ctx, kind, id)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, kind, id); err != nil {
		return err
	}
	s.removeImage(ctx, existing.ImageURL)
	s.changed(ctx)
	return nil
}

// SetProductImage uploads a new image, points the product at it, and then
// deletes the image it replaced.
func (s *Service) SetProductImage(ctx context.Context, kind domain.Kind, id, filename string, r io.Reader) (*domain.Product, error) {
	if !kind.Valid() {
		return nil, invalidKind(kind)
	}
	existing, err := s.products.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	obj, err := s.bucket.Upload(ctx, storage.ProductFolder(kind), filename, r)
	if err != nil {
		return nil, err
	}
	if err := s.products.SetImage(ctx, kind, id, obj.URL); err != nil {
		s.removeImage(ctx, obj.URL)
		return nil, err
	}
	s.removeImage(ctx, existing.ImageURL)
	s.changed(ctx)

	existing.ImageURL = obj.URL
	return existing, nil
}

func (s *Service) productFromInput(ctx context.Context, kind domain.Kind, in ProductInput) (domain.Product, error) {
	if !kind.Valid() {
		return domain.Product{}, invalidKind(kind)
	}
	name := strings.TrimSpace(in.NameAr)
	if name == "" {
		return domain.Product{}, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return domain.Product{}, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	if in.PreparationTime < 0 {
		return domain.Product{}, fmt.Errorf("%w: preparation time must not be negative", domain.ErrInvalidInput)
	}
	categoryID := strings.TrimSpace(in.CategoryID)
	if categoryID != "" {
		if _, err := s.categories.Get(ctx, kind, categoryID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Product{}, fmt.Errorf("%w: unknown category %s", domain.ErrInvalidInput, categoryID)
			}
			return domain.Product{}, err
		}
	}
	p := domain.Product{
		Kind:          kind,
		CategoryID:    categoryID,
		NameAr:        name,
		DescriptionAr: strings.TrimSpace(in.DescriptionAr),
		Price:         in.Price.Round(2),
		IsFeatured:    in.IsFeatured,
		DisplayOrder:  in.DisplayOrder,
	}
	if in.IsAvailable != nil {
		p.IsAvailable = *in.IsAvailable
	}
	switch kind {
	case domain.KindFood:
		p.IngredientsAr = strings.TrimSpace(in.IngredientsAr)
		p.IngredientsEn = strings.TrimSpace(in.IngredientsEn)
		p.PreparationTime = in.PreparationTime
	case domain.KindDrink:
		p.Size = strings.TrimSpace(in.Size)
	}
	return p, nil
}

func categoryFromInput(kind domain.Kind, in CategoryInput) (domain.Category, error) {
	if !kind.Valid() {
		return domain.Category{}, invalidKind(kind)
	}
	name := strings.TrimSpace(in.NameAr)
	if name == "" {
		return domain.Category{}, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	c := domain.Category{
		Kind:          kind,
		NameAr:        name,
		DescriptionAr: strings.TrimSpace(in.DescriptionAr),
		DisplayOrder:  in.DisplayOrder,
		IsActive:      true,
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	return c, nil
}

func (s *Service) removeImage(ctx context.Context, url string) {
	if url == "" || s.bucket == nil {
		return
	}
	key, ok := s.bucket.KeyFromURL(url)
	if !ok {
		return
	}
	if err := s.bucket.Delete(ctx, key); err != nil {
		s.logger.Warn("menu: image delete failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) changed(ctx context.Context) {
	if s.catalog != nil {
		s.catalog.Invalidate(ctx)
	}
}

func invalidKind(kind domain.Kind) error {
	return fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidInput, kind)
}
