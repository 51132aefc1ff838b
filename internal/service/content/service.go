package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	"temo/internal/domain"
	newsrepo "temo/internal/repository/news"
	offerrepo "temo/internal/repository/offer"
)

// Invalidator is told when the storefront must stop serving cached data.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type OfferInput struct {
	TitleAr            string    `json:"titleAr" binding:"required"`
	DescriptionAr      string    `json:"descriptionAr"`
	DiscountPercentage int       `json:"discountPercentage" binding:"gte=0,lte=100"`
	StartDate          time.Time `json:"startDate"`
	EndDate            time.Time `json:"endDate"`
	IsActive           *bool     `json:"isActive"`
	ImageURL           string    `json:"imageUrl"`
}

type NewsInput struct {
	TitleAr       string    `json:"titleAr" binding:"required"`
	ContentAr     string    `json:"contentAr" binding:"required"`
	PublishedDate time.Time `json:"publishedDate"`
	IsActive      *bool     `json:"isActive"`
	ImageURL      string    `json:"imageUrl"`
}

// Service edits offers and news posts.
type Service struct {
	offers  offerrepo.Repository
	news    newsrepo.Repository
	catalog Invalidator
	now     func() time.Time
}

func New(offers offerrepo.Repository, news newsrepo.Repository, catalog Invalidator) *Service {
	return &Service{offers: offers, news: news, catalog: catalog, now: time.Now}
}

func (s *Service) ListOffers(ctx context.Context) ([]domain.Offer, error) {
	return s.offers.List(ctx, offerrepo.ListOptions{})
}

func (s *Service) CreateOffer(ctx context.Context, in OfferInput) (*domain.Offer, error) {
	o, err := s.offerFromInput(in)
	if err != nil {
		return nil, err
	}
	created, err := s.offers.Create(ctx, o)
	if err != nil {
		return nil, err
	}
	s.changed(ctx)
	return created, nil
}

func (s *Service) UpdateOffer(ctx context.Context, id string, in OfferInput) (*domain.Offer, error) {
	o, err := s.offerFromInput(in)
	if err != nil {
		return nil, err
	}
	existing, err := s.offers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	o.ID = existing.ID
	if in.IsActive == nil {
		o.IsActive = existing.IsActive
	}
	if strings.TrimSpace(in.ImageURL) == "" {
		o.ImageURL = existing.ImageURL
	}
	updated, err := s.offers.Update(ctx, o)
	if err != nil {
		return nil, err
	}
	s.changed(ctx)
	return updated, nil
}

func (s *Service) DeleteOffer(ctx context.Context, id string) error {
	if err := s.offers.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx)
	return nil
}

func (s *Service) ListNews(ctx context.Context) ([]domain.News, error) {
	return s.news.List(ctx, false, 0)
}

func (s *Service) CreateNews(ctx context.Context, in NewsInput) (*domain.News, error) {
	n, err := s.newsFromInput(in)
	if err != nil {
		return nil, err
	}
	created, err := s.news.Create(ctx, n)
	if err != nil {
		return nil, err
	}
	s.changed(ctx)
	return created, nil
}

func (s *Service) UpdateNews(ctx context.Context, id string, in NewsInput) (*domain.News, error) {
	n, err := s.newsFromInput(in)
	if err != nil {
		return nil, err
	}
	existing, err := s.news.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	n.ID = existing.ID
	if in.IsActive == nil {
		n.IsActive = existing.IsActive
	}
	if in.PublishedDate.IsZero() {
		n.PublishedDate = existing.PublishedDate
	}
	if strings.TrimSpace(in.ImageURL) == "" {
		n.ImageURL = existing.ImageURL
	}
	updated, err := s.news.Update(ctx, n)
	if err != nil {
		return nil, err
	}
	s.changed(ctx)
	return updated, nil
}

func (s *Service) DeleteNews(ctx context.Context, id string) error {
	if err := s.news.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx)
	return nil
}

// offerFromInput defaults a missing start to now and a missing end to the start.
func (s *Service) offerFromInput(in OfferInput) (domain.Offer, error) {
	title := strings.TrimSpace(in.TitleAr)
	if title == "" {
		return domain.Offer{}, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if in.DiscountPercentage < 0 || in.DiscountPercentage > 100 {
		return domain.Offer{}, fmt.Errorf("%w: discount must be between 0 and 100", domain.ErrInvalidInput)
	}
	start := in.StartDate
	if start.IsZero() {
		start = s.now()
	}
	end := in.EndDate
	if end.IsZero() {
		end = start
	}
	if end.Before(start) {
		return domain.Offer{}, fmt.Errorf("%w: end date before start date", domain.ErrInvalidInput)
	}
	o := domain.Offer{
		TitleAr:            title,
		DescriptionAr:      strings.TrimSpace(in.DescriptionAr),
		DiscountPercentage: in.DiscountPercentage,
		StartDate:          start,
		EndDate:            end,
		IsActive:           true,
		ImageURL:           strings.TrimSpace(in.ImageURL),
	}
	if in.IsActive != nil {
		o.IsActive = *in.IsActive
	}
	return o, nil
}

func (s *Service) newsFromInput(in NewsInput) (domain.News, error) {
	title := strings.TrimSpace(in.TitleAr)
	body := strings.TrimSpace(in.ContentAr)
	if title == "" || body == "" {
		return domain.News{}, fmt.Errorf("%w: title and content are required", domain.ErrInvalidInput)
	}
	published := in.PublishedDate
	if published.IsZero() {
		published = s.now()
	}
	n := domain.News{
		TitleAr:       title,
		ContentAr:     body,
		PublishedDate: published,
		IsActive:      true,
		ImageURL:      strings.TrimSpace(in.ImageURL),
	}
	if in.IsActive != nil {
		n.IsActive = *in.IsActive
	}
	return n, nil
}

func (s *Service) changed(ctx context.Context) {
	if s.catalog != nil {
		s.catalog.Invalidate(ctx)
	}
}
