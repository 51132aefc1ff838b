package seed

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"temo/internal/domain"
	adminrepo "temo/internal/repository/admin"
	categoryrepo "temo/internal/repository/category"
	newsrepo "temo/internal/repository/news"
	offerrepo "temo/internal/repository/offer"
	productrepo "temo/internal/repository/product"
)

//go:embed menu.yaml
var defaultCatalogue []byte

// Catalogue is the YAML shape of the demo data.
type Catalogue struct {
	Categories []categorySeed `yaml:"categories"`
	Offers     []offerSeed    `yaml:"offers"`
	News       []newsSeed     `yaml:"news"`
}

type categorySeed struct {
	Kind        string     `yaml:"kind"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Order       int        `yaml:"order"`
	Items       []itemSeed `yaml:"items"`
}

// Price is left untyped so both 9.5 and "9.50" decode.
type itemSeed struct {
	Name            string `yaml:"name"`
	Description     string `yaml:"description"`
	Price           any    `yaml:"price"`
	Featured        bool   `yaml:"featured"`
	IngredientsAr   string `yaml:"ingredients_ar"`
	IngredientsEn   string `yaml:"ingredients_en"`
	PreparationTime int    `yaml:"preparation_time"`
	Size            string `yaml:"size"`
}

type offerSeed struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Discount    int    `yaml:"discount"`
	Days        int    `yaml:"days"`
}

type newsSeed struct {
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

// Admin is the back-office account the seed makes sure exists.
type Admin struct {
	Email    string
	Password string
}

type Repos struct {
	Admins     adminrepo.Repository
	Categories categoryrepo.Repository
	Products   productrepo.Repository
	Offers     offerrepo.Repository
	News       newsrepo.Repository
}

// Parse decodes a catalogue and checks every price.
func Parse(data []byte) (*Catalogue, error) {
	var c Catalogue
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalogue: %w", err)
	}
	for _, cat := range c.Categories {
		if _, ok := domain.ParseKind(cat.Kind); !ok {
			return nil, fmt.Errorf("category %q: unknown kind %q", cat.Name, cat.Kind)
		}
		for _, it := range cat.Items {
			if _, err := price(it.Price); err != nil {
				return nil, fmt.Errorf("item %q: %w", it.Name, err)
			}
		}
	}
	return &c, nil
}

// Default returns the embedded demo catalogue.
func Default() (*Catalogue, error) {
	return Parse(defaultCatalogue)
}

// Apply upserts the catalogue and the admin account. Categories and
// products are matched by name, so running it twice changes nothing.
// Offers and news are only added to empty tables.
func Apply(ctx context.Context, repos Repos, cat *Catalogue, admin Admin, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if admin.Email != "" {
		if err := ensureAdmin(ctx, repos.Admins, admin); err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
		logger.Info("admin ensured", zap.String("email", admin.Email))
	}

	products := 0
	for _, cs := range cat.Categories {
		kind, _ := domain.ParseKind(cs.Kind)
		c, err := repos.Categories.UpsertByName(ctx, domain.Category{
			Kind:          kind,
			NameAr:        cs.Name,
			DescriptionAr: cs.Description,
			DisplayOrder:  cs.Order,
			IsActive:      true,
		})
		if err != nil {
			return fmt.Errorf("upsert category %s: %w", cs.Name, err)
		}
		for i, it := range cs.Items {
			p, err := productFromSeed(kind, c.ID, i+1, it)
			if err != nil {
				return err
			}
			if _, err := repos.Products.UpsertByName(ctx, p); err != nil {
				return fmt.Errorf("upsert product %s: %w", it.Name, err)
			}
			products++
		}
	}
	logger.Info("catalogue seeded", zap.Int("categories", len(cat.Categories)), zap.Int("products", products))

	if err := seedOffers(ctx, repos.Offers, cat.Offers); err != nil {
		return err
	}
	return seedNews(ctx, repos.News, cat.News)
}

func ensureAdmin(ctx context.Context, repo adminrepo.Repository, admin Admin) error {
	if len(admin.Password) < 8 {
		return fmt.Errorf("%w: admin password must have at least 8 characters", domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = repo.Upsert(ctx, domain.AdminUser{
		Email:        strings.ToLower(strings.TrimSpace(admin.Email)),
		PasswordHash: string(hash),
		Role:         "admin",
		IsActive:     true,
	})
	return err
}

func productFromSeed(kind domain.Kind, categoryID string, order int, it itemSeed) (domain.Product, error) {
	pr, err := price(it.Price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("item %q: %w", it.Name, err)
	}
	p := domain.Product{
		Kind:          kind,
		CategoryID:    categoryID,
		NameAr:        it.Name,
		DescriptionAr: it.Description,
		Price:         pr,
		IsAvailable:   true,
		IsFeatured:    it.Featured,
		DisplayOrder:  order,
	}
	if kind == domain.KindFood {
		p.IngredientsAr = it.IngredientsAr
		p.IngredientsEn = it.IngredientsEn
		p.PreparationTime = it.PreparationTime
	} else {
		p.Size = it.Size
	}
	return p, nil
}

func seedOffers(ctx context.Context, repo offerrepo.Repository, offers []offerSeed) error {
	existing, err := repo.List(ctx, offerrepo.ListOptions{Limit: 1})
	if err != nil {
		return fmt.Errorf("list offers: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	now := time.Now().UTC()
	for _, o := range offers {
		_, err := repo.Create(ctx, domain.Offer{
			TitleAr:            o.Title,
			DescriptionAr:      o.Description,
			DiscountPercentage: o.Discount,
			StartDate:          now,
			EndDate:            now.AddDate(0, 0, o.Days),
			IsActive:           true,
		})
		if err != nil {
			return fmt.Errorf("create offer %s: %w", o.Title, err)
		}
	}
	return nil
}

func seedNews(ctx context.Context, repo newsrepo.Repository, news []newsSeed) error {
	existing, err := repo.List(ctx, false, 1)
	if err != nil {
		return fmt.Errorf("list news: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for _, n := range news {
		_, err := repo.Create(ctx, domain.News{
			TitleAr:       n.Title,
			ContentAr:     n.Content,
			PublishedDate: time.Now().UTC(),
			IsActive:      true,
		})
		if err != nil {
			return fmt.Errorf("create news %s: %w", n.Title, err)
		}
	}
	return nil
}

// price accepts YAML numbers and numeric strings.
func price(v any) (decimal.Decimal, error) {
	s, err := cast.ToStringE(v)
	if err != nil || strings.TrimSpace(s) == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: missing price", domain.ErrInvalidInput)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: invalid price %q", domain.ErrInvalidInput, s)
	}
	return d.Round(2), nil
}
