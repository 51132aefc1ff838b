package httpserver

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"temo/internal/cart"
	"temo/internal/domain"
	orderrepo "temo/internal/repository/order"
	"temo/internal/service/catalog"
	"temo/internal/service/checkout"
	"temo/internal/service/content"
	"temo/internal/service/menu"
	"temo/internal/service/report"
	"temo/internal/session"
)

type CatalogService interface {
	Home(ctx context.Context) (*catalog.Home, error)
	Menu(ctx context.Context, kind domain.Kind) (*catalog.Menu, error)
	Product(ctx context.Context, kind domain.Kind, id string) (*domain.Product, error)
	CartItem(ctx context.Context, kind domain.Kind, id string) (cart.Item, error)
	News(ctx context.Context) ([]domain.News, error)
	Events(ctx context.Context) (*catalog.Events, error)
}

type CheckoutService interface {
	Submit(ctx context.Context, store *cart.Store, in checkout.Input) (*domain.Order, error)
}

type SessionManager interface {
	Login(ctx context.Context, email, password string) (string, domain.AdminIdentity, error)
	Lookup(ctx context.Context, token string) (*session.Guard, bool)
	Logout(token string)
}

type MenuService interface {
	ListCategories(ctx context.Context, kind domain.Kind) ([]domain.Category, error)
	CreateCategory(ctx context.Context, kind domain.Kind, in menu.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, kind domain.Kind, id string, in menu.CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, kind domain.Kind, id string) error
	SetCategoryImage(ctx context.Context, kind domain.Kind, id, filename string, r io.Reader) (*domain.Category, error)
	ListProducts(ctx context.Context, kind domain.Kind, filter domain.ProductFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, kind domain.Kind, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, kind domain.Kind, in menu.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, kind domain.Kind, id string, in menu.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, kind domain.Kind, id string) error
	SetProductImage(ctx context.Context, kind domain.Kind, id, filename string, r io.Reader) (*domain.Product, error)
}

type ContentService interface {
	ListOffers(ctx context.Context) ([]domain.Offer, error)
	CreateOffer(ctx context.Context, in content.OfferInput) (*domain.Offer, error)
	UpdateOffer(ctx context.Context, id string, in content.OfferInput) (*domain.Offer, error)
	DeleteOffer(ctx context.Context, id string) error
	ListNews(ctx context.Context) ([]domain.News, error)
	CreateNews(ctx context.Context, in content.NewsInput) (*domain.News, error)
	UpdateNews(ctx context.Context, id string, in content.NewsInput) (*domain.News, error)
	DeleteNews(ctx context.Context, id string) error
}

type OrderService interface {
	List(ctx context.Context, q orderrepo.Query) ([]domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, next domain.OrderStatus) (*domain.Order, error)
}

type ReportService interface {
	Dashboard(ctx context.Context) (report.Dashboard, error)
	Build(ctx context.Context, period report.Period) (*report.Report, error)
}

// Deps holds the collaborators the handlers call into.
type Deps struct {
	Catalog  CatalogService
	Carts    *cart.Registry
	Checkout CheckoutService
	Sessions SessionManager
	Menu     MenuService
	Content  ContentService
	Orders   OrderService
	Reports  ReportService

	// MediaDir is served under /media when set.
	MediaDir    string
	CORSOrigins []string
}

func (d Deps) validate() error {
	switch {
	case d.Catalog == nil:
		return errors.New("httpserver: catalog service is required")
	case d.Carts == nil:
		return errors.New("httpserver: cart registry is required")
	case d.Checkout == nil:
		return errors.New("httpserver: checkout service is required")
	case d.Sessions == nil:
		return errors.New("httpserver: session manager is required")
	case d.Menu == nil, d.Content == nil, d.Orders == nil, d.Reports == nil:
		return errors.New("httpserver: admin services are required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db Pinger, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.LoggerWithWriter(zap.NewStdLog(logger.Named("access")).Writer()), gin.Recovery())
	router.MaxMultipartMemory = 8 << 20

	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	if deps.MediaDir != "" {
		router.Static("/media", deps.MediaDir)
	}

	h := &handlers{deps: deps, logger: logger}

	router.GET("/home", h.home)
	router.GET("/menu/:kind", h.menu)
	router.GET("/products/:kind/:id", h.product)
	router.GET("/news", h.news)
	router.GET("/events", h.events)

	carts := router.Group("/carts")
	carts.POST("", h.openCart)
	carts.GET("/:cartId", h.getCart)
	carts.POST("/:cartId/items", h.addCartItem)
	carts.PUT("/:cartId/items/:productId", h.updateCartItem)
	carts.DELETE("/:cartId/items/:productId", h.removeCartItem)
	carts.DELETE("/:cartId", h.clearCart)
	carts.POST("/:cartId/checkout", h.checkout)

	router.POST(session.LoginPath, h.adminLogin)

	admin := router.Group(session.AdminPrefix, adminMiddleware(deps.Sessions))
	admin.POST("/logout", h.adminLogout)
	admin.GET("/me", h.adminMe)
	admin.GET("/dashboard", h.dashboard)

	admin.GET("/categories/:kind", h.listCategories)
	admin.POST("/categories/:kind", h.createCategory)
	admin.PUT("/categories/:kind/:id", h.updateCategory)
	admin.DELETE("/categories/:kind/:id", h.deleteCategory)
	admin.POST("/categories/:kind/:id/image", h.uploadCategoryImage)

	admin.GET("/products/:kind", h.listProducts)
	admin.GET("/products/:kind/:id", h.getProduct)
	admin.POST("/products/:kind", h.createProduct)
	admin.PUT("/products/:kind/:id", h.updateProduct)
	admin.DELETE("/products/:kind/:id", h.deleteProduct)
	admin.POST("/products/:kind/:id/image", h.uploadProductImage)

	admin.GET("/offers", h.listOffers)
	admin.POST("/offers", h.createOffer)
	admin.PUT("/offers/:id", h.updateOffer)
	admin.DELETE("/offers/:id", h.deleteOffer)

	admin.GET("/news", h.listNews)
	admin.POST("/news", h.createNews)
	admin.PUT("/news/:id", h.updateNews)
	admin.DELETE("/news/:id", h.deleteNews)

	admin.GET("/orders", h.listOrders)
	admin.GET("/orders/:id", h.getOrder)
	admin.PUT("/orders/:id/status", h.updateOrderStatus)

	admin.GET("/reports", h.report)
	admin.GET("/reports/export", h.exportReport)

	return router, nil
}

type handlers struct {
	deps   Deps
	logger *zap.Logger
}
