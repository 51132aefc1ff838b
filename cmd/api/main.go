package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"temo/internal/cache"
	"temo/internal/cart"
	"temo/internal/config"
	"temo/internal/db"
	"temo/internal/httpserver"
	"temo/internal/logging"
	adminrepo "temo/internal/repository/admin"
	categoryrepo "temo/internal/repository/category"
	newsrepo "temo/internal/repository/news"
	offerrepo "temo/internal/repository/offer"
	orderrepo "temo/internal/repository/order"
	productrepo "temo/internal/repository/product"
	"temo/internal/service/catalog"
	"temo/internal/service/checkout"
	"temo/internal/service/content"
	"temo/internal/service/menu"
	ordersvc "temo/internal/service/order"
	"temo/internal/service/report"
	"temo/internal/session"
	"temo/internal/storage"
)

const sweepInterval = time.Minute

func main() {
	cfg := config.Load()
	logger, err := logging.New("api", cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	catalogCache := connectCache(ctx, cfg, logger)

	mediaURL := strings.TrimRight(cfg.MediaURLHost, "/") + "/media"
	bucket, err := storage.NewDisk(cfg.MediaDir, mediaURL, logger.Named("storage"))
	if err != nil {
		logger.Fatal("init media storage", zap.Error(err))
	}

	adminRepo := adminrepo.NewPostgres(dbpool, logger)
	categoryRepo := categoryrepo.NewPostgres(dbpool, logger)
	productRepo := productrepo.NewPostgres(dbpool, logger)
	offerRepo := offerrepo.NewPostgres(dbpool, logger)
	newsRepo := newsrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)

	catalogService := catalog.New(categoryRepo, productRepo, offerRepo, newsRepo, catalogCache, logger.Named("catalog"))
	carts := cart.NewRegistry(cfg.CartIdleTTL, logger.Named("cart"))
	sessions := session.NewManager(adminRepo, cfg.AdminSessionTTL, logger.Named("session"))

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Catalog:     catalogService,
		Carts:       carts,
		Checkout:    checkout.New(orderRepo, logger.Named("checkout")),
		Sessions:    sessions,
		Menu:        menu.New(categoryRepo, productRepo, bucket, catalogService, logger.Named("menu")),
		Content:     content.New(offerRepo, newsRepo, catalogService),
		Orders:      ordersvc.New(orderRepo, logger.Named("orders")),
		Reports:     report.New(orderRepo, productRepo, categoryRepo, logger.Named("report")),
		MediaDir:    bucket.Root(),
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sweep(sweepCtx, carts, sessions, logger)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}

// connectCache returns a Redis-backed catalog cache, or a no-op one when
// Redis is not configured or not reachable.
func connectCache(ctx context.Context, cfg config.Config, logger *zap.Logger) cache.CatalogCache {
	if cfg.RedisAddr == "" {
		logger.Info("catalog cache disabled")
		return cache.Nop{}
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable, catalog cache disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		_ = client.Close()
		return cache.Nop{}
	}
	logger.Info("catalog cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CatalogCacheTTL))
	return cache.NewRedisCache(client, cfg.CatalogCacheTTL)
}

// sweep drops idle carts and admin sessions until ctx is done.
func sweep(ctx context.Context, carts *cart.Registry, sessions *session.Manager, logger *zap.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := carts.Sweep(); n > 0 {
				logger.Debug("swept idle carts", zap.Int("count", n))
			}
			if n := sessions.Sweep(); n > 0 {
				logger.Debug("swept idle sessions", zap.Int("count", n))
			}
		}
	}
}
