package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"temo/internal/cache"
	"temo/internal/config"
	"temo/internal/db"
	"temo/internal/importer"
	"temo/internal/logging"
	categoryrepo "temo/internal/repository/category"
	productrepo "temo/internal/repository/product"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to the menu CSV")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	logger, err := logging.New("importer", cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.DBConnString == "" {
		logger.Fatal("DB_DSN is required")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatal("open file", zap.Error(err))
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, categoryrepo.NewPostgres(pool, logger), productrepo.NewPostgres(pool, logger), logger)

	start := time.Now()
	res, err := imp.Run(ctx)
	if err != nil {
		logger.Fatal("import failed", zap.Error(err), zap.Int("products_before_failure", res.Products))
	}

	// the running API may be serving the old menu from Redis
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := cache.NewRedisCache(client, cfg.CatalogCacheTTL).Invalidate(ctx); err != nil {
			logger.Warn("invalidate catalog cache", zap.Error(err))
		}
		_ = client.Close()
	}

	logger.Info("import done",
		zap.Int("categories", res.Categories),
		zap.Int("products", res.Products),
		zap.Duration("took", time.Since(start).Truncate(time.Millisecond)))
}
