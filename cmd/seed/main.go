package main

import (
	"context"
	"flag"
	"os"

	"go.uber.org/zap"

	"temo/internal/config"
	"temo/internal/db"
	"temo/internal/logging"
	adminrepo "temo/internal/repository/admin"
	categoryrepo "temo/internal/repository/category"
	newsrepo "temo/internal/repository/news"
	offerrepo "temo/internal/repository/offer"
	productrepo "temo/internal/repository/product"
	"temo/internal/seed"
)

func main() {
	file := flag.String("file", "", "YAML catalogue to load instead of the built-in demo menu")
	flag.Parse()

	cfg := config.Load()
	logger, err := logging.New("seed", cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.DBConnString == "" {
		logger.Fatal("DB_DSN is required")
	}

	catalogue, err := loadCatalogue(*file)
	if err != nil {
		logger.Fatal("load catalogue", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	repos := seed.Repos{
		Admins:     adminrepo.NewPostgres(pool, logger),
		Categories: categoryrepo.NewPostgres(pool, logger),
		Products:   productrepo.NewPostgres(pool, logger),
		Offers:     offerrepo.NewPostgres(pool, logger),
		News:       newsrepo.NewPostgres(pool, logger),
	}
	admin := seed.Admin{Email: cfg.AdminEmail, Password: cfg.AdminPassword}
	if admin.Email == "" {
		logger.Warn("ADMIN_EMAIL not set, skipping admin account")
	}

	if err := seed.Apply(ctx, repos, catalogue, admin, logger); err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}
	logger.Info("seed applied")
}

func loadCatalogue(path string) (*seed.Catalogue, error) {
	if path == "" {
		return seed.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return seed.Parse(data)
}
