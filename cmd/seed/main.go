package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/libreria-labs/libreria-backend/internal/identity"
	"github.com/libreria-labs/libreria-backend/pkg/config"
	"github.com/libreria-labs/libreria-backend/pkg/db"
	"github.com/libreria-labs/libreria-backend/pkg/db/models"
	"github.com/libreria-labs/libreria-backend/pkg/enums"
	"github.com/libreria-labs/libreria-backend/pkg/env"
	"github.com/libreria-labs/libreria-backend/pkg/logger"
	"github.com/libreria-labs/libreria-backend/pkg/security"
)

type seedBook struct {
	isbn    string
	title   string
	authors []string
	price   string
	stock   int
}

var demoBooks = []seedBook{
	{"9780262510875", "Structure and Interpretation of Computer Programs", []string{"Harold Abelson", "Gerald Jay Sussman"}, "38.00", 12},
	{"9780132350884", "Clean Code", []string{"Robert C. Martin"}, "29.95", 20},
	{"9780201633610", "Design Patterns", []string{"Erich Gamma", "Richard Helm", "Ralph Johnson", "John Vlissides"}, "42.50", 7},
	{"9781491941195", "The Go Programming Language", []string{"Alan A. A. Donovan", "Brian W. Kernighan"}, "31.99", 15},
	{"9780134190440", "The Art of Computer Programming, Vol. 1", []string{"Donald E. Knuth"}, "74.99", 3},
}

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	fatalOn(ctx, logg, "load config", err)

	if cfg.App.IsProd() {
		fmt.Fprintln(os.Stderr, "seeding refused in prod")
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	fatalOn(ctx, logg, "bootstrap database", err)
	defer dbClient.Close()

	allocator, err := identity.NewSeededAllocator(ctx, dbClient.DB())
	fatalOn(ctx, logg, "seed identity allocator", err)

	var bookCount int64
	err = dbClient.DB().WithContext(ctx).Model(&models.Book{}).Count(&bookCount).Error
	fatalOn(ctx, logg, "count books", err)
	if bookCount > 0 {
		logg.Info(logg.WithField(ctx, "books", bookCount), "catalog already seeded, skipping")
		return
	}

	for _, b := range demoBooks {
		price, err := decimal.NewFromString(b.price)
		fatalOn(ctx, logg, "parse seed price", err)

		book := &models.Book{
			ID:      allocator.NextID(),
			ISBN:    b.isbn,
			Title:   b.title,
			Authors: b.authors,
			Price:   price,
			Stock:   b.stock,
		}
		err = dbClient.DB().WithContext(ctx).Create(book).Error
		fatalOn(ctx, logg, "insert seed book", err)
	}

	if !env.Bool("LIBRERIA_SEED_SKIP_ACCOUNTS", false) {
		seedAccount(ctx, logg, dbClient, allocator, cfg, "admin@libreria.dev", "Libreria Admin", enums.AccountRoleAdmin)
		seedAccount(ctx, logg, dbClient, allocator, cfg, "reader@libreria.dev", "Demo Reader", enums.AccountRoleClient)
	}

	logg.Info(logg.WithField(ctx, "books", len(demoBooks)), "seeding complete")
}

func seedAccount(ctx context.Context, logg *logger.Logger, dbClient *db.Client, allocator identity.Allocator, cfg *config.Config, email, legalName string, role enums.AccountRole) {
	password := env.Get("LIBRERIA_SEED_PASSWORD", "changeme-now")
	hash, err := security.HashPassword(password, cfg.Password)
	fatalOn(ctx, logg, "hash seed password", err)

	account := &models.Account{
		ID:           allocator.NextID(),
		Email:        email,
		PasswordHash: hash,
		LegalName:    legalName,
		Role:         role,
		IsActive:     true,
	}
	err = dbClient.DB().WithContext(ctx).Create(account).Error
	fatalOn(ctx, logg, "insert seed account", err)
}

func fatalOn(ctx context.Context, logg *logger.Logger, step string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("seed failed: %s", step), err)
	os.Exit(1)
}
