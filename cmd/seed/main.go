package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/pkg/errors"

	"pizzeria/internal/auth"
	"pizzeria/internal/config"
	"pizzeria/internal/db"
	"pizzeria/internal/logger"
	"pizzeria/internal/repository"
	"pizzeria/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log, err := logger.New(cfg)
	if err != nil {
		slog.Error("create logger", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run migrates the schema, seeds the sample menu into an empty catalog and
// makes sure the configured admin account exists.
func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	gormDB, err := db.NewMySQL(cfg.MySQL.DSN, log, cfg.Log.Debug)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(gormDB); err != nil {
			log.Warn("close database", slog.String("error", err.Error()))
		}
	}()

	if err := db.Ping(ctx, gormDB); err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}
	log.Info("database migrations completed")

	catalogService := service.NewCatalogService(
		repository.NewCategoryRepository(gormDB),
		repository.NewProductRepository(gormDB),
		log,
	)
	seeded, err := catalogService.SeedSampleMenu(ctx)
	if err != nil {
		return errors.Wrap(err, "seed sample menu")
	}
	if !seeded {
		log.Info("catalog not empty, sample menu skipped")
	}

	// Bootstrapping never revokes tokens, so no revocation store is needed.
	authService := service.NewAuthService(
		repository.NewAccountRepository(gormDB),
		auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.TTL),
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		auth.NewTokenStore(nil),
		service.WithLogger(log),
	)
	admin, err := authService.BootstrapAdmin(ctx, service.RegisterInput{
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
		FullName: cfg.Seed.AdminName,
	})
	if err != nil {
		return errors.Wrap(err, "bootstrap admin")
	}

	log.Info("seed completed", slog.String("admin_email", admin.Email), slog.Bool("menu_seeded", seeded))
	return nil
}
