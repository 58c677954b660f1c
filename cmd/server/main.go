package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"

	"pizzeria/internal/auth"
	"pizzeria/internal/cache"
	"pizzeria/internal/config"
	"pizzeria/internal/db"
	"pizzeria/internal/handler"
	"pizzeria/internal/logger"
	"pizzeria/internal/middleware"
	"pizzeria/internal/repository"
	"pizzeria/internal/router"
	"pizzeria/internal/service"
)

// @title Pizzeria API
// @version 1.0
// @description Pizza restaurant backend: accounts with lockout, menu catalog and price-validated orders.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	fx.New(
		fx.Provide(
			config.Load,
			logger.New,
			db.New,
			newCache,
		),
		fx.Provide(
			repository.NewAccountRepository,
			repository.NewCategoryRepository,
			repository.NewProductRepository,
			repository.NewOrderRepository,
		),
		fx.Provide(
			newJWTService,
			newPasswordHasher,
			fx.Annotate(auth.NewTokenStore, fx.As(new(auth.TokenStoreInterface))),
			newAuthService,
			service.NewCatalogService,
			service.NewOrderService,
		),
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewLoggerMiddleware,
			newRateLimiter,
			handler.NewAuthHandler,
			handler.NewCatalogHandler,
			handler.NewOrderHandler,
			handler.NewSeedHandler,
			newServer,
		),
		fx.Invoke(func(*echo.Echo) {}),
	).Run()
}

func newCache(lc fx.Lifecycle, cfg *config.Config, log *slog.Logger) *cache.Client {
	client := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// Redis is optional: revocation and rate limiting degrade without it.
			if err := client.Ping(ctx); err != nil {
				log.WarnContext(ctx, "redis unreachable, continuing without it",
					slog.String("addr", cfg.Redis.Addr),
					slog.String("error", err.Error()),
				)
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	return client
}

func newJWTService(cfg *config.Config) *auth.JWTService {
	return auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.TTL)
}

func newPasswordHasher(cfg *config.Config) auth.PasswordHasher {
	return auth.NewBcryptHasher(cfg.Auth.BcryptCost)
}

func newAuthService(
	cfg *config.Config,
	log *slog.Logger,
	accountRepo repository.AccountRepository,
	jwtService *auth.JWTService,
	hasher auth.PasswordHasher,
	tokenStore auth.TokenStoreInterface,
) service.AuthService {
	return service.NewAuthService(accountRepo, jwtService, hasher, tokenStore,
		service.WithLockoutPolicy(service.LockoutPolicy{
			MaxFailedAttempts: cfg.Auth.MaxFailedAttempts,
			Window:            cfg.Auth.LockoutWindow,
		}),
		service.WithLogger(log),
	)
}

func newRateLimiter(cfg *config.Config, client *cache.Client, log *slog.Logger) *middleware.RateLimiter {
	return middleware.NewRateLimiter(client, "auth", cfg.RateLimit.Requests, cfg.RateLimit.Window, log)
}

type serverParams struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger

	AuthHandler    *handler.AuthHandler
	CatalogHandler *handler.CatalogHandler
	OrderHandler   *handler.OrderHandler
	SeedHandler    *handler.SeedHandler

	AuthMiddleware   *middleware.AuthMiddleware
	RateLimiter      *middleware.RateLimiter
	LoggerMiddleware *middleware.LoggerMiddleware
}

func newServer(params serverParams) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	router.Register(e, params.Config,
		router.Handlers{
			Auth:    params.AuthHandler,
			Catalog: params.CatalogHandler,
			Order:   params.OrderHandler,
			Seed:    params.SeedHandler,
		},
		router.Middlewares{
			Auth:      params.AuthMiddleware,
			RateLimit: params.RateLimiter,
			Logger:    params.LoggerMiddleware,
		},
	)

	addr := net.JoinHostPort("", params.Config.Server.Port)
	params.Append(fx.Hook{
		OnStart: func(context.Context) error {
			params.Logger.Info("starting HTTP server",
				slog.String("addr", addr),
				slog.String("swagger", "/swagger/index.html"),
			)
			go func() {
				if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					params.Logger.Error("http server stopped", slog.String("error", err.Error()))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, params.Config.Server.ShutdownTimeout)
			defer cancel()

			params.Logger.Info("shutting down HTTP server")
			return errors.WithStack(e.Shutdown(shutdownCtx))
		},
	})

	return e
}
