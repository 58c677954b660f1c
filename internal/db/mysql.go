package db

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"pizzeria/internal/config"
	"pizzeria/internal/model"
)

// pingTimeout bounds the startup connectivity check.
const pingTimeout = 5 * time.Second

// Params defines the dependencies of the fx-managed connection.
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New opens MySQL, migrates the schema and ties the pool to the fx lifecycle.
func New(params Params) (*gorm.DB, error) {
	db, err := NewMySQL(params.Config.MySQL.DSN, params.Logger, params.Config.Log.Debug)
	if err != nil {
		return nil, err
	}

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, pingTimeout)
			defer cancel()

			if err := Ping(ctx, db); err != nil {
				return err
			}
			return Migrate(db)
		},
		OnStop: func(_ context.Context) error {
			return Close(db)
		},
	})

	return db, nil
}

// NewMySQL returns a GORM DB instance backed by MySQL and logging through slog.
// Driver errors such as duplicate keys are translated into gorm's sentinel errors.
func NewMySQL(dsn string, logger *slog.Logger, debug bool) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         newGormSlogLogger(logger, debug),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "connect mysql")
	}
	return db, nil
}

// Ping checks the connection.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "get sql.DB")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errors.Wrap(err, "ping mysql")
	}
	return nil
}

// Migrate creates or updates the tables for every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Account{},
		&model.Category{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		return errors.Wrap(err, "migrate schema")
	}
	return nil
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "get sql.DB")
	}
	return sqlDB.Close()
}
