// Command server runs the EDDI authentication service.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labsai/eddiauth/app/eddiauth"
	"github.com/labsai/eddiauth/core/config"
	"github.com/labsai/eddiauth/core/csrf"
	"github.com/labsai/eddiauth/core/logger"
	"github.com/labsai/eddiauth/core/userstore"
	"github.com/labsai/eddiauth/integration/database/mongo"
	"github.com/labsai/eddiauth/integration/database/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg eddiauth.Config
	config.MustLoad(&cfg)

	log := newLogger(cfg)

	if err := run(ctx, cfg, log); err != nil {
		log.Error("application failed", logger.Component("main"), logger.Error(err))
		os.Exit(1)
	}
	log.Info("application stopped", logger.Component("main"))
}

func run(ctx context.Context, cfg eddiauth.Config, log *slog.Logger) error {
	opts := []eddiauth.AppOption{eddiauth.WithLogger(log)}

	if cfg.Mongo.Enabled() {
		client, err := mongo.New(ctx, cfg.Mongo)
		if err != nil {
			return err
		}
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				log.Warn("mongodb disconnect failed", logger.Component("mongodb"), logger.Error(err))
			}
		}()

		users, err := userstore.NewMongo(ctx, client.Database(cfg.Mongo.Database))
		if err != nil {
			return err
		}
		opts = append(opts,
			eddiauth.WithUserStore(users),
			eddiauth.WithHealthCheck("mongodb", mongo.Healthcheck(client)),
		)
		log.Info("using mongodb user store", logger.Component("main"), logger.Key("database", cfg.Mongo.Database))
	} else {
		log.Warn("MONGODB_URL not set; users are kept in memory and lost on restart", logger.Component("main"))
	}

	if cfg.CSRF.Store == "redis" {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		opts = append(opts,
			eddiauth.WithCSRFStore(csrf.NewRedisStore(client, cfg.CSRF.RedisPrefix)),
			eddiauth.WithHealthCheck("redis", redis.Healthcheck(client)),
		)
		log.Info("using redis csrf store", logger.Component("main"))
	}

	app, err := eddiauth.New(cfg, opts...)
	if err != nil {
		return err
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newLogger(cfg eddiauth.Config) *slog.Logger {
	if cfg.IsDevelopment() {
		return logger.New(logger.WithDevelopment(cfg.AppName), logger.SetAsDefault())
	}
	return logger.New(
		logger.WithProduction(cfg.AppName),
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.SetAsDefault(),
	)
}
