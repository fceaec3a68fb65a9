package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/producthub/catalog-api/internal/api"
	"github.com/producthub/catalog-api/internal/api/handler"
	"github.com/producthub/catalog-api/internal/core/ports"
	"github.com/producthub/catalog-api/internal/core/service"
	"github.com/producthub/catalog-api/internal/infrastructure/config"
	"github.com/producthub/catalog-api/internal/infrastructure/db/memory"
	mongodb "github.com/producthub/catalog-api/internal/infrastructure/db/mongo"
	redisdb "github.com/producthub/catalog-api/internal/infrastructure/db/redis"
	"github.com/producthub/catalog-api/internal/infrastructure/seed"
	"github.com/producthub/catalog-api/pkg/logger"
)

// @title                       ProductHub Catalog API
// @version                     1.0
// @description                 Product catalog with account registration, token login and guarded catalog writes.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and JWT token.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "catalog-api",
		Env:     cfg.Env,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("catalog api stopped")
	}
}

// stores bundles the repositories chosen by STORAGE_DRIVER with the probes
// and cleanup they need.
type stores struct {
	users    ports.AuthRepository
	products ports.ProductRepository
	checks   map[string]handler.Check
	closers  []func(context.Context) error
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	s := &stores{checks: make(map[string]handler.Check)}

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		log.Warn().Msg("using in-memory storage; data is lost on restart")
		s.users = memory.NewAuthRepository()
		s.products = memory.NewProductRepository()

	case config.DriverMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Mongo.Timeout,
		})
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, client.Disconnect)

		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			return s, fmt.Errorf("ensure indexes: %w", err)
		}
		s.users = mongodb.NewAuthRepository(db)
		s.products = mongodb.NewProductRepository(db)
		s.checks["mongodb"] = handler.MongoCheck(db)
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
	}

	if cfg.Redis.CacheEnabled() {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return s, err
		}
		s.closers = append(s.closers, func(context.Context) error { return rdb.Close() })
		s.products = redisdb.NewProductCache(s.products, rdb, cfg.Redis.CacheTTL, log)
		s.checks["redis"] = handler.RedisCheck(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("product cache enabled")
	}

	return s, nil
}

func (s *stores) close(ctx context.Context, log zerolog.Logger) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			log.Error().Err(err).Msg("close storage")
		}
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStores(ctx, cfg, logger.For("storage"))
	if st != nil {
		defer st.close(context.Background(), log)
	}
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	if cfg.Storage.SeedDemoCatalog {
		if _, err := seed.Catalog(ctx, st.products, logger.For("seed")); err != nil {
			return err
		}
	}

	tokens, err := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}
	authService, err := service.NewAuthService(st.users, tokens, logger.For("auth"))
	if err != nil {
		return err
	}
	productService := service.NewProductService(st.products, logger.For("products"))

	router := api.NewRouter(api.Deps{
		Log:          logger.For("http"),
		Auth:         authService,
		Products:     productService,
		Authorizer:   tokens,
		Checks:       st.checks,
		AllowOrigins: cfg.HTTP.AllowOrigins,
		BodyLimit:    cfg.HTTP.BodyLimit,
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Str("storage", cfg.Storage.Driver).Msg("starting http server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
