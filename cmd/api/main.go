// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carterperez-dev/storefront/internal/admin"
	"github.com/carterperez-dev/storefront/internal/auth"
	"github.com/carterperez-dev/storefront/internal/cart"
	"github.com/carterperez-dev/storefront/internal/config"
	"github.com/carterperez-dev/storefront/internal/core"
	"github.com/carterperez-dev/storefront/internal/events"
	"github.com/carterperez-dev/storefront/internal/health"
	"github.com/carterperez-dev/storefront/internal/media"
	"github.com/carterperez-dev/storefront/internal/product"
	"github.com/carterperez-dev/storefront/internal/search"
	"github.com/carterperez-dev/storefront/internal/server"
	"github.com/carterperez-dev/storefront/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := core.NewLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
		"key_prefix", redis.Keys,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "HS256",
		"token_expire", cfg.JWT.TokenExpire,
	)

	var google auth.IdentityVerifier
	if cfg.Google.ClientID != "" {
		verifier, gErr := auth.NewGoogleVerifier(ctx, cfg.Google.ClientID, cfg.Google.JWKSURL)
		if gErr != nil {
			return gErr
		}
		google = verifier
		logger.Info("google sign-in enabled")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RabbitMQ.Enabled() {
		rabbit, rErr := events.NewRabbitPublisher(cfg.RabbitMQ)
		if rErr != nil {
			return rErr
		}
		publisher = rabbit
		logger.Info("rabbitmq publisher connected",
			"exchange", cfg.RabbitMQ.Exchange,
		)
	}

	healthDeps := []health.Dependency{
		{Name: "database", Checker: db, Critical: true},
		{Name: "redis", Checker: redis},
	}

	productOpts := []product.Option{product.WithPublisher(publisher)}

	if cfg.Elasticsearch.Enabled() {
		es, esErr := search.NewClient(cfg.Elasticsearch)
		if esErr != nil {
			return esErr
		}
		index := search.NewProductIndex(es, cfg.Elasticsearch.ProductsIndex)
		if err := index.EnsureIndex(ctx); err != nil {
			logger.Warn("product index unavailable, falling back to database search",
				"index", cfg.Elasticsearch.ProductsIndex,
				"error", err,
			)
		}
		productOpts = append(productOpts, product.WithSearchIndex(index))
		healthDeps = append(healthDeps, health.Dependency{Name: "elasticsearch", Checker: index})
	}

	mediaStore, err := media.New(ctx, cfg.Media)
	if err != nil {
		return err
	}
	if mediaStore != nil {
		productOpts = append(productOpts, product.WithMediaStore(mediaStore))
		logger.Info("media storage enabled", "driver", cfg.Media.Driver)
	}

	userSvc := user.NewService(user.NewRepository(db.DB), publisher)
	authSvc := auth.NewService(
		jwtManager,
		userSvc,
		google,
		auth.NewRedisDenylist(redis),
	)
	productSvc := product.NewService(product.NewRepository(db.DB), productOpts...)
	cartSvc := cart.NewService(cart.NewRepository(db.DB))

	healthHandler := health.NewHandler(healthDeps...)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Accounts:   userSvc,
		Products:   productSvc,
		Carts:      cartSvc,
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	application := &app{
		cfg:      cfg,
		logger:   logger,
		redis:    redis.Client,
		keys:     redis.Keys,
		auth:     authSvc,
		users:    userSvc,
		products: productSvc,
		carts:    cartSvc,
		health:   healthHandler,
		admin:    adminHandler,
	}
	application.routes(srv.Router())

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := publisher.Close(); err != nil {
		logger.Error("event publisher close error", "error", err)
	}

	if closer, ok := mediaStore.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Error("media store close error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}
