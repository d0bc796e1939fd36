package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/otel"

	"github.com/iliyamo/auth-service/internal/config"
	"github.com/iliyamo/auth-service/internal/database"
	"github.com/iliyamo/auth-service/internal/handler"
	"github.com/iliyamo/auth-service/internal/middleware"
	"github.com/iliyamo/auth-service/internal/oauth"
	"github.com/iliyamo/auth-service/internal/queue"
	"github.com/iliyamo/auth-service/internal/repository"
	"github.com/iliyamo/auth-service/internal/revocation"
	"github.com/iliyamo/auth-service/internal/router"
	"github.com/iliyamo/auth-service/internal/service"
	"github.com/iliyamo/auth-service/internal/telemetry"
)

const loginLogDir = "logs"

func main() {
	migrate := flag.Bool("migrate", false, "apply database migrations before serving")
	migrateOnly := flag.Bool("migrate-only", false, "apply database migrations and exit")
	flag.Parse()

	cfg := config.Load() // Load environment config
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dialect, err := database.ParseDialect(cfg.DB.Driver)
	if err != nil {
		log.Fatal(err)
	}
	db, err := database.Open(ctx, dialect, cfg.DB.DataSourceName())
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if *migrate || *migrateOnly {
		if err := database.Migrate(ctx, db, dialect); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		logger.Info("migrations applied", "driver", string(dialect))
		if *migrateOnly {
			return
		}
	}

	rdb, err := config.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	rlCfg, err := config.LoadRateLimitConfig()
	if err != nil {
		log.Fatalf("rate limit config: %v", err)
	}
	cacheCfg, err := config.LoadCacheConfig()
	if err != nil {
		log.Fatalf("cache config: %v", err)
	}

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("telemetry shutdown", "err", err)
		}
	}()

	store := repository.NewStore(db, dialect)
	creds, err := service.NewCredentialStore(store, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("credentials: %v", err)
	}
	roles := service.NewRoleRegistry(store)
	tokens := service.NewTokenService(service.TokenConfig{
		Secret:     cfg.JWTSecret,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
	}, revocation.NewRedisCache(rdb, "revoked:"), creds)

	var publisher service.LoginPublisher = service.NopPublisher{}
	if cfg.RabbitURL != "" {
		publisher = &service.AMQPPublisher{URL: cfg.RabbitURL, Logger: logger}
		consumer := &queue.Consumer{URL: cfg.RabbitURL, Dir: loginLogDir, Logger: logger}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("login consumer stopped", "err", err)
			}
		}()
	}

	auth := &service.AuthService{
		Credentials: creds,
		Tokens:      tokens,
		Sessions:    service.NewSessionRecorder(store),
		Publisher:   publisher,
		Logger:      logger,
	}
	providers := oauth.NewRegistry(
		oauth.NewYandex(oauth.Credentials{ClientID: cfg.Yandex.ClientID, ClientSecret: cfg.Yandex.ClientSecret}),
		oauth.NewVK(oauth.Credentials{ClientID: cfg.VK.ClientID, ClientSecret: cfg.VK.ClientSecret}),
	)
	federation := oauth.NewFederation(providers, creds, auth, cfg.CallbackURL)

	cache := middleware.NewResponseCache(cacheCfg, rdb)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(logger)
	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(middleware.Tracing(otel.Tracer(telemetry.ServiceName)))
	e.Use(middleware.RequestLogger(logger))

	router.RegisterRoutes(e, handler.Health(map[string]handler.Pinger{
		"database": db,
		"redis":    handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
	}))
	router.RegisterAPI(e, cfg.APIPrefix,
		router.Guards{
			Tokens:    tokens,
			RateLimit: middleware.NewTokenBucket(rlCfg, rdb, logger),
			Cache:     cache,
		},
		handler.NewUserHandler(creds, roles),
		handler.NewSessionHandler(auth, federation, cfg.DateFormat),
		handler.NewRoleHandler(roles, cache, logger),
	)

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", "addr", addr, "env", cfg.Env, "providers", providers.Names())
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}
