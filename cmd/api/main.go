// Command api runs the storefront HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/api"
	"github.com/storefront/commerce-api/internal/api/middleware"
	"github.com/storefront/commerce-api/internal/core/ports"
	"github.com/storefront/commerce-api/internal/core/service"
	"github.com/storefront/commerce-api/internal/infrastructure/db/mongo"
	"github.com/storefront/commerce-api/internal/infrastructure/db/redis"
	"github.com/storefront/commerce-api/internal/infrastructure/http/handlers"
	"github.com/storefront/commerce-api/internal/infrastructure/payment"
	"github.com/storefront/commerce-api/internal/infrastructure/ratelimit"
	"github.com/storefront/commerce-api/internal/infrastructure/storage"
	"github.com/storefront/commerce-api/internal/pkg/config"
	"github.com/storefront/commerce-api/pkg/logger"
)

// @title        Storefront API
// @version      1.0
// @description  Accounts, catalog, purchases, seller metrics and payments.
// @BasePath     /api
// @securityDefinitions.apikey  CookieAuth
// @in                          cookie
// @name                        token
func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "commerce-api",
	})

	// --- MongoDB ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.ConnectTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")

	userRepo := mongo.NewUserRepository(db)
	productRepo := mongo.NewProductRepository(db)
	if err := mongo.EnsureIndexes(ctx, userRepo, productRepo); err != nil {
		log.Fatal().Err(err).Msg("mongodb index setup failed")
	}

	checks := map[string]handlers.Check{"mongodb": handlers.MongoCheck(mongoClient)}

	// --- Redis (optional: shared rate limiting and logout) ---
	var (
		revoker ports.TokenRevoker
		limiter middleware.Limiter
		rdb     *goredis.Client
	)
	rdb, err = redis.Connect(ctx, redis.Config{
		Addr:      cfg.Redis.Addr,
		Password:  cfg.Redis.Password,
		DB:        cfg.Redis.DB,
		OpTimeout: cfg.Redis.OpTimeout,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, using in-process rate limiting and no token revocation")
		local := ratelimit.NewMemoryLimiter(0)
		defer local.Stop()
		limiter = local
	} else {
		revoker = redis.NewTokenRevoker(rdb)
		limiter = redis.NewRateLimiter(rdb)
		checks["redis"] = handlers.RedisCheck(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	}

	// --- Object storage (optional: image uploads) ---
	var images ports.ImageStore
	if cfg.Storage.Enabled() {
		store, err := storage.NewImageStore(ctx, storage.Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
			PublicURL: cfg.Storage.PublicURL,
		})
		if err != nil {
			log.Warn().Err(err).Msg("object storage unavailable, image uploads disabled")
		} else {
			images = store
			checks["storage"] = store.Ping
		}
	}

	if cfg.Stripe.SecretKey == "" {
		log.Warn().Msg("STRIPE_SECRET_KEY is empty, payment intents will fail")
	}

	// --- Services ---
	authSvc := service.NewAuthService(userRepo, revoker, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, log)
	userSvc := service.NewUserService(userRepo, log)
	productSvc := service.NewProductService(productRepo, images, cfg.Storage.MaxImageBytes, log)
	metricsSvc := service.NewSellerMetricsService(productRepo, service.NewSyntheticEarnings())
	paymentSvc := service.NewPaymentService(payment.NewStripeGateway(cfg.Stripe.SecretKey), cfg.Stripe.Currency, log)

	e := api.NewRouter(api.Dependencies{
		Log:           log,
		Auth:          authSvc,
		Users:         userSvc,
		Products:      productSvc,
		SellerMetrics: metricsSvc,
		Payments:      paymentSvc,
		Limiter:       limiter,
		Health:        handlers.NewHealthHandler(checks),
		Options: api.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			CookieSecure:   cfg.Auth.CookieSecure,
			AuthRateLimit:  cfg.Auth.RateLimit,
			AuthRateWindow: cfg.Auth.RateWindow,
		},
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	closeAll(shutdownCtx, log, rdb, mongoClient.Disconnect)
	log.Info().Msg("server stopped")
}

// closeAll releases backing clients after the server has drained.
func closeAll(ctx context.Context, log zerolog.Logger, rdb *goredis.Client, disconnectMongo func(context.Context) error) {
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close failed")
		}
	}
	if err := disconnectMongo(ctx); err != nil {
		log.Warn().Err(err).Msg("mongodb disconnect failed")
	}
}
