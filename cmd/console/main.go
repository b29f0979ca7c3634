// @title        Booking Console API
// @version      1.0
// @description  Session, booking lifecycle and booking views for the hotel booking console.
// @host         localhost:8080
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/grandstay/booking-console/internal/api"
	"github.com/grandstay/booking-console/internal/api/handler"
	"github.com/grandstay/booking-console/internal/api/metrics"
	"github.com/grandstay/booking-console/internal/core/domain"
	"github.com/grandstay/booking-console/internal/core/ports"
	"github.com/grandstay/booking-console/internal/core/service"
	"github.com/grandstay/booking-console/internal/core/validation"
	mongodb "github.com/grandstay/booking-console/internal/infrastructure/db/mongo"
	redisdb "github.com/grandstay/booking-console/internal/infrastructure/db/redis"
	"github.com/grandstay/booking-console/internal/infrastructure/queue"
	"github.com/grandstay/booking-console/internal/infrastructure/remote"
	"github.com/grandstay/booking-console/internal/infrastructure/tokenfile"
	"github.com/grandstay/booking-console/internal/pkg/config"
	"github.com/grandstay/booking-console/pkg/logger"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "booking-console",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := make(map[string]handler.Checker)

	// --- Token persistence ---
	var store ports.TokenStore
	switch cfg.Token.Store {
	case config.TokenStoreRedis:
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Warn().Err(err).Msg("redis close error")
			}
		}()
		redisStore := redisdb.NewTokenStore(rdb, cfg.Redis.TokenKey, cfg.Redis.TokenTTL)
		checks["redis"] = redisStore.Ping
		store = redisStore
	default:
		store = tokenfile.New(cfg.Token.File)
	}

	// --- Transition audit trail (optional) ---
	var recorder ports.TransitionRecorder
	if cfg.AuditEnabled() {
		audit, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "booking-console",
		})
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connection failed")
		}
		defer func() {
			if err := audit.Disconnect(); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect error")
			}
		}()

		repo := mongodb.NewAuditRepository(audit.DB)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("audit index creation failed")
		}
		checks["mongodb"] = audit.Ping

		dispatcher := queue.NewDispatcher(cfg.Audit.Workers, repo, metrics.AuditDroppedTotal.Inc, logger.Component("audit"))
		dispatcher.Start(context.WithoutCancel(ctx))
		defer dispatcher.Close()
		recorder = dispatcher
	} else {
		log.Info().Msg("MONGO_URI not set; transition audit trail disabled")
	}

	// --- Booking service client and core services ---
	client, err := remote.NewClient(remote.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		Burst:     cfg.API.RateBurst,
	}, nil, logger.Component("remote"))
	if err != nil {
		log.Fatal().Err(err).Msg("booking service client init failed")
	}
	checks["booking_api"] = client.Ping

	sessions := service.NewSessionManager(client, store, logger.Component("session"))
	client.SetTokenSource(sessions)

	validator := validation.New()
	bookings := service.NewBookingService(client, client, validator, recorder, logger.Component("bookings"))
	queries := service.NewBookingQueryService(client, bookings.Overlay, logger.Component("bookings"))
	profiles := service.NewProfileService(client, validator, logger.Component("profiles"))

	restoreSession(ctx, sessions, log)

	e := api.NewRouter(api.Dependencies{
		Sessions: sessions,
		Bookings: bookings,
		Queries:  queries,
		Profiles: profiles,
		Checks:   checks,
		Log:      logger.Component("http"),
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", httpServer.Addr).Str("api", cfg.API.BaseURL).Msg("booking console listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("shutdown error")
	}
	log.Info().Msg("booking console stopped")
}

// restoreSession re-validates a token persisted by a previous run.
func restoreSession(ctx context.Context, sessions *service.SessionManager, log zerolog.Logger) {
	validateCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	id, err := sessions.Validate(validateCtx)
	switch {
	case err == nil:
		log.Info().Str("username", id.Username).Str("role", string(id.Role)).Msg("session restored")
	case errors.Is(err, domain.ErrNoSession):
	case ctx.Err() != nil:
		log.Info().Msg("session restore interrupted, stored token kept")
	default:
		log.Warn().Err(err).Msg("stored session discarded")
	}
}
