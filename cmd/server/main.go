package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"github.com/mohdfarhan7/michelanglo/config"
	"github.com/mohdfarhan7/michelanglo/internal/auth"
	"github.com/mohdfarhan7/michelanglo/internal/email"
	"github.com/mohdfarhan7/michelanglo/internal/health"
	"github.com/mohdfarhan7/michelanglo/internal/infrastructure/postgres"
	ctxlog "github.com/mohdfarhan7/michelanglo/internal/log"
	"github.com/mohdfarhan7/michelanglo/internal/metrics"
	"github.com/mohdfarhan7/michelanglo/internal/otp"
	httptransport "github.com/mohdfarhan7/michelanglo/internal/transport/http"
	"github.com/mohdfarhan7/michelanglo/internal/transport/http/handler"
	"github.com/mohdfarhan7/michelanglo/internal/usecase"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, cfg.DatabaseURL); err != nil {
		stop()
		log.Fatalf("migrate: %v", err)
	}

	tokens, err := auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.JWTAlgorithm, cfg.JWTTTL)
	if err != nil {
		stop()
		log.Fatalf("token issuer: %v", err)
	}

	// OTP challenge store: Redis when configured, in-memory otherwise.
	// The in-memory store needs a periodic sweep for expired challenges.
	var otpStore otp.Store
	var cachePinger health.Pinger
	sweeper := cron.New()
	if cfg.RedisURL != "" {
		redisStore, err := otp.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			stop()
			log.Fatalf("redis: %v", err)
		}
		defer redisStore.Close()
		otpStore = redisStore
		cachePinger = redisStore
	} else {
		memStore := otp.NewMemoryStore()
		_, err := sweeper.AddFunc("@every 1m", func() {
			if removed := memStore.PurgeExpired(time.Now()); removed > 0 {
				logger.Debug("purged expired otp challenges", "count", removed)
			}
		})
		if err != nil {
			stop()
			log.Fatalf("otp sweeper: %v", err)
		}
		sweeper.Start()
		defer sweeper.Stop()
		otpStore = memStore
	}

	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	otpService := otp.NewService(otpStore, sender, cfg.OTPTTL)

	userRepo := postgres.NewUserRepository(pool)
	authUsecase := usecase.NewAuthUsecase(userRepo, tokens, otpService)

	authHandler := handler.NewAuthHandler(authUsecase, logger)
	userHandler := handler.NewUserHandler(authUsecase, logger)
	otpHandler := handler.NewOTPHandler(authUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(pool, cachePinger, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr: ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, authHandler, userHandler, otpHandler,
			tokens, cfg.CORSAllowedOrigins),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
