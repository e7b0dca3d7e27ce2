package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ggd-contact/internal/config"
	"ggd-contact/internal/db"
	"ggd-contact/internal/email"
	apihttp "ggd-contact/internal/http"
	"ggd-contact/internal/repository"
	"ggd-contact/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	caseRepo := repository.NewPgCaseRepository(pool)
	taskRepo := repository.NewPgTaskRepository(pool)
	staffRepo := repository.NewPgStaffRepository(pool)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	pairingLimiter := service.NewPairingRateLimiter(cfg.PairingWindow(), cfg.PairingAttemptsPerWindow)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory pairing limiter", zap.Error(err))
		} else {
			pairingLimiter = service.NewRedisPairingRateLimiter(redisClient, logger, cfg.PairingWindow(), cfg.PairingAttemptsPerWindow)
		}
		cancel()
	}

	tokens := service.NewTokenService(cfg.JWTSecret, cfg.StaffTokenTTL(), cfg.CaseTokenTTL())
	staffSvc := service.NewStaffService(logger, staffRepo)
	caseSvc := service.NewCaseService(logger, caseRepo, taskRepo, pairingLimiter, cfg.PairingCodeTTL())
	taskSvc := service.NewTaskService(logger, caseRepo, taskRepo, emailSender)

	router := apihttp.NewRouter(
		logger,
		tokens,
		staffSvc,
		apihttp.NewClassificationHandler(logger, service.ClassificationService{}),
		apihttp.NewAuthHandler(logger, staffSvc, tokens),
		apihttp.NewCaseHandler(logger, caseSvc, taskSvc),
		apihttp.NewIndexHandler(logger, caseSvc, taskSvc, tokens),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
}
