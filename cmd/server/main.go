package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/imagevision/vision-api/internal/api"
	"github.com/imagevision/vision-api/internal/core/service"
	"github.com/imagevision/vision-api/internal/infrastructure/classifier"
	"github.com/imagevision/vision-api/internal/infrastructure/config"
	mongodb "github.com/imagevision/vision-api/internal/infrastructure/db/mongo"
	redisdb "github.com/imagevision/vision-api/internal/infrastructure/db/redis"
	"github.com/imagevision/vision-api/internal/infrastructure/queue"
	"github.com/imagevision/vision-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title           Vision API
// @version         1.0
// @description     Image classification service with token-based authentication.
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	imageRepo := mongodb.NewImageRepository(db)
	revocations := redisdb.NewRevocationStore(rdb)

	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL, revocations)
	authService := service.NewAuthService(userRepo, tokenService, log)

	inferenceClient := classifier.NewClient(classifier.Config{
		URL:     cfg.Inference.URL,
		Timeout: cfg.Inference.Timeout,
	}, log)

	historyWriter := queue.NewHistoryWriter(cfg.HistoryWorkers, imageRepo, log)
	historyWriter.Start(ctx)

	classifyService := service.NewClassifyService(inferenceClient, historyWriter, imageRepo, log)

	e := api.NewRouter(api.RouterDeps{
		AuthService:     authService,
		ClassifyService: classifyService,
		MongoDB:         db,
		Redis:           rdb,
		MaxUploadBytes:  cfg.MaxUploadBytes,
		Logger:          log,
	})

	// --- Serve ---
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
