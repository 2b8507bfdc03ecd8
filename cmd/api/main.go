package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"toonify/internal/config"
	"toonify/internal/db"
	apihttp "toonify/internal/http"
	"toonify/internal/llm"
	"toonify/internal/render"
	"toonify/internal/repository"
	"toonify/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()
	if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("db schema", zap.Error(err))
	}

	galleryRepo := repository.NewPgGalleryRepository(pool)

	var (
		renderLimiter service.RenderRateLimiter
		tokenStore    service.RefreshTokenStore
		redisClient   *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			renderLimiter = service.NewRedisRenderRateLimiter(
				redisClient,
				time.Duration(cfg.RenderRateWindowSec)*time.Second,
				cfg.RenderRateMax,
			)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		}
		cancel()
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMin)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMin)*time.Minute,
		tokenStore,
	)

	visionClient := llm.NewHTTPClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.VisionModel, logger)
	estimatorSvc := service.NewEstimatorService(visionClient, cfg.AIAPIKey, cfg.SyntheticSeed, logger)

	renderClient := render.NewOpenAIClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.RenderModel)
	renderSvc := service.NewRenderService(renderClient, cfg.AIAPIKey, renderLimiter, logger)

	policy := service.PolicyLocal
	if cfg.UseRemoteEstimator {
		policy = service.PolicyRemote
	}
	flowSvc := service.NewFlowService(estimatorSvc, renderSvc, galleryRepo, service.FlowConfig{
		Policy:      policy,
		IntakeDelay: time.Duration(cfg.IntakeDelayMs) * time.Millisecond,
	}, logger)

	flowHandler := apihttp.NewFlowHandler(flowSvc, jwtSvc, logger)
	galleryHandler := apihttp.NewGalleryHandler(galleryRepo, logger)
	router := apihttp.NewRouter(logger, jwtSvc, flowHandler, galleryHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.String("analysis_policy", string(policy)),
	)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
