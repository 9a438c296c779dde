package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"resistmap/config"
	"resistmap/internal/cache"
	"resistmap/internal/logger"
	"resistmap/internal/repository"
	"resistmap/internal/service"
	"resistmap/internal/transport/rest"
)

// @title Resistmap Assessment API
// @version 1.0
// @description Resistance assessment scoring and classification service
// @host localhost:8080
// @BasePath /v1
func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("failed to ping MongoDB", zap.Error(err))
	}
	log.Info("connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("failed to ping Redis", zap.Error(err))
	}
	log.Info("connected to Redis")

	// Repositories
	definitionRepo := repository.NewDefinitionRepo(db)
	resultRepo := repository.NewResultRepo(db)

	// Caches
	definitionCache := cache.NewDefinitionCache(rdb, cfg.DefinitionTTL)
	statsCache := cache.NewStatsCache(rdb)

	// Services
	authSvc := service.NewAuthService()
	definitionSvc := service.NewDefinitionService(definitionRepo, definitionCache, log)
	assessmentSvc := service.NewAssessmentService(definitionSvc, resultRepo, statsCache, authSvc, log)

	router := rest.NewRouter(&rest.Container{
		AuthService:       authSvc,
		DefinitionService: definitionSvc,
		AssessmentService: assessmentSvc,
		Logger:            log,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Info("server starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen and serve", zap.Error(err))
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
