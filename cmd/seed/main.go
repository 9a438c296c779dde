package main

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"resistmap/config"
	"resistmap/internal/logger"
	"resistmap/internal/repository"
	"resistmap/internal/seed"
)

// Seeds the definitions collection from the YAML battery file. Safe to rerun:
// existing categories are replaced in place.
func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	defs, err := seed.Load(cfg.SeedFile)
	if err != nil {
		log.Fatal("failed to load seed file", zap.String("file", cfg.SeedFile), zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer client.Disconnect(ctx)

	repo := repository.NewDefinitionRepo(client.Database(cfg.MongoDatabase))

	for _, def := range defs {
		if err := repo.Upsert(ctx, def); err != nil {
			log.Fatal("failed to upsert definition", zap.String("category", def.Category), zap.Error(err))
		}
		log.Info("seeded definition",
			zap.String("category", def.Category),
			zap.Int("questions", def.QuestionCount),
			zap.Int("archetypes", len(def.Archetypes)))
	}

	log.Info("seeding complete", zap.Int("definitions", len(defs)))
}
