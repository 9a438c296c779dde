package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"resistmap/internal/cache"
	"resistmap/internal/model"
	"resistmap/internal/repository"
)

var (
	ErrUnknownAssessment = errors.New("no definition for assessment category")
	ErrCategoryExists    = errors.New("assessment category already exists")
)

// DefinitionService handles assessment definition CRUD with cache
// invalidation. Definitions are normalized and validated on every write so
// the scoring path never sees a malformed one.
type DefinitionService struct {
	repo   repository.DefinitionRepo
	cache  cache.DefinitionCache
	logger *zap.Logger
}

// NewDefinitionService creates a new definition service
func NewDefinitionService(repo repository.DefinitionRepo, defCache cache.DefinitionCache, logger *zap.Logger) *DefinitionService {
	return &DefinitionService{
		repo:   repo,
		cache:  defCache,
		logger: logger,
	}
}

// Create validates and stores a new definition
func (s *DefinitionService) Create(ctx context.Context, def *model.Definition) (string, error) {
	def.Normalize()
	if err := def.Validate(); err != nil {
		return "", err
	}

	existing, err := s.repo.GetByCategory(ctx, def.Category)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", ErrCategoryExists
	}

	id, err := s.repo.Create(ctx, def)
	if err != nil {
		return "", err
	}
	s.logger.Info("definition created",
		zap.String("category", def.Category),
		zap.Int("questions", def.QuestionCount),
		zap.Int("archetypes", len(def.Archetypes)))
	return id, nil
}

// GetByCategory loads a definition, consulting the cache first. Returns
// ErrUnknownAssessment when the category has no definition.
func (s *DefinitionService) GetByCategory(ctx context.Context, category string) (*model.Definition, error) {
	if def, err := s.cache.Get(ctx, category); err == nil && def != nil {
		return def, nil
	} else if err != nil {
		s.logger.Warn("definition cache read failed", zap.String("category", category), zap.Error(err))
	}

	def, err := s.repo.GetByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, ErrUnknownAssessment
	}

	if err := s.cache.Set(ctx, def); err != nil {
		s.logger.Warn("definition cache write failed", zap.String("category", category), zap.Error(err))
	}
	return def, nil
}

// List returns all stored definitions
func (s *DefinitionService) List(ctx context.Context) ([]*model.Definition, error) {
	return s.repo.List(ctx)
}

// Update validates and replaces the definition for a category
func (s *DefinitionService) Update(ctx context.Context, def *model.Definition) error {
	def.Normalize()
	if err := def.Validate(); err != nil {
		return err
	}

	existing, err := s.repo.GetByCategory(ctx, def.Category)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrUnknownAssessment
	}
	def.ID = existing.ID
	def.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, def); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, def.Category); err != nil {
		s.logger.Warn("definition cache invalidation failed", zap.String("category", def.Category), zap.Error(err))
	}
	s.logger.Info("definition updated", zap.String("category", def.Category))
	return nil
}

// Delete removes a category's definition
func (s *DefinitionService) Delete(ctx context.Context, category string) error {
	if err := s.repo.Delete(ctx, category); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, category); err != nil {
		s.logger.Warn("definition cache invalidation failed", zap.String("category", category), zap.Error(err))
	}
	s.logger.Info("definition deleted", zap.String("category", category))
	return nil
}
