package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resistmap/internal/cache"
	"resistmap/internal/model"
	"resistmap/internal/repository"
	"resistmap/internal/scoring"
)

// StartedAssessment is returned when a respondent begins a battery
type StartedAssessment struct {
	Token         string `json:"token"`
	RespondentID  string `json:"respondentId"`
	Category      string `json:"category"`
	Title         string `json:"title"`
	QuestionCount int    `json:"questionCount"`
	ScaleMax      int    `json:"scaleMax"`
}

// AssessmentService orchestrates a scoring run: definition lookup, engine
// call, persistence, and dominant-archetype tallying
type AssessmentService struct {
	definitions *DefinitionService
	results     repository.ResultRepo
	stats       cache.StatsCache
	auth        *AuthService
	logger      *zap.Logger
}

// NewAssessmentService creates a new assessment service
func NewAssessmentService(definitions *DefinitionService, results repository.ResultRepo, stats cache.StatsCache, auth *AuthService, logger *zap.Logger) *AssessmentService {
	return &AssessmentService{
		definitions: definitions,
		results:     results,
		stats:       stats,
		auth:        auth,
		logger:      logger,
	}
}

// Start issues a respondent token for a category and returns the battery
// metadata the client needs to collect responses
func (s *AssessmentService) Start(ctx context.Context, category string) (*StartedAssessment, error) {
	def, err := s.definitions.GetByCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	token, respondentID, err := s.auth.IssueRespondentToken(category)
	if err != nil {
		return nil, err
	}

	return &StartedAssessment{
		Token:         token,
		RespondentID:  respondentID,
		Category:      category,
		Title:         def.Title,
		QuestionCount: def.QuestionCount,
		ScaleMax:      def.Scale(),
	}, nil
}

// Submit scores a completed battery and persists the outcome
func (s *AssessmentService) Submit(ctx context.Context, respondentID, category string, responses []model.Response) (*model.Result, error) {
	def, err := s.definitions.GetByCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	result, err := scoring.Score(def, responses)
	if err != nil {
		return nil, err
	}

	stored := &model.AssessmentResult{
		ID:           uuid.New().String(),
		RespondentID: respondentID,
		Category:     category,
		Result:       *result,
		TakenAt:      time.Now(),
	}
	if err := s.results.Create(ctx, stored); err != nil {
		return nil, err
	}

	if result.Dominant != "" {
		if err := s.stats.BumpDominant(ctx, category, result.Dominant); err != nil {
			s.logger.Warn("dominant tally failed", zap.String("category", category), zap.Error(err))
		}
	}

	s.logger.Info("assessment scored",
		zap.String("category", category),
		zap.String("respondent", respondentID),
		zap.String("dominant", result.Dominant),
		zap.Float64("overall", result.OverallPercentage),
		zap.String("level", string(result.ResistanceLevel)))

	return result, nil
}

// Preview scores the short unauthenticated free-tier battery for a category.
// The reduced definition reuses the category's archetypes in declaration
// order; nothing is persisted.
func (s *AssessmentService) Preview(ctx context.Context, category string, responses []model.Response) (*model.Result, error) {
	def, err := s.definitions.GetByCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(def.Archetypes))
	for i, a := range def.Archetypes {
		names[i] = a.Name
	}

	result, err := scoring.ScoreFreeTier(scoring.FreeTierDefinition(category, names), responses)
	if err != nil {
		return nil, err
	}

	s.logger.Info("free-tier preview scored",
		zap.String("category", category),
		zap.String("dominant", result.Dominant))

	return result, nil
}

// PreviewQuestionCount reports how many responses a category's free-tier
// battery expects
func (s *AssessmentService) PreviewQuestionCount(ctx context.Context, category string) (int, error) {
	def, err := s.definitions.GetByCategory(ctx, category)
	if err != nil {
		return 0, err
	}
	return len(def.Archetypes) * scoring.FreeTierQuestionsPerArchetype, nil
}

// History returns a respondent's stored results, newest first
func (s *AssessmentService) History(ctx context.Context, respondentID string) ([]*model.AssessmentResult, error) {
	return s.results.ListByRespondent(ctx, respondentID)
}

// CategoryResults returns recent results for a category (admin view)
func (s *AssessmentService) CategoryResults(ctx context.Context, category string, limit int64) ([]*model.AssessmentResult, error) {
	return s.results.ListByCategory(ctx, category, limit)
}

// DominantDistribution reads the dominant-archetype tallies for a category
func (s *AssessmentService) DominantDistribution(ctx context.Context, category string, limit int) ([]cache.DominantCount, error) {
	return s.stats.TopDominant(ctx, category, limit)
}
