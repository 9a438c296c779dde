package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"resistmap/internal/model"
)

// ResultRepo handles MongoDB operations for scored assessment results
type ResultRepo interface {
	Create(ctx context.Context, result *model.AssessmentResult) error
	ListByRespondent(ctx context.Context, respondentID string) ([]*model.AssessmentResult, error)
	ListByCategory(ctx context.Context, category string, limit int64) ([]*model.AssessmentResult, error)
}

type resultRepo struct {
	collection *mongo.Collection
}

// NewResultRepo creates a new result repository
func NewResultRepo(db *mongo.Database) ResultRepo {
	return &resultRepo{
		collection: db.Collection("results"),
	}
}

func (r *resultRepo) Create(ctx context.Context, result *model.AssessmentResult) error {
	if result.TakenAt.IsZero() {
		result.TakenAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, result)
	return err
}

func (r *resultRepo) ListByRespondent(ctx context.Context, respondentID string) ([]*model.AssessmentResult, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"respondentId": respondentID},
		options.Find().SetSort(bson.M{"takenAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []*model.AssessmentResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *resultRepo) ListByCategory(ctx context.Context, category string, limit int64) ([]*model.AssessmentResult, error) {
	opts := options.Find().SetSort(bson.M{"takenAt": -1})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"category": category}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []*model.AssessmentResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
