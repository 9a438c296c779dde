package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"resistmap/internal/model"
)

// DefinitionRepo handles MongoDB operations for assessment definitions
type DefinitionRepo interface {
	Create(ctx context.Context, def *model.Definition) (string, error)
	GetByCategory(ctx context.Context, category string) (*model.Definition, error)
	List(ctx context.Context) ([]*model.Definition, error)
	Update(ctx context.Context, def *model.Definition) error
	Delete(ctx context.Context, category string) error
	Upsert(ctx context.Context, def *model.Definition) error
}

type definitionRepo struct {
	collection *mongo.Collection
}

// NewDefinitionRepo creates a new definition repository
func NewDefinitionRepo(db *mongo.Database) DefinitionRepo {
	return &definitionRepo{
		collection: db.Collection("definitions"),
	}
}

func (r *definitionRepo) Create(ctx context.Context, def *model.Definition) (string, error) {
	if def.ID == "" {
		def.ID = primitive.NewObjectID().Hex()
	}
	def.CreatedAt = time.Now()
	def.UpdatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, def); err != nil {
		return "", err
	}
	return def.ID, nil
}

func (r *definitionRepo) GetByCategory(ctx context.Context, category string) (*model.Definition, error) {
	var def model.Definition
	err := r.collection.FindOne(ctx, bson.M{"category": category}).Decode(&def)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *definitionRepo) List(ctx context.Context) ([]*model.Definition, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"category": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var defs []*model.Definition
	if err := cursor.All(ctx, &defs); err != nil {
		return nil, err
	}
	return defs, nil
}

func (r *definitionRepo) Update(ctx context.Context, def *model.Definition) error {
	def.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"category": def.Category}, def)
	return err
}

func (r *definitionRepo) Delete(ctx context.Context, category string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"category": category})
	return err
}

// Upsert replaces the definition for a category, keeping the existing
// identity and creation time when one is already stored. Used by the seeder.
func (r *definitionRepo) Upsert(ctx context.Context, def *model.Definition) error {
	existing, err := r.GetByCategory(ctx, def.Category)
	if err != nil {
		return err
	}
	if existing == nil {
		_, err = r.Create(ctx, def)
		return err
	}

	def.ID = existing.ID
	def.CreatedAt = existing.CreatedAt
	def.UpdatedAt = time.Now()
	_, err = r.collection.ReplaceOne(ctx, bson.M{"_id": def.ID}, def)
	return err
}
