package repositories

import (
	"context"
	"errors"

	"recipe-recommender/internal/infrastructure/database"
	"recipe-recommender/internal/pkg/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type baseRecipeRepository struct {
	collection *mongo.Collection
}

// NewBaseRecipeRepository MongoDB 基礎食譜存取
func NewBaseRecipeRepository(db *database.MongoDB) BaseRecipeRepository {
	return &baseRecipeRepository{collection: db.Collection(database.CollectionBaseRecipes)}
}

func (r *baseRecipeRepository) List(ctx context.Context) ([]common.CandidateRecipe, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"type": TypeBaseRecipe})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var recipes []common.CandidateRecipe
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *baseRecipeRepository) Get(ctx context.Context, id string) (*common.CandidateRecipe, error) {
	var recipe common.CandidateRecipe
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&recipe)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &recipe, nil
}

func (r *baseRecipeRepository) Upsert(ctx context.Context, recipe *common.CandidateRecipe) error {
	recipe.Type = TypeBaseRecipe
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": recipe.ID}, recipe, options.Replace().SetUpsert(true))
	return err
}

type generatedRecipeRepository struct {
	collection *mongo.Collection
}

// NewGeneratedRecipeRepository MongoDB 生成食譜存取
func NewGeneratedRecipeRepository(db *database.MongoDB) GeneratedRecipeRepository {
	return &generatedRecipeRepository{collection: db.Collection(database.CollectionGeneratedRecipes)}
}

func (r *generatedRecipeRepository) Save(ctx context.Context, recipe *common.GeneratedRecipe) error {
	recipe.Type = TypeGeneratedRecipe
	_, err := r.collection.InsertOne(ctx, recipe)
	return err
}

func (r *generatedRecipeRepository) Get(ctx context.Context, id string) (*common.GeneratedRecipe, error) {
	var recipe common.GeneratedRecipe
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&recipe)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &recipe, nil
}

func (r *generatedRecipeRepository) ListByUser(ctx context.Context, userID string, limit int) ([]common.GeneratedRecipe, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID, "type": TypeGeneratedRecipe}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	recipes := []common.GeneratedRecipe{}
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

type profileRepository struct {
	collection *mongo.Collection
}

// NewProfileRepository MongoDB 使用者檔案存取
func NewProfileRepository(db *database.MongoDB) ProfileRepository {
	return &profileRepository{collection: db.Collection(database.CollectionUserProfiles)}
}

func (r *profileRepository) Get(ctx context.Context, userID string) (*common.UserProfile, error) {
	var profile common.UserProfile
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Upsert(ctx context.Context, profile *common.UserProfile) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": profile.UserID}, profile, options.Replace().SetUpsert(true))
	return err
}
