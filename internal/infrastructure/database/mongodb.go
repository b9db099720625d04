package database

import (
	"context"
	"fmt"
	"time"

	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// 集合名稱
const (
	CollectionBaseRecipes      = "base_recipes"
	CollectionGeneratedRecipes = "generated_recipes"
	CollectionUserProfiles     = "user_profiles"
)

// MongoDB 包裝 MongoDB 連線
type MongoDB struct {
	client   *mongo.Client
	database *mongo.Database
	config   config.MongoDBConfig
}

// NewMongoDB 建立尚未連線的 MongoDB
func NewMongoDB(cfg config.MongoDBConfig) *MongoDB {
	return &MongoDB{config: cfg}
}

// Connect 建立連線並建立索引
func (m *MongoDB) Connect(ctx context.Context) error {
	clientOpts := options.Client().
		ApplyURI(m.config.URI).
		SetMaxPoolSize(m.config.MaxPoolSize).
		SetMinPoolSize(m.config.MinPoolSize).
		SetConnectTimeout(m.config.ConnectTimeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	m.client = client
	m.database = client.Database(m.config.Database)
	common.LogInfo("Connected to MongoDB", zap.String("database", m.config.Database))

	m.createIndexes(ctx)
	return nil
}

// Close 關閉連線
func (m *MongoDB) Close(ctx context.Context) error {
	if m.client != nil {
		return m.client.Disconnect(ctx)
	}
	return nil
}

// Collection 依名稱取得集合
func (m *MongoDB) Collection(name string) *mongo.Collection {
	return m.database.Collection(name)
}

func (m *MongoDB) createIndexes(ctx context.Context) {
	indexes := map[string][]mongo.IndexModel{
		CollectionBaseRecipes: {
			{Keys: bson.D{{Key: "cuisine", Value: 1}}},
		},
		CollectionGeneratedRecipes: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}

	for collection, idxModels := range indexes {
		coll := m.database.Collection(collection)
		for _, idx := range idxModels {
			if _, err := coll.Indexes().CreateOne(ctx, idx); err != nil {
				common.LogWarn("Failed to create index",
					zap.String("collection", collection),
					zap.Error(err))
			}
		}
	}
}

// Health 檢查連線狀態
func (m *MongoDB) Health(ctx context.Context) error {
	if m.client == nil {
		return fmt.Errorf("mongodb not connected")
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return m.client.Ping(ctx, readpref.Primary())
}
