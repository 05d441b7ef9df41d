package mongo

import (
	"Quill/internal/api/config"
	"Quill/internal/pkg/logger"
	"context"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InitMongo 建立连接并返回 Database 引用，同时初始化索引
func InitMongo(cfg config.MongoConfig) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 建立连接
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URL).
		SetMonitor(logger.NewMongoMonitor()),
	)
	if err != nil {
		return nil, err
	}

	// 检查连通性
	if err = client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(cfg.Database)

	if err = ensureIndexes(ctx, db); err != nil {
		return nil, err
	}

	log.Info("MongoDB initialized successfully", "db", cfg.Database)
	return db, nil
}

// ensureIndexes 启动时建立唯一索引、全文索引与常用查询索引
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	postIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "title", Value: "text"}, {Key: "content", Value: "text"}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "published_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "author_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "category_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "tag_ids", Value: 1}},
		},
	}
	if _, err := db.Collection("posts").Indexes().CreateMany(ctx, postIndexes); err != nil {
		return err
	}

	commentIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "post_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "parent_id", Value: 1}},
		},
	}
	if _, err := db.Collection("comments").Indexes().CreateMany(ctx, commentIndexes); err != nil {
		return err
	}

	namedIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := db.Collection("categories").Indexes().CreateMany(ctx, namedIndexes); err != nil {
		return err
	}
	if _, err := db.Collection("tags").Indexes().CreateMany(ctx, namedIndexes); err != nil {
		return err
	}

	return nil
}
