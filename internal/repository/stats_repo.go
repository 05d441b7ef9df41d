package repository

import (
	"Quill/internal/model"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostStatusStat 按状态聚合的文章数据
type PostStatusStat struct {
	Status string `bson:"_id"`
	Count  int64  `bson:"count"`
	Views  int64  `bson:"views"`
	Likes  int64  `bson:"likes"`
}

// CategoryStat 按分类聚合的已发布文章数据，Name 由 $lookup 带出
type CategoryStat struct {
	CategoryID primitive.ObjectID `bson:"_id"`
	Name       string             `bson:"name"`
	Posts      int64              `bson:"posts"`
	Views      int64              `bson:"views"`
}

// TagStat 按标签聚合的已发布文章数据
type TagStat struct {
	TagID primitive.ObjectID `bson:"_id"`
	Name  string             `bson:"name"`
	Posts int64              `bson:"posts"`
}

type StatsRepo interface {
	TotalPosts(ctx context.Context) (int64, error)
	PostStatusStats(ctx context.Context) ([]*PostStatusStat, error)
	RecentPosts(ctx context.Context, limit int64) ([]*model.Post, error)
	CategoryStats(ctx context.Context) ([]*CategoryStat, error)
	TagStats(ctx context.Context, limit int64) ([]*TagStat, error)
}

type statsRepoImpl struct {
	posts *mongo.Collection
}

func NewStatsRepo(db *mongo.Database) StatsRepo {
	return &statsRepoImpl{
		posts: db.Collection("posts"),
	}
}

func (s *statsRepoImpl) TotalPosts(ctx context.Context) (int64, error) {
	return s.posts.CountDocuments(ctx, bson.M{})
}

func (s *statsRepoImpl) PostStatusStats(ctx context.Context) ([]*PostStatusStat, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
			"views": bson.M{"$sum": "$views"},
			"likes": bson.M{"$sum": "$likes_count"},
		}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}

	cursor, err := s.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var stats []*PostStatusStat
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *statsRepoImpl) RecentPosts(ctx context.Context, limit int64) ([]*model.Post, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetProjection(bson.M{"title": 1, "status": 1, "created_at": 1})

	cursor, err := s.posts.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var posts []*model.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CategoryStats 只统计已发布且未下线的文章，按文章数倒序
func (s *statsRepoImpl) CategoryStats(ctx context.Context) ([]*CategoryStat, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status":    model.PostStatusPublished,
			"is_active": true,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$category_id",
			"posts": bson.M{"$sum": 1},
			"views": bson.M{"$sum": "$views"},
		}}},
		{{Key: "$sort", Value: bson.M{"posts": -1}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "categories",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "category",
		}}},
		{{Key: "$unwind", Value: "$category"}},
		{{Key: "$set", Value: bson.M{"name": "$category.name"}}},
	}

	cursor, err := s.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var stats []*CategoryStat
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// TagStats 展开 tag_ids 后按标签统计已发布文章数
func (s *statsRepoImpl) TagStats(ctx context.Context, limit int64) ([]*TagStat, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status":    model.PostStatusPublished,
			"is_active": true,
		}}},
		{{Key: "$unwind", Value: "$tag_ids"}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$tag_ids",
			"posts": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"posts": -1}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "tags",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "tag",
		}}},
		{{Key: "$unwind", Value: "$tag"}},
		{{Key: "$set", Value: bson.M{"name": "$tag.name"}}},
	}

	cursor, err := s.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var stats []*TagStat
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}
