package repository

import (
	"Quill/internal/model"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostFilter 文章列表过滤条件
type PostFilter struct {
	Status     string
	IsActive   *bool
	CategoryID *primitive.ObjectID
	TagID      *primitive.ObjectID
	AuthorID   uint64
	Search     string
}

type PostRepo interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error)
	List(ctx context.Context, filter PostFilter, sort string, page, limit int) ([]*model.Post, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	IncViews(ctx context.Context, id primitive.ObjectID) error
	ToggleLike(ctx context.Context, id primitive.ObjectID, userID uint64) (*model.Post, error)
	Related(ctx context.Context, post *model.Post, limit int64) ([]*model.Post, error)
	CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error)
	CountByTag(ctx context.Context, tagID primitive.ObjectID) (int64, error)
}

type postRepoImpl struct {
	col *mongo.Collection
}

func NewPostRepo(db *mongo.Database) PostRepo {
	return &postRepoImpl{
		col: db.Collection("posts"),
	}
}

func (s *postRepoImpl) Create(ctx context.Context, post *model.Post) error {
	res, err := s.col.InsertOne(ctx, post)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		post.ID = oid
	}
	return nil
}

func (s *postRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	var post model.Post
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// buildFilter 组装查询条件
func buildFilter(filter PostFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.IsActive != nil {
		query["is_active"] = *filter.IsActive
	}
	if filter.CategoryID != nil {
		query["category_id"] = *filter.CategoryID
	}
	if filter.TagID != nil {
		query["tag_ids"] = *filter.TagID
	}
	if filter.AuthorID != 0 {
		query["author_id"] = filter.AuthorID
	}
	if filter.Search != "" {
		query["$text"] = bson.M{"$search": filter.Search}
	}
	return query
}

// sortSpec 排序别名到排序键的映射
func sortSpec(sort string) bson.D {
	switch sort {
	case "oldest":
		return bson.D{{Key: "published_at", Value: 1}, {Key: "created_at", Value: 1}}
	case "popular":
		return bson.D{{Key: "views", Value: -1}}
	case "liked":
		return bson.D{{Key: "likes_count", Value: -1}}
	case "title":
		return bson.D{{Key: "title", Value: 1}}
	default: // newest
		return bson.D{{Key: "published_at", Value: -1}, {Key: "created_at", Value: -1}}
	}
}

func (s *postRepoImpl) List(ctx context.Context, filter PostFilter, sort string, page, limit int) ([]*model.Post, int64, error) {
	query := buildFilter(filter)

	total, err := s.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(sortSpec(sort)).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := s.col.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var posts []*model.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (s *postRepoImpl) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	res, err := s.col.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *postRepoImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// IncViews 浏览计数只增不减
func (s *postRepoImpl) IncViews(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"views": 1}})
	return err
}

// ToggleLike 单次原子更新内完成成员翻转并重算 likes_count，
// 同一用户并发切换不会产生重复成员或计数漂移
func (s *postRepoImpl) ToggleLike(ctx context.Context, id primitive.ObjectID, userID uint64) (*model.Post, error) {
	pipeline := bson.A{
		bson.M{"$set": bson.M{
			"likers": bson.M{"$cond": bson.A{
				bson.M{"$in": bson.A{userID, "$likers"}},
				bson.M{"$setDifference": bson.A{"$likers", bson.A{userID}}},
				bson.M{"$concatArrays": bson.A{"$likers", bson.A{userID}}},
			}},
		}},
		bson.M{"$set": bson.M{"likes_count": bson.M{"$size": "$likers"}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post model.Post
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, pipeline, opts).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Related 同分类或有共同标签的已发布文章
func (s *postRepoImpl) Related(ctx context.Context, post *model.Post, limit int64) ([]*model.Post, error) {
	or := bson.A{bson.M{"category_id": post.CategoryID}}
	if len(post.TagIDs) > 0 {
		or = append(or, bson.M{"tag_ids": bson.M{"$in": post.TagIDs}})
	}
	query := bson.M{
		"_id":       bson.M{"$ne": post.ID},
		"status":    model.PostStatusPublished,
		"is_active": true,
		"$or":       or,
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "published_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.col.Find(ctx, query, findOptions)
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

func (s *postRepoImpl) CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"category_id": categoryID})
}

func (s *postRepoImpl) CountByTag(ctx context.Context, tagID primitive.ObjectID) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"tag_ids": tagID})
}
