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

// CommentFilter 评论列表过滤条件
type CommentFilter struct {
	PostID       *primitive.ObjectID
	Status       string
	PublicOnly   bool // 只取 approved 且 is_active
	TopLevelOnly bool // 只取一级评论（parent_id 为空）
}

type CommentRepo interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error)
	List(ctx context.Context, filter CommentFilter, page, limit int) ([]*model.Comment, int64, error)
	Replies(ctx context.Context, parentIDs []primitive.ObjectID, publicOnly bool) (map[primitive.ObjectID][]*model.Comment, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) error
	DeleteCascade(ctx context.Context, id primitive.ObjectID) (int64, error)
	DeleteByPost(ctx context.Context, postID primitive.ObjectID) error
	ToggleLike(ctx context.Context, id primitive.ObjectID, userID uint64) (*model.Comment, error)
}

type commentRepoImpl struct {
	col *mongo.Collection
}

func NewCommentRepo(db *mongo.Database) CommentRepo {
	return &commentRepoImpl{
		col: db.Collection("comments"),
	}
}

func (s *commentRepoImpl) Create(ctx context.Context, comment *model.Comment) error {
	res, err := s.col.InsertOne(ctx, comment)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		comment.ID = oid
	}
	return nil
}

func (s *commentRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error) {
	var comment model.Comment
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

func commentQuery(filter CommentFilter) bson.M {
	query := bson.M{}
	if filter.PostID != nil {
		query["post_id"] = *filter.PostID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.PublicOnly {
		query["status"] = model.CommentStatusApproved
		query["is_active"] = true
	}
	if filter.TopLevelOnly {
		query["parent_id"] = nil
	}
	return query
}

func (s *commentRepoImpl) List(ctx context.Context, filter CommentFilter, page, limit int) ([]*model.Comment, int64, error) {
	query := commentQuery(filter)

	total, err := s.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := s.col.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var comments []*model.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// Replies 按 parent_id 一次性取回当前页所有一级评论的回复，读取时派生
func (s *commentRepoImpl) Replies(ctx context.Context, parentIDs []primitive.ObjectID, publicOnly bool) (map[primitive.ObjectID][]*model.Comment, error) {
	result := make(map[primitive.ObjectID][]*model.Comment)
	if len(parentIDs) == 0 {
		return result, nil
	}

	query := bson.M{"parent_id": bson.M{"$in": parentIDs}}
	if publicOnly {
		query["status"] = model.CommentStatusApproved
		query["is_active"] = true
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := s.col.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var replies []*model.Comment
	if err := cursor.All(ctx, &replies); err != nil {
		return nil, err
	}

	for _, reply := range replies {
		if reply.ParentID == nil {
			continue
		}
		result[*reply.ParentID] = append(result[*reply.ParentID], reply)
	}
	return result, nil
}

func (s *commentRepoImpl) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	res, err := s.col.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteCascade 删除评论及其全部后代（逐层收集 parent_id 闭包后一次删除），
// 不会留下孤儿回复
func (s *commentRepoImpl) DeleteCascade(ctx context.Context, id primitive.ObjectID) (int64, error) {
	all := []primitive.ObjectID{id}
	frontier := []primitive.ObjectID{id}

	for len(frontier) > 0 {
		cursor, err := s.col.Find(ctx,
			bson.M{"parent_id": bson.M{"$in": frontier}},
			options.Find().SetProjection(bson.M{"_id": 1}),
		)
		if err != nil {
			return 0, err
		}

		var children []struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.All(ctx, &children); err != nil {
			return 0, err
		}

		frontier = frontier[:0]
		for _, child := range children {
			all = append(all, child.ID)
			frontier = append(frontier, child.ID)
		}
	}

	res, err := s.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": all}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *commentRepoImpl) DeleteByPost(ctx context.Context, postID primitive.ObjectID) error {
	_, err := s.col.DeleteMany(ctx, bson.M{"post_id": postID})
	return err
}

// ToggleLike 与文章点赞相同的原子翻转
func (s *commentRepoImpl) ToggleLike(ctx context.Context, id primitive.ObjectID, userID uint64) (*model.Comment, error) {
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

	var comment model.Comment
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, pipeline, opts).Decode(&comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}
