package repository

import (
	"Quill/internal/model"
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TagRepo interface {
	Create(ctx context.Context, tag *model.Tag) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Tag, error)
	GetActiveByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Tag, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Tag, error)
	List(ctx context.Context, search string, isActive *bool, page, limit int) ([]*model.Tag, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type tagRepoImpl struct {
	col *mongo.Collection
}

func NewTagRepo(db *mongo.Database) TagRepo {
	return &tagRepoImpl{
		col: db.Collection("tags"),
	}
}

func (s *tagRepoImpl) Create(ctx context.Context, tag *model.Tag) error {
	res, err := s.col.InsertOne(ctx, tag)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		tag.ID = oid
	}
	return nil
}

func (s *tagRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Tag, error) {
	var tag model.Tag
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&tag)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &tag, nil
}

func (s *tagRepoImpl) GetActiveByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := s.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}, "is_active": true})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var tags []*model.Tag
	if err := cursor.All(ctx, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *tagRepoImpl) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := s.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var tags []*model.Tag
	if err := cursor.All(ctx, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *tagRepoImpl) List(ctx context.Context, search string, isActive *bool, page, limit int) ([]*model.Tag, int64, error) {
	query := bson.M{}
	if search != "" {
		query["name"] = bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
	}
	if isActive != nil {
		query["is_active"] = *isActive
	}

	total, err := s.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := s.col.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var tags []*model.Tag
	if err := cursor.All(ctx, &tags); err != nil {
		return nil, 0, err
	}
	return tags, total, nil
}

func (s *tagRepoImpl) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	res, err := s.col.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *tagRepoImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
