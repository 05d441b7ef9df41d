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

type CategoryRepo interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Category, error)
	GetActiveByID(ctx context.Context, id primitive.ObjectID) (*model.Category, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Category, error)
	List(ctx context.Context, search string, isActive *bool, page, limit int) ([]*model.Category, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type categoryRepoImpl struct {
	col *mongo.Collection
}

func NewCategoryRepo(db *mongo.Database) CategoryRepo {
	return &categoryRepoImpl{
		col: db.Collection("categories"),
	}
}

func (s *categoryRepoImpl) Create(ctx context.Context, category *model.Category) error {
	res, err := s.col.InsertOne(ctx, category)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		category.ID = oid
	}
	return nil
}

func (s *categoryRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Category, error) {
	var category model.Category
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (s *categoryRepoImpl) GetActiveByID(ctx context.Context, id primitive.ObjectID) (*model.Category, error) {
	var category model.Category
	err := s.col.FindOne(ctx, bson.M{"_id": id, "is_active": true}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (s *categoryRepoImpl) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Category, error) {
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

	var categories []*model.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *categoryRepoImpl) List(ctx context.Context, search string, isActive *bool, page, limit int) ([]*model.Category, int64, error) {
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

	var categories []*model.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

func (s *categoryRepoImpl) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	res, err := s.col.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *categoryRepoImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
