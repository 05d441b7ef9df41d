package service

import (
	"Quill/internal/api/dto"
	"Quill/internal/model"
	"Quill/internal/pkg/policy"
	"Quill/internal/pkg/util"
	"Quill/internal/repository"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, caller policy.Caller, baseDTO *dto.CategoryBaseDTO) (*dto.CategoryDTO, error)
	GetCategory(ctx context.Context, id string) (*dto.CategoryDTO, error)
	ListCategories(ctx context.Context, query *dto.NamedListQuery) ([]*dto.CategoryDTO, int64, error)
	UpdateCategory(ctx context.Context, caller policy.Caller, id string, baseDTO *dto.CategoryBaseDTO) (*dto.CategoryDTO, error)
	DeleteCategory(ctx context.Context, caller policy.Caller, id string) error
}

type CategoryServiceImpl struct {
	categoryRepo repository.CategoryRepo
	postRepo     repository.PostRepo
}

func NewCategoryService(categoryRepo repository.CategoryRepo, postRepo repository.PostRepo) CategoryService {
	return &CategoryServiceImpl{
		categoryRepo: categoryRepo,
		postRepo:     postRepo,
	}
}

// CreateCategory 名称不区分大小写唯一，由小写 slug 的唯一索引兜底
func (s *CategoryServiceImpl) CreateCategory(ctx context.Context, caller policy.Caller, baseDTO *dto.CategoryBaseDTO) (*dto.CategoryDTO, error) {
	if err := policy.Decide(caller, policy.ActionCategoryCreate, policy.Target{}); err != nil {
		return nil, err
	}

	isActive := true
	if baseDTO.IsActive != nil {
		isActive = *baseDTO.IsActive
	}

	now := time.Now()
	category := &model.Category{
		Name:      baseDTO.Name,
		Slug:      util.Slugify(baseDTO.Name),
		Color:     baseDTO.Color,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrCategoryNameExist
		}
		return nil, err
	}
	return s.toCategoryDTO(ctx, category)
}

func (s *CategoryServiceImpl) GetCategory(ctx context.Context, id string) (*dto.CategoryDTO, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, ErrCategoryNotFound
	}
	category, err := s.categoryRepo.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return s.toCategoryDTO(ctx, category)
}

func (s *CategoryServiceImpl) ListCategories(ctx context.Context, query *dto.NamedListQuery) ([]*dto.CategoryDTO, int64, error) {
	query.Normalize()

	categories, total, err := s.categoryRepo.List(ctx, query.Search, query.IsActive, query.Page, query.Limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*dto.CategoryDTO, 0, len(categories))
	for _, category := range categories {
		categoryDTO, err := s.toCategoryDTO(ctx, category)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, categoryDTO)
	}
	return result, total, nil
}

func (s *CategoryServiceImpl) UpdateCategory(ctx context.Context, caller policy.Caller, id string, baseDTO *dto.CategoryBaseDTO) (*dto.CategoryDTO, error) {
	if err := policy.Decide(caller, policy.ActionCategoryUpdate, policy.Target{}); err != nil {
		return nil, err
	}

	oid, err := parseObjectID(id)
	if err != nil {
		return nil, ErrCategoryNotFound
	}
	category, err := s.categoryRepo.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	now := time.Now()
	category.Name = baseDTO.Name
	category.Slug = util.Slugify(baseDTO.Name)
	category.Color = baseDTO.Color
	if baseDTO.IsActive != nil {
		category.IsActive = *baseDTO.IsActive
	}
	category.UpdatedAt = now

	set := bson.M{
		"name":       category.Name,
		"slug":       category.Slug,
		"color":      category.Color,
		"is_active":  category.IsActive,
		"updated_at": now,
	}
	if err := s.categoryRepo.Update(ctx, oid, set); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrCategoryNameExist
		}
		return nil, err
	}
	return s.toCategoryDTO(ctx, category)
}

// DeleteCategory 仍有文章引用的分类不允许删除
func (s *CategoryServiceImpl) DeleteCategory(ctx context.Context, caller policy.Caller, id string) error {
	if err := policy.Decide(caller, policy.ActionCategoryDelete, policy.Target{}); err != nil {
		return err
	}

	oid, err := parseObjectID(id)
	if err != nil {
		return ErrCategoryNotFound
	}
	category, err := s.categoryRepo.GetByID(ctx, oid)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}

	count, err := s.postRepo.CountByCategory(ctx, oid)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	return s.categoryRepo.Delete(ctx, oid)
}

func (s *CategoryServiceImpl) toCategoryDTO(ctx context.Context, category *model.Category) (*dto.CategoryDTO, error) {
	count, err := s.postRepo.CountByCategory(ctx, category.ID)
	if err != nil {
		return nil, err
	}
	return &dto.CategoryDTO{
		ID:        category.ID.Hex(),
		Name:      category.Name,
		Slug:      category.Slug,
		Color:     category.Color,
		IsActive:  category.IsActive,
		PostCount: count,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}, nil
}
