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

type TagService interface {
	CreateTag(ctx context.Context, caller policy.Caller, baseDTO *dto.TagBaseDTO) (*dto.TagDTO, error)
	GetTag(ctx context.Context, id string) (*dto.TagDTO, error)
	ListTags(ctx context.Context, query *dto.NamedListQuery) ([]*dto.TagDTO, int64, error)
	PopularTags(ctx context.Context, limit int64) ([]*dto.TagStatDTO, error)
	UpdateTag(ctx context.Context, caller policy.Caller, id string, baseDTO *dto.TagBaseDTO) (*dto.TagDTO, error)
	DeleteTag(ctx context.Context, caller policy.Caller, id string) error
}

type TagServiceImpl struct {
	tagRepo   repository.TagRepo
	postRepo  repository.PostRepo
	statsRepo repository.StatsRepo
}

func NewTagService(tagRepo repository.TagRepo, postRepo repository.PostRepo, statsRepo repository.StatsRepo) TagService {
	return &TagServiceImpl{
		tagRepo:   tagRepo,
		postRepo:  postRepo,
		statsRepo: statsRepo,
	}
}

// CreateTag 名称不区分大小写唯一，由小写 slug 的唯一索引兜底
func (s *TagServiceImpl) CreateTag(ctx context.Context, caller policy.Caller, baseDTO *dto.TagBaseDTO) (*dto.TagDTO, error) {
	if err := policy.Decide(caller, policy.ActionTagCreate, policy.Target{}); err != nil {
		return nil, err
	}

	isActive := true
	if baseDTO.IsActive != nil {
		isActive = *baseDTO.IsActive
	}

	now := time.Now()
	tag := &model.Tag{
		Name:      baseDTO.Name,
		Slug:      util.Slugify(baseDTO.Name),
		Color:     baseDTO.Color,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrTagNameExist
		}
		return nil, err
	}
	return s.toTagDTO(ctx, tag)
}

func (s *TagServiceImpl) GetTag(ctx context.Context, id string) (*dto.TagDTO, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, ErrTagNotFound
	}
	tag, err := s.tagRepo.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, ErrTagNotFound
	}
	return s.toTagDTO(ctx, tag)
}

func (s *TagServiceImpl) ListTags(ctx context.Context, query *dto.NamedListQuery) ([]*dto.TagDTO, int64, error) {
	query.Normalize()

	tags, total, err := s.tagRepo.List(ctx, query.Search, query.IsActive, query.Page, query.Limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*dto.TagDTO, 0, len(tags))
	for _, tag := range tags {
		tagDTO, err := s.toTagDTO(ctx, tag)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, tagDTO)
	}
	return result, total, nil
}

// PopularTags 按已发布文章数排序的标签榜
func (s *TagServiceImpl) PopularTags(ctx context.Context, limit int64) ([]*dto.TagStatDTO, error) {
	if limit <= 0 {
		limit = 10
	}
	stats, err := s.statsRepo.TagStats(ctx, limit)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.TagStatDTO, 0, len(stats))
	for _, stat := range stats {
		result = append(result, &dto.TagStatDTO{
			ID:    stat.TagID.Hex(),
			Name:  stat.Name,
			Posts: stat.Posts,
		})
	}
	return result, nil
}

func (s *TagServiceImpl) UpdateTag(ctx context.Context, caller policy.Caller, id string, baseDTO *dto.TagBaseDTO) (*dto.TagDTO, error) {
	if err := policy.Decide(caller, policy.ActionTagUpdate, policy.Target{}); err != nil {
		return nil, err
	}

	oid, err := parseObjectID(id)
	if err != nil {
		return nil, ErrTagNotFound
	}
	tag, err := s.tagRepo.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, ErrTagNotFound
	}

	now := time.Now()
	tag.Name = baseDTO.Name
	tag.Slug = util.Slugify(baseDTO.Name)
	tag.Color = baseDTO.Color
	if baseDTO.IsActive != nil {
		tag.IsActive = *baseDTO.IsActive
	}
	tag.UpdatedAt = now

	set := bson.M{
		"name":       tag.Name,
		"slug":       tag.Slug,
		"color":      tag.Color,
		"is_active":  tag.IsActive,
		"updated_at": now,
	}
	if err := s.tagRepo.Update(ctx, oid, set); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrTagNameExist
		}
		return nil, err
	}
	return s.toTagDTO(ctx, tag)
}

// DeleteTag 仍有文章引用的标签不允许删除
func (s *TagServiceImpl) DeleteTag(ctx context.Context, caller policy.Caller, id string) error {
	if err := policy.Decide(caller, policy.ActionTagDelete, policy.Target{}); err != nil {
		return err
	}

	oid, err := parseObjectID(id)
	if err != nil {
		return ErrTagNotFound
	}
	tag, err := s.tagRepo.GetByID(ctx, oid)
	if err != nil {
		return err
	}
	if tag == nil {
		return ErrTagNotFound
	}

	count, err := s.postRepo.CountByTag(ctx, oid)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrTagInUse
	}
	return s.tagRepo.Delete(ctx, oid)
}

func (s *TagServiceImpl) toTagDTO(ctx context.Context, tag *model.Tag) (*dto.TagDTO, error) {
	count, err := s.postRepo.CountByTag(ctx, tag.ID)
	if err != nil {
		return nil, err
	}
	return &dto.TagDTO{
		ID:        tag.ID.Hex(),
		Name:      tag.Name,
		Slug:      tag.Slug,
		Color:     tag.Color,
		IsActive:  tag.IsActive,
		PostCount: count,
		CreatedAt: tag.CreatedAt,
		UpdatedAt: tag.UpdatedAt,
	}, nil
}
