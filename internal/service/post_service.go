package service

import (
	"Quill/internal/api/dto"
	"Quill/internal/model"
	"Quill/internal/pkg/policy"
	"Quill/internal/pkg/util"
	"Quill/internal/repository"
	"context"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type PostService interface {
	CreatePost(ctx context.Context, caller policy.Caller, createDTO *dto.PostCreateDTO) (*dto.PostDTO, error)
	GetPost(ctx context.Context, caller policy.Caller, id string) (*dto.PostDTO, error)
	GetPostList(ctx context.Context, caller policy.Caller, query *dto.PostListQuery) ([]*dto.PostListItemDTO, int64, error)
	UpdatePost(ctx context.Context, caller policy.Caller, id string, updateDTO *dto.PostUpdateDTO) (*dto.PostDTO, error)
	DeletePost(ctx context.Context, caller policy.Caller, id string) error
	ToggleLike(ctx context.Context, caller policy.Caller, id string) (*dto.LikeResultDTO, error)
	GetRelatedPosts(ctx context.Context, caller policy.Caller, id string) ([]*dto.PostListItemDTO, error)
}

type PostServiceImpl struct {
	postRepo     repository.PostRepo
	commentRepo  repository.CommentRepo
	categoryRepo repository.CategoryRepo
	tagRepo      repository.TagRepo
}

func NewPostService(
	postRepo repository.PostRepo,
	commentRepo repository.CommentRepo,
	categoryRepo repository.CategoryRepo,
	tagRepo repository.TagRepo,
) PostService {
	return &PostServiceImpl{
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
	}
}

// parseObjectID 路径/请求中的十六进制 ID 解析
func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrParamInvalid
	}
	return oid, nil
}

// resolveCategory 分类必须存在且未停用
func (s *PostServiceImpl) resolveCategory(ctx context.Context, id string) (*model.Category, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, ErrCategoryInvalid
	}
	category, err := s.categoryRepo.GetActiveByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryInvalid
	}
	return category, nil
}

// resolveTags 每个标签都必须存在且未停用，保序去重
func (s *PostServiceImpl) resolveTags(ctx context.Context, ids []string) ([]primitive.ObjectID, error) {
	if len(ids) == 0 {
		return []primitive.ObjectID{}, nil
	}

	seen := make(map[primitive.ObjectID]bool, len(ids))
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := parseObjectID(id)
		if err != nil {
			return nil, ErrTagInvalid
		}
		if seen[oid] {
			continue
		}
		seen[oid] = true
		oids = append(oids, oid)
	}

	tags, err := s.tagRepo.GetActiveByIDs(ctx, oids)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(oids) {
		return nil, ErrTagInvalid
	}
	return oids, nil
}

func (s *PostServiceImpl) CreatePost(ctx context.Context, caller policy.Caller, createDTO *dto.PostCreateDTO) (*dto.PostDTO, error) {
	if err := policy.Decide(caller, policy.ActionPostCreate, policy.Target{}); err != nil {
		return nil, err
	}

	if _, err := s.resolveCategory(ctx, createDTO.Category); err != nil {
		return nil, err
	}
	categoryID, _ := parseObjectID(createDTO.Category)
	tagIDs, err := s.resolveTags(ctx, createDTO.Tags)
	if err != nil {
		return nil, err
	}

	status := createDTO.Status
	if status == "" {
		status = model.PostStatusDraft
	}

	now := time.Now()
	post := &model.Post{
		Title:      createDTO.Title,
		Slug:       util.PostSlug(createDTO.Title, now),
		Content:    createDTO.Content,
		AuthorID:   caller.UserID,
		CategoryID: categoryID,
		TagIDs:     tagIDs,
		Status:     status,
		Views:      0,
		Likers:     []uint64{},
		LikesCount: 0,
		ReadTime:   util.ReadTime(createDTO.Content),
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if status == model.PostStatusPublished {
		post.PublishedAt = &now
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrSlugExist
		}
		return nil, err
	}
	return s.toPostDTO(ctx, post, caller)
}

// visibleTo 草稿与归档只对 editor/admin 或作者本人可见
func visibleTo(post *model.Post, caller policy.Caller) bool {
	if post.Status == model.PostStatusPublished && post.IsActive {
		return true
	}
	if policy.CanSeeUnpublished(caller) {
		return true
	}
	return caller.UserID != 0 && post.AuthorID == caller.UserID
}

func (s *PostServiceImpl) getVisiblePost(ctx context.Context, caller policy.Caller, id string) (*model.Post, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, ErrPostNotFound
	}
	post, err := s.postRepo.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if post == nil || !visibleTo(post, caller) {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *PostServiceImpl) GetPost(ctx context.Context, caller policy.Caller, id string) (*dto.PostDTO, error) {
	post, err := s.getVisiblePost(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	// 已发布文章的详情读取计入浏览量；editor/admin 的审阅流量不计入。计数失败不影响读取
	if post.Status == model.PostStatusPublished && post.IsActive && !policy.CanSeeUnpublished(caller) {
		if err := s.postRepo.IncViews(ctx, post.ID); err != nil {
			log.WarnContext(ctx, "inc post views failed", "post_id", post.ID.Hex(), "err", err)
		} else {
			post.Views++
		}
	}
	return s.toPostDTO(ctx, post, caller)
}

func (s *PostServiceImpl) GetPostList(ctx context.Context, caller policy.Caller, query *dto.PostListQuery) ([]*dto.PostListItemDTO, int64, error) {
	query.Normalize()

	filter := repository.PostFilter{
		AuthorID: query.Author,
		Search:   query.Search,
	}
	if query.Category != "" {
		oid, err := parseObjectID(query.Category)
		if err != nil {
			return nil, 0, ErrCategoryInvalid
		}
		filter.CategoryID = &oid
	}
	if query.Tag != "" {
		oid, err := parseObjectID(query.Tag)
		if err != nil {
			return nil, 0, ErrTagInvalid
		}
		filter.TagID = &oid
	}

	// 普通访问只见已发布且未下线；editor/admin 可按状态过滤
	if policy.CanSeeUnpublished(caller) {
		filter.Status = query.Status
		filter.IsActive = query.IsActive
	} else {
		active := true
		filter.Status = model.PostStatusPublished
		filter.IsActive = &active
	}

	posts, total, err := s.postRepo.List(ctx, filter, query.Sort, query.Page, query.Limit)
	if err != nil {
		return nil, 0, err
	}

	items, err := s.toPostListItems(ctx, posts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *PostServiceImpl) UpdatePost(ctx context.Context, caller policy.Caller, id string, updateDTO *dto.PostUpdateDTO) (*dto.PostDTO, error) {
	post, err := s.getVisiblePost(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Decide(caller, policy.ActionPostUpdate, policy.Target{OwnerID: post.AuthorID}); err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now()}

	if updateDTO.Title != nil {
		post.Title = *updateDTO.Title
		set["title"] = post.Title
		// slug 随标题重建，后缀沿用创建时间，保持稳定
		post.Slug = util.PostSlug(post.Title, post.CreatedAt)
		set["slug"] = post.Slug
	}
	if updateDTO.Content != nil {
		post.Content = *updateDTO.Content
		set["content"] = post.Content
		post.ReadTime = util.ReadTime(post.Content)
		set["read_time"] = post.ReadTime
	}
	if updateDTO.Category != nil {
		if _, err := s.resolveCategory(ctx, *updateDTO.Category); err != nil {
			return nil, err
		}
		oid, _ := parseObjectID(*updateDTO.Category)
		post.CategoryID = oid
		set["category_id"] = oid
	}
	if updateDTO.Tags != nil {
		tagIDs, err := s.resolveTags(ctx, *updateDTO.Tags)
		if err != nil {
			return nil, err
		}
		post.TagIDs = tagIDs
		set["tag_ids"] = tagIDs
	}
	if updateDTO.Status != nil {
		post.Status = *updateDTO.Status
		set["status"] = post.Status
		// 首次发布时间只记录一次，再次发布不覆盖
		if post.Status == model.PostStatusPublished && post.PublishedAt == nil {
			now := time.Now()
			post.PublishedAt = &now
			set["published_at"] = now
		}
	}
	if updateDTO.IsActive != nil {
		post.IsActive = *updateDTO.IsActive
		set["is_active"] = post.IsActive
	}

	if err := s.postRepo.Update(ctx, post.ID, set); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrSlugExist
		}
		return nil, err
	}
	return s.toPostDTO(ctx, post, caller)
}

// DeletePost 删除文章并级联清理其全部评论
func (s *PostServiceImpl) DeletePost(ctx context.Context, caller policy.Caller, id string) error {
	post, err := s.getVisiblePost(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := policy.Decide(caller, policy.ActionPostDelete, policy.Target{OwnerID: post.AuthorID}); err != nil {
		return err
	}

	if err := s.postRepo.Delete(ctx, post.ID); err != nil {
		return err
	}
	if err := s.commentRepo.DeleteByPost(ctx, post.ID); err != nil {
		log.ErrorContext(ctx, "cascade delete comments failed", "post_id", post.ID.Hex(), "err", err)
		return err
	}
	return nil
}

func (s *PostServiceImpl) ToggleLike(ctx context.Context, caller policy.Caller, id string) (*dto.LikeResultDTO, error) {
	if !caller.Authenticated() {
		return nil, policy.ErrUnauthenticated
	}
	if _, err := s.getVisiblePost(ctx, caller, id); err != nil {
		return nil, err
	}

	oid, _ := parseObjectID(id)
	post, err := s.postRepo.ToggleLike(ctx, oid, caller.UserID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return &dto.LikeResultDTO{
		Liked: post.LikedBy(caller.UserID),
		Likes: post.LikesCount,
	}, nil
}

func (s *PostServiceImpl) GetRelatedPosts(ctx context.Context, caller policy.Caller, id string) ([]*dto.PostListItemDTO, error) {
	post, err := s.getVisiblePost(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.Related(ctx, post, 5)
	if err != nil {
		return nil, err
	}
	return s.toPostListItems(ctx, posts)
}

// namesFor 批量取回分类名与标签名，避免逐篇查询
func (s *PostServiceImpl) namesFor(ctx context.Context, posts []*model.Post) (map[primitive.ObjectID]string, map[primitive.ObjectID]string, error) {
	categorySet := make(map[primitive.ObjectID]bool)
	tagSet := make(map[primitive.ObjectID]bool)
	for _, post := range posts {
		categorySet[post.CategoryID] = true
		for _, tagID := range post.TagIDs {
			tagSet[tagID] = true
		}
	}

	categoryIDs := make([]primitive.ObjectID, 0, len(categorySet))
	for id := range categorySet {
		categoryIDs = append(categoryIDs, id)
	}
	tagIDs := make([]primitive.ObjectID, 0, len(tagSet))
	for id := range tagSet {
		tagIDs = append(tagIDs, id)
	}

	categories, err := s.categoryRepo.GetByIDs(ctx, categoryIDs)
	if err != nil {
		return nil, nil, err
	}
	tags, err := s.tagRepo.GetByIDs(ctx, tagIDs)
	if err != nil {
		return nil, nil, err
	}

	categoryNames := make(map[primitive.ObjectID]string, len(categories))
	for _, category := range categories {
		categoryNames[category.ID] = category.Name
	}
	tagNames := make(map[primitive.ObjectID]string, len(tags))
	for _, tag := range tags {
		tagNames[tag.ID] = tag.Name
	}
	return categoryNames, tagNames, nil
}

func (s *PostServiceImpl) toPostDTO(ctx context.Context, post *model.Post, caller policy.Caller) (*dto.PostDTO, error) {
	categoryNames, tagNames, err := s.namesFor(ctx, []*model.Post{post})
	if err != nil {
		return nil, err
	}

	tags := make([]string, 0, len(post.TagIDs))
	for _, tagID := range post.TagIDs {
		tags = append(tags, tagNames[tagID])
	}

	return &dto.PostDTO{
		ID:          post.ID.Hex(),
		Title:       post.Title,
		Slug:        post.Slug,
		Content:     post.Content,
		AuthorID:    post.AuthorID,
		Category:    categoryNames[post.CategoryID],
		Tags:        tags,
		Status:      post.Status,
		PublishedAt: post.PublishedAt,
		Views:       post.Views,
		LikesCount:  post.LikesCount,
		Liked:       caller.UserID != 0 && post.LikedBy(caller.UserID),
		ReadTime:    post.ReadTime,
		IsActive:    post.IsActive,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}, nil
}

func (s *PostServiceImpl) toPostListItems(ctx context.Context, posts []*model.Post) ([]*dto.PostListItemDTO, error) {
	categoryNames, tagNames, err := s.namesFor(ctx, posts)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PostListItemDTO, 0, len(posts))
	for _, post := range posts {
		tags := make([]string, 0, len(post.TagIDs))
		for _, tagID := range post.TagIDs {
			tags = append(tags, tagNames[tagID])
		}
		items = append(items, &dto.PostListItemDTO{
			ID:          post.ID.Hex(),
			Title:       post.Title,
			Slug:        post.Slug,
			AuthorID:    post.AuthorID,
			Category:    categoryNames[post.CategoryID],
			Tags:        tags,
			Status:      post.Status,
			PublishedAt: post.PublishedAt,
			Views:       post.Views,
			LikesCount:  post.LikesCount,
			ReadTime:    post.ReadTime,
			IsActive:    post.IsActive,
			CreatedAt:   post.CreatedAt,
		})
	}
	return items, nil
}
