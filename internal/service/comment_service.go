package service

import (
	"Quill/internal/api/dto"
	"Quill/internal/model"
	"Quill/internal/pkg/policy"
	"Quill/internal/repository"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CommentService interface {
	CreateComment(ctx context.Context, caller policy.Caller, postID string, createDTO *dto.CommentCreateDTO) (*dto.CommentDTO, error)
	GetComment(ctx context.Context, caller policy.Caller, id string) (*dto.CommentDTO, error)
	ListByPost(ctx context.Context, caller policy.Caller, postID string, query *dto.PageQuery) ([]*dto.CommentDTO, int64, error)
	ListComments(ctx context.Context, caller policy.Caller, query *dto.CommentListQuery) ([]*dto.CommentDTO, int64, error)
	UpdateComment(ctx context.Context, caller policy.Caller, id string, updateDTO *dto.CommentUpdateDTO) (*dto.CommentDTO, error)
	DeleteComment(ctx context.Context, caller policy.Caller, id string) error
	ModerateComment(ctx context.Context, caller policy.Caller, id string, moderateDTO *dto.CommentModerateDTO) (*dto.CommentDTO, error)
	ToggleLike(ctx context.Context, caller policy.Caller, id string) (*dto.LikeResultDTO, error)
}

type CommentServiceImpl struct {
	commentRepo repository.CommentRepo
	postRepo    repository.PostRepo
}

func NewCommentService(commentRepo repository.CommentRepo, postRepo repository.PostRepo) CommentService {
	return &CommentServiceImpl{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// CreateComment 评论默认直接可见（approved），管理侧事后审核。
// 父评论必须存在、属于同一篇文章且未被删除/驳回。
func (s *CommentServiceImpl) CreateComment(ctx context.Context, caller policy.Caller, postID string, createDTO *dto.CommentCreateDTO) (*dto.CommentDTO, error) {
	if !caller.Authenticated() {
		return nil, policy.ErrUnauthenticated
	}

	postOID, err := parseObjectID(postID)
	if err != nil {
		return nil, ErrPostNotFound
	}
	post, err := s.postRepo.GetByID(ctx, postOID)
	if err != nil {
		return nil, err
	}
	if post == nil || !visibleTo(post, caller) {
		return nil, ErrPostNotFound
	}

	var parentID *primitive.ObjectID
	if createDTO.Parent != nil && *createDTO.Parent != "" {
		parentOID, err := parseObjectID(*createDTO.Parent)
		if err != nil {
			return nil, ErrParentCommentInvalid
		}
		parent, err := s.commentRepo.GetByID(ctx, parentOID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.PostID != postOID || !parent.IsActive || parent.Status == model.CommentStatusRejected {
			return nil, ErrParentCommentInvalid
		}
		parentID = &parentOID
	}

	now := time.Now()
	comment := &model.Comment{
		Content:    createDTO.Content,
		AuthorID:   caller.UserID,
		PostID:     postOID,
		ParentID:   parentID,
		Status:     model.CommentStatusApproved,
		Likers:     []uint64{},
		LikesCount: 0,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return toCommentDTO(comment, caller), nil
}

// commentVisibleTo 未过审/已驳回的评论只对作者与 editor/admin 可见
func commentVisibleTo(comment *model.Comment, caller policy.Caller) bool {
	if comment.Status == model.CommentStatusApproved && comment.IsActive {
		return true
	}
	if policy.Decide(caller, policy.ActionCommentListAll, policy.Target{}) == nil {
		return true
	}
	return caller.UserID != 0 && comment.AuthorID == caller.UserID
}

func (s *CommentServiceImpl) getVisibleComment(ctx context.Context, caller policy.Caller, id string) (*model.Comment, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, ErrCommentNotFound
	}
	comment, err := s.commentRepo.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if comment == nil || !commentVisibleTo(comment, caller) {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}

func (s *CommentServiceImpl) GetComment(ctx context.Context, caller policy.Caller, id string) (*dto.CommentDTO, error) {
	comment, err := s.getVisibleComment(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return toCommentDTO(comment, caller), nil
}

// ListByPost 一级评论分页，回复按 parent_id 一次取回后挂载
func (s *CommentServiceImpl) ListByPost(ctx context.Context, caller policy.Caller, postID string, query *dto.PageQuery) ([]*dto.CommentDTO, int64, error) {
	query.Normalize()

	postOID, err := parseObjectID(postID)
	if err != nil {
		return nil, 0, ErrPostNotFound
	}
	post, err := s.postRepo.GetByID(ctx, postOID)
	if err != nil {
		return nil, 0, err
	}
	if post == nil || !visibleTo(post, caller) {
		return nil, 0, ErrPostNotFound
	}

	publicOnly := policy.Decide(caller, policy.ActionCommentListAll, policy.Target{}) != nil

	filter := repository.CommentFilter{
		PostID:       &postOID,
		PublicOnly:   publicOnly,
		TopLevelOnly: true,
	}
	comments, total, err := s.commentRepo.List(ctx, filter, query.Page, query.Limit)
	if err != nil {
		return nil, 0, err
	}

	parentIDs := make([]primitive.ObjectID, 0, len(comments))
	for _, comment := range comments {
		parentIDs = append(parentIDs, comment.ID)
	}
	replies, err := s.commentRepo.Replies(ctx, parentIDs, publicOnly)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*dto.CommentDTO, 0, len(comments))
	for _, comment := range comments {
		commentDTO := toCommentDTO(comment, caller)
		for _, reply := range replies[comment.ID] {
			commentDTO.Replies = append(commentDTO.Replies, toCommentDTO(reply, caller))
		}
		result = append(result, commentDTO)
	}
	return result, total, nil
}

// ListComments 审核队列，editor/admin 按状态过滤全量评论
func (s *CommentServiceImpl) ListComments(ctx context.Context, caller policy.Caller, query *dto.CommentListQuery) ([]*dto.CommentDTO, int64, error) {
	if err := policy.Decide(caller, policy.ActionCommentListAll, policy.Target{}); err != nil {
		return nil, 0, err
	}
	query.Normalize()

	filter := repository.CommentFilter{Status: query.Status}
	if query.Post != "" {
		postOID, err := parseObjectID(query.Post)
		if err != nil {
			return nil, 0, ErrPostNotFound
		}
		filter.PostID = &postOID
	}

	comments, total, err := s.commentRepo.List(ctx, filter, query.Page, query.Limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*dto.CommentDTO, 0, len(comments))
	for _, comment := range comments {
		result = append(result, toCommentDTO(comment, caller))
	}
	return result, total, nil
}

// UpdateComment 只允许作者本人编辑，编辑后打上 edited 标记
func (s *CommentServiceImpl) UpdateComment(ctx context.Context, caller policy.Caller, id string, updateDTO *dto.CommentUpdateDTO) (*dto.CommentDTO, error) {
	comment, err := s.getVisibleComment(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Decide(caller, policy.ActionCommentUpdate, policy.Target{OwnerID: comment.AuthorID}); err != nil {
		return nil, err
	}

	now := time.Now()
	comment.Content = updateDTO.Content
	comment.Edited = true
	comment.EditedAt = &now
	comment.UpdatedAt = now

	set := bson.M{
		"content":    comment.Content,
		"edited":     true,
		"edited_at":  now,
		"updated_at": now,
	}
	if err := s.commentRepo.Update(ctx, comment.ID, set); err != nil {
		return nil, err
	}
	return toCommentDTO(comment, caller), nil
}

// DeleteComment 只允许作者本人删除，连同全部后代回复一起移除
func (s *CommentServiceImpl) DeleteComment(ctx context.Context, caller policy.Caller, id string) error {
	comment, err := s.getVisibleComment(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := policy.Decide(caller, policy.ActionCommentDelete, policy.Target{OwnerID: comment.AuthorID}); err != nil {
		return err
	}

	_, err = s.commentRepo.DeleteCascade(ctx, comment.ID)
	return err
}

// ModerateComment 审核只接受 approved / rejected，目标状态先校验后落库
func (s *CommentServiceImpl) ModerateComment(ctx context.Context, caller policy.Caller, id string, moderateDTO *dto.CommentModerateDTO) (*dto.CommentDTO, error) {
	if err := policy.Decide(caller, policy.ActionCommentModerate, policy.Target{}); err != nil {
		return nil, err
	}
	if !model.ValidModerationStatus(moderateDTO.Status) {
		return nil, ErrModerationStatusInvalid
	}

	comment, err := s.getVisibleComment(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	comment.Status = moderateDTO.Status
	comment.UpdatedAt = now

	set := bson.M{"status": comment.Status, "updated_at": now}
	if err := s.commentRepo.Update(ctx, comment.ID, set); err != nil {
		return nil, err
	}
	return toCommentDTO(comment, caller), nil
}

func (s *CommentServiceImpl) ToggleLike(ctx context.Context, caller policy.Caller, id string) (*dto.LikeResultDTO, error) {
	if !caller.Authenticated() {
		return nil, policy.ErrUnauthenticated
	}
	if _, err := s.getVisibleComment(ctx, caller, id); err != nil {
		return nil, err
	}

	oid, _ := parseObjectID(id)
	comment, err := s.commentRepo.ToggleLike(ctx, oid, caller.UserID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	return &dto.LikeResultDTO{
		Liked: comment.LikedBy(caller.UserID),
		Likes: comment.LikesCount,
	}, nil
}

func toCommentDTO(comment *model.Comment, caller policy.Caller) *dto.CommentDTO {
	commentDTO := &dto.CommentDTO{
		ID:         comment.ID.Hex(),
		Content:    comment.Content,
		AuthorID:   comment.AuthorID,
		PostID:     comment.PostID.Hex(),
		Status:     comment.Status,
		LikesCount: comment.LikesCount,
		Liked:      caller.UserID != 0 && comment.LikedBy(caller.UserID),
		Edited:     comment.Edited,
		EditedAt:   comment.EditedAt,
		CreatedAt:  comment.CreatedAt,
	}
	if comment.ParentID != nil {
		commentDTO.ParentID = comment.ParentID.Hex()
	}
	return commentDTO
}
