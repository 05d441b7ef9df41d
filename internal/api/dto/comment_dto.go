package dto

import "time"

// CommentCreateDTO 发表评论请求
type CommentCreateDTO struct {
	Content string  `json:"content" binding:"required,min=1,max=1000"`
	Parent  *string `json:"parent"`
}

// CommentUpdateDTO 编辑评论请求
type CommentUpdateDTO struct {
	Content string `json:"content" binding:"required,min=1,max=1000"`
}

// CommentModerateDTO 审核评论请求，目标状态只接受 approved / rejected
type CommentModerateDTO struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

// CommentListQuery 评论列表过滤
type CommentListQuery struct {
	PageQuery
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	Post   string `form:"post"`
}

// CommentDTO 评论响应，Replies 为读取时派生的下级回复
type CommentDTO struct {
	ID         string        `json:"id"`
	Content    string        `json:"content"`
	AuthorID   uint64        `json:"author_id"`
	PostID     string        `json:"post_id"`
	ParentID   string        `json:"parent_id,omitempty"`
	Status     string        `json:"status"`
	LikesCount int           `json:"likes_count"`
	Liked      bool          `json:"liked"`
	Edited     bool          `json:"edited"`
	EditedAt   *time.Time    `json:"edited_at,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	Replies    []*CommentDTO `json:"replies,omitempty"`
}
