package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CommentStatusPending  = "pending"
	CommentStatusApproved = "approved"
	CommentStatusRejected = "rejected"
)

// Comment 评论文档。父子关系只保存 parent_id，回复列表读取时按 parent_id 查询得出
type Comment struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Content    string              `bson:"content" json:"content"`
	AuthorID   uint64              `bson:"author_id" json:"author_id"`
	PostID     primitive.ObjectID  `bson:"post_id" json:"post_id"`
	ParentID   *primitive.ObjectID `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	Status     string              `bson:"status" json:"status"`
	Likers     []uint64            `bson:"likers" json:"-"`
	LikesCount int                 `bson:"likes_count" json:"likes_count"`
	Edited     bool                `bson:"edited" json:"edited"`
	EditedAt   *time.Time          `bson:"edited_at,omitempty" json:"edited_at,omitempty"`
	IsActive   bool                `bson:"is_active" json:"is_active"`
	CreatedAt  time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time           `bson:"updated_at" json:"updated_at"`
}

// ValidModerationStatus 审核目标状态只允许 approved / rejected
func ValidModerationStatus(status string) bool {
	return status == CommentStatusApproved || status == CommentStatusRejected
}

// LikedBy 判断用户是否已点赞
func (c *Comment) LikedBy(userID uint64) bool {
	for _, id := range c.Likers {
		if id == userID {
			return true
		}
	}
	return false
}
