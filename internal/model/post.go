package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
)

// Post 文章文档
type Post struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Slug        string               `bson:"slug" json:"slug"`
	Content     string               `bson:"content" json:"content"`
	AuthorID    uint64               `bson:"author_id" json:"author_id"`
	CategoryID  primitive.ObjectID   `bson:"category_id" json:"category_id"`
	TagIDs      []primitive.ObjectID `bson:"tag_ids" json:"tag_ids"`
	Status      string               `bson:"status" json:"status"`
	PublishedAt *time.Time           `bson:"published_at,omitempty" json:"published_at,omitempty"`
	Views       int64                `bson:"views" json:"views"`
	Likers      []uint64             `bson:"likers" json:"-"`
	LikesCount  int                  `bson:"likes_count" json:"likes_count"`
	ReadTime    int                  `bson:"read_time" json:"read_time"` // 预计阅读分钟数
	IsActive    bool                 `bson:"is_active" json:"is_active"`
	CreatedAt   time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at" json:"updated_at"`
}

// ValidPostStatus 文章状态枚举校验
func ValidPostStatus(status string) bool {
	return status == PostStatusDraft || status == PostStatusPublished || status == PostStatusArchived
}

// LikedBy 判断用户是否已点赞
func (p *Post) LikedBy(userID uint64) bool {
	for _, id := range p.Likers {
		if id == userID {
			return true
		}
	}
	return false
}
