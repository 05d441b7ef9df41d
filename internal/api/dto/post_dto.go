package dto

import "time"

// PostCreateDTO 创建文章请求
type PostCreateDTO struct {
	Title    string   `json:"title" binding:"required,min=3,max=200"`
	Content  string   `json:"content" binding:"required,min=10"`
	Category string   `json:"category" binding:"required"`
	Tags     []string `json:"tags" binding:"omitempty,max=10"`
	Status   string   `json:"status" binding:"omitempty,oneof=draft published archived"`
}

// PostUpdateDTO 更新文章请求，零值字段不更新
type PostUpdateDTO struct {
	Title    *string   `json:"title" binding:"omitempty,min=3,max=200"`
	Content  *string   `json:"content" binding:"omitempty,min=10"`
	Category *string   `json:"category"`
	Tags     *[]string `json:"tags" binding:"omitempty,max=10"`
	Status   *string   `json:"status" binding:"omitempty,oneof=draft published archived"`
	IsActive *bool     `json:"is_active"`
}

// PostListQuery 文章列表过滤与排序
type PostListQuery struct {
	PageQuery
	Status   string `form:"status" binding:"omitempty,oneof=draft published archived"`
	IsActive *bool  `form:"active"`
	Category string `form:"category"`
	Tag      string `form:"tag"`
	Author   uint64 `form:"author"`
	Search   string `form:"search" binding:"omitempty,max=200"`
	Sort     string `form:"sort" binding:"omitempty,oneof=newest oldest popular liked title"`
}

// PostDTO 文章详情响应
type PostDTO struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content"`
	AuthorID    uint64     `json:"author_id"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Views       int64      `json:"views"`
	LikesCount  int        `json:"likes_count"`
	Liked       bool       `json:"liked"`
	ReadTime    int        `json:"read_time"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// PostListItemDTO 列表项响应，不携带正文
type PostListItemDTO struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	AuthorID    uint64     `json:"author_id"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Views       int64      `json:"views"`
	LikesCount  int        `json:"likes_count"`
	ReadTime    int        `json:"read_time"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
}

// LikeResultDTO 点赞切换结果
type LikeResultDTO struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}
