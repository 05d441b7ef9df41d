package dto

import "time"

// CategoryBaseDTO 创建/更新分类请求
type CategoryBaseDTO struct {
	Name     string `json:"name" binding:"required,min=2,max=50"`
	Color    string `json:"color" binding:"omitempty,hexcolor"`
	IsActive *bool  `json:"is_active"`
}

// CategoryDTO 分类响应
type CategoryDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Color     string    `json:"color"`
	IsActive  bool      `json:"is_active"`
	PostCount int64     `json:"post_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NamedListQuery 分类/标签列表过滤，search 为名称子串（不区分大小写）
type NamedListQuery struct {
	PageQuery
	Search   string `form:"search" binding:"omitempty,max=50"`
	IsActive *bool  `form:"active"`
}
