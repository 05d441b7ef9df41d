package dto

import "time"

// TagBaseDTO 创建/更新标签请求
type TagBaseDTO struct {
	Name     string `json:"name" binding:"required,min=1,max=50"`
	Color    string `json:"color" binding:"omitempty,hexcolor"`
	IsActive *bool  `json:"is_active"`
}

// TagDTO 标签响应
type TagDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Color     string    `json:"color"`
	IsActive  bool      `json:"is_active"`
	PostCount int64     `json:"post_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
