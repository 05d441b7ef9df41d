package dto

import "time"

// UserDTO 用户响应，永不携带密码
type UserDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserCreateDTO 管理员创建用户
type UserCreateDTO struct {
	Name     string `json:"name" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Role     string `json:"role" binding:"omitempty,oneof=user editor admin"`
}

// UserUpdateDTO 管理员更新用户，零值字段不更新
type UserUpdateDTO struct {
	Name     *string `json:"name" binding:"omitempty,min=2,max=50"`
	Email    *string `json:"email" binding:"omitempty,email,max=100"`
	Password *string `json:"password" binding:"omitempty,min=6,max=72"`
	Role     *string `json:"role" binding:"omitempty,oneof=user editor admin"`
	IsActive *bool   `json:"is_active"`
}

// UserListQuery 用户列表过滤
type UserListQuery struct {
	PageQuery
	Role     string `form:"role" binding:"omitempty,oneof=user editor admin"`
	IsActive *bool  `form:"active"`
	Search   string `form:"search" binding:"omitempty,max=100"`
}
