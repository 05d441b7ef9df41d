package dto

// RegisterDTO 注册请求
type RegisterDTO struct {
	Name     string `json:"name" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// LoginDTO 登录请求
type LoginDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenDTO 登录/注册成功响应
type TokenDTO struct {
	Token string   `json:"token"`
	User  *UserDTO `json:"user"`
}
