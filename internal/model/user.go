package model

import (
	"time"
)

const (
	RoleUser   = "user"
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

type User struct {
	ID        uint64 `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(50);not null"`
	Email     string `gorm:"type:varchar(100);uniqueIndex:idx_email;not null"`
	Password  string `gorm:"type:varchar(255);not null" json:"-"`
	Role      string `gorm:"type:varchar(20);not null;default:user;index:idx_role"`
	IsActive  bool   `gorm:"type:tinyint(1);not null;default:1"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}

// ValidRole 角色枚举校验
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleEditor || role == RoleAdmin
}
